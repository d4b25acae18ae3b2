package waitapi

// SelectRequest is the body of a push.
type SelectRequest struct {
	OptionID int `json:"option_id"`
}

// CurrentResponse is the body returned by the current-selection read.
// OptionID is a pointer so a missing field can be told apart from zero.
type CurrentResponse struct {
	OptionID *int `json:"current_option_id"`
}
