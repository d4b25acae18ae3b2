// Package waitapi provides an HTTP client for the remote wait-time service.
//
// # Overview
//
// The service exposes a single endpoint. A POST with a JSON body
// {"option_id": n} publishes a new selection; a GET with ?action=current
// returns {"current_option_id": n}. Every request carries the static
// X-API-Key header.
//
//	client, err := waitapi.NewClient("https://example.com/watch-api.php", key)
//	if err != nil {
//		return err
//	}
//	if err := client.PushSelection(ctx, 2); err != nil {
//		log.Printf("push failed: %v", err)
//	}
//	current, err := client.FetchCurrent(ctx)
//
// # Error Handling
//
// Errors are typed so callers can pick a message:
//
//   - *TransportError: the request never produced a response
//   - *StatusError: any status other than 200
//   - ErrMalformedResponse: a read body without an integer current_option_id
//   - ErrInvalidEndpoint: the client has no usable endpoint; no I/O happens
//
// # Security
//
// The API key is a shared secret sent on every request. It is loaded from
// configuration or the environment and never compiled in; anyone holding a
// copy of the config can publish wait times.
//
// # Design Rationale
//
// No retries and no caching: the sync engine owns the refresh cadence and
// the operator retries pushes by hand.
package waitapi
