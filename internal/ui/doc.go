// Package ui provides the Bubble Tea terminal interface for waitwatch.
//
// The screen is a short list of colored wait-time buttons. The selected
// bucket is drawn black with a check mark; selection keys are disabled while
// a push is in flight and a spinner is shown instead.
//
// # Data Flow
//
// The model subscribes to state.Store. The listener only drops a token into a
// one-slot channel; a tea.Cmd waiting on that channel turns it into a
// storeChangedMsg and the model re-reads Snapshot. Bursts of store events
// therefore cost one redraw.
//
// Selections run engine.SelectOption inside a tea.Cmd so the event loop never
// blocks on the network. Push outcomes arrive through Feedback as a flash of
// the selected row (success) or the terminal bell (failure).
package ui
