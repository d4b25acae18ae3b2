// Package app provides the orchestration layer for waitwatch.
//
// # Overview
//
// This package wires together configuration, logging, the API client, the
// selection store, the sync engine and the UI. It is the composition root;
// business logic lives in the domain packages.
//
// # Data Flow
//
//	┌──────────────┐
//	│   Run()      │ Initialize everything
//	└──────┬───────┘
//	       │
//	       ├─────> config.Load()         Read config.toml + env
//	       ├─────> logging.Init()        Rotating log file (optional)
//	       ├─────> waitapi.NewClient()   Authenticated HTTP client
//	       ├─────> state.Store{}         Observable selection state
//	       ├─────> engine.New()          Only writer of the store
//	       ├─────> engine.StartPolling() Refresh now, then every 2s
//	       └─────> ui.Run()              Start TUI (blocks)
//
// # Error Handling
//
// Fatal errors (returned from Run):
//   - Configuration file unreadable or invalid
//   - Missing API key or malformed endpoint
//
// Everything after startup is recoverable: push failures are shown to the
// operator, poll failures are logged and retried on the next tick.
//
// # Teardown
//
// When the UI exits the poller is stopped, the engine is closed so late
// responses are dropped, and the log file is flushed.
package app
