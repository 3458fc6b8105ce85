// Package app provides the orchestration layer for postboard.
//
// # Overview
//
// This package wires together configuration, logging, the API client, the
// state store, the board service and the UI. It is the composition root: no
// other package constructs a Store or a Board.
//
// # Components
//
//   - app.go: Run boots the TUI
//   - poller.go: Background notifications poller with failure backoff
//   - serve.go: Serve runs the in-memory mock API over HTTP
//
// # Data Flow
//
//	┌──────────────┐
//	│   Run()      │
//	└──────┬───────┘
//	       ├─────> config.Load()       Read config.toml
//	       ├─────> logging.Setup()     JSON log file
//	       ├─────> api.NewClient()     HTTP client
//	       ├─────> state.NewStore()    Shared snapshot store
//	       ├─────> board.New()         Sync controllers and write operations
//	       ├─────> StartPoller()       Optional notifications polling
//	       └─────> ui.Run()            Start TUI (blocks)
//
// # Polling Behavior
//
// The poller is off unless notifications_poll (or --poll) is positive. Each
// round calls Board.RequestNotificationsSync. Consecutive failures double
// the wait up to 30 seconds; the first success resets it. A superseded
// round counts as neither.
//
// # Error Handling
//
// Fatal errors (returned from Run): stdout not being a terminal, config parse
// failures, an unwritable log file, an invalid api_bind. Everything after
// startup, including every API failure, is recorded in state and shown by
// the UI.
package app
