// Package ui provides the postboard terminal user interface.
//
// # Architecture Overview
//
// The UI is a Bubble Tea program. Model holds view state only; all domain
// state lives in the board's state.Store and reaches the model as immutable
// *state.State snapshots, either on a fixed tick or right after an action.
// Remote calls run as tea.Cmds so the event loop never blocks on the network.
//
// # Package Structure
//
//   - ui.go: Model, Update loop, key handling, messages and commands
//   - view.go: Header, post list, detail pane, notifications and help overlay
//   - compose.go: New-post and edit-post form
//   - keys.go: Key bindings, also feeding the bubbles help component
//   - theme.go: Lipgloss themes and pre-built styles
//   - helpers.go: Relative timestamps, reactions and list filtering
//
// # Views
//
//   - Posts: newest first, optionally filtered by author and fuzzy title
//     search, with the selected post shown in a scrollable detail pane
//   - Notifications: newest first with new entries highlighted. Opening the
//     view marks everything read; highlights clear on the next fetch.
//
// # Key Bindings
//
//   - tab: Cycle views; p/n: Posts/Notifications
//   - j/k, g/G: Move selection; ctrl+d/ctrl+u: Scroll the post
//   - r: Refresh the current view
//   - /: Search titles, or author names with a leading @; esc clears
//   - a: Cycle author filter
//   - c: New post (server); C: New post (local only); E: Edit post
//   - 1-5: Add a reaction to the selected post
//   - T: Cycle theme; ?: Help; q or ctrl+c: Quit
//
// Theme and author filter choices are saved to the prefs file.
package ui
