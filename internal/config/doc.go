// Package config loads postboard's TOML configuration.
//
// # Configuration Discovery
//
// The Load function follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/postboard/config.toml (default)
//  3. If the config file doesn't exist, fall back to defaults
//  4. If the file exists but fields are missing or empty, use defaults
//
// # Default Values
//
//   - API endpoint: 127.0.0.1:7480
//   - Log file: ~/.local/share/postboard/postboard.log
//   - Log level: info
//   - Notifications poll: disabled
//   - Serve listen address: 127.0.0.1:7480
//
// # TOML Format
//
//	api_bind = "127.0.0.1:7480"
//	log_file = "~/.local/share/postboard/postboard.log"
//	log_level = "debug"
//	notifications_poll = 5   # seconds, 0 disables
//	listen = "127.0.0.1:7480"
//
// All fields are optional. Tilde expansion is performed on log_file.
//
// # Error Handling
//
// Load returns errors for path expansion failures, file read errors other
// than os.ErrNotExist, TOML parse errors and a negative notifications_poll.
// A missing config file is not an error.
package config
