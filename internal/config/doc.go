// Package config handles loading and parsing tapedeck configuration files.
//
// # Configuration Discovery
//
// The Load function follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/tapedeck/config.toml (default)
//  3. If the config file doesn't exist, fall back to hardcoded defaults
//  4. If the file exists but fields are missing/empty, use defaults
//
// # Default Values
//
//   - Config file: ~/.config/tapedeck/config.toml
//   - Server URL: http://127.0.0.1:8000
//   - Download directory: ~/Music/tapedeck
//   - Auto-save: disabled
//   - Quality: 192k
//
// # TOML Format
//
// Example config.toml:
//
//	server_url = "http://media-box.local:8000"
//	download_dir = "~/Music/tapedeck"
//	auto_save = true
//	quality = "256k"
//
// All fields are optional. Tilde expansion is performed on download_dir.
//
// # Error Handling
//
// A missing config file is NOT an error; defaults let the client work
// out-of-the-box against a local server. Load does return errors for path
// expansion failures, unreadable files, TOML parse failures, and a quality
// value the server would reject.
//
// The package is read-only and stateless: configuration is loaded once at
// startup and returned as a plain struct.
package config
