// Package file provides file-based implementations of driven port interfaces.
//
// Adapters:
//   - ConfigStore: TOML settings file at ~/.medmart/config.toml, with an
//     fsnotify watch that reloads it while the TUI is running
package file
