// Package progress provides render.Progress reporters for the CLI: a
// bubbletea progress bar for terminals and an slog reporter for logs.
package progress
