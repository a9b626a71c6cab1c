// Package logging provides logging utilities for skillbadge.
//
// Two kinds of output are kept apart:
//   - Debug logging: structured records via slog, shown with --verbose
//   - User output: short status lines for whoever runs the tool
//
// User output goes to stdout (UserInfo, UserSuccess) and stderr
// (UserWarning, UserError), prefixed with ℹ ✓ ⚠ ✗ respectively.
package logging
