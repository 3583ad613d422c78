// Package key models raw keyboard input as delivered by the terminal
// backend, before any mode-specific interpretation.
//
//   - Key: a special key (arrows, function keys, Enter...) or KeyRune
//   - Modifier: Ctrl, Alt, Shift, Meta bit flags
//   - Event: one key press
//
// # Key Specifications
//
// Keymap configuration names keys with strings in two notations:
//
//   - Plain: "a", "H", "Enter", "Ctrl+D", "Shift+Left"
//   - Vim-style: "<C-d>", "<S-Left>", "<CR>", "<Esc>"
package key
