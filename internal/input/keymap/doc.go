// Package keymap translates raw key presses into normalized input events.
//
// Two binding tables exist: one for navigation-style modes, where bound
// letters become actions, and one for text-entry modes (EDIT, COMMAND),
// where only special keys are bound and every printable rune is a literal
// character. User configuration may override either table.
package keymap
