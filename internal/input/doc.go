// Package input defines the normalized input event that every mode of the
// canvas editor consumes.
//
// Raw key presses (package key) are translated by a keymap (package keymap)
// into an Event carrying either a logical Action, a literal Char, or both
// unset with only the raw key retained. The mode state machine (package
// mode) interprets events; the supporting stores live in the bookmark,
// cmdline and selection subpackages.
package input
