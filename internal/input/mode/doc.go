// Package mode implements the modal input state machine of the canvas
// editor.
//
// A Machine is in exactly one Mode at a time:
//
//   - NAV: move the cursor; single keys enter the other modes
//   - PAN: move cursor and viewport together
//   - EDIT: type characters onto the canvas
//   - COMMAND: edit and submit a ':' command line
//   - MARK_SET / MARK_JUMP: wait for one bookmark key
//   - VISUAL: extend a rectangular selection
//   - DRAW: trace box-drawing lines with a pen
//
// Process consumes one input.Event and returns a Result describing what
// happened. The machine never performs I/O: the canvas, viewport and undo
// ledger are injected, and work it cannot do itself (saving, yanking,
// undo) is returned to the host as a command string. Hosts extend the
// ':' command set with RegisterCommand.
//
// The machine is not safe for concurrent use; it belongs to the single
// input-processing goroutine.
package mode
