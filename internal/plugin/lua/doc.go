// Package lua provides scripting for gridstorm.
//
// Scripts run in a sandboxed gopher-lua state with only the base, table,
// string and math libraries. Functions that load code or touch the file
// system are removed, and print is captured and returned to the caller.
// Every run has a deadline enforced through the state's context.
//
// The global grid module exposes the editor:
//
//	grid.cmd(line)        -> ok, message   run a ':' command
//	grid.set(x, y, s)                      write one cell
//	grid.get(x, y)        -> s             read one cell
//	grid.text(x, y, s)    -> n             write a string
//	grid.cursor()         -> x, y
//	grid.move(x, y)                        move the cursor
//	grid.mode()           -> name
//
// Example:
//
//	for i = 0, 9 do grid.set(i, 0, "=") end
//	grid.cmd("zone create box 0 2 10 3")
package lua
