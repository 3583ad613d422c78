// Package live runs the background work behind non-static zones.
//
// An Executor is installed as the zone Manager's lifecycle. On Start it
// launches the work for the zone's type:
//
//   - pipe: runs the command once, and again on Refresh
//   - watch: runs the command on an interval; a tick that fires while a run
//     is still in flight is skipped
//   - pty: starts an interactive shell session and attaches it as the
//     zone's content source
//   - fifo: reads lines from a named pipe, creating it when missing
//   - socket: reads lines from connections to a loopback TCP port
//
// Stop cancels the work and waits for its goroutines to exit. A zone whose
// backing resource disappears at runtime is marked inert; fifo and socket
// zones try to reopen at most once per ReconnectInterval.
package live
