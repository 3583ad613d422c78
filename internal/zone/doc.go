// Package zone implements named rectangular regions of the canvas whose
// content can come from a command, a terminal, a FIFO or a socket.
//
// A Manager is the registry of zones keyed case-insensitively by name. It
// knows nothing about processes: a Lifecycle (package live) is told when a
// zone is created and when it is about to be removed, and it is the only
// code that starts or stops background work.
package zone
