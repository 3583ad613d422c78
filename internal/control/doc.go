// Package control exposes a running editor to scripts over a TCP line
// protocol.
//
// Each request is one line: either plain command text ("goto 10 20") or a
// JSON object ({"cmd": "goto 10 20", "id": 1}). Each request gets exactly
// one JSON response line:
//
//	{"id":1,"ok":true,"message":"","mode":"NAV","cursor":{"x":10,"y":20}}
//
// The server never touches editor state itself. Requests are handed to the
// host loop through Server.Calls and answered with Call.Reply, so commands
// from the network run on the same goroutine as keyboard input.
package control
