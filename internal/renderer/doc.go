// Package renderer paints gridstorm frames onto a backend.
//
// A frame is drawn bottom-up in layers:
//
//	grid dots and the origin marker
//	canvas cells
//	zone borders, labels and content
//	selection highlight
//	status line (or the command line in COMMAND mode)
//
// The bottom screen row is reserved for the status line; the canvas
// viewport covers the rows above it. Renderer holds no editor state; the
// host builds a Frame from its models and calls Draw once per tick.
//
// Usage:
//
//	b, _ := backend.NewTerminal()
//	r := renderer.New(b)
//	r.Draw(&renderer.Frame{...})
package renderer
