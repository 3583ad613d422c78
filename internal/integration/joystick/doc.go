// Package joystick reads a game controller through the Linux joystick API
// and turns it into movement, pen and exit actions.
//
// A Monitor owns the device on its own goroutine. It polls with a bounded
// wait so Stop is observed promptly, and reopens the device after it is
// unplugged. A Tracker paces those attempts and gives up after a
// configured number of consecutive failures.
package joystick
