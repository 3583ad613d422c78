// Package config loads gridstorm's settings.
//
// Settings come from three layers, each overriding the one before:
//
//  1. built-in defaults (Default)
//  2. a TOML file, by default $XDG_CONFIG_HOME/gridstorm/config.toml
//  3. environment variables named GRIDSTORM_<SECTION>_<KEY>
//
// A file looks like this:
//
//	[canvas]
//	move_step = 1
//	fast_step = 8
//	grid = 10
//
//	[terminal]
//	backend = "vt"
//
//	[zones]
//	command_timeout = "5s"
//
//	[keys]
//	"Ctrl+P" = "pan"
//
// Unknown keys are rejected so typos do not go unnoticed. Validate reports
// every invalid setting in one ValidationErrors value.
//
// A Watcher reloads the file when it changes and hands the result to the
// host, which applies it on its own goroutine.
package config
