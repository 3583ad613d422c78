package config

import (
	"bytes"
	"maps"
	"net"
	"slices"
	"time"

	"github.com/charmbracelet/log"
	"github.com/pelletier/go-toml/v2"

	"github.com/dshills/gridstorm/internal/input"
	"github.com/dshills/gridstorm/internal/input/key"
	"github.com/dshills/gridstorm/internal/integration/terminal"
)

// Config is the complete gridstorm configuration.
type Config struct {
	Canvas   CanvasConfig   `toml:"canvas"`
	Terminal TerminalConfig `toml:"terminal"`
	Zones    ZonesConfig    `toml:"zones"`
	Control  ControlConfig  `toml:"control"`
	Joystick JoystickConfig `toml:"joystick"`
	Logging  LoggingConfig  `toml:"logging"`

	// Keys maps key specs such as "Ctrl+P" to action names. Entries
	// override the default bindings.
	Keys map[string]string `toml:"keys"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Canvas: CanvasConfig{
			MoveStep: 1,
			FastStep: 10,
			Advance:  "right",
		},
		Terminal: TerminalConfig{
			Backend:    terminal.BackendBuiltin,
			Scrollback: terminal.DefaultScrollback,
		},
		Zones: ZonesConfig{
			CommandTimeout:  Duration(10 * time.Second),
			DefaultInterval: Duration(2 * time.Second),
			UnfocusKey:      "Ctrl+]",
			MaxLines:        1000,
		},
		Control: ControlConfig{
			Addr: "127.0.0.1:7878",
		},
		Joystick: JoystickConfig{
			Device:            "/dev/input/js0",
			ReconnectInterval: Duration(2 * time.Second),
			MaxReconnects:     10,
			Deadzone:          8000,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		Keys: map[string]string{},
	}
}

// Clone returns a deep copy.
func (c *Config) Clone() *Config {
	out := *c
	out.Keys = maps.Clone(c.Keys)
	if out.Keys == nil {
		out.Keys = map[string]string{}
	}
	return &out
}

// Marshal encodes the configuration as TOML.
func (c *Config) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := toml.NewEncoder(&buf)
	enc.SetIndentTables(true)
	if err := enc.Encode(c); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Advance returns the cursor step after typing a character.
func (c *Config) Advance() (dx, dy int) {
	if c.Canvas.Advance == "down" {
		return 0, 1
	}
	return 1, 0
}

// Validate checks every setting and reports all problems at once.
func (c *Config) Validate() error {
	var errs ValidationErrors
	bad := func(path, msg string, v any) {
		errs = append(errs, &ValidationError{Path: path, Message: msg, Value: v})
	}

	if c.Canvas.MoveStep < 1 {
		bad("canvas.move_step", "must be at least 1", c.Canvas.MoveStep)
	}
	if c.Canvas.FastStep < 1 {
		bad("canvas.fast_step", "must be at least 1", c.Canvas.FastStep)
	}
	if c.Canvas.Advance != "right" && c.Canvas.Advance != "down" {
		bad("canvas.advance", `must be "right" or "down"`, c.Canvas.Advance)
	}
	if c.Canvas.Grid < 0 {
		bad("canvas.grid", "must not be negative", c.Canvas.Grid)
	}

	if c.Terminal.Backend != terminal.BackendBuiltin && c.Terminal.Backend != terminal.BackendVT {
		bad("terminal.backend", `must be "builtin" or "vt"`, c.Terminal.Backend)
	}
	if c.Terminal.Scrollback < 0 {
		bad("terminal.scrollback", "must not be negative", c.Terminal.Scrollback)
	}

	if c.Zones.CommandTimeout <= 0 {
		bad("zones.command_timeout", "must be positive", c.Zones.CommandTimeout)
	}
	if c.Zones.DefaultInterval <= 0 {
		bad("zones.default_interval", "must be positive", c.Zones.DefaultInterval)
	}
	if _, err := key.Parse(c.Zones.UnfocusKey); err != nil {
		bad("zones.unfocus_key", err.Error(), c.Zones.UnfocusKey)
	}
	if c.Zones.MaxLines < 1 {
		bad("zones.max_lines", "must be at least 1", c.Zones.MaxLines)
	}

	if c.Control.Enabled {
		if _, _, err := net.SplitHostPort(c.Control.Addr); err != nil {
			bad("control.addr", err.Error(), c.Control.Addr)
		}
	}

	if c.Joystick.Enabled && c.Joystick.Device == "" {
		bad("joystick.device", "must be set when enabled", c.Joystick.Device)
	}
	if c.Joystick.ReconnectInterval <= 0 {
		bad("joystick.reconnect_interval", "must be positive", c.Joystick.ReconnectInterval)
	}
	if c.Joystick.MaxReconnects < 0 {
		bad("joystick.max_reconnects", "must not be negative", c.Joystick.MaxReconnects)
	}
	if c.Joystick.Deadzone < 0 || c.Joystick.Deadzone > 32767 {
		bad("joystick.deadzone", "must be between 0 and 32767", c.Joystick.Deadzone)
	}

	if _, err := log.ParseLevel(c.Logging.Level); err != nil {
		bad("logging.level", "must be debug, info, warn or error", c.Logging.Level)
	}

	for _, spec := range slices.Sorted(maps.Keys(c.Keys)) {
		action := c.Keys[spec]
		if _, err := key.Parse(spec); err != nil {
			bad("keys."+spec, err.Error(), spec)
			continue
		}
		if _, err := input.ParseAction(action); err != nil {
			bad("keys."+spec, err.Error(), action)
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

// LogLevel returns the parsed log level, defaulting to info.
func (c *Config) LogLevel() log.Level {
	lvl, err := log.ParseLevel(c.Logging.Level)
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}
