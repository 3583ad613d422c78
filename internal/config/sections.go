package config

// CanvasConfig holds movement and canvas display settings.
type CanvasConfig struct {
	// MoveStep is the number of cells a normal move covers.
	MoveStep int `toml:"move_step"`

	// FastStep is the number of cells a fast (shifted) move covers.
	FastStep int `toml:"fast_step"`

	// Advance is the cursor direction after typing: "right" or "down".
	Advance string `toml:"advance"`

	// Grid is the spacing of background grid dots. Zero hides them.
	Grid int `toml:"grid"`
}

// TerminalConfig holds settings for shell zones.
type TerminalConfig struct {
	// Backend selects the terminal emulator: "builtin" or "vt".
	Backend string `toml:"backend"`

	// Scrollback bounds each shell zone's history in lines.
	Scrollback int `toml:"scrollback"`

	// Shell is the default shell. Empty uses $SHELL.
	Shell string `toml:"shell"`
}

// ZonesConfig holds zone defaults.
type ZonesConfig struct {
	CommandTimeout  Duration `toml:"command_timeout"`
	DefaultInterval Duration `toml:"default_interval"`

	// UnfocusKey returns keyboard input from a focused shell zone to the
	// canvas, e.g. "Ctrl+]".
	UnfocusKey string `toml:"unfocus_key"`

	// MaxLines bounds the content kept by fifo and socket zones.
	MaxLines int `toml:"max_lines"`
}

// ControlConfig holds control server settings.
type ControlConfig struct {
	Enabled bool   `toml:"enabled"`
	Addr    string `toml:"addr"`
}

// JoystickConfig holds game controller settings.
type JoystickConfig struct {
	Enabled           bool     `toml:"enabled"`
	Device            string   `toml:"device"`
	ReconnectInterval Duration `toml:"reconnect_interval"`
	MaxReconnects     int      `toml:"max_reconnects"`
	Deadzone          int      `toml:"deadzone"`
}

// LoggingConfig holds log settings.
type LoggingConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `toml:"level"`

	// File receives the log. Empty discards it.
	File string `toml:"file"`
}
