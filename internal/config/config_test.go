package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v", err)
	}
}

func TestParse(t *testing.T) {
	data := `
[canvas]
move_step = 2
advance = "down"
grid = 10

[terminal]
backend = "vt"

[zones]
command_timeout = "1m30s"

[keys]
"Ctrl+P" = "pan"
"Ctrl+]" = "exit"
`
	cfg, err := Parse([]byte(data))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.Canvas.MoveStep != 2 || cfg.Canvas.Grid != 10 {
		t.Errorf("canvas = %+v", cfg.Canvas)
	}
	if cfg.Canvas.FastStep != 10 {
		t.Errorf("fast_step = %d, want default 10", cfg.Canvas.FastStep)
	}
	if dx, dy := cfg.Advance(); dx != 0 || dy != 1 {
		t.Errorf("Advance() = %d, %d", dx, dy)
	}
	if cfg.Terminal.Backend != "vt" {
		t.Errorf("backend = %q", cfg.Terminal.Backend)
	}
	if cfg.Zones.CommandTimeout.Std() != 90*time.Second {
		t.Errorf("command_timeout = %v", cfg.Zones.CommandTimeout)
	}
	if cfg.Keys["Ctrl+P"] != "pan" || cfg.Keys["Ctrl+]"] != "exit" {
		t.Errorf("keys = %v", cfg.Keys)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		parse   bool
		wantMsg string
	}{
		{"syntax", "[canvas\nmove_step = 1", true, "parse error"},
		{"unknown key", "[canvas]\nzoom = 2", true, "zoom"},
		{"bad duration", "[zones]\ncommand_timeout = \"soon\"", true, "invalid duration"},
		{"invalid step", "[canvas]\nmove_step = 0", false, "canvas.move_step"},
		{"bad backend", "[terminal]\nbackend = \"xterm\"", false, "terminal.backend"},
		{"bad key spec", "[keys]\n\"Hyper+x\" = \"pan\"", false, "keys.Hyper+x"},
		{"bad action", "[keys]\n\"x\" = \"fly\"", false, "unknown action"},
		{"bad level", "[logging]\nlevel = \"loud\"", false, "logging.level"},
		{"bad control addr", "[control]\nenabled = true\naddr = \"nowhere\"", false, "control.addr"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data))
			if err == nil {
				t.Fatal("Parse succeeded")
			}
			var perr *ParseError
			if got := errors.As(err, &perr); got != tt.parse {
				t.Errorf("ParseError = %v, want %v (%v)", got, tt.parse, err)
			}
			if !tt.parse && !errors.Is(err, ErrValidationFailed) {
				t.Errorf("error %v is not ErrValidationFailed", err)
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error %q does not mention %q", err, tt.wantMsg)
			}
		})
	}
}

func TestParseErrorPosition(t *testing.T) {
	_, err := Parse([]byte("[canvas]\nmove_step = 1\nzoom = 3\n"))
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("error = %v", err)
	}
	if perr.Line != 3 {
		t.Errorf("Line = %d, want 3", perr.Line)
	}
}

func TestValidateReportsAll(t *testing.T) {
	cfg := Default()
	cfg.Canvas.MoveStep = 0
	cfg.Canvas.FastStep = -1
	cfg.Zones.MaxLines = 0
	err := cfg.Validate()
	var verrs ValidationErrors
	if !errors.As(err, &verrs) {
		t.Fatalf("Validate = %v", err)
	}
	if len(verrs) != 3 {
		t.Errorf("got %d errors: %v", len(verrs), err)
	}
}

func TestLoadLayers(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := "[canvas]\nmove_step = 3\nfast_step = 20\n[joystick]\nenabled = false\n"
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}
	env := []string{
		"GRIDSTORM_CANVAS_FAST_STEP=5",
		"GRIDSTORM_JOYSTICK_ENABLED=yes",
		"GRIDSTORM_ZONES_COMMAND_TIMEOUT=3s",
		"GRIDSTORM_TERMINAL_SHELL=/bin/zsh",
		"GRIDSTORM_CONFIG=/ignored",
		"HOME=/tmp",
	}
	cfg, err := load(path, env)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Canvas.MoveStep != 3 {
		t.Errorf("move_step = %d, want 3 from file", cfg.Canvas.MoveStep)
	}
	if cfg.Canvas.FastStep != 5 {
		t.Errorf("fast_step = %d, want 5 from env", cfg.Canvas.FastStep)
	}
	if !cfg.Joystick.Enabled {
		t.Error("joystick.enabled not overridden")
	}
	if cfg.Zones.CommandTimeout.Std() != 3*time.Second {
		t.Errorf("command_timeout = %v", cfg.Zones.CommandTimeout)
	}
	if cfg.Terminal.Shell != "/bin/zsh" {
		t.Errorf("shell = %q", cfg.Terminal.Shell)
	}
}

func TestLoadMissingFile(t *testing.T) {
	cfg, err := load(filepath.Join(t.TempDir(), "none.toml"), nil)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Canvas.MoveStep != 1 {
		t.Errorf("move_step = %d", cfg.Canvas.MoveStep)
	}
}

func TestLoadBadEnv(t *testing.T) {
	tests := []string{
		"GRIDSTORM_CANVAS_MOVE_STEP=fast",
		"GRIDSTORM_CONTROL_ENABLED=maybe",
		"GRIDSTORM_ZONES_DEFAULT_INTERVAL=often",
	}
	for _, kv := range tests {
		_, err := load("", []string{kv})
		if err == nil {
			t.Errorf("%s: load succeeded", kv)
			continue
		}
		name, _, _ := strings.Cut(kv, "=")
		if !strings.Contains(err.Error(), name) {
			t.Errorf("%s: error %q does not name the variable", kv, err)
		}
	}
}

func TestEnvName(t *testing.T) {
	if got := EnvName("zones", "unfocus_key"); got != "GRIDSTORM_ZONES_UNFOCUS_KEY" {
		t.Errorf("EnvName = %q", got)
	}
}

func TestMarshalRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Canvas.Grid = 4
	cfg.Zones.CommandTimeout = Duration(1500 * time.Millisecond)
	cfg.Keys["Ctrl+P"] = "pan"

	data, err := cfg.Marshal()
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if !strings.Contains(string(data), `command_timeout = '1.5s'`) && !strings.Contains(string(data), `command_timeout = "1.5s"`) {
		t.Errorf("duration not written as text:\n%s", data)
	}
	back, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse(Marshal()): %v\n%s", err, data)
	}
	if back.Canvas.Grid != 4 || back.Zones.CommandTimeout != cfg.Zones.CommandTimeout || back.Keys["Ctrl+P"] != "pan" {
		t.Errorf("round trip lost settings: %+v", back)
	}
}

func TestClone(t *testing.T) {
	a := Default()
	b := a.Clone()
	b.Keys["x"] = "pan"
	b.Canvas.MoveStep = 9
	if len(a.Keys) != 0 || a.Canvas.MoveStep != 1 {
		t.Error("Clone shares state")
	}
}
