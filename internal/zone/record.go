package zone

import (
	"fmt"
	"time"

	"github.com/dshills/gridstorm/internal/input"
)

// Record is the serialized form of a zone used by layouts and projects.
// Optional fields are omitted when empty so a PTY zone with the default
// shell restores with the default shell.
type Record struct {
	Name        string  `yaml:"name" json:"name"`
	Type        string  `yaml:"type" json:"type"`
	X           int     `yaml:"x" json:"x"`
	Y           int     `yaml:"y" json:"y"`
	Width       int     `yaml:"width" json:"width"`
	Height      int     `yaml:"height" json:"height"`
	Command     string  `yaml:"command,omitempty" json:"command,omitempty"`
	Interval    float64 `yaml:"interval,omitempty" json:"interval,omitempty"`
	Shell       string  `yaml:"shell,omitempty" json:"shell,omitempty"`
	Path        string  `yaml:"path,omitempty" json:"path,omitempty"`
	Port        int     `yaml:"port,omitempty" json:"port,omitempty"`
	Bookmark    string  `yaml:"bookmark,omitempty" json:"bookmark,omitempty"`
	Description string  `yaml:"description,omitempty" json:"description,omitempty"`
}

// RecordOf serializes a zone. The interval is stored in seconds.
func RecordOf(z *Zone) Record {
	x, y, w, h := z.Bounds()
	cfg := z.Config()
	r := Record{
		Name:        z.Name(),
		Type:        cfg.Type.String(),
		X:           x,
		Y:           y,
		Width:       w,
		Height:      h,
		Command:     cfg.Command,
		Interval:    cfg.RefreshInterval.Seconds(),
		Shell:       cfg.Shell,
		Path:        cfg.Path,
		Port:        cfg.Port,
		Description: z.Description(),
	}
	if k := z.Bookmark(); k != 0 {
		r.Bookmark = string(k)
	}
	return r
}

// Config rebuilds the content-source configuration.
func (r Record) Config() (Config, error) {
	t, err := ParseType(r.Type)
	if err != nil {
		return Config{}, err
	}
	if r.Interval < 0 {
		return Config{}, fmt.Errorf("%w: negative interval", ErrInvalidConfig)
	}
	return Config{
		Type:            t,
		Command:         r.Command,
		RefreshInterval: time.Duration(r.Interval * float64(time.Second)),
		Shell:           r.Shell,
		Path:            r.Path,
		Port:            r.Port,
	}, nil
}

// Validate checks a record without creating the zone.
func (r Record) Validate() error {
	if err := validName(r.Name); err != nil {
		return err
	}
	if r.Width < 1 || r.Height < 1 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidSize, r.Width, r.Height)
	}
	cfg, err := r.Config()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if r.Bookmark != "" {
		k := []rune(r.Bookmark)
		if len(k) != 1 {
			return fmt.Errorf("%w: bookmark %q must be one character", ErrInvalidConfig, r.Bookmark)
		}
		if _, ok := input.NormalizeKey(k[0]); !ok {
			return fmt.Errorf("%w: bookmark %q must be a-z or 0-9", ErrInvalidConfig, r.Bookmark)
		}
	}
	return nil
}
