package renderer

import (
	"github.com/gdamore/tcell/v2"

	"github.com/dshills/gridstorm/internal/input/mode"
)

// Theme holds the styles used for each part of a frame.
type Theme struct {
	Cell      tcell.Style
	Grid      tcell.Style
	Origin    tcell.Style
	Selection tcell.Style

	Border        tcell.Style
	FocusedBorder tcell.Style
	InertBorder   tcell.Style
	Label         tcell.Style
	ZoneText      tcell.Style

	Status  tcell.Style
	Message tcell.Style
	Error   tcell.Style
	Arrow   tcell.Style

	Modes map[mode.Mode]tcell.Style
}

// DefaultTheme returns the built-in theme.
func DefaultTheme() Theme {
	base := tcell.StyleDefault
	status := base.Background(tcell.ColorGray).Foreground(tcell.ColorBlack)
	return Theme{
		Cell:      base,
		Grid:      base.Foreground(tcell.ColorGray).Dim(true),
		Origin:    base.Foreground(tcell.ColorYellow),
		Selection: base.Reverse(true),

		Border:        base.Foreground(tcell.ColorTeal),
		FocusedBorder: base.Foreground(tcell.ColorGreen).Bold(true),
		InertBorder:   base.Foreground(tcell.ColorMaroon),
		Label:         base.Foreground(tcell.ColorTeal).Bold(true),
		ZoneText:      base,

		Status:  status,
		Message: status,
		Error:   status.Foreground(tcell.ColorMaroon).Bold(true),
		Arrow:   status.Foreground(tcell.ColorNavy).Bold(true),

		Modes: defaultModeStyles(),
	}
}

// defaultModeStyles returns default styles for each mode.
func defaultModeStyles() map[mode.Mode]tcell.Style {
	bold := tcell.StyleDefault.Bold(true)
	return map[mode.Mode]tcell.Style{
		mode.ModeNav:      bold.Background(tcell.ColorBlue).Foreground(tcell.ColorWhite),
		mode.ModePan:      bold.Background(tcell.ColorTeal).Foreground(tcell.ColorBlack),
		mode.ModeEdit:     bold.Background(tcell.ColorGreen).Foreground(tcell.ColorBlack),
		mode.ModeCommand:  bold.Background(tcell.ColorYellow).Foreground(tcell.ColorBlack),
		mode.ModeMarkSet:  bold.Background(tcell.ColorOlive).Foreground(tcell.ColorBlack),
		mode.ModeMarkJump: bold.Background(tcell.ColorOlive).Foreground(tcell.ColorBlack),
		mode.ModeVisual:   bold.Background(tcell.ColorPurple).Foreground(tcell.ColorWhite),
		mode.ModeDraw:     bold.Background(tcell.ColorRed).Foreground(tcell.ColorWhite),
	}
}

// ModeStyle returns the status-line style for m.
func (t Theme) ModeStyle(m mode.Mode) tcell.Style {
	if s, ok := t.Modes[m]; ok {
		return s
	}
	return t.Status.Bold(true)
}
