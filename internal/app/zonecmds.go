package app

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dshills/gridstorm/internal/input/mode"
	"github.com/dshills/gridstorm/internal/zone"
)

const zoneUsage = "zone create|pipe|watch|pty|fifo|socket|delete|goto|refresh|send|focus|unfocus|list|rename|resize|move|mark|info|scroll ..."

// zoneUsages holds the usage line of each zone subcommand.
var zoneUsages = map[string]string{
	"create":  "zone create NAME X Y W H [DESCRIPTION]",
	"pipe":    "zone pipe NAME W H COMMAND",
	"watch":   "zone watch NAME W H INTERVAL COMMAND",
	"pty":     "zone pty NAME W H [SHELL]",
	"fifo":    "zone fifo NAME W H PATH",
	"socket":  "zone socket NAME W H PORT",
	"delete":  "zone delete NAME",
	"goto":    "zone goto NAME",
	"refresh": "zone refresh NAME",
	"send":    "zone send NAME TEXT",
	"focus":   "zone focus NAME",
	"unfocus": "zone unfocus",
	"list":    "zone list",
	"rename":  "zone rename NAME NEWNAME",
	"resize":  "zone resize NAME W H",
	"move":    "zone move NAME X Y",
	"mark":    "zone mark NAME KEY",
	"info":    "zone info NAME",
	"scroll":  "zone scroll NAME LINES",
}

// registerZoneCommands adds the zone command. Subcommand handlers index
// c.Args including the subcommand word, so c.Args[1] is the zone name.
func (app *Application) registerZoneCommands() {
	subs := map[string]mode.Handler{
		"create":  app.zoneCreate,
		"pipe":    app.zonePipe,
		"watch":   app.zoneWatch,
		"pty":     app.zonePTY,
		"fifo":    app.zoneFIFO,
		"socket":  app.zoneSocket,
		"delete":  app.zoneDelete,
		"goto":    app.zoneGoto,
		"refresh": app.zoneRefresh,
		"send":    app.zoneSend,
		"focus":   app.zoneFocus,
		"unfocus": app.zoneUnfocus,
		"list":    app.zoneList,
		"rename":  app.zoneRename,
		"resize":  app.zoneResize,
		"move":    app.zoneMove,
		"mark":    app.zoneMark,
		"info":    app.zoneInfo,
		"scroll":  app.zoneScroll,
	}
	app.machine.RegisterCommand("zone", zoneUsage, func(c *mode.Call) mode.Result {
		if len(c.Args) == 0 {
			return app.machine.UsageError(c, nil)
		}
		sub, ok := subs[strings.ToLower(c.Args[0])]
		if !ok {
			return app.machine.UsageError(c, fmt.Errorf("unknown zone command %q", c.Args[0]))
		}
		return sub(c)
	}, "z")
}

// usage reports malformed arguments to a zone subcommand.
func usage(c *mode.Call, err error) mode.Result {
	u := zoneUsages[strings.ToLower(c.Args[0])]
	if err != nil {
		return mode.Result{Handled: true, Error: true, Message: fmt.Sprintf("%s (usage: %s)", err, u)}
	}
	return mode.Result{Handled: true, Error: true, Message: "Usage: " + u}
}

// lookup finds the zone named by argument 1.
func (app *Application) lookup(c *mode.Call) (*zone.Zone, error) {
	if len(c.Args) < 2 {
		return nil, errors.New("missing zone name")
	}
	z, ok := app.zones.Get(c.Args[1])
	if !ok {
		return nil, fmt.Errorf("%w: %s", zone.ErrNotFound, c.Args[1])
	}
	return z, nil
}

// createAtCursor creates a zone of size W H (arguments 2 and 3) with its
// top-left corner at the cursor.
func (app *Application) createAtCursor(c *mode.Call, cfg zone.Config) mode.Result {
	wh, err := c.Ints(2, 2)
	if err != nil {
		return usage(c, err)
	}
	x, y := app.machine.Cursor()
	z, err := app.zones.Create(c.Args[1], x, y, wh[0], wh[1], cfg)
	if err != nil {
		return errorResult(err)
	}
	return okResult("Created %s zone %s at (%d, %d)", cfg.Type, z.Name(), x, y)
}

func (app *Application) zoneCreate(c *mode.Call) mode.Result {
	if len(c.Args) < 6 {
		return usage(c, nil)
	}
	v, err := c.Ints(2, 4)
	if err != nil {
		return usage(c, err)
	}
	z, err := app.zones.Create(c.Args[1], v[0], v[1], v[2], v[3], zone.Config{Type: zone.TypeStatic})
	if err != nil {
		return errorResult(err)
	}
	if desc := c.Rest(6); desc != "" {
		z.SetDescription(desc)
	}
	return okResult("Created zone %s at (%d, %d)", z.Name(), v[0], v[1])
}

func (app *Application) zonePipe(c *mode.Call) mode.Result {
	if len(c.Args) < 5 {
		return usage(c, nil)
	}
	return app.createAtCursor(c, zone.Config{Type: zone.TypePipe, Command: c.Rest(4)})
}

func (app *Application) zoneWatch(c *mode.Call) mode.Result {
	if len(c.Args) < 6 {
		return usage(c, nil)
	}
	every, err := parseInterval(c.Args[4])
	if err != nil {
		return usage(c, err)
	}
	return app.createAtCursor(c, zone.Config{
		Type:            zone.TypeWatch,
		Command:         c.Rest(5),
		RefreshInterval: every,
	})
}

// parseInterval accepts seconds ("2", "0.5") or a Go duration ("500ms").
func parseInterval(s string) (time.Duration, error) {
	if secs, err := strconv.ParseFloat(s, 64); err == nil {
		if secs <= 0 {
			return 0, fmt.Errorf("interval %q must be positive", s)
		}
		return time.Duration(secs * float64(time.Second)), nil
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("bad interval %q", s)
	}
	return d, nil
}

func (app *Application) zonePTY(c *mode.Call) mode.Result {
	if len(c.Args) < 4 || len(c.Args) > 5 {
		return usage(c, nil)
	}
	var shell string
	if len(c.Args) == 5 {
		shell = c.Args[4]
	}
	return app.createAtCursor(c, zone.Config{Type: zone.TypePTY, Shell: shell})
}

func (app *Application) zoneFIFO(c *mode.Call) mode.Result {
	if len(c.Args) != 5 {
		return usage(c, nil)
	}
	return app.createAtCursor(c, zone.Config{Type: zone.TypeFIFO, Path: c.Args[4]})
}

func (app *Application) zoneSocket(c *mode.Call) mode.Result {
	if len(c.Args) != 5 {
		return usage(c, nil)
	}
	port, err := c.Int(4)
	if err != nil {
		return usage(c, err)
	}
	return app.createAtCursor(c, zone.Config{Type: zone.TypeSocket, Port: port})
}

func (app *Application) zoneDelete(c *mode.Call) mode.Result {
	z, err := app.lookup(c)
	if err != nil {
		return errorResult(err)
	}
	if app.focused == z {
		app.focused = nil
	}
	if err := app.zones.Delete(z.Name()); err != nil {
		return errorResult(err)
	}
	app.retagBookmarks(z.Name(), "")
	return okResult("Deleted zone %s", z.Name())
}

func (app *Application) zoneGoto(c *mode.Call) mode.Result {
	z, err := app.lookup(c)
	if err != nil {
		return errorResult(err)
	}
	x, y, _, _ := z.Interior()
	app.machine.SetCursor(x, y)
	app.view.CenterOn(z.Center())
	return okResult("Zone %s", z.Name())
}

func (app *Application) zoneRefresh(c *mode.Call) mode.Result {
	z, err := app.lookup(c)
	if err != nil {
		return errorResult(err)
	}
	if err := app.exec.Refresh(z); err != nil {
		return errorResult(err)
	}
	return okResult("Refreshing %s", z.Name())
}

func (app *Application) zoneSend(c *mode.Call) mode.Result {
	z, err := app.lookup(c)
	if err != nil {
		return errorResult(err)
	}
	text := c.Rest(2)
	if text == "" {
		return usage(c, nil)
	}
	if err := app.exec.Send(z, text); err != nil {
		return errorResult(err)
	}
	return okResult("Sent to %s", z.Name())
}

func (app *Application) zoneFocus(c *mode.Call) mode.Result {
	z, err := app.lookup(c)
	if err != nil {
		return errorResult(err)
	}
	return app.focus(z)
}

// focus routes keyboard input to a live shell zone until the unfocus key.
func (app *Application) focus(z *zone.Zone) mode.Result {
	if z.Type() != zone.TypePTY {
		return errorResult(fmt.Errorf("%s is a %s zone; only pty zones take focus", z.Name(), z.Type()))
	}
	if !app.exec.IsActive(z) {
		return errorResult(fmt.Errorf("shell in %s has exited", z.Name()))
	}
	app.machine.SetMode(mode.ModeNav)
	z.ResetScroll()
	app.focused = z
	return okResult("Focused %s (%s to return)", z.Name(), app.cfg.Zones.UnfocusKey)
}

func (app *Application) unfocus() {
	if app.focused == nil {
		return
	}
	name := app.focused.Name()
	app.focused = nil
	app.setMessage("Left %s", name)
}

func (app *Application) zoneUnfocus(*mode.Call) mode.Result {
	if app.focused == nil {
		return okResult("No zone focused")
	}
	name := app.focused.Name()
	app.focused = nil
	return okResult("Left %s", name)
}

func (app *Application) zoneList(*mode.Call) mode.Result {
	zones := app.zones.List()
	if len(zones) == 0 {
		return okResult("No zones")
	}
	parts := make([]string, 0, len(zones))
	for _, z := range zones {
		parts = append(parts, fmt.Sprintf("%s(%s)", z.Name(), z.Type()))
	}
	return okResult("Zones: %s", strings.Join(parts, " "))
}

func (app *Application) zoneRename(c *mode.Call) mode.Result {
	if len(c.Args) != 3 {
		return usage(c, nil)
	}
	z, err := app.lookup(c)
	if err != nil {
		return errorResult(err)
	}
	old := z.Name()
	if err := app.zones.Rename(old, c.Args[2]); err != nil {
		return errorResult(err)
	}
	app.retagBookmarks(old, z.Name())
	return okResult("Renamed %s to %s", old, z.Name())
}

// retagBookmarks moves bookmarks attached to zone from onto zone to. An
// empty to leaves them as plain positions.
func (app *Application) retagBookmarks(from, to string) {
	marks := app.machine.Bookmarks()
	for _, k := range marks.Keys() {
		b, ok := marks.Get(k)
		if ok && b.Name != "" && strings.EqualFold(b.Name, from) {
			_ = marks.Set(k, b.X, b.Y, to)
		}
	}
}

func (app *Application) zoneResize(c *mode.Call) mode.Result {
	if len(c.Args) != 4 {
		return usage(c, nil)
	}
	wh, err := c.Ints(2, 2)
	if err != nil {
		return usage(c, err)
	}
	if err := app.zones.Resize(c.Args[1], wh[0], wh[1]); err != nil {
		return errorResult(err)
	}
	return okResult("Resized %s to %dx%d", c.Args[1], wh[0], wh[1])
}

func (app *Application) zoneMove(c *mode.Call) mode.Result {
	if len(c.Args) != 4 {
		return usage(c, nil)
	}
	xy, err := c.Ints(2, 2)
	if err != nil {
		return usage(c, err)
	}
	if err := app.zones.Move(c.Args[1], xy[0], xy[1]); err != nil {
		return errorResult(err)
	}
	return okResult("Moved %s to (%d, %d)", c.Args[1], xy[0], xy[1])
}

// zoneMark binds a key to a zone and sets a bookmark at its top-left
// interior cell, so 'KEY jumps there.
func (app *Application) zoneMark(c *mode.Call) mode.Result {
	if len(c.Args) != 3 {
		return usage(c, nil)
	}
	z, err := app.lookup(c)
	if err != nil {
		return errorResult(err)
	}
	k := []rune(c.Args[2])
	if len(k) != 1 {
		return usage(c, fmt.Errorf("mark key must be one character, got %q", c.Args[2]))
	}
	if err := app.zones.SetBookmark(z.Name(), k[0]); err != nil {
		return errorResult(err)
	}
	x, y, _, _ := z.Interior()
	if err := app.machine.Bookmarks().Set(k[0], x, y, z.Name()); err != nil {
		return errorResult(err)
	}
	return okResult("Mark '%c' set on zone %s", z.Bookmark(), z.Name())
}

func (app *Application) zoneInfo(c *mode.Call) mode.Result {
	z, err := app.lookup(c)
	if err != nil {
		return errorResult(err)
	}
	x, y, w, h := z.Bounds()
	cfg := z.Config()
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s %dx%d at (%d, %d)", z.Name(), cfg.Type, w, h, x, y)
	switch cfg.Type {
	case zone.TypePipe:
		fmt.Fprintf(&b, " cmd=%q", cfg.Command)
	case zone.TypeWatch:
		fmt.Fprintf(&b, " cmd=%q every %s", cfg.Command, cfg.RefreshInterval)
	case zone.TypePTY:
		if cfg.Shell != "" {
			fmt.Fprintf(&b, " shell=%s", cfg.Shell)
		}
	case zone.TypeFIFO:
		fmt.Fprintf(&b, " path=%s", cfg.Path)
	case zone.TypeSocket:
		fmt.Fprintf(&b, " port=%d", cfg.Port)
	}
	if k := z.Bookmark(); k != 0 {
		fmt.Fprintf(&b, " mark='%c'", k)
	}
	if inert, reason := z.Inert(); inert {
		fmt.Fprintf(&b, " dead: %s", reason)
	} else if cfg.Type != zone.TypeStatic && app.exec.IsActive(z) {
		b.WriteString(" live")
	}
	if d := z.Description(); d != "" {
		fmt.Fprintf(&b, " - %s", d)
	}
	return okResult("%s", b.String())
}

func (app *Application) zoneScroll(c *mode.Call) mode.Result {
	if len(c.Args) != 3 {
		return usage(c, nil)
	}
	z, err := app.lookup(c)
	if err != nil {
		return errorResult(err)
	}
	n, err := c.Int(2)
	if err != nil {
		return usage(c, err)
	}
	off := app.exec.Scroll(z, n)
	return okResult("%s scrolled back %d lines", z.Name(), off)
}
