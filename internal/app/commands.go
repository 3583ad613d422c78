package app

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/atotto/clipboard"

	"github.com/dshills/gridstorm/internal/engine/history"
	"github.com/dshills/gridstorm/internal/input/mode"
	"github.com/dshills/gridstorm/internal/layout"
	"github.com/dshills/gridstorm/internal/project"
)

// Box glyphs used by rect when no character is given.
const (
	boxHorizontal  = '─'
	boxVertical    = '│'
	boxTopLeft     = '┌'
	boxTopRight    = '┐'
	boxBottomLeft  = '└'
	boxBottomRight = '┘'
)

// registerCommands adds the host commands to the mode machine.
func (app *Application) registerCommands() {
	m := app.machine
	m.RegisterCommand("save", "save [FILE]", app.cmdSave)
	m.RegisterCommand("open", "open FILE", app.cmdOpen, "e")
	m.RegisterCommand("undo", "undo", app.cmdUndo)
	m.RegisterCommand("redo", "redo", app.cmdRedo)
	m.RegisterCommand("yank_selection", "yank_selection X Y W H", app.cmdYank)
	m.RegisterCommand("delete_selection", "delete_selection X Y W H", app.cmdDeleteSelection)
	m.RegisterCommand("fill", "fill X Y W H CHAR", app.cmdFill)
	m.RegisterCommand("paste", "paste", app.cmdPaste)
	m.RegisterCommand("text", "text X Y TEXT", app.cmdText)
	m.RegisterCommand("rect", "rect X Y W H [CHAR]", app.cmdRect)
	m.RegisterCommand("grid", "grid [N|off]", app.cmdGrid)
	m.RegisterCommand("layout", "layout load FILE [X Y] | layout save FILE", app.cmdLayout)
	m.RegisterCommand("source", "source FILE", app.cmdSource)
	m.RegisterCommand("lua", "lua CODE", app.cmdLua)
	app.registerZoneCommands()
}

// setCell writes one cell inside an open undo group.
func (app *Application) setCell(x, y int, r rune) {
	before := app.canvas.Get(x, y)
	app.canvas.Set(x, y, r)
	app.history.Record(x, y, before, r)
}

// rect parses X Y W H from the first four arguments.
func rect(c *mode.Call) (x, y, w, h int, err error) {
	v, err := c.Ints(0, 4)
	if err != nil {
		return 0, 0, 0, 0, err
	}
	if v[2] <= 0 || v[3] <= 0 {
		return 0, 0, 0, 0, fmt.Errorf("size %dx%d must be positive", v[2], v[3])
	}
	return v[0], v[1], v[2], v[3], nil
}

func (app *Application) cmdSave(c *mode.Call) mode.Result {
	path := strings.TrimSpace(c.Raw)
	if path == "" {
		path = app.projectPath
	}
	if path == "" {
		return errorResult(ErrNoProjectPath)
	}
	cx, cy := app.machine.Cursor()
	doc := project.Capture(project.State{
		Canvas:    app.canvas,
		Bookmarks: app.machine.Bookmarks(),
		Zones:     app.zones,
		Cursor:    project.Point{X: cx, Y: cy},
		Origin:    project.Point{X: app.view.OriginX, Y: app.view.OriginY},
	})
	if err := project.Save(path, doc); err != nil {
		return errorResult(NewOperationError("save", path, err))
	}
	app.projectPath = path
	app.logger.Info("saved project", "path", path, "cells", len(doc.Cells), "zones", len(doc.Zones))
	return okResult("Saved %s (%d cells, %d zones)", path, len(doc.Cells), len(doc.Zones))
}

func (app *Application) cmdOpen(c *mode.Call) mode.Result {
	path := strings.TrimSpace(c.Raw)
	if path == "" {
		return app.machine.UsageError(c, nil)
	}
	if err := app.openProject(path); err != nil {
		return errorResult(err)
	}
	return okResult("Opened %s", path)
}

// openProject replaces the session with a saved project. Zones or
// bookmarks that cannot be restored are reported; the rest is applied.
func (app *Application) openProject(path string) error {
	doc, err := project.Load(path)
	if err != nil {
		return NewOperationError("open", path, err)
	}
	app.focused = nil
	cursor, origin, err := doc.Restore(project.State{
		Canvas:    app.canvas,
		Bookmarks: app.machine.Bookmarks(),
		Zones:     app.zones,
	})
	app.history.Clear()
	app.view.SetOrigin(origin.X, origin.Y)
	app.machine.SetCursor(cursor.X, cursor.Y)
	app.projectPath = path
	app.logger.Info("opened project", "path", path, "cells", len(doc.Cells), "zones", len(doc.Zones))
	if err != nil {
		return NewOperationError("open", path, err)
	}
	return nil
}

func (app *Application) cmdUndo(*mode.Call) mode.Result {
	x, y, err := app.history.Undo(app.canvas)
	if errors.Is(err, history.ErrNothingToUndo) {
		return okResult("Already at oldest change")
	}
	if err != nil {
		return errorResult(err)
	}
	app.machine.SetCursor(x, y)
	return okResult("Undo")
}

func (app *Application) cmdRedo(*mode.Call) mode.Result {
	x, y, err := app.history.Redo(app.canvas)
	if errors.Is(err, history.ErrNothingToRedo) {
		return okResult("Already at newest change")
	}
	if err != nil {
		return errorResult(err)
	}
	app.machine.SetCursor(x, y)
	return okResult("Redo")
}

// yank copies a region to the internal clipboard and, best effort, to
// the system clipboard.
func (app *Application) yank(x, y, w, h int) {
	lines := app.canvas.Region(x, y, w, h)
	app.clipboard = lines
	if err := clipboard.WriteAll(strings.Join(lines, "\n")); err != nil {
		app.logger.Debug("system clipboard unavailable", "err", err)
	}
}

func (app *Application) cmdYank(c *mode.Call) mode.Result {
	x, y, w, h, err := rect(c)
	if err != nil {
		return app.machine.UsageError(c, err)
	}
	app.yank(x, y, w, h)
	return okResult("Yanked %dx%d", w, h)
}

func (app *Application) cmdDeleteSelection(c *mode.Call) mode.Result {
	x, y, w, h, err := rect(c)
	if err != nil {
		return app.machine.UsageError(c, err)
	}
	app.yank(x, y, w, h)
	app.fillRect(x, y, w, h, ' ', "delete")
	return okResult("Deleted %dx%d", w, h)
}

func (app *Application) cmdFill(c *mode.Call) mode.Result {
	x, y, w, h, err := rect(c)
	if err != nil {
		return app.machine.UsageError(c, err)
	}
	ch, _ := utf8.DecodeRuneInString(c.Rest(4))
	if ch == utf8.RuneError {
		return app.machine.UsageError(c, errors.New("missing fill character"))
	}
	app.fillRect(x, y, w, h, ch, "fill")
	return okResult("Filled %dx%d with '%c'", w, h, ch)
}

func (app *Application) fillRect(x, y, w, h int, ch rune, label string) {
	app.history.Begin(label)
	defer app.history.End()
	for dy := range h {
		for dx := range w {
			app.setCell(x+dx, y+dy, ch)
		}
	}
}

func (app *Application) cmdPaste(*mode.Call) mode.Result {
	lines := app.clipboard
	if len(lines) == 0 {
		text, err := clipboard.ReadAll()
		if err == nil {
			lines = splitText(text)
		}
	}
	if len(lines) == 0 {
		return errorResult(ErrEmptyClipboard)
	}
	cx, cy := app.machine.Cursor()
	n := app.pasteBlock(cx, cy, lines)
	return okResult("Pasted %d cells", n)
}

// pasteBlock writes lines as a block with its top-left at (x, y). Every
// rune is written, spaces included, so a pasted block replaces what was
// under it.
func (app *Application) pasteBlock(x, y int, lines []string) int {
	app.history.Begin("paste")
	defer app.history.End()
	n := 0
	for dy, line := range lines {
		dx := 0
		for _, r := range line {
			app.setCell(x+dx, y+dy, r)
			dx++
			n++
		}
	}
	return n
}

// splitText splits pasted text into lines, dropping carriage returns and
// one trailing newline.
func splitText(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	text = strings.TrimSuffix(text, "\n")
	if text == "" {
		return nil
	}
	return strings.Split(strings.ReplaceAll(text, "\t", "    "), "\n")
}

func (app *Application) cmdText(c *mode.Call) mode.Result {
	if len(c.Args) < 3 {
		return app.machine.UsageError(c, nil)
	}
	xy, err := c.Ints(0, 2)
	if err != nil {
		return app.machine.UsageError(c, err)
	}
	app.history.Begin("text")
	n := 0
	for _, r := range c.Rest(2) {
		app.setCell(xy[0]+n, xy[1], r)
		n++
	}
	app.history.End()
	return okResult("Wrote %d cells", n)
}

func (app *Application) cmdRect(c *mode.Call) mode.Result {
	x, y, w, h, err := rect(c)
	if err != nil {
		return app.machine.UsageError(c, err)
	}
	var ch rune
	if s := c.Rest(4); s != "" {
		ch, _ = utf8.DecodeRuneInString(s)
	}
	app.history.Begin("rect")
	defer app.history.End()
	for dy := range h {
		for dx := range w {
			top, bottom := dy == 0, dy == h-1
			left, right := dx == 0, dx == w-1
			if !top && !bottom && !left && !right {
				continue
			}
			g := ch
			if g == 0 {
				g = boxGlyph(top, bottom, left, right, w, h)
			}
			app.setCell(x+dx, y+dy, g)
		}
	}
	return okResult("Rectangle %dx%d at (%d, %d)", w, h, x, y)
}

// boxGlyph picks the border glyph for one edge cell of a w x h box.
// Degenerate boxes one cell thick are drawn as straight lines.
func boxGlyph(top, bottom, left, right bool, w, h int) rune {
	switch {
	case h == 1:
		return boxHorizontal
	case w == 1:
		return boxVertical
	case top && left:
		return boxTopLeft
	case top && right:
		return boxTopRight
	case bottom && left:
		return boxBottomLeft
	case bottom && right:
		return boxBottomRight
	case top, bottom:
		return boxHorizontal
	default:
		return boxVertical
	}
}

func (app *Application) cmdGrid(c *mode.Call) mode.Result {
	switch len(c.Args) {
	case 0:
		if app.gridStep <= 0 {
			return okResult("Grid off")
		}
		return okResult("Grid every %d cells", app.gridStep)
	case 1:
		if strings.EqualFold(c.Args[0], "off") {
			app.gridStep = 0
			return okResult("Grid off")
		}
		n, err := strconv.Atoi(c.Args[0])
		if err != nil || n < 0 {
			return app.machine.UsageError(c, fmt.Errorf("bad grid spacing %q", c.Args[0]))
		}
		app.gridStep = n
		if n == 0 {
			return okResult("Grid off")
		}
		return okResult("Grid every %d cells", n)
	}
	return app.machine.UsageError(c, nil)
}

func (app *Application) cmdLayout(c *mode.Call) mode.Result {
	if len(c.Args) < 2 {
		return app.machine.UsageError(c, nil)
	}
	path := c.Args[1]
	switch strings.ToLower(c.Args[0]) {
	case "load":
		l, err := layout.Load(path)
		if err != nil {
			return errorResult(NewOperationError("layout load", path, err))
		}
		switch len(c.Args) {
		case 2:
		case 4:
			xy, err := c.Ints(2, 2)
			if err != nil {
				return app.machine.UsageError(c, err)
			}
			l = l.Offset(xy[0], xy[1])
		default:
			return app.machine.UsageError(c, nil)
		}
		if err := app.applyLayout(l); err != nil {
			return errorResult(NewOperationError("layout load", path, err))
		}
		return okResult("Loaded layout %s (%d zones)", path, len(l.Zones))
	case "save":
		if len(c.Args) != 2 {
			return app.machine.UsageError(c, nil)
		}
		cx, cy := app.machine.Cursor()
		l := &layout.Layout{
			Name:      strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)),
			Cursor:    &layout.Point{X: cx, Y: cy},
			Zones:     app.zones.Records(),
			Bookmarks: app.machine.Bookmarks().All(),
		}
		if err := l.Save(path); err != nil {
			return errorResult(NewOperationError("layout save", path, err))
		}
		return okResult("Saved layout %s (%d zones)", path, len(l.Zones))
	}
	return app.machine.UsageError(c, fmt.Errorf("unknown layout action %q", c.Args[0]))
}

// applyLayout adds a layout's zones and bookmarks to the session and
// moves the cursor. Existing zones are kept; colliding names fail
// individually.
func (app *Application) applyLayout(l *layout.Layout) error {
	var errs []error
	if err := app.zones.Load(l.Zones); err != nil {
		errs = append(errs, err)
	}
	marks := app.machine.Bookmarks()
	for k, b := range l.Bookmarks {
		r, _ := utf8.DecodeRuneInString(k)
		if err := marks.Set(r, b.X, b.Y, b.Name); err != nil {
			errs = append(errs, fmt.Errorf("bookmark %q: %w", k, err))
		}
	}
	if l.Cursor != nil {
		app.machine.SetCursor(l.Cursor.X, l.Cursor.Y)
	}
	return errors.Join(errs...)
}

func (app *Application) cmdSource(c *mode.Call) mode.Result {
	path := strings.TrimSpace(c.Raw)
	if path == "" {
		return app.machine.UsageError(c, nil)
	}
	return app.script(path, func() (string, error) { return app.scripts.Source(path) })
}

func (app *Application) cmdLua(c *mode.Call) mode.Result {
	code := strings.TrimSpace(c.Raw)
	if code == "" {
		return app.machine.UsageError(c, nil)
	}
	return app.script("lua", func() (string, error) { return app.scripts.Run(code) })
}

// script runs a Lua chunk as one undo step. The last line the script
// printed becomes the status message.
func (app *Application) script(name string, run func() (string, error)) mode.Result {
	app.history.Begin("lua")
	out, err := run()
	app.history.End()
	if err != nil {
		return errorResult(err)
	}
	out = strings.TrimSpace(out)
	if i := strings.LastIndexByte(out, '\n'); i >= 0 {
		out = out[i+1:]
	}
	if out == "" {
		return okResult("Ran %s", name)
	}
	return okResult("%s", out)
}
