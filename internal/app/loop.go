package app

import (
	"strings"
	"time"

	"github.com/dshills/gridstorm/internal/config"
	"github.com/dshills/gridstorm/internal/control"
	"github.com/dshills/gridstorm/internal/input"
	"github.com/dshills/gridstorm/internal/input/key"
	"github.com/dshills/gridstorm/internal/input/mode"
	"github.com/dshills/gridstorm/internal/renderer"
	"github.com/dshills/gridstorm/internal/renderer/backend"
	"github.com/dshills/gridstorm/internal/zone"
)

// eventLoop is the main application loop.
func (app *Application) eventLoop() error {
	events := make(chan backend.Event)
	stop := make(chan struct{})
	go backend.Pump(app.backend, events, stop)
	defer close(stop)

	var calls <-chan *control.Call
	if app.control != nil {
		calls = app.control.Calls()
	}
	var pad <-chan input.Event
	if app.joystick != nil {
		pad = app.joystick.Events()
	}
	var updates <-chan config.Update
	if app.watcher != nil {
		updates = app.watcher.Updates()
	}

	frameTicker := time.NewTicker(frameInterval)
	defer frameTicker.Stop()

	app.frame()
	for !app.quit {
		select {
		case <-app.done:
			return nil

		case ev, ok := <-events:
			if !ok {
				return nil
			}
			app.handleBackendEvent(ev)

		case call := <-calls:
			app.handleCall(call)

		case ev := <-pad:
			app.handleInput(ev)

		case u := <-updates:
			app.applyConfig(u)

		case <-frameTicker.C:
			app.frame()
		}
	}
	return nil
}

// frame runs once per tick: reset per-frame guards, age the status
// message, and paint.
func (app *Application) frame() {
	app.machine.ResetFrameGuards()

	if app.messageTTL > 0 {
		app.messageTTL--
		if app.messageTTL == 0 {
			app.message, app.messageError = "", false
		}
	}
	if app.focused != nil && !app.exec.IsActive(app.focused) {
		name := app.focused.Name()
		app.focused = nil
		app.setError("Shell in " + name + " exited")
	}
	app.render()
}

func (app *Application) render() {
	if app.renderer == nil {
		return
	}
	cx, cy := app.machine.Cursor()
	cmd := app.machine.CommandLine()
	f := &renderer.Frame{
		Canvas:        app.canvas,
		View:          app.view,
		Zones:         app.zones.List(),
		Focused:       app.focused,
		Mode:          app.machine.Mode(),
		CursorX:       cx,
		CursorY:       cy,
		PenDown:       app.machine.PenDown(),
		Selection:     app.machine.Selection(),
		CommandText:   cmd.Text(),
		CommandCursor: cmd.Cursor(),
		Message:       app.message,
		Error:         app.messageError,
		GridStep:      app.gridStep,
	}
	f.Nearby, f.HasNearby = app.zones.Nearest(cx, cy, true)
	app.renderer.Draw(f)
}

// handleBackendEvent routes one terminal event.
func (app *Application) handleBackendEvent(ev backend.Event) {
	switch ev.Type {
	case backend.EventKey:
		app.handleKey(ev.Key)
	case backend.EventResize:
		app.resize(ev.Width, ev.Height)
		app.backend.Sync()
	case backend.EventPaste:
		app.handlePaste(ev.PasteText)
	}
}

func (app *Application) resize(width, height int) {
	app.view.Resize(renderer.CanvasSize(width, height))
	cx, cy := app.machine.Cursor()
	app.view.EnsureVisible(cx, cy)
}

// handleKey sends a key to the focused shell zone, or translates it for
// the mode machine.
func (app *Application) handleKey(k key.Event) {
	if z := app.focused; z != nil {
		if k.Binding() == app.unfocusKey {
			app.unfocus()
			return
		}
		if err := app.exec.SendKey(z, k); err != nil {
			app.focused = nil
			app.setError(err.Error())
		}
		return
	}
	app.handleInput(app.keys.Translate(k, app.machine.Mode().TextEntry()))
}

// handleInput feeds one logical event to the mode machine. Enter on a
// shell zone in NAV focuses it.
func (app *Application) handleInput(ev input.Event) {
	if app.focused != nil {
		return
	}
	if ev.Action == input.ActionNewline && app.machine.Mode() == mode.ModeNav {
		cx, cy := app.machine.Cursor()
		if z, ok := app.zones.FindAt(cx, cy); ok && z.Type() == zone.TypePTY {
			app.apply(app.focus(z))
			return
		}
	}
	app.apply(app.machine.Process(ev))
}

// handlePaste inserts bracketed-paste text where keys would go.
func (app *Application) handlePaste(text string) {
	if text == "" {
		return
	}
	if z := app.focused; z != nil {
		if err := app.exec.Write(z, text); err != nil {
			app.setError(err.Error())
		}
		return
	}
	switch app.machine.Mode() {
	case mode.ModeCommand:
		line, _, _ := strings.Cut(text, "\n")
		app.machine.CommandLine().InsertString(line)
	case mode.ModeEdit:
		app.history.Begin("paste")
		for _, r := range text {
			switch r {
			case '\r':
			case '\n':
				app.machine.Process(input.ActionEvent(input.ActionNewline))
			default:
				app.machine.Process(input.CharEvent(r))
			}
		}
		app.history.End()
	default:
		cx, cy := app.machine.Cursor()
		n := app.pasteBlock(cx, cy, splitText(text))
		app.setMessage("Pasted %d cells", n)
	}
}

// apply runs the host part of a machine result and shows its message.
// A follow-up command replaces the message; its failure cancels a quit
// so that a failed :wq keeps the session open.
func (app *Application) apply(res mode.Result) mode.Result {
	if res.Command != "" {
		sub := app.machine.Execute(res.Command)
		if sub.Message != "" {
			res.Message = sub.Message
		}
		if sub.Error {
			res.Error = true
			res.Quit = false
		}
		res.Quit = res.Quit || sub.Quit
	}
	if res.Message != "" {
		if res.Error {
			app.setError(res.Message)
		} else {
			app.setMessage("%s", res.Message)
		}
	}
	if res.Quit {
		app.quit = true
		app.Shutdown()
	}
	return res
}

// Execute runs a command line as if typed after ':' and applies it.
func (app *Application) Execute(line string) mode.Result {
	return app.apply(app.machine.Execute(line))
}

// handleCall runs a control request and replies with the editor state.
func (app *Application) handleCall(call *control.Call) {
	res := app.Execute(call.Command)
	cx, cy := app.machine.Cursor()
	call.Reply(control.Response{
		OK:      !res.Error,
		Message: res.Message,
		Mode:    app.machine.Mode().String(),
		CursorX: cx,
		CursorY: cy,
		Quit:    res.Quit,
	})
}

// applyConfig installs a reloaded configuration. Settings that need a
// restart (terminal backend, control, joystick, logging) are kept.
func (app *Application) applyConfig(u config.Update) {
	if u.Err != nil {
		app.setError("Config: " + u.Err.Error())
		return
	}
	next := u.Config
	if err := app.applyKeys(next); err != nil {
		app.setError("Config: " + err.Error())
		return
	}
	app.machine.SetOptions(machineOptions(next))
	app.gridStep = next.Canvas.Grid
	app.cfg.Canvas = next.Canvas
	app.cfg.Keys = next.Keys
	app.cfg.Zones.UnfocusKey = next.Zones.UnfocusKey
	app.setMessage("Config reloaded")
}
