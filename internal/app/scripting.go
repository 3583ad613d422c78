package app

// scriptHost exposes the editor to Lua scripts. Scripts run on the host
// loop goroutine inside an undo group opened by the caller.
type scriptHost struct {
	app *Application
}

func (h *scriptHost) Execute(line string) (bool, string) {
	res := h.app.apply(h.app.machine.Execute(line))
	return !res.Error, res.Message
}

func (h *scriptHost) Cell(x, y int) rune {
	return h.app.canvas.Get(x, y)
}

func (h *scriptHost) SetCell(x, y int, r rune) {
	h.app.setCell(x, y, r)
}

func (h *scriptHost) WriteText(x, y int, s string) int {
	n := 0
	for _, r := range s {
		h.app.setCell(x+n, y, r)
		n++
	}
	return n
}

func (h *scriptHost) Cursor() (int, int) {
	return h.app.machine.Cursor()
}

func (h *scriptHost) MoveCursor(x, y int) {
	h.app.machine.SetCursor(x, y)
}

func (h *scriptHost) Mode() string {
	return h.app.machine.Mode().String()
}
