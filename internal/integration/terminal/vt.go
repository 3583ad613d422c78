package terminal

import (
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/x/ansi"
	"github.com/charmbracelet/x/vt"
)

// VT is an Emulator backed by charmbracelet/x/vt. It keeps no scrollback.
type VT struct {
	emu *vt.SafeEmulator

	mu     sync.Mutex
	width  int
	height int
	reply  io.Writer
	closed bool

	forwarding sync.Once
}

// NewVT creates a vt-backed emulator.
func NewVT(width, height int) *VT {
	if width < 1 {
		width = 80
	}
	if height < 1 {
		height = 24
	}
	return &VT{
		emu:    vt.NewSafeEmulator(width, height),
		width:  width,
		height: height,
	}
}

// Write implements Emulator.
func (v *VT) Write(p []byte) (int, error) {
	v.mu.Lock()
	closed := v.closed
	v.mu.Unlock()
	if closed {
		return 0, ErrClosed
	}
	return v.emu.Write(p)
}

// Lines implements Emulator. The offset is ignored.
func (v *VT) Lines(int) []string {
	v.mu.Lock()
	h := v.height
	v.mu.Unlock()

	screen := strings.ReplaceAll(v.emu.Render(), "\r\n", "\n")
	rows := strings.Split(ansi.Strip(screen), "\n")
	out := make([]string, h)
	for i := range out {
		if i < len(rows) {
			out[i] = strings.TrimRight(rows[i], " ")
		}
	}
	return out
}

// Cursor implements Emulator.
func (v *VT) Cursor() (x, y int) {
	pos := v.emu.CursorPosition()
	return pos.X, pos.Y
}

// Size implements Emulator.
func (v *VT) Size() (width, height int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.width, v.height
}

// Resize implements Emulator.
func (v *VT) Resize(width, height int) {
	width = max(width, 1)
	height = max(height, 1)
	v.mu.Lock()
	v.width, v.height = width, height
	v.mu.Unlock()
	v.emu.Resize(width, height)
}

// ScrollbackLen implements Emulator.
func (v *VT) ScrollbackLen() int {
	return 0
}

// SetReplyWriter implements Emulator. The first call starts a goroutine
// that copies the emulator's responses to the writer until Close.
func (v *VT) SetReplyWriter(w io.Writer) {
	v.mu.Lock()
	v.reply = w
	v.mu.Unlock()
	v.forwarding.Do(func() {
		go v.forwardReplies()
	})
}

func (v *VT) forwardReplies() {
	buf := make([]byte, 1024)
	for {
		n, err := v.emu.Read(buf)
		if n > 0 {
			v.mu.Lock()
			w := v.reply
			v.mu.Unlock()
			if w != nil {
				_, _ = w.Write(buf[:n])
			}
		}
		if err != nil {
			return
		}
	}
}

// Close implements Emulator.
func (v *VT) Close() error {
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return nil
	}
	v.closed = true
	v.mu.Unlock()
	return v.emu.Close()
}
