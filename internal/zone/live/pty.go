package live

import (
	"fmt"
	"sync"

	"github.com/dshills/gridstorm/internal/integration/terminal"
	"github.com/dshills/gridstorm/internal/zone"
)

// ptyRunner keeps a shell session attached to a zone.
type ptyRunner struct {
	z       *zone.Zone
	session *terminal.Session

	once sync.Once
}

func (e *Executor) startPTY(z *zone.Zone, shell string) (*ptyRunner, error) {
	if shell == "" {
		shell = e.cfg.Shell
	}
	_, _, w, h := z.Interior()
	s, err := terminal.StartSession(terminal.SessionOptions{
		Name:       z.Name(),
		Shell:      shell,
		Width:      w,
		Height:     h,
		Backend:    e.cfg.Backend,
		Scrollback: e.cfg.Scrollback,
		Supervisor: e.sup,
		Logger:     e.logger,
	})
	if err != nil {
		return nil, err
	}
	z.Revive()
	z.ResetScroll()
	z.AttachSource(s)
	return &ptyRunner{z: z, session: s}, nil
}

// check reports whether the session is alive, marking the zone inert the
// first time it is found dead.
func (r *ptyRunner) check() bool {
	if r.session.Active() {
		return true
	}
	r.once.Do(func() {
		reason := "shell exited"
		if err := r.session.Err(); err != nil {
			reason = fmt.Sprintf("shell exited: %v", err)
		}
		r.z.MarkInert(reason)
	})
	return false
}

func (r *ptyRunner) stop() {
	// keep the last screen visible after teardown
	r.z.DetachSource()
	r.session.Stop()
}
