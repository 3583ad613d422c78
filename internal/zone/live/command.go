package live

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/x/ansi"

	"github.com/dshills/gridstorm/internal/integration/process"
	"github.com/dshills/gridstorm/internal/zone"
)

// commandRunner runs a pipe or watch zone's command: once at start, on
// every refresh and, for watch zones, on every tick of the interval.
type commandRunner struct {
	e        *Executor
	z        *zone.Zone
	command  string
	interval time.Duration

	ctx       context.Context
	cancel    context.CancelFunc
	refreshCh chan struct{}
	done      chan struct{}

	mu   sync.Mutex
	runs int
}

func (e *Executor) startCommand(z *zone.Zone, command string, interval time.Duration) *commandRunner {
	ctx, cancel := context.WithCancel(context.Background())
	r := &commandRunner{
		e:         e,
		z:         z,
		command:   command,
		interval:  interval,
		ctx:       ctx,
		cancel:    cancel,
		refreshCh: make(chan struct{}, 1),
		done:      make(chan struct{}),
	}
	z.SetContent([]string{fmt.Sprintf("[running: %s]", command)})
	go r.loop()
	return r
}

func (r *commandRunner) loop() {
	defer close(r.done)

	var tick <-chan time.Time
	if r.interval > 0 {
		t := time.NewTicker(r.interval)
		defer t.Stop()
		tick = t.C
	}

	r.run()
	for {
		if tick != nil {
			// a tick that fired while the command ran is skipped
			select {
			case <-tick:
				r.e.logger.Debug("watch tick skipped", "name", r.z.Name())
			default:
			}
		}
		select {
		case <-r.ctx.Done():
			return
		case <-r.refreshCh:
			r.run()
		case <-tick:
			r.run()
		}
	}
}

func (r *commandRunner) run() {
	res, err := r.e.sup.Capture(r.ctx, r.z.Name(), r.e.cfg.Shell, r.command, r.e.cfg.CaptureTimeout)
	if r.ctx.Err() != nil {
		// stopped while running; the zone is going away
		return
	}

	r.mu.Lock()
	r.runs++
	r.mu.Unlock()

	lines := outputLines(res.Output)
	switch {
	case errors.Is(err, process.ErrTimeout):
		lines = append(lines, fmt.Sprintf("[timeout after %s]", r.e.cfg.CaptureTimeout))
	case err != nil:
		lines = []string{fmt.Sprintf("[error: %v]", err)}
	case res.ExitCode != 0:
		lines = append(lines, fmt.Sprintf("[exit status %d]", res.ExitCode))
	case len(lines) == 0:
		lines = []string{"[no output]"}
	}
	r.z.SetContent(lines)

	if err != nil {
		r.e.logger.Debug("zone command failed", "name", r.z.Name(), "err", err)
	}
}

// refresh queues a run. Refreshes requested while one is queued coalesce.
func (r *commandRunner) refresh() {
	select {
	case r.refreshCh <- struct{}{}:
	default:
	}
}

// completed returns the number of finished runs.
func (r *commandRunner) completed() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.runs
}

func (r *commandRunner) stop() {
	r.cancel()
	<-r.done
}

// outputLines strips escape sequences and splits captured output.
func outputLines(out string) []string {
	out = ansi.Strip(out)
	out = strings.ReplaceAll(out, "\r\n", "\n")
	out = strings.TrimRight(out, "\n")
	if out == "" {
		return nil
	}
	lines := strings.Split(out, "\n")
	for i, l := range lines {
		lines[i] = expandLine(l)
	}
	return lines
}

// expandLine expands tabs to 8-column stops and drops stray carriage
// returns, keeping the text after the last one as a terminal would show.
func expandLine(l string) string {
	if i := strings.LastIndexByte(l, '\r'); i >= 0 {
		l = l[i+1:]
	}
	if !strings.ContainsRune(l, '\t') {
		return l
	}
	var sb strings.Builder
	col := 0
	for _, r := range l {
		if r == '\t' {
			n := 8 - col%8
			sb.WriteString(strings.Repeat(" ", n))
			col += n
			continue
		}
		sb.WriteRune(r)
		col++
	}
	return sb.String()
}
