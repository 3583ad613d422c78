package live

import (
	"bytes"

	"github.com/charmbracelet/x/ansi"

	"github.com/dshills/gridstorm/internal/zone"
)

// maxPartial bounds an unterminated line; longer input is cut into lines.
const maxPartial = 64 * 1024

// clearLine is the line that clears a streaming zone.
const clearLine = "\f"

// splitter turns a byte stream into lines, holding back an unterminated
// tail until its newline arrives.
type splitter struct {
	partial []byte
}

// feed consumes p and returns the lines it completed.
func (s *splitter) feed(p []byte) []string {
	var lines []string
	for len(p) > 0 {
		i := bytes.IndexByte(p, '\n')
		if i < 0 {
			s.partial = append(s.partial, p...)
			break
		}
		s.partial = append(s.partial, p[:i]...)
		lines = append(lines, s.take())
		p = p[i+1:]
	}
	for len(s.partial) > maxPartial {
		lines = append(lines, string(s.partial[:maxPartial]))
		s.partial = append(s.partial[:0], s.partial[maxPartial:]...)
	}
	return lines
}

// flush returns the unterminated tail, if any.
func (s *splitter) flush() []string {
	if len(s.partial) == 0 {
		return nil
	}
	return []string{s.take()}
}

func (s *splitter) take() string {
	line := string(bytes.TrimSuffix(s.partial, []byte{'\r'}))
	s.partial = s.partial[:0]
	return line
}

// deliver appends lines to a streaming zone. A clear line empties the zone
// and is itself dropped.
func deliver(z *zone.Zone, lines []string) {
	start := 0
	for i, l := range lines {
		if l == clearLine {
			z.ClearContent()
			start = i + 1
		}
	}
	if start >= len(lines) {
		return
	}
	out := make([]string, 0, len(lines)-start)
	for _, l := range lines[start:] {
		out = append(out, expandLine(ansi.Strip(l)))
	}
	z.AppendLines(out...)
}
