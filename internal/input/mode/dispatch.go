package mode

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"unicode"
)

// Call is one parsed command invocation.
type Call struct {
	// Name is the lowercased command word as typed.
	Name string

	// Args are the whitespace-separated arguments.
	Args []string

	// Raw is the argument text exactly as typed.
	Raw string
}

// Rest returns the raw argument text after the first n arguments, with
// interior spacing preserved. Used for trailing shell commands and text.
func (c *Call) Rest(n int) string {
	s := c.Raw
	for range n {
		s = strings.TrimLeftFunc(s, unicode.IsSpace)
		i := strings.IndexFunc(s, unicode.IsSpace)
		if i < 0 {
			return ""
		}
		s = s[i:]
	}
	return strings.TrimSpace(s)
}

// Int parses argument i as an integer.
func (c *Call) Int(i int) (int, error) {
	if i >= len(c.Args) {
		return 0, fmt.Errorf("missing argument %d", i+1)
	}
	n, err := strconv.Atoi(c.Args[i])
	if err != nil {
		return 0, fmt.Errorf("%q is not a number", c.Args[i])
	}
	return n, nil
}

// Ints parses arguments from..from+n-1 as integers.
func (c *Call) Ints(from, n int) ([]int, error) {
	out := make([]int, n)
	for i := range n {
		v, err := c.Int(from + i)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// Handler runs a command.
type Handler func(c *Call) Result

type command struct {
	name    string
	usage   string
	handler Handler
}

// RegisterCommand adds a command under name and any aliases, replacing
// existing registrations. usage is shown by help and on usage errors.
func (m *Machine) RegisterCommand(name, usage string, h Handler, aliases ...string) {
	cmd := &command{name: name, usage: usage, handler: h}
	for _, n := range append([]string{name}, aliases...) {
		n = strings.ToLower(n)
		if _, exists := m.commands[n]; !exists {
			m.names = append(m.names, n)
			sort.Strings(m.names)
		}
		m.commands[n] = cmd
	}
}

// Commands returns every registered command name and alias, sorted.
func (m *Machine) Commands() []string {
	return append([]string(nil), m.names...)
}

// Usage returns the usage string of a command.
func (m *Machine) Usage(name string) string {
	if cmd, ok := m.commands[strings.ToLower(name)]; ok {
		return cmd.usage
	}
	return ""
}

// Execute parses and runs one command line. A leading ':' is ignored.
// Unknown commands, bad arguments and handler panics all become error
// results; Execute never panics. A panic rolls back the open undo group.
func (m *Machine) Execute(line string) (res Result) {
	line = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), ":"))
	if line == "" {
		return handled()
	}

	name, raw, _ := strings.Cut(line, " ")
	name = strings.ToLower(name)
	cmd, ok := m.commands[name]
	if !ok {
		return failure("Unknown command: %s", name)
	}

	defer func() {
		if r := recover(); r != nil {
			m.ledger.Cancel(m.canvas)
			res = failure("%s: %v", name, r)
		}
	}()

	call := &Call{Name: name, Args: strings.Fields(raw), Raw: raw}
	res = cmd.handler(call)
	res.Handled = true
	return res
}

// UsageError reports incorrect arguments for a command, quoting its usage.
func (m *Machine) UsageError(c *Call, err error) Result {
	if u := m.Usage(c.Name); u != "" {
		if err != nil {
			return failure("%s (usage: %s)", err, u)
		}
		return failure("Usage: %s", u)
	}
	return failure("%s: %v", c.Name, err)
}
