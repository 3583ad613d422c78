// Package terminal runs interactive shells on pseudo-terminals and turns
// their output into a character grid for shell zones.
//
// An Emulator consumes the raw byte stream. Two backends exist: the builtin
// Screen and Parser pair, which understands the VT100/ANSI subset shells and
// full-screen programs rely on and keeps a bounded scrollback, and a backend
// built on charmbracelet/x/vt. Colors and attributes are not modeled; only
// characters and the cursor are.
//
// A Session owns one PTY, one shell process and one reader goroutine:
//
//	s, err := terminal.StartSession(terminal.SessionOptions{
//	    Name:       "shell",
//	    Width:      80,
//	    Height:     24,
//	    Supervisor: sup,
//	})
//	if err != nil {
//	    return err
//	}
//	defer s.Stop()
//
//	s.SendKey(ev)
//	rows := s.Lines(0)
//
// EncodeKey translates key events into the byte sequences a terminal sends.
package terminal
