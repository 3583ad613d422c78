package terminal

import (
	"strconv"

	"github.com/dshills/gridstorm/internal/input/key"
)

// cursorKeys end in a final byte: CSI 1;m X when modified, CSI X otherwise.
var cursorKeys = map[key.Key]byte{
	key.KeyUp:    'A',
	key.KeyDown:  'B',
	key.KeyRight: 'C',
	key.KeyLeft:  'D',
	key.KeyHome:  'H',
	key.KeyEnd:   'F',
}

// tildeKeys are encoded as CSI n ~.
var tildeKeys = map[key.Key]int{
	key.KeyInsert:   2,
	key.KeyDelete:   3,
	key.KeyPageUp:   5,
	key.KeyPageDown: 6,
	key.KeyF5:       15,
	key.KeyF6:       17,
	key.KeyF7:       18,
	key.KeyF8:       19,
	key.KeyF9:       20,
	key.KeyF10:      21,
	key.KeyF11:      23,
	key.KeyF12:      24,
}

// ss3Keys are F1-F4, encoded as SS3 X.
var ss3Keys = map[key.Key]byte{
	key.KeyF1: 'P',
	key.KeyF2: 'Q',
	key.KeyF3: 'R',
	key.KeyF4: 'S',
}

// EncodeKey returns the bytes a terminal sends for ev, or nil when the key
// has no encoding.
//
// Printable runes pass through as UTF-8. Ctrl+letter becomes the matching
// C0 control code and Alt prefixes the encoding with ESC.
func EncodeKey(ev key.Event) []byte {
	alt := ev.Modifiers.Has(key.ModAlt) || ev.Modifiers.Has(key.ModMeta)
	ctrl := ev.Modifiers.Has(key.ModCtrl)
	shift := ev.Modifiers.Has(key.ModShift)

	var out []byte
	switch ev.Key {
	case key.KeyRune:
		if ctrl {
			c, ok := controlCode(ev.Rune)
			if !ok {
				return nil
			}
			out = []byte{c}
		} else {
			out = []byte(string(ev.Rune))
		}
	case key.KeyEnter:
		out = []byte{'\r'}
	case key.KeyTab:
		if shift {
			return []byte("\x1b[Z")
		}
		out = []byte{'\t'}
	case key.KeyBackspace:
		if ctrl {
			out = []byte{0x08}
		} else {
			out = []byte{0x7f}
		}
	case key.KeyEscape:
		out = []byte{0x1b}
	default:
		mod := xtermModifier(shift, alt, ctrl)
		if final, ok := cursorKeys[ev.Key]; ok {
			if mod > 1 {
				return []byte("\x1b[1;" + strconv.Itoa(mod) + string(final))
			}
			return []byte{0x1b, '[', final}
		}
		if n, ok := tildeKeys[ev.Key]; ok {
			seq := "\x1b[" + strconv.Itoa(n)
			if mod > 1 {
				seq += ";" + strconv.Itoa(mod)
			}
			return []byte(seq + "~")
		}
		if final, ok := ss3Keys[ev.Key]; ok {
			if mod > 1 {
				return []byte("\x1b[1;" + strconv.Itoa(mod) + string(final))
			}
			return []byte{0x1b, 'O', final}
		}
		return nil
	}

	if alt {
		out = append([]byte{0x1b}, out...)
	}
	return out
}

// controlCode maps r to the byte produced by Ctrl+r.
func controlCode(r rune) (byte, bool) {
	switch {
	case r >= 'a' && r <= 'z':
		return byte(r-'a') + 1, true
	case r >= 'A' && r <= 'Z':
		return byte(r-'A') + 1, true
	case r == ' ' || r == '@' || r == '2':
		return 0x00, true
	case r == '[' || r == '3':
		return 0x1b, true
	case r == '\\' || r == '4':
		return 0x1c, true
	case r == ']' || r == '5':
		return 0x1d, true
	case r == '^' || r == '6':
		return 0x1e, true
	case r == '_' || r == '-' || r == '7':
		return 0x1f, true
	case r == '?' || r == '8':
		return 0x7f, true
	}
	return 0, false
}

// xtermModifier returns the xterm modifier parameter: 1 plus a bit per
// modifier.
func xtermModifier(shift, alt, ctrl bool) int {
	m := 1
	if shift {
		m++
	}
	if alt {
		m += 2
	}
	if ctrl {
		m += 4
	}
	return m
}
