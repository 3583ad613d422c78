package terminal

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Parser interprets a VT100/ANSI byte stream and applies it to a Screen.
//
// Graphic rendition (SGR) sequences are accepted and ignored. Replies to
// terminal queries such as DSR are passed to the reply function.
type Parser struct {
	screen *Screen

	state  parserState
	params []int
	inter  []byte
	osc    []byte

	utf8Buf [utf8.UTFMax]byte
	utf8Len int

	title string
	reply func([]byte)
}

type parserState int

const (
	stateGround parserState = iota
	stateEscape
	stateEscapeInter
	stateCSI
	stateCSIParam
	stateCSIInter
	stateOSC
	stateOSCEscape
	stateString
	stateStringEscape
)

// maxOSC bounds a single OSC payload.
const maxOSC = 4096

// NewParser creates a parser that writes to screen.
func NewParser(screen *Screen) *Parser {
	return &Parser{
		screen: screen,
		params: make([]int, 0, 16),
		inter:  make([]byte, 0, 4),
		osc:    make([]byte, 0, 256),
	}
}

// SetReplyFunc sets the function that receives query responses.
func (p *Parser) SetReplyFunc(fn func([]byte)) {
	p.reply = fn
}

// Title returns the last window title set through OSC 0 or 2.
func (p *Parser) Title() string {
	return p.title
}

// Parse feeds data through the parser.
func (p *Parser) Parse(data []byte) {
	for _, b := range data {
		p.processByte(b)
	}
}

// ParseString feeds s through the parser.
func (p *Parser) ParseString(s string) {
	p.Parse([]byte(s))
}

func (p *Parser) processByte(b byte) {
	// CAN and SUB abort any sequence
	if b == 0x18 || b == 0x1A {
		p.state = stateGround
		return
	}

	switch p.state {
	case stateGround:
		p.processGround(b)
	case stateEscape:
		p.processEscape(b)
	case stateEscapeInter:
		p.processEscapeInter(b)
	case stateCSI, stateCSIParam:
		p.processCSI(b)
	case stateCSIInter:
		p.processCSIInter(b)
	case stateOSC:
		p.processOSC(b)
	case stateOSCEscape:
		if b == '\\' {
			p.handleOSC()
			p.state = stateGround
			return
		}
		p.handleOSC()
		p.state = stateEscape
		p.processEscape(b)
	case stateString:
		if b == 0x1B {
			p.state = stateStringEscape
		} else if b == 0x07 {
			p.state = stateGround
		}
	case stateStringEscape:
		if b == '\\' {
			p.state = stateGround
		} else {
			p.state = stateString
		}
	}
}

func (p *Parser) processGround(b byte) {
	if p.utf8Len > 0 {
		p.processUTF8(b)
		return
	}

	switch {
	case b == 0x1B:
		p.beginEscape()
	case b == 0x07:
		// bell
	case b == 0x08:
		p.screen.Backspace()
	case b == 0x09:
		p.screen.Tab()
	case b == 0x0A, b == 0x0B, b == 0x0C:
		p.screen.LineFeed()
	case b == 0x0D:
		p.screen.CarriageReturn()
	case b >= 0x20 && b < 0x7F:
		p.screen.Put(rune(b))
	case b >= 0xC0 && b < 0xF8:
		p.utf8Buf[0] = b
		p.utf8Len = 1
	case b >= 0x80:
		p.screen.Put(utf8.RuneError)
	}
}

func (p *Parser) processUTF8(b byte) {
	if b < 0x80 || b >= 0xC0 {
		// truncated sequence
		p.utf8Len = 0
		p.screen.Put(utf8.RuneError)
		p.processGround(b)
		return
	}
	p.utf8Buf[p.utf8Len] = b
	p.utf8Len++
	if utf8.FullRune(p.utf8Buf[:p.utf8Len]) {
		r, _ := utf8.DecodeRune(p.utf8Buf[:p.utf8Len])
		p.utf8Len = 0
		p.screen.Put(r)
		return
	}
	if p.utf8Len == utf8.UTFMax {
		p.utf8Len = 0
		p.screen.Put(utf8.RuneError)
	}
}

func (p *Parser) beginEscape() {
	if p.utf8Len > 0 {
		p.utf8Len = 0
		p.screen.Put(utf8.RuneError)
	}
	p.state = stateEscape
	p.params = p.params[:0]
	p.inter = p.inter[:0]
}

func (p *Parser) processEscape(b byte) {
	p.state = stateGround
	switch {
	case b == '[':
		p.state = stateCSI
	case b == ']':
		p.osc = p.osc[:0]
		p.state = stateOSC
	case b == 'P', b == 'X', b == '^', b == '_':
		// DCS, SOS, PM and APC payloads are skipped
		p.state = stateString
	case b == '7':
		p.screen.SaveCursor()
	case b == '8':
		p.screen.RestoreCursor()
	case b == 'D':
		p.screen.LineFeed()
	case b == 'E':
		p.screen.CarriageReturn()
		p.screen.LineFeed()
	case b == 'M':
		p.screen.ReverseLineFeed()
	case b == 'c':
		p.screen.Reset()
	case b >= 0x20 && b <= 0x2F:
		p.inter = append(p.inter, b)
		p.state = stateEscapeInter
	}
}

func (p *Parser) processEscapeInter(b byte) {
	switch {
	case b >= 0x20 && b <= 0x2F:
		p.inter = append(p.inter, b)
	default:
		// charset designations and the like have no effect on a
		// character-only grid
		p.state = stateGround
	}
}

func (p *Parser) processCSI(b byte) {
	switch {
	case b >= '0' && b <= '9':
		if p.state == stateCSI || len(p.params) == 0 {
			p.params = append(p.params, 0)
		}
		i := len(p.params) - 1
		if p.params[i] < 100000 {
			p.params[i] = p.params[i]*10 + int(b-'0')
		}
		p.state = stateCSIParam
	case b == ';' || b == ':':
		if p.state == stateCSI || len(p.params) == 0 {
			p.params = append(p.params, 0)
		}
		p.params = append(p.params, 0)
		p.state = stateCSIParam
	case b == '?' || b == '>' || b == '<' || b == '=':
		p.inter = append(p.inter, b)
	case b >= 0x20 && b <= 0x2F:
		p.inter = append(p.inter, b)
		p.state = stateCSIInter
	case b >= 0x40 && b <= 0x7E:
		p.handleCSI(b)
		p.state = stateGround
	case b == 0x1B:
		p.beginEscape()
	case b < 0x20:
		// C0 controls execute inside sequences
		p.processGround(b)
	default:
		p.state = stateGround
	}
}

func (p *Parser) processCSIInter(b byte) {
	switch {
	case b >= 0x20 && b <= 0x2F:
		p.inter = append(p.inter, b)
	case b >= 0x40 && b <= 0x7E:
		p.handleCSI(b)
		p.state = stateGround
	default:
		p.state = stateGround
	}
}

func (p *Parser) processOSC(b byte) {
	switch b {
	case 0x07:
		p.handleOSC()
		p.state = stateGround
	case 0x1B:
		p.state = stateOSCEscape
	default:
		if len(p.osc) < maxOSC {
			p.osc = append(p.osc, b)
		}
	}
}

func (p *Parser) handleOSC() {
	cmd, value, _ := strings.Cut(string(p.osc), ";")
	n, err := strconv.Atoi(cmd)
	if err != nil {
		return
	}
	if n == 0 || n == 2 {
		p.title = value
	}
}

func (p *Parser) handleCSI(final byte) {
	private := len(p.inter) > 0 && p.inter[0] == '?'
	s := p.screen

	switch final {
	case 'A':
		s.MoveBy(0, -p.param(0, 1))
	case 'B', 'e':
		s.MoveBy(0, p.param(0, 1))
	case 'C', 'a':
		s.MoveBy(p.param(0, 1), 0)
	case 'D':
		s.MoveBy(-p.param(0, 1), 0)
	case 'E':
		s.MoveBy(0, p.param(0, 1))
		s.CarriageReturn()
	case 'F':
		s.MoveBy(0, -p.param(0, 1))
		s.CarriageReturn()
	case 'G', '`':
		s.SetColumn(p.param(0, 1) - 1)
	case 'H', 'f':
		s.MoveTo(p.param(1, 1)-1, p.param(0, 1)-1)
	case 'd':
		s.SetRow(p.param(0, 1) - 1)
	case 'J':
		s.EraseDisplay(p.param(0, 0))
	case 'K':
		s.EraseLine(p.param(0, 0))
	case 'L':
		s.InsertLines(p.param(0, 1))
	case 'M':
		s.DeleteLines(p.param(0, 1))
	case '@':
		s.InsertChars(p.param(0, 1))
	case 'P':
		s.DeleteChars(p.param(0, 1))
	case 'X':
		s.EraseChars(p.param(0, 1))
	case 'S':
		s.ScrollUp(p.param(0, 1))
	case 'T':
		s.ScrollDown(p.param(0, 1))
	case 'r':
		_, h := s.Size()
		s.SetScrollRegion(p.param(0, 1)-1, p.param(1, h)-1)
	case 's':
		if !private {
			s.SaveCursor()
		}
	case 'u':
		s.RestoreCursor()
	case 'h':
		if private {
			p.setPrivateMode(true)
		}
	case 'l':
		if private {
			p.setPrivateMode(false)
		}
	case 'n':
		p.deviceStatus(private)
	case 'c':
		if len(p.inter) == 0 {
			// VT100 with advanced video option
			p.send("\x1b[?1;2c")
		}
	case 'm':
		// graphic rendition is not modeled
	}
}

func (p *Parser) setPrivateMode(set bool) {
	for _, mode := range p.params {
		switch mode {
		case 6:
			p.screen.SetOriginMode(set)
		case 7:
			p.screen.SetAutoWrap(set)
		case 25:
			p.screen.SetCursorVisible(set)
		case 47, 1047, 1049:
			if set {
				p.screen.EnterAlternate()
				if mode != 1049 {
					p.screen.EraseDisplay(2)
				}
			} else {
				p.screen.ExitAlternate()
			}
		}
	}
}

func (p *Parser) deviceStatus(private bool) {
	switch p.param(0, 0) {
	case 5:
		p.send("\x1b[0n")
	case 6:
		x, y := p.screen.Cursor()
		if private {
			p.send(fmt.Sprintf("\x1b[?%d;%dR", y+1, x+1))
		} else {
			p.send(fmt.Sprintf("\x1b[%d;%dR", y+1, x+1))
		}
	}
}

func (p *Parser) send(s string) {
	if p.reply != nil {
		p.reply([]byte(s))
	}
}

// param returns the index-th parameter, or def when it is absent or zero.
func (p *Parser) param(index, def int) int {
	if index < len(p.params) && p.params[index] > 0 {
		return p.params[index]
	}
	return def
}
