package joystick

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// EventSize is the size of one Linux joystick API event.
const EventSize = 8

// Kind is the event type reported by the driver.
type Kind uint8

const (
	KindButton Kind = 0x01
	KindAxis   Kind = 0x02

	// kindInit flags the synthetic events describing initial state.
	kindInit = 0x80
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindButton:
		return "button"
	case KindAxis:
		return "axis"
	default:
		return fmt.Sprintf("Kind(%#x)", uint8(k))
	}
}

// ErrShortEvent is returned when fewer than EventSize bytes are decoded.
var ErrShortEvent = errors.New("joystick: short event")

// Event is one button or axis change.
type Event struct {
	// Time is the driver timestamp in milliseconds.
	Time   uint32
	Value  int16
	Kind   Kind
	Number uint8
	// Init marks events the driver sends on open to report initial state.
	Init bool
}

// Decode parses one event in the driver's little-endian layout.
func Decode(b []byte) (Event, error) {
	if len(b) < EventSize {
		return Event{}, ErrShortEvent
	}
	typ := b[6]
	return Event{
		Time:   binary.LittleEndian.Uint32(b[0:4]),
		Value:  int16(binary.LittleEndian.Uint16(b[4:6])),
		Kind:   Kind(typ &^ kindInit),
		Number: b[7],
		Init:   typ&kindInit != 0,
	}, nil
}

// Encode returns the driver representation of e.
func (e Event) Encode() []byte {
	b := make([]byte, EventSize)
	binary.LittleEndian.PutUint32(b[0:4], e.Time)
	binary.LittleEndian.PutUint16(b[4:6], uint16(e.Value))
	b[6] = uint8(e.Kind)
	if e.Init {
		b[6] |= kindInit
	}
	b[7] = e.Number
	return b
}
