// Package gamepad reads the Linux joystick API (/dev/input/jsN).
package gamepad

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// EventSize is the size of a js_event record.
const EventSize = 8

// AxisMax is the magnitude of a fully deflected axis.
const AxisMax = 32767

// Kind tells buttons from axes.
type Kind uint8

// Event kinds as reported by the driver.
const (
	KindButton Kind = 0x01
	KindAxis   Kind = 0x02

	kindInit uint8 = 0x80
)

// ErrUnsupported is returned by Open on platforms without the joystick API.
var ErrUnsupported = errors.New("gamepad not supported on this platform")

// Event is one decoded driver event.
type Event struct {
	// Time is the driver timestamp in milliseconds.
	Time   uint32
	Kind   Kind
	Number int
	Value  int
	// Init is set on the synthetic events describing the initial state.
	Init bool
}

// Pressed tells whether a button event is a press.
func (e Event) Pressed() bool {
	return e.Kind == KindButton && e.Value != 0
}

func (e Event) String() string {
	var init string
	if e.Init {
		init = " (init)"
	}
	if e.Kind == KindButton {
		return fmt.Sprintf("button %d: %v%s", e.Number, e.Pressed(), init)
	}
	return fmt.Sprintf("axis %d: %d%s", e.Number, e.Value, init)
}

// DecodeEvent decodes a js_event record.
func DecodeEvent(buf []byte) (Event, error) {
	if len(buf) < EventSize {
		return Event{}, io.ErrUnexpectedEOF
	}
	typ := buf[6]
	return Event{
		Time:   binary.LittleEndian.Uint32(buf[0:4]),
		Value:  int(int16(binary.LittleEndian.Uint16(buf[4:6]))),
		Kind:   Kind(typ &^ kindInit),
		Init:   typ&kindInit != 0,
		Number: int(buf[7]),
	}, nil
}

// Device is an opened gamepad.
type Device interface {
	io.Closer
	Index() int
	Name() string
	// ReadEvent blocks until the next event.
	ReadEvent() (Event, error)
}

// ReadEvent reads and decodes one record from r.
func ReadEvent(r io.Reader) (Event, error) {
	var buf [EventSize]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return Event{}, err
	}
	return DecodeEvent(buf[:])
}
