// Package hw defines the hardware collaborators of the vehicle.
package hw

import (
	"errors"
	"time"
)

// ThrusterDriver emits ESC pulses.
type ThrusterDriver interface {
	// WritePulse sets the pulse width of a channel in microseconds.
	WritePulse(channel, us int) error
}

// CameraMux routes one of the cameras to the video output.
type CameraMux interface {
	SelectCamera(index int) error
}

// Indicator is a status light.
type Indicator interface {
	// Blink turns the light on for d without blocking the caller.
	Blink(d time.Duration)
}

// SensorSource provides one-byte sensor readings.
type SensorSource interface {
	ReadSensor(id byte) (byte, error)
}

// ErrUnknownSensor is returned when a sensor id is not wired.
var ErrUnknownSensor = errors.New("unknown sensor")
