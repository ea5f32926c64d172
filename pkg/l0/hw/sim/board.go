// Package sim provides in-memory hardware used for dry runs and tests.
package sim

import (
	"sync"
	"time"

	"github.com/golang/glog"

	"github.com/robotalks/rov.go/pkg/l0/hw"
)

// Pulse is a recorded driver write.
type Pulse struct {
	Channel int
	US      int
}

// Board records everything written to it.
type Board struct {
	Sensors map[byte]byte
	// Verbose logs every write.
	Verbose bool

	pulses []Pulse
	last   map[int]int
	camera int
	blinks []time.Duration
	lock   sync.Mutex
}

// NewBoard creates a Board.
func NewBoard() *Board {
	return &Board{Sensors: make(map[byte]byte), last: make(map[int]int)}
}

// WritePulse implements hw.ThrusterDriver.
func (b *Board) WritePulse(channel, us int) error {
	b.lock.Lock()
	b.pulses = append(b.pulses, Pulse{Channel: channel, US: us})
	b.last[channel] = us
	b.lock.Unlock()
	if b.Verbose {
		glog.Infof("sim: thruster %d pulse %dus", channel, us)
	}
	return nil
}

// SelectCamera implements hw.CameraMux.
func (b *Board) SelectCamera(index int) error {
	b.lock.Lock()
	b.camera = index
	b.lock.Unlock()
	if b.Verbose {
		glog.Infof("sim: camera %d", index)
	}
	return nil
}

// Blink implements hw.Indicator.
func (b *Board) Blink(d time.Duration) {
	b.lock.Lock()
	b.blinks = append(b.blinks, d)
	b.lock.Unlock()
	if b.Verbose {
		glog.Infof("sim: blink %v", d)
	}
}

// ReadSensor implements hw.SensorSource.
func (b *Board) ReadSensor(id byte) (byte, error) {
	b.lock.Lock()
	defer b.lock.Unlock()
	if v, ok := b.Sensors[id]; ok {
		return v, nil
	}
	return 0, hw.ErrUnknownSensor
}

// SetSensor sets a sensor reading.
func (b *Board) SetSensor(id, value byte) {
	b.lock.Lock()
	b.Sensors[id] = value
	b.lock.Unlock()
}

// Pulses returns all recorded pulses.
func (b *Board) Pulses() []Pulse {
	b.lock.Lock()
	defer b.lock.Unlock()
	return append([]Pulse(nil), b.pulses...)
}

// LastPulse returns the last pulse written to a channel.
func (b *Board) LastPulse(channel int) (int, bool) {
	b.lock.Lock()
	defer b.lock.Unlock()
	us, ok := b.last[channel]
	return us, ok
}

// Camera returns the selected camera.
func (b *Board) Camera() int {
	b.lock.Lock()
	defer b.lock.Unlock()
	return b.camera
}

// Blinks returns all blink requests.
func (b *Board) Blinks() []time.Duration {
	b.lock.Lock()
	defer b.lock.Unlock()
	return append([]time.Duration(nil), b.blinks...)
}
