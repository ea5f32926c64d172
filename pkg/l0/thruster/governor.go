// Package thruster implements the actuator governor which turns raw
// commanded values into rate limited ESC pulses.
package thruster

import (
	"errors"
	"fmt"
	"sync"

	fx "github.com/robotalks/rov.go/pkg/framework"
	"github.com/robotalks/rov.go/pkg/l0/hw"
)

// NumChannels is the number of thruster channels.
const NumChannels = 6

// ErrInvalidChannel indicates a channel index out of range.
var ErrInvalidChannel = errors.New("invalid channel")

// Channel is the state of one thruster.
type Channel struct {
	Index int
	// Current is the last pulse width written, in microseconds.
	Current int
	// Target is the pulse width Current ramps towards.
	Target int
	// Direction is +1 or -1 depending on wiring.
	Direction int
}

// Settled determines if the channel reached its target.
func (c Channel) Settled() bool {
	return c.Current == c.Target
}

// Output computes the pulse sent to the ESC.
func (c Channel) Output(center int) int {
	return center + c.Direction*(c.Current-center)
}

// Governor owns the thruster channels.
type Governor struct {
	Driver hw.ThrusterDriver

	config   Config
	channels [NumChannels]Channel
	lock     sync.Mutex
}

// NewGovernor creates a Governor with all channels at center.
// Nothing is written to the driver until Init.
func NewGovernor(config Config, driver hw.ThrusterDriver) *Governor {
	g := &Governor{Driver: driver, config: config}
	for i := range g.channels {
		dir := config.Directions[i]
		if dir == 0 {
			dir = 1
		}
		g.channels[i] = Channel{
			Index:     i,
			Current:   config.ESCCenter,
			Target:    config.ESCCenter,
			Direction: dir,
		}
	}
	return g
}

// Config returns the configuration.
func (g *Governor) Config() Config {
	return g.config
}

// Init writes the center pulse to all channels, which arms the ESCs.
func (g *Governor) Init() error {
	g.lock.Lock()
	defer g.lock.Unlock()
	var errs fx.AggregatedError
	for i := range g.channels {
		ch := &g.channels[i]
		ch.Current, ch.Target = g.config.ESCCenter, g.config.ESCCenter
		errs.Add(g.write(ch))
	}
	return errs.Aggregate()
}

// Clamp applies the governor clamp to a raw input and returns the
// signed offset from InputCenter.
func (g *Governor) Clamp(raw byte) int {
	signed := int(raw) - g.config.InputCenter
	if signed > g.config.GovDelta {
		signed = g.config.GovDelta
	} else if signed < -g.config.GovDelta {
		signed = -g.config.GovDelta
	}
	return signed
}

// Scale converts a raw input to the target pulse width.
func (g *Governor) Scale(raw byte) int {
	c := &g.config
	us := c.ESCCenter + g.Clamp(raw)*(c.ESCMax-c.ESCCenter)/c.InputHalfRange
	if us > c.ESCMax {
		us = c.ESCMax
	} else if us < c.ESCMin {
		us = c.ESCMin
	}
	if d := us - c.ESCCenter; d <= c.Deadband && d >= -c.Deadband {
		us = c.ESCCenter
	}
	return us
}

// SetTarget sets the target of a channel from a raw input.
// It returns the raw value after the governor clamp.
func (g *Governor) SetTarget(channel int, raw byte) (byte, error) {
	if channel < 0 || channel >= NumChannels {
		return 0, ErrInvalidChannel
	}
	us := g.Scale(raw)
	applied := byte(g.config.InputCenter + g.Clamp(raw))
	g.lock.Lock()
	g.channels[channel].Target = us
	g.lock.Unlock()
	return applied, nil
}

// Tick moves the channel one step towards its target.
func (g *Governor) Tick(channel int) error {
	if channel < 0 || channel >= NumChannels {
		return ErrInvalidChannel
	}
	g.lock.Lock()
	defer g.lock.Unlock()
	return g.tick(&g.channels[channel])
}

// TickAll ticks all channels.
func (g *Governor) TickAll() error {
	g.lock.Lock()
	defer g.lock.Unlock()
	var errs fx.AggregatedError
	for i := range g.channels {
		errs.Add(g.tick(&g.channels[i]))
	}
	return errs.Aggregate()
}

// Stop sets all targets to center. Channels still ramp down.
func (g *Governor) Stop() {
	g.lock.Lock()
	for i := range g.channels {
		g.channels[i].Target = g.config.ESCCenter
	}
	g.lock.Unlock()
}

// Channel returns a copy of the channel state.
func (g *Governor) Channel(channel int) (Channel, error) {
	if channel < 0 || channel >= NumChannels {
		return Channel{}, ErrInvalidChannel
	}
	g.lock.Lock()
	defer g.lock.Unlock()
	return g.channels[channel], nil
}

// Snapshot returns copies of all channels.
func (g *Governor) Snapshot() []Channel {
	g.lock.Lock()
	defer g.lock.Unlock()
	return append([]Channel(nil), g.channels[:]...)
}

// Settled determines if all channels reached their targets.
func (g *Governor) Settled() bool {
	g.lock.Lock()
	defer g.lock.Unlock()
	for _, ch := range g.channels {
		if !ch.Settled() {
			return false
		}
	}
	return true
}

func (g *Governor) tick(ch *Channel) error {
	if ch.Current == ch.Target {
		return nil
	}
	step := ch.Target - ch.Current
	if step > g.config.JerkMax {
		step = g.config.JerkMax
	} else if step < -g.config.JerkMax {
		step = -g.config.JerkMax
	}
	ch.Current += step
	return g.write(ch)
}

func (g *Governor) write(ch *Channel) error {
	if g.Driver == nil {
		return nil
	}
	if err := g.Driver.WritePulse(ch.Index, ch.Output(g.config.ESCCenter)); err != nil {
		return fmt.Errorf("thruster %d: %v", ch.Index, err)
	}
	return nil
}
