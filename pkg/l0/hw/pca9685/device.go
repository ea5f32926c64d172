// Package pca9685 drives the ESCs from a PCA9685 PWM controller on I2C.
// Each output has its own counter, so every thruster channel is
// independent of the others.
package pca9685

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/golang/glog"
)

const (
	regMode1     = 0x00
	regMode2     = 0x01
	regLed0OnL   = 0x06
	regAllOffH   = 0xfd
	regPrescale  = 0xfe
	mode1Restart = 0x80
	mode1AutoInc = 0x20
	mode1Sleep   = 0x10
	mode1AllCall = 0x01
	mode2OutDrv  = 0x04
	fullOff      = 0x10

	minPrescale = 3
	maxPrescale = 255

	// NumOutputs is the number of PWM outputs.
	NumOutputs = 16
	// Steps is the counter resolution of one PWM period.
	Steps = 4096

	wakeupDelay = 500 * time.Microsecond
)

// ErrUnsupported is returned when I2C is not available.
var ErrUnsupported = errors.New("i2c not supported on this platform")

// Prescale computes the PRE_SCALE register for a frame rate.
func Prescale(oscHz, frameHz int) int {
	div := Steps * frameHz
	return (oscHz+div/2)/div - 1
}

// Device implements hw.ThrusterDriver.
type Device struct {
	bus      io.Writer
	outputs  Outputs
	oscHz    int
	prescale int
	lock     sync.Mutex
}

// New configures the controller behind bus. Every Write on bus is one
// I2C transaction starting with the register address.
func New(bus io.Writer, conf *Config) (*Device, error) {
	if err := conf.Validate(); err != nil {
		return nil, err
	}
	d := &Device{
		bus:      bus,
		outputs:  append(Outputs(nil), conf.Outputs...),
		oscHz:    conf.OscillatorHz,
		prescale: Prescale(conf.OscillatorHz, conf.FrameHz),
	}
	if err := d.init(); err != nil {
		return nil, fmt.Errorf("init pca9685: %w", err)
	}
	return d, nil
}

func (d *Device) init() error {
	mode := byte(mode1AutoInc | mode1AllCall)
	for _, cmd := range [][]byte{
		{regMode2, mode2OutDrv},
		{regAllOffH, fullOff},
		{regMode1, mode | mode1Sleep},
		{regPrescale, byte(d.prescale)},
		{regMode1, mode},
	} {
		if err := d.write(cmd...); err != nil {
			return err
		}
	}
	time.Sleep(wakeupDelay)
	if err := d.write(regMode1, mode|mode1Restart); err != nil {
		return err
	}
	glog.Infof("pca9685 prescale %d, outputs %s", d.prescale, &d.outputs)
	return nil
}

func (d *Device) write(data ...byte) error {
	d.lock.Lock()
	defer d.lock.Unlock()
	_, err := d.bus.Write(data)
	return err
}

// Ticks converts a pulse width to counter steps.
func (d *Device) Ticks(us int) int {
	ticks := int(int64(us) * int64(d.oscHz) / (int64(d.prescale+1) * 1000000))
	if ticks >= Steps {
		ticks = Steps - 1
	}
	return ticks
}

// WritePulse implements hw.ThrusterDriver. A pulse width not above
// zero turns the output fully off.
func (d *Device) WritePulse(channel, us int) error {
	if channel < 0 || channel >= len(d.outputs) {
		return fmt.Errorf("thruster %d not wired", channel)
	}
	reg := byte(regLed0OnL + 4*d.outputs[channel])
	if us <= 0 {
		return d.write(reg, 0, 0, 0, fullOff)
	}
	off := d.Ticks(us)
	return d.write(reg, 0, 0, byte(off), byte(off>>8))
}

// Close turns all outputs off and closes the bus.
func (d *Device) Close() error {
	err := d.write(regAllOffH, fullOff)
	if closer, ok := d.bus.(io.Closer); ok {
		if e := closer.Close(); err == nil {
			err = e
		}
	}
	return err
}
