// Package rpio drives the vehicle peripherals from Raspberry Pi GPIO.
// The SoC has only two hardware PWM channels, so the thrusters are
// driven by the pca9685 package instead.
package rpio

import (
	"fmt"
	"sync"
	"time"

	"github.com/golang/glog"
	gpio "github.com/stianeikeland/go-rpio/v4"
)

// Config is the BCM pin assignment.
type Config struct {
	CameraPins [3]int
	LEDPin     int
	// ThermalPath reports the SoC temperature in millidegrees Celsius.
	ThermalPath string
}

// DefaultConfig returns the pin assignment of the reference vehicle.
func DefaultConfig() Config {
	return Config{
		CameraPins:  [3]int{5, 6, 26},
		LEDPin:      16,
		ThermalPath: "/sys/class/thermal/thermal_zone0/temp",
	}
}

// Validate rejects pins assigned twice.
func (c Config) Validate() error {
	used := map[int]bool{c.LEDPin: true}
	for _, n := range c.CameraPins {
		if used[n] {
			return fmt.Errorf("pin %d assigned twice", n)
		}
		used[n] = true
	}
	return nil
}

// Board implements hw.CameraMux, hw.Indicator and hw.SensorSource.
type Board struct {
	camera      [3]gpio.Pin
	led         gpio.Pin
	thermalPath string

	blinkLock  sync.Mutex
	blinkTimer *time.Timer
}

// Open maps GPIO memory and configures the pins.
func Open(cfg Config) (*Board, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := gpio.Open(); err != nil {
		return nil, fmt.Errorf("open gpio: %v", err)
	}
	b := &Board{led: gpio.Pin(cfg.LEDPin), thermalPath: cfg.ThermalPath}
	for i, n := range cfg.CameraPins {
		b.camera[i] = gpio.Pin(n)
		b.camera[i].Output()
	}
	b.led.Output()
	b.led.Low()
	return b, nil
}

// Close releases GPIO.
func (b *Board) Close() error {
	b.blinkLock.Lock()
	if b.blinkTimer != nil {
		b.blinkTimer.Stop()
	}
	b.led.Low()
	b.blinkLock.Unlock()
	return gpio.Close()
}

// SelectCamera implements hw.CameraMux. The index is presented
// as a 3-bit address on the mux select lines.
func (b *Board) SelectCamera(index int) error {
	for bit, pin := range b.camera {
		if index&(1<<uint(bit)) != 0 {
			pin.High()
		} else {
			pin.Low()
		}
	}
	glog.V(2).Infof("camera %d selected", index)
	return nil
}

// Blink implements hw.Indicator.
func (b *Board) Blink(d time.Duration) {
	b.blinkLock.Lock()
	defer b.blinkLock.Unlock()
	if b.blinkTimer != nil {
		b.blinkTimer.Stop()
	}
	b.led.High()
	b.blinkTimer = time.AfterFunc(d, func() {
		b.led.Low()
	})
}
