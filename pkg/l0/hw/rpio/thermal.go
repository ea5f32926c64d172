package rpio

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/robotalks/rov.go/pkg/l0/hw"
)

// SensorCPUTemp is the sensor id of the SoC temperature in Celsius.
const SensorCPUTemp byte = 0

// ReadSensor implements hw.SensorSource.
func (b *Board) ReadSensor(id byte) (byte, error) {
	if id != SensorCPUTemp || b.thermalPath == "" {
		return 0, hw.ErrUnknownSensor
	}
	return ReadCelsius(b.thermalPath)
}

// ReadCelsius reads a sysfs thermal zone and returns whole degrees,
// limited to 0..255.
func ReadCelsius(path string) (byte, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	milli, err := strconv.Atoi(strings.TrimSpace(string(raw)))
	if err != nil {
		return 0, fmt.Errorf("%s: %w", path, err)
	}
	c := milli / 1000
	switch {
	case c < 0:
		c = 0
	case c > 0xff:
		c = 0xff
	}
	return byte(c), nil
}
