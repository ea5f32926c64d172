package pilot

import (
	"flag"
	"time"

	"github.com/robotalks/rov.go/pkg/l1"
	"github.com/robotalks/rov.go/pkg/pilot/gamepad"
)

// Config defines the configurations for the pilot.
type Config struct {
	// DeviceIndex selects /dev/input/jsN, -1 for auto detection.
	DeviceIndex int
	DeadZone    int
	// Period is the minimum interval between drive commands.
	Period  time.Duration
	Cameras int
	Verbose bool
}

var defaultConfig = Config{
	DeviceIndex: -1,
	DeadZone:    5,
	Period:      50 * time.Millisecond,
	Cameras:     2,
}

// SetupFlags sets command line flags.
func SetupFlags() {
	flag.IntVar(&defaultConfig.DeviceIndex, "device", defaultConfig.DeviceIndex, "Gamepad index, -1 for auto detection.")
	flag.IntVar(&defaultConfig.DeadZone, "dead-zone", defaultConfig.DeadZone, "Stick dead zone in percent.")
	flag.DurationVar(&defaultConfig.Period, "period", defaultConfig.Period, "Minimum interval between drive commands.")
	flag.IntVar(&defaultConfig.Cameras, "cameras", defaultConfig.Cameras, "Number of cameras to cycle through.")
	flag.BoolVar(&defaultConfig.Verbose, "verbose", defaultConfig.Verbose, "Log gamepad events.")
}

// Default gets default config.
func Default() *Config {
	return &defaultConfig
}

// NewConfig creates a config with defaults.
func NewConfig() *Config {
	conf := defaultConfig
	return &conf
}

// NewPilot creates a pilot using the config.
func (c *Config) NewPilot(conn l1.ControllerConn) *Pilot {
	p := NewPilot(conn)
	p.Mapper.DeadZone = c.DeadZone
	p.Period = c.Period
	p.Cameras = c.Cameras
	p.Verbose = c.Verbose
	if index := c.DeviceIndex; index >= 0 {
		p.Open = func() (gamepad.Device, error) { return gamepad.Open(index) }
	}
	return p
}
