package thruster

import (
	"flag"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/robotalks/rov.go/pkg/l0/hw"
)

// Config defines the governor parameters.
type Config struct {
	ESCMin    int
	ESCCenter int
	ESCMax    int
	// Deadband is the half width of the window around ESCCenter
	// snapped to ESCCenter.
	Deadband int
	// JerkMax is the maximum pulse change per tick.
	JerkMax    int
	TickPeriod time.Duration

	InputCenter    int
	InputHalfRange int
	// GovDelta limits the raw input to InputCenter±GovDelta.
	GovDelta int

	Directions Directions
}

// Directions holds the wiring direction of each channel.
type Directions [NumChannels]int

// String implements flag.Value.
func (d *Directions) String() string {
	strs := make([]string, len(d))
	for i, v := range d {
		strs[i] = strconv.Itoa(v)
	}
	return strings.Join(strs, ",")
}

// Set implements flag.Value.
func (d *Directions) Set(val string) error {
	strs := strings.Split(val, ",")
	if len(strs) != NumChannels {
		return fmt.Errorf("expect %d directions, got %d", NumChannels, len(strs))
	}
	var dirs Directions
	for i, str := range strs {
		v, err := strconv.Atoi(strings.TrimSpace(str))
		if err != nil {
			return err
		}
		if v != 1 && v != -1 {
			return fmt.Errorf("direction must be 1 or -1: %d", v)
		}
		dirs[i] = v
	}
	*d = dirs
	return nil
}

var defaultConfig = Config{
	ESCMin:         1100,
	ESCCenter:      1500,
	ESCMax:         1900,
	Deadband:       25,
	JerkMax:        20,
	TickPeriod:     50 * time.Millisecond,
	InputCenter:    127,
	InputHalfRange: 127,
	GovDelta:       127,
	Directions:     Directions{1, 1, 1, 1, 1, 1},
}

// SetupFlags sets command line flags.
func SetupFlags() {
	flag.IntVar(&defaultConfig.Deadband, "deadband", defaultConfig.Deadband, "Deadband around center pulse in microseconds")
	flag.IntVar(&defaultConfig.JerkMax, "jerk", defaultConfig.JerkMax, "Maximum pulse change per tick in microseconds")
	flag.DurationVar(&defaultConfig.TickPeriod, "tick", defaultConfig.TickPeriod, "Governor tick period")
	flag.IntVar(&defaultConfig.GovDelta, "gov-delta", defaultConfig.GovDelta, "Maximum raw input offset from center")
	flag.Var(&defaultConfig.Directions, "thruster-dirs", "Comma separated thruster directions (1 or -1)")
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

// Validate checks the parameters.
func (c *Config) Validate() error {
	if c.ESCMin >= c.ESCCenter || c.ESCCenter >= c.ESCMax {
		return fmt.Errorf("invalid ESC range %d/%d/%d", c.ESCMin, c.ESCCenter, c.ESCMax)
	}
	if c.JerkMax <= 0 {
		return fmt.Errorf("jerk must be positive: %d", c.JerkMax)
	}
	if c.TickPeriod <= 0 {
		return fmt.Errorf("tick period must be positive: %v", c.TickPeriod)
	}
	if c.InputHalfRange <= 0 || c.GovDelta < 0 {
		return fmt.Errorf("invalid input range %d/%d", c.InputHalfRange, c.GovDelta)
	}
	if c.Deadband < 0 {
		return fmt.Errorf("deadband must not be negative: %d", c.Deadband)
	}
	return nil
}

// NewGovernor creates a Governor using the config.
func (c *Config) NewGovernor(driver hw.ThrusterDriver) (*Governor, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return NewGovernor(*c, driver), nil
}
