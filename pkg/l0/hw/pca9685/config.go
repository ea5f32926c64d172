package pca9685

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config defines the bus location and the thruster to output mapping.
type Config struct {
	// Bus is the I2C character device.
	Bus     string
	Address int
	// Outputs maps thruster channels to PWM outputs.
	Outputs      Outputs
	OscillatorHz int
	FrameHz      int
}

// Outputs lists the PWM output of each thruster channel.
type Outputs []int

// String implements flag.Value.
func (o *Outputs) String() string {
	strs := make([]string, len(*o))
	for i, v := range *o {
		strs[i] = strconv.Itoa(v)
	}
	return strings.Join(strs, ",")
}

// Set implements flag.Value.
func (o *Outputs) Set(val string) error {
	var outs Outputs
	for _, str := range strings.Split(val, ",") {
		v, err := strconv.Atoi(strings.TrimSpace(str))
		if err != nil {
			return err
		}
		outs = append(outs, v)
	}
	*o = outs
	return nil
}

var defaultConfig = Config{
	Bus:          "/dev/i2c-1",
	Address:      0x40,
	Outputs:      Outputs{0, 1, 2, 3, 4, 5},
	OscillatorHz: 25000000,
	FrameHz:      50,
}

func init() {
	if val := os.Getenv("ROV_PWM_BUS"); val != "" {
		defaultConfig.Bus = val
	}
}

// SetupFlags sets command line flags.
func SetupFlags() {
	flag.StringVar(&defaultConfig.Bus, "pwm-bus", defaultConfig.Bus, "I2C device of the PWM controller")
	flag.IntVar(&defaultConfig.Address, "pwm-addr", defaultConfig.Address, "I2C address of the PWM controller")
	flag.Var(&defaultConfig.Outputs, "pwm-outputs", "Comma separated PWM output of each thruster")
}

// Default gets default config.
func Default() *Config {
	return &defaultConfig
}

// NewConfig creates a config with defaults.
func NewConfig() *Config {
	conf := defaultConfig
	conf.Outputs = append(Outputs(nil), defaultConfig.Outputs...)
	return &conf
}

// Validate checks the parameters. Every thruster must own its output.
func (c *Config) Validate() error {
	if c.Address < 0 || c.Address > 0x7f {
		return fmt.Errorf("invalid I2C address 0x%x", c.Address)
	}
	if c.OscillatorHz <= 0 || c.FrameHz <= 0 {
		return fmt.Errorf("invalid clock %d/%d", c.OscillatorHz, c.FrameHz)
	}
	if p := Prescale(c.OscillatorHz, c.FrameHz); p < minPrescale || p > maxPrescale {
		return fmt.Errorf("frame rate %dHz out of range", c.FrameHz)
	}
	owners := make(map[int]int)
	for ch, out := range c.Outputs {
		if out < 0 || out >= NumOutputs {
			return fmt.Errorf("thruster %d: invalid output %d", ch, out)
		}
		if prev, ok := owners[out]; ok {
			return fmt.Errorf("thrusters %d and %d share output %d", prev, ch, out)
		}
		owners[out] = ch
	}
	return nil
}
