package vehicle

import (
	"flag"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/golang/glog"
	"github.com/tarm/serial"
)

// Config defines the link transport and daemon options.
type Config struct {
	// Port is the serial device carrying the frame link.
	Port string
	Baud int
	// FrameGap drops partial frames after this idle time, 0 disables.
	FrameGap time.Duration
	// MetricsAddr serves /metrics when not empty.
	MetricsAddr string
	// DryRun uses the simulated board instead of GPIO.
	DryRun bool
}

var defaultConfig = Config{
	Port:     "/dev/ttyAMA0",
	Baud:     115200,
	FrameGap: 200 * time.Millisecond,
}

func init() {
	if val := os.Getenv("ROV_SERIAL_PORT"); val != "" {
		defaultConfig.Port = val
	}
	if val := os.Getenv("ROV_SERIAL_BAUD"); val != "" {
		if baud, err := strconv.Atoi(val); err == nil && baud > 0 {
			defaultConfig.Baud = baud
		} else {
			glog.Warningf("ignore invalid ROV_SERIAL_BAUD %q", val)
		}
	}
	if val := os.Getenv("ROV_METRICS_ADDR"); val != "" {
		defaultConfig.MetricsAddr = val
	}
}

// SetupFlags sets command line flags.
func SetupFlags() {
	flag.StringVar(&defaultConfig.Port, "port", defaultConfig.Port, "Serial port of the frame link")
	flag.IntVar(&defaultConfig.Baud, "baud", defaultConfig.Baud, "Serial baud rate")
	flag.DurationVar(&defaultConfig.FrameGap, "frame-gap", defaultConfig.FrameGap, "Drop partial frames after this idle time, 0 to disable")
	flag.StringVar(&defaultConfig.MetricsAddr, "metrics-addr", defaultConfig.MetricsAddr, "Listen address for /metrics, empty to disable")
	flag.BoolVar(&defaultConfig.DryRun, "dry-run", defaultConfig.DryRun, "Use simulated hardware")
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

// OpenPort opens the serial port. Reads block without timeout.
func (c *Config) OpenPort() (io.ReadWriteCloser, error) {
	glog.Infof("open %s at %d baud", c.Port, c.Baud)
	return serial.OpenPort(&serial.Config{
		Name:   c.Port,
		Baud:   c.Baud,
		Parity: serial.ParityNone,
	})
}
