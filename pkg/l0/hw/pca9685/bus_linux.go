//go:build linux

package pca9685

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// I2C_SLAVE from linux/i2c-dev.h.
const i2cSlave = 0x0703

// Open opens the I2C bus and configures the controller.
func (c *Config) Open() (*Device, error) {
	f, err := os.OpenFile(c.Bus, os.O_RDWR, 0)
	if err != nil {
		return nil, err
	}
	if err := unix.IoctlSetInt(int(f.Fd()), i2cSlave, c.Address); err != nil {
		f.Close()
		return nil, fmt.Errorf("%s: select 0x%x: %w", c.Bus, c.Address, err)
	}
	d, err := New(f, c)
	if err != nil {
		f.Close()
		return nil, err
	}
	return d, nil
}
