//go:build !linux

package pca9685

// Open is not available on this platform.
func (c *Config) Open() (*Device, error) {
	return nil, ErrUnsupported
}
