//go:build !linux

package gamepad

// Open is not available on this platform.
func Open(index int) (Device, error) {
	return nil, ErrUnsupported
}

// Detect is not available on this platform.
func Detect() (Device, error) {
	return nil, ErrUnsupported
}
