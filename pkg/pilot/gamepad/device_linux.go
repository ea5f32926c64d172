//go:build linux

package gamepad

import (
	"bytes"
	"fmt"
	"os"
	"unsafe"

	"golang.org/x/sys/unix"
)

const (
	// JSIOCGNAME(256)
	jsIOCGNAME256 = 0x81006a13

	// MaxDevices bounds Detect.
	MaxDevices = 32
)

type device struct {
	file  *os.File
	index int
	name  string
}

// Open opens /dev/input/js<index>.
func Open(index int) (Device, error) {
	f, err := os.OpenFile(fmt.Sprintf("/dev/input/js%d", index), os.O_RDONLY, 0)
	if err != nil {
		return nil, err
	}
	d := &device{file: f, index: index}
	var name [256]byte
	if err := d.ioctl(jsIOCGNAME256, unsafe.Pointer(&name[0])); err != nil {
		f.Close()
		return nil, fmt.Errorf("js%d: query name: %w", index, err)
	}
	if pos := bytes.IndexByte(name[:], 0); pos >= 0 {
		d.name = string(name[:pos])
	} else {
		d.name = string(name[:])
	}
	return d, nil
}

// Detect opens the first device present, or returns nil when none is.
func Detect() (Device, error) {
	for index := 0; index < MaxDevices; index++ {
		d, err := Open(index)
		if os.IsNotExist(err) {
			continue
		}
		return d, err
	}
	return nil, nil
}

func (d *device) Close() error {
	return d.file.Close()
}

func (d *device) Index() int {
	return d.index
}

func (d *device) Name() string {
	return d.name
}

func (d *device) ReadEvent() (Event, error) {
	return ReadEvent(d.file)
}

func (d *device) ioctl(req uintptr, ptr unsafe.Pointer) error {
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, d.file.Fd(), req, uintptr(ptr))
	if errno != 0 {
		return errno
	}
	return nil
}
