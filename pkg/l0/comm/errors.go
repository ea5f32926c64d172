package comm

import (
	"errors"
	"fmt"
)

var (
	// ErrFrameSize indicates the input is not exactly one frame.
	ErrFrameSize = errors.New("invalid frame size")
	// ErrNoReply indicates no reply received from peer.
	// This happens when a reply is received for a latter command, and all
	// previous commands fail with this error.
	ErrNoReply = errors.New("no reply")
)

// ChecksumError reports a corrupted frame.
type ChecksumError struct {
	Expected byte
	Actual   byte
}

// Error implements error.
func (e *ChecksumError) Error() string {
	return fmt.Sprintf("checksum mismatch: expect %x, got %x", e.Expected, e.Actual)
}

// IsChecksumError determines if err is a checksum mismatch.
func IsChecksumError(err error) bool {
	var e *ChecksumError
	return errors.As(err, &e)
}

// CommandError is built from an INVALID reply.
type CommandError struct {
	Code  byte
	Value byte
}

// Error implements error.
func (e *CommandError) Error() string {
	return fmt.Sprintf("command %s rejected (value %d)", CommandName(e.Code), e.Value)
}
