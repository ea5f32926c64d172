package comm

import (
	"fmt"
	"io"
)

// FrameSize is the fixed length of a frame on the wire.
const FrameSize = 4

// Frame is the unit exchanged over the link.
//
//	byte 0: command
//	byte 1: value1
//	byte 2: value2
//	byte 3: seq<<4 | checksum
type Frame struct {
	Command byte
	Value1  byte
	Value2  byte
	Seq     Seq
}

// Checksum computes the 4-bit checksum of a frame.
func Checksum(command, value1, value2 byte, seq Seq) byte {
	sum := uint(command) + 3*uint(value1) + 5*uint(value2) + 7*uint(seq&seqMask)
	return byte(sum & 0x0f)
}

// Checksum returns the checksum of the frame content.
func (f Frame) Checksum() byte {
	return Checksum(f.Command, f.Value1, f.Value2, f.Seq)
}

// Bytes encodes the frame.
func (f Frame) Bytes() []byte {
	return []byte{
		f.Command,
		f.Value1,
		f.Value2,
		byte(f.Seq&seqMask)<<4 | f.Checksum(),
	}
}

// WriteTo implements io.WriterTo.
func (f Frame) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(f.Bytes())
	return int64(n), err
}

// String implements fmt.Stringer.
func (f Frame) String() string {
	return fmt.Sprintf("%s[%02x %02x]#%d", CommandName(f.Command), f.Value1, f.Value2, f.Seq)
}

// DecodeFrame decodes exactly FrameSize bytes into a Frame.
// A checksum mismatch is reported as *ChecksumError and the frame
// must be discarded.
func DecodeFrame(b []byte) (Frame, error) {
	if len(b) != FrameSize {
		return Frame{}, ErrFrameSize
	}
	f := Frame{
		Command: b[0],
		Value1:  b[1],
		Value2:  b[2],
		Seq:     Seq(b[3] >> 4),
	}
	if sum := b[3] & 0x0f; sum != f.Checksum() {
		return f, &ChecksumError{Expected: f.Checksum(), Actual: sum}
	}
	return f, nil
}
