package comm

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFrameEncode(t *testing.T) {
	testCases := []struct {
		name   string
		frame  Frame
		expect []byte
	}{
		{
			name:   "establish",
			frame:  Frame{Command: CmdEstablish, Value1: MagicValue1, Value2: MagicValue2},
			expect: []byte{0x00, 0xa5, 0x5a, 0x01},
		},
		{
			name:   "set motor",
			frame:  Frame{Command: CmdSetMotor, Value1: 2, Value2: 200, Seq: 3},
			expect: []byte{0x20, 0x02, 0xc8, 0x33},
		},
		{
			name:   "all zero",
			frame:  Frame{},
			expect: []byte{0, 0, 0, 0},
		},
		{
			name:   "max seq",
			frame:  Frame{Command: CmdInvalid, Value1: 0xff, Value2: 0xff, Seq: 15},
			expect: []byte{0xff, 0xff, 0xff, 0xf0},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.expect, tc.frame.Bytes())
			f, err := DecodeFrame(tc.expect)
			require.NoError(t, err)
			require.Equal(t, tc.frame, f)
		})
	}
}

func TestFrameRoundTripAllSeqs(t *testing.T) {
	for seq := Seq(0); seq <= 15; seq++ {
		for _, v := range []byte{0, 1, 0x7f, 0x80, 0xfe, 0xff} {
			in := Frame{Command: v ^ 0x33, Value1: v, Value2: ^v, Seq: seq}
			out, err := DecodeFrame(in.Bytes())
			require.NoError(t, err)
			require.Equal(t, in, out)
		}
	}
}

func TestFrameDecodeSize(t *testing.T) {
	_, err := DecodeFrame([]byte{1, 2, 3})
	require.Equal(t, ErrFrameSize, err)
	_, err = DecodeFrame([]byte{1, 2, 3, 4, 5})
	require.Equal(t, ErrFrameSize, err)
}

func TestFrameChecksumMismatch(t *testing.T) {
	b := Frame{Command: CmdSetMotor, Value1: 2, Value2: 200, Seq: 3}.Bytes()
	b[3] ^= 0x01
	_, err := DecodeFrame(b)
	require.Error(t, err)
	require.True(t, IsChecksumError(err))
	csErr := err.(*ChecksumError)
	require.Equal(t, byte(3), csErr.Expected)
	require.Equal(t, byte(2), csErr.Actual)
}

func TestFrameLowNibbleFlipsDetected(t *testing.T) {
	frames := []Frame{
		{Command: CmdEstablish, Value1: MagicValue1, Value2: MagicValue2},
		{Command: CmdSetMotor, Value1: 5, Value2: 0xff, Seq: 9},
		{Command: CmdBlink, Value2: 75, Seq: 15},
	}
	for _, f := range frames {
		for pos := 0; pos < FrameSize; pos++ {
			for bit := uint(0); bit < 4; bit++ {
				b := f.Bytes()
				b[pos] ^= 1 << bit
				_, err := DecodeFrame(b)
				require.Truef(t, IsChecksumError(err), "%s byte %d bit %d", f, pos, bit)
			}
		}
		for bit := uint(4); bit < 8; bit++ {
			b := f.Bytes()
			b[FrameSize-1] ^= 1 << bit
			_, err := DecodeFrame(b)
			require.Truef(t, IsChecksumError(err), "%s seq bit %d", f, bit)
		}
	}
}

func TestCommandName(t *testing.T) {
	require.Equal(t, "SET_MOTOR", CommandName(CmdSetMotor))
	require.Equal(t, "CMD_55", CommandName(0x55))
}
