package gamepad

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDecodeEvent(t *testing.T) {
	ev, err := DecodeEvent([]byte{0x10, 0x27, 0, 0, 0x01, 0x80, 0x02, 0x04})
	require.NoError(t, err)
	require.Equal(t, Event{Time: 10000, Kind: KindAxis, Number: 4, Value: -32767}, ev)

	ev, err = DecodeEvent([]byte{0, 0, 0, 0, 1, 0, 0x81, 0x00})
	require.NoError(t, err)
	require.Equal(t, KindButton, ev.Kind)
	require.True(t, ev.Init)
	require.True(t, ev.Pressed())
	require.Equal(t, "button 0: true (init)", ev.String())

	_, err = DecodeEvent([]byte{0, 0, 0})
	require.Equal(t, io.ErrUnexpectedEOF, err)
}

func TestReadEvent(t *testing.T) {
	r := bytes.NewReader([]byte{
		0, 0, 0, 0, 0xff, 0x7f, 0x02, 0x01,
		0, 0, 0, 0, 0x00, 0x00, 0x01,
	})
	ev, err := ReadEvent(r)
	require.NoError(t, err)
	require.Equal(t, AxisMax, ev.Value)
	require.Equal(t, "axis 1: 32767", ev.String())
	_, err = ReadEvent(r)
	require.Equal(t, io.ErrUnexpectedEOF, err)
}
