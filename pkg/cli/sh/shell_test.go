package sh

import (
	"testing"

	"github.com/abiosoft/ishell"
	"github.com/stretchr/testify/require"

	"github.com/robotalks/rov.go/pkg/l1"
	"github.com/robotalks/rov.go/pkg/l1/msgs"
)

func TestArgParsing(t *testing.T) {
	c := &ishell.Context{Args: []string{"5", "0x10", "-100", "abc", "256"}}
	v, err := ArgUint(c, 0, 5)
	require.NoError(t, err)
	require.Equal(t, uint32(5), v)
	v, err = ArgUint(c, 1, 255)
	require.NoError(t, err)
	require.Equal(t, uint32(16), v)
	_, err = ArgUint(c, 4, 255)
	require.Error(t, err)
	_, err = ArgUint(c, 3, 255)
	require.Error(t, err)

	i, err := ArgInt(c, 2, 100)
	require.NoError(t, err)
	require.Equal(t, int32(-100), i)
	_, err = ArgInt(c, 4, 100)
	require.Error(t, err)
}

func TestFormat(t *testing.T) {
	require.Equal(t, "rov/abc: pool", FormatInfo(l1.ControllerInfo{
		Ref:  l1.ControllerRef{Type: "rov", ID: "abc"},
		Meta: l1.ControllerMeta{Description: "pool"},
	}))
	out, err := FormatMsg(msgs.NewCommandOK(), false)
	require.NoError(t, err)
	require.Equal(t, "OK", out)
	out, err = FormatMsg(&msgs.ThrusterSetReply{Channel: 2, Applied: 254}, true)
	require.NoError(t, err)
	require.JSONEq(t, `{"channel":2,"applied":254}`, out)
}
