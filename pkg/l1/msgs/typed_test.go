package msgs

import (
	"testing"

	"github.com/stretchr/testify/require"

	fx "github.com/robotalks/rov.go/pkg/framework"
)

func TestTypedEncodeDecode(t *testing.T) {
	status := &ThrusterStatus{Thrusters: []*ThrusterState{
		{Channel: 0, CurrentUs: 1500, TargetUs: 1500, Direction: 1},
		{Channel: 2, CurrentUs: 1540, TargetUs: 1896, Direction: -1},
	}}
	typed, err := TypedFrom(status)
	require.NoError(t, err)
	require.True(t, typed.IsEvent())
	typed.Sequence = 7

	data, err := typed.Encode()
	require.NoError(t, err)
	decoded, err := DecodeTyped(data)
	require.NoError(t, err)
	require.Equal(t, ThrusterStatusTypeID, decoded.TypeId)
	require.Equal(t, uint32(7), decoded.Sequence)

	msg, err := decoded.Decode()
	require.NoError(t, err)
	got, ok := msg.(*ThrusterStatus)
	require.True(t, ok)
	require.Len(t, got.Thrusters, 2)
	require.Equal(t, uint32(2), got.Thrusters[1].Channel)
	require.Equal(t, uint32(1896), got.Thrusters[1].TargetUs)
	require.Equal(t, int32(-1), got.Thrusters[1].Direction)
}

func TestTypedKinds(t *testing.T) {
	for typeID, msgType := range MessageTypes {
		require.Equal(t, typeID, msgType.TypeID())
		typed := &Typed{TypeId: typeID}
		if typeID == ThrusterStatusTypeID {
			require.True(t, typed.IsEvent(), "%x", typeID)
		} else {
			require.True(t, typed.IsCommand(), "%x", typeID)
		}
	}
}

func TestTypedUnknown(t *testing.T) {
	_, err := (&Typed{TypeId: GroupCustom | 1}).Decode()
	require.Error(t, err)
	require.IsType(t, &ErrUnknownType{}, err)

	_, err = TypedFrom(&notSerializable{})
	require.Equal(t, ErrNotSerializable, err)
}

func TestCommandErr(t *testing.T) {
	err := NewCommandErr(ErrUnsupportedCommand)
	require.Equal(t, "unsupported command", err.Error())
	typed, e := TypedFrom(err)
	require.NoError(t, e)
	msg, e := typed.Decode()
	require.NoError(t, e)
	require.Equal(t, err, msg)
}

type notSerializable struct{}

func (m *notSerializable) NewMessage() fx.Message { return &notSerializable{} }
