package msgs

import (
	"github.com/golang/protobuf/proto"

	fx "github.com/robotalks/rov.go/pkg/framework"
)

// ThrusterSet sets the raw input of one thruster, same as SET_MOTOR on L0.
type ThrusterSet struct {
	Channel uint32 `protobuf:"varint,1,opt,name=channel,proto3" json:"channel,omitempty"`
	Raw     uint32 `protobuf:"varint,2,opt,name=raw,proto3" json:"raw,omitempty"`
}

// NewMessage implements Message.
func (m *ThrusterSet) NewMessage() fx.Message { return &ThrusterSet{} }

// TypeID implements SerializableMessage.
func (m *ThrusterSet) TypeID() uint32 { return ThrusterSetTypeID }

// Serializable implements SerializableMessage.
func (m *ThrusterSet) Serializable() proto.Message { return m }

// ProtoMessage implements proto.Message.
func (m *ThrusterSet) ProtoMessage() {}

// Reset implements proto.Message.
func (m *ThrusterSet) Reset() { *m = ThrusterSet{} }

// String implements proto.Message.
func (m *ThrusterSet) String() string { return proto.CompactTextString(m) }

// ThrusterSetReply carries the raw value after the governor clamp.
type ThrusterSetReply struct {
	Channel uint32 `protobuf:"varint,1,opt,name=channel,proto3" json:"channel,omitempty"`
	Applied uint32 `protobuf:"varint,2,opt,name=applied,proto3" json:"applied,omitempty"`
}

// NewMessage implements Message.
func (m *ThrusterSetReply) NewMessage() fx.Message { return &ThrusterSetReply{} }

// TypeID implements SerializableMessage.
func (m *ThrusterSetReply) TypeID() uint32 { return ThrusterSetReplyTypeID }

// Serializable implements SerializableMessage.
func (m *ThrusterSetReply) Serializable() proto.Message { return m }

// ProtoMessage implements proto.Message.
func (m *ThrusterSetReply) ProtoMessage() {}

// Reset implements proto.Message.
func (m *ThrusterSetReply) Reset() { *m = ThrusterSetReply{} }

// String implements proto.Message.
func (m *ThrusterSetReply) String() string { return proto.CompactTextString(m) }

// ThrusterDrive drives all thrusters by axis in percent, -100 to 100.
type ThrusterDrive struct {
	X    int32 `protobuf:"varint,1,opt,name=x,proto3" json:"x,omitempty"`
	Y    int32 `protobuf:"varint,2,opt,name=y,proto3" json:"y,omitempty"`
	Z    int32 `protobuf:"varint,3,opt,name=z,proto3" json:"z,omitempty"`
	Yaw  int32 `protobuf:"varint,4,opt,name=yaw,proto3" json:"yaw,omitempty"`
	Roll int32 `protobuf:"varint,5,opt,name=roll,proto3" json:"roll,omitempty"`
}

// NewMessage implements Message.
func (m *ThrusterDrive) NewMessage() fx.Message { return &ThrusterDrive{} }

// TypeID implements SerializableMessage.
func (m *ThrusterDrive) TypeID() uint32 { return ThrusterDriveTypeID }

// Serializable implements SerializableMessage.
func (m *ThrusterDrive) Serializable() proto.Message { return m }

// ProtoMessage implements proto.Message.
func (m *ThrusterDrive) ProtoMessage() {}

// Reset implements proto.Message.
func (m *ThrusterDrive) Reset() { *m = ThrusterDrive{} }

// String implements proto.Message.
func (m *ThrusterDrive) String() string { return proto.CompactTextString(m) }

// ThrusterStop sets all thrusters to neutral.
type ThrusterStop struct {
}

// NewMessage implements Message.
func (m *ThrusterStop) NewMessage() fx.Message { return &ThrusterStop{} }

// TypeID implements SerializableMessage.
func (m *ThrusterStop) TypeID() uint32 { return ThrusterStopTypeID }

// Serializable implements SerializableMessage.
func (m *ThrusterStop) Serializable() proto.Message { return m }

// ProtoMessage implements proto.Message.
func (m *ThrusterStop) ProtoMessage() {}

// Reset implements proto.Message.
func (m *ThrusterStop) Reset() { *m = ThrusterStop{} }

// String implements proto.Message.
func (m *ThrusterStop) String() string { return proto.CompactTextString(m) }

// ThrusterStatusQuery queries the state of all thrusters.
type ThrusterStatusQuery struct {
}

// NewMessage implements Message.
func (m *ThrusterStatusQuery) NewMessage() fx.Message { return &ThrusterStatusQuery{} }

// TypeID implements SerializableMessage.
func (m *ThrusterStatusQuery) TypeID() uint32 { return ThrusterStatusQueryTypeID }

// Serializable implements SerializableMessage.
func (m *ThrusterStatusQuery) Serializable() proto.Message { return m }

// ProtoMessage implements proto.Message.
func (m *ThrusterStatusQuery) ProtoMessage() {}

// Reset implements proto.Message.
func (m *ThrusterStatusQuery) Reset() { *m = ThrusterStatusQuery{} }

// String implements proto.Message.
func (m *ThrusterStatusQuery) String() string { return proto.CompactTextString(m) }

// ThrusterState is the state of a single thruster.
type ThrusterState struct {
	Channel   uint32 `protobuf:"varint,1,opt,name=channel,proto3" json:"channel,omitempty"`
	CurrentUs uint32 `protobuf:"varint,2,opt,name=current_us,json=currentUs,proto3" json:"current_us,omitempty"`
	TargetUs  uint32 `protobuf:"varint,3,opt,name=target_us,json=targetUs,proto3" json:"target_us,omitempty"`
	Direction int32  `protobuf:"varint,4,opt,name=direction,proto3" json:"direction,omitempty"`
}

// ProtoMessage implements proto.Message.
func (m *ThrusterState) ProtoMessage() {}

// Reset implements proto.Message.
func (m *ThrusterState) Reset() { *m = ThrusterState{} }

// String implements proto.Message.
func (m *ThrusterState) String() string { return proto.CompactTextString(m) }

// ThrusterStatusReply is the response for ThrusterStatusQuery.
type ThrusterStatusReply struct {
	Thrusters []*ThrusterState `protobuf:"bytes,1,rep,name=thrusters,proto3" json:"thrusters,omitempty"`
}

// NewMessage implements Message.
func (m *ThrusterStatusReply) NewMessage() fx.Message { return &ThrusterStatusReply{} }

// TypeID implements SerializableMessage.
func (m *ThrusterStatusReply) TypeID() uint32 { return ThrusterStatusReplyTypeID }

// Serializable implements SerializableMessage.
func (m *ThrusterStatusReply) Serializable() proto.Message { return m }

// ProtoMessage implements proto.Message.
func (m *ThrusterStatusReply) ProtoMessage() {}

// Reset implements proto.Message.
func (m *ThrusterStatusReply) Reset() { *m = ThrusterStatusReply{} }

// String implements proto.Message.
func (m *ThrusterStatusReply) String() string { return proto.CompactTextString(m) }

// ThrusterStatus is an Event message published while thrusters ramp.
type ThrusterStatus struct {
	Thrusters []*ThrusterState `protobuf:"bytes,1,rep,name=thrusters,proto3" json:"thrusters,omitempty"`
}

// NewMessage implements Message.
func (m *ThrusterStatus) NewMessage() fx.Message { return &ThrusterStatus{} }

// TypeID implements SerializableMessage.
func (m *ThrusterStatus) TypeID() uint32 { return ThrusterStatusTypeID }

// Serializable implements SerializableMessage.
func (m *ThrusterStatus) Serializable() proto.Message { return m }

// ProtoMessage implements proto.Message.
func (m *ThrusterStatus) ProtoMessage() {}

// Reset implements proto.Message.
func (m *ThrusterStatus) Reset() { *m = ThrusterStatus{} }

// String implements proto.Message.
func (m *ThrusterStatus) String() string { return proto.CompactTextString(m) }

// CameraSelect switches the video output.
type CameraSelect struct {
	Index uint32 `protobuf:"varint,1,opt,name=index,proto3" json:"index,omitempty"`
}

// NewMessage implements Message.
func (m *CameraSelect) NewMessage() fx.Message { return &CameraSelect{} }

// TypeID implements SerializableMessage.
func (m *CameraSelect) TypeID() uint32 { return CameraSelectTypeID }

// Serializable implements SerializableMessage.
func (m *CameraSelect) Serializable() proto.Message { return m }

// ProtoMessage implements proto.Message.
func (m *CameraSelect) ProtoMessage() {}

// Reset implements proto.Message.
func (m *CameraSelect) Reset() { *m = CameraSelect{} }

// String implements proto.Message.
func (m *CameraSelect) String() string { return proto.CompactTextString(m) }

// Blink flashes the status light.
type Blink struct {
	DurationMs uint32 `protobuf:"varint,1,opt,name=duration_ms,json=durationMs,proto3" json:"duration_ms,omitempty"`
}

// NewMessage implements Message.
func (m *Blink) NewMessage() fx.Message { return &Blink{} }

// TypeID implements SerializableMessage.
func (m *Blink) TypeID() uint32 { return BlinkTypeID }

// Serializable implements SerializableMessage.
func (m *Blink) Serializable() proto.Message { return m }

// ProtoMessage implements proto.Message.
func (m *Blink) ProtoMessage() {}

// Reset implements proto.Message.
func (m *Blink) Reset() { *m = Blink{} }

// String implements proto.Message.
func (m *Blink) String() string { return proto.CompactTextString(m) }
