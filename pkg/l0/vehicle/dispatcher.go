package vehicle

import (
	"context"
	"time"

	"github.com/golang/glog"

	"github.com/robotalks/rov.go/pkg/l0/comm"
	"github.com/robotalks/rov.go/pkg/l0/hw"
	"github.com/robotalks/rov.go/pkg/l0/thruster"
)

// DefaultBlinkDuration is used when BLINK carries a zero duration.
const DefaultBlinkDuration = 750 * time.Millisecond

// CameraSelectMask keeps the 3 address bits of the camera mux.
const CameraSelectMask = 0x07

// DispatchObserver is notified of every dispatched frame.
type DispatchObserver interface {
	Dispatched(req, reply comm.Frame)
}

// Dispatcher maps a validated frame to an action and a reply frame.
// Every opcode gets a reply, unknown ones the INVALID reply carrying
// the opcode in Value2. Collaborators other than Governor may be nil,
// commands needing them are answered with INVALID.
type Dispatcher struct {
	Governor  *thruster.Governor
	Camera    hw.CameraMux
	Indicator hw.Indicator
	Sensors   hw.SensorSource
	Observer  DispatchObserver
}

// HandleFrame implements comm.FrameHandler.
func (d *Dispatcher) HandleFrame(ctx context.Context, f comm.Frame) *comm.Frame {
	reply := d.Dispatch(f)
	return &reply
}

// Dispatch executes the frame and returns the reply. The reply Seq is
// left to the link.
func (d *Dispatcher) Dispatch(f comm.Frame) comm.Frame {
	var reply comm.Frame
	switch {
	case comm.IsEstablish(f.Command):
		reply = d.establish(f)
	case f.Command == comm.CmdSetMotor:
		reply = d.setMotor(f)
	case f.Command == comm.CmdSetCamera:
		reply = d.setCamera(f)
	case f.Command == comm.CmdReadSensor:
		reply = d.readSensor(f)
	case f.Command == comm.CmdBlink:
		reply = d.blink(f)
	default:
		reply = comm.InvalidReply(0, f.Command)
	}
	glog.V(2).Infof("dispatch %s -> %s", f, reply)
	if o := d.Observer; o != nil {
		o.Dispatched(f, reply)
	}
	return reply
}

func echo(f comm.Frame) comm.Frame {
	return comm.Frame{Command: f.Command, Value1: f.Value1, Value2: f.Value2}
}

func (d *Dispatcher) establish(f comm.Frame) comm.Frame {
	if f.Value1 != comm.MagicValue1 || f.Value2 != comm.MagicValue2 {
		glog.Warningf("establish: bad magic %02x %02x", f.Value1, f.Value2)
		return comm.InvalidReply(f.Value1, f.Command)
	}
	glog.Info("link established")
	return echo(f)
}

func (d *Dispatcher) setMotor(f comm.Frame) comm.Frame {
	channel := int(f.Value1)
	if d.Governor == nil || channel >= thruster.NumChannels {
		return comm.InvalidReply(f.Value1, f.Command)
	}
	applied, err := d.Governor.SetTarget(channel, f.Value2)
	if err != nil {
		glog.Errorf("set motor %d: %v", channel, err)
		return comm.InvalidReply(f.Value1, f.Command)
	}
	return comm.Frame{Command: comm.CmdMotorAck, Value1: f.Value1, Value2: applied}
}

func (d *Dispatcher) setCamera(f comm.Frame) comm.Frame {
	if d.Camera == nil {
		return comm.InvalidReply(f.Value1, f.Command)
	}
	if err := d.Camera.SelectCamera(int(f.Value1 & CameraSelectMask)); err != nil {
		glog.Errorf("select camera %d: %v", f.Value1&CameraSelectMask, err)
		return comm.InvalidReply(f.Value1, f.Command)
	}
	return echo(f)
}

func (d *Dispatcher) readSensor(f comm.Frame) comm.Frame {
	if d.Sensors == nil {
		return comm.InvalidReply(f.Value1, f.Command)
	}
	val, err := d.Sensors.ReadSensor(f.Value1)
	if err != nil {
		glog.V(2).Infof("read sensor %d: %v", f.Value1, err)
		return comm.InvalidReply(f.Value1, f.Command)
	}
	return comm.Frame{Command: f.Command, Value1: f.Value1, Value2: val}
}

// BlinkDuration decodes the BLINK duration byte.
func BlinkDuration(value byte) time.Duration {
	if value == 0 {
		return DefaultBlinkDuration
	}
	return time.Duration(value) * comm.BlinkUnit
}

func (d *Dispatcher) blink(f comm.Frame) comm.Frame {
	if d.Indicator == nil {
		return comm.InvalidReply(f.Value1, f.Command)
	}
	d.Indicator.Blink(BlinkDuration(f.Value2))
	return echo(f)
}
