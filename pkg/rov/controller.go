// Package rov is the L1 controller of the vehicle.
//
// L1 commands are converted to wire frames and run through the same
// Dispatcher as frames from the serial link, so the governor rules are
// identical on both paths. Thruster state changes are published as
// ThrusterStatus events, throttled by a rate limiter.
package rov

import (
	"fmt"
	"time"

	"github.com/golang/glog"
	"golang.org/x/time/rate"

	fx "github.com/robotalks/rov.go/pkg/framework"
	"github.com/robotalks/rov.go/pkg/l0/comm"
	"github.com/robotalks/rov.go/pkg/l0/thruster"
	"github.com/robotalks/rov.go/pkg/l0/vehicle"
	"github.com/robotalks/rov.go/pkg/l1"
	"github.com/robotalks/rov.go/pkg/l1/msgs"
)

// ControllerType is the L1 controller type of the vehicle.
const ControllerType = "rov"

// DefaultStatusInterval is the minimum interval between status events.
const DefaultStatusInterval = 200 * time.Millisecond

// Controller handles L1 commands for the vehicle.
type Controller struct {
	Dispatcher *vehicle.Dispatcher
	Registrar  l1.Registrar
	Limiter    *rate.Limiter

	published []thruster.Channel
}

// NewController creates a Controller. reg may be nil to disable events.
func NewController(d *vehicle.Dispatcher, reg l1.Registrar) *Controller {
	return &Controller{
		Dispatcher: d,
		Registrar:  reg,
		Limiter:    rate.NewLimiter(rate.Every(DefaultStatusInterval), 1),
	}
}

// AddToLoop implements LoopAdder.
func (c *Controller) AddToLoop(loop *fx.Loop) {
	loop.AddController(fx.PrLvControl, fx.ControlFunc(c.HandleCommands))
	loop.AddController(fx.PrLvPostProc, fx.ControlFunc(c.PublishStatus))
}

// HandleCommands processes L1 commands posted to the loop. Unknown
// commands are left for comm.UnsupportedCommands.
func (c *Controller) HandleCommands(cc fx.ControlContext) error {
	cc.Messages().ProcessMessages(fx.ProcessMessageFunc(func(mctx fx.MessageProcessingContext) {
		cmdMsg, ok := mctx.CurrentMessage().(*l1.CommandMsg)
		if !ok {
			return
		}
		reply, handled := c.Execute(cmdMsg.Command.Msg())
		if !handled {
			return
		}
		mctx.MessageTaken()
		if err := cmdMsg.Command.Done(reply); err != nil {
			glog.Errorf("reply %T error: %v", cmdMsg.Command.Msg(), err)
		}
	}))
	return nil
}

// Execute runs a single L1 command and returns the reply.
func (c *Controller) Execute(msg fx.Message) (reply fx.Message, handled bool) {
	var err error
	switch m := msg.(type) {
	case *msgs.ThrusterSet:
		reply, err = c.thrusterSet(m)
	case *msgs.ThrusterDrive:
		err = c.drive(Axes{X: int(m.X), Y: int(m.Y), Z: int(m.Z), Yaw: int(m.Yaw), Roll: int(m.Roll)})
	case *msgs.ThrusterStop:
		err = c.stop()
	case *msgs.ThrusterStatusQuery:
		reply = &msgs.ThrusterStatusReply{Thrusters: c.states(c.Dispatcher.Governor.Snapshot())}
	case *msgs.CameraSelect:
		err = c.camera(m.Index)
	case *msgs.Blink:
		_, err = c.dispatch(comm.CmdBlink, 0, comm.BlinkValue(time.Duration(m.DurationMs)*time.Millisecond))
	default:
		return nil, false
	}
	if err != nil {
		return msgs.NewCommandErr(err), true
	}
	if reply == nil {
		reply = msgs.NewCommandOK()
	}
	return reply, true
}

// dispatch runs a frame through the Dispatcher and converts an INVALID
// reply into an error.
func (c *Controller) dispatch(cmd, v1, v2 byte) (comm.Frame, error) {
	reply := c.Dispatcher.Dispatch(comm.Frame{Command: cmd, Value1: v1, Value2: v2})
	if reply.Command == comm.CmdInvalid {
		return reply, &comm.CommandError{Code: reply.Value2, Value: reply.Value1}
	}
	return reply, nil
}

func (c *Controller) thrusterSet(m *msgs.ThrusterSet) (fx.Message, error) {
	if m.Channel >= thruster.NumChannels {
		return nil, fmt.Errorf("%w: %d", thruster.ErrInvalidChannel, m.Channel)
	}
	if m.Raw > 0xff {
		return nil, fmt.Errorf("raw value out of range: %d", m.Raw)
	}
	reply, err := c.dispatch(comm.CmdSetMotor, byte(m.Channel), byte(m.Raw))
	if err != nil {
		return nil, err
	}
	return &msgs.ThrusterSetReply{Channel: m.Channel, Applied: uint32(reply.Value2)}, nil
}

func (c *Controller) drive(a Axes) error {
	for ch, raw := range MixRaw(a) {
		if _, err := c.dispatch(comm.CmdSetMotor, byte(ch), raw); err != nil {
			return err
		}
	}
	return nil
}

func (c *Controller) stop() error {
	center := byte(c.Dispatcher.Governor.Config().InputCenter)
	for ch := 0; ch < thruster.NumChannels; ch++ {
		if _, err := c.dispatch(comm.CmdSetMotor, byte(ch), center); err != nil {
			return err
		}
	}
	return nil
}

func (c *Controller) camera(index uint32) error {
	if index > vehicle.CameraSelectMask {
		return fmt.Errorf("camera index out of range: %d", index)
	}
	_, err := c.dispatch(comm.CmdSetCamera, byte(index), 0)
	return err
}

func (c *Controller) states(channels []thruster.Channel) []*msgs.ThrusterState {
	states := make([]*msgs.ThrusterState, len(channels))
	for i, ch := range channels {
		states[i] = &msgs.ThrusterState{
			Channel:   uint32(ch.Index),
			CurrentUs: uint32(ch.Current),
			TargetUs:  uint32(ch.Target),
			Direction: int32(ch.Direction),
		}
	}
	return states
}

func sameChannels(a, b []thruster.Channel) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// PublishStatus sends a ThrusterStatus event when thruster state
// changed since the last published one. Changes skipped by the limiter
// are sent on a later iteration.
func (c *Controller) PublishStatus(cc fx.ControlContext) error {
	if c.Registrar == nil {
		return nil
	}
	channels := c.Dispatcher.Governor.Snapshot()
	if sameChannels(channels, c.published) || !c.Limiter.AllowN(cc.Time(), 1) {
		return nil
	}
	c.published = channels
	return c.Registrar.SendEvent(cc.Context(), &msgs.ThrusterStatus{Thrusters: c.states(channels)})
}
