// Package pilot drives a vehicle from a gamepad over an L1 connection.
package pilot

import (
	"context"
	"time"

	"github.com/golang/glog"

	fx "github.com/robotalks/rov.go/pkg/framework"
	"github.com/robotalks/rov.go/pkg/l1"
	"github.com/robotalks/rov.go/pkg/l1/msgs"
	"github.com/robotalks/rov.go/pkg/pilot/gamepad"
	"github.com/robotalks/rov.go/pkg/rov"
)

// OpenFunc opens a gamepad. A nil device with nil error means none found.
type OpenFunc func() (gamepad.Device, error)

// Pilot forwards gamepad input to the vehicle.
type Pilot struct {
	Conn    l1.ControllerConn
	Open    OpenFunc
	Mapper  *Mapper
	Period  time.Duration
	Cameras int
	Verbose bool

	device    gamepad.Device
	eventCh   chan gamepad.Event
	openTimer <-chan time.Time

	camera uint32
	sent   rov.Axes
	dirty  bool
}

// NewPilot creates a Pilot using the first gamepad found.
func NewPilot(conn l1.ControllerConn) *Pilot {
	return &Pilot{
		Conn:    conn,
		Open:    gamepad.Detect,
		Mapper:  NewMapper(defaultConfig.DeadZone),
		Period:  defaultConfig.Period,
		Cameras: defaultConfig.Cameras,
	}
}

// AddToLoop implements LoopAdder.
func (p *Pilot) AddToLoop(loop *fx.Loop) {
	loop.AddRunnable(fx.NamedRun("gamepad", p))
	loop.AddController(fx.PrLvControl, p)
	loop.AddController(fx.PrLvAcuate, fx.Every(p.Period, fx.ControlFunc(p.drive)))
}

// Run implements Runnable. It keeps a gamepad open and posts its events
// to the loop.
func (p *Pilot) Run(ctx context.Context) error {
	defer func() {
		if p.device != nil {
			p.device.Close()
		}
	}()
	loopCtl := fx.LoopCtlFrom(ctx)
	p.openTimer = time.After(0)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-p.openTimer:
			p.openTimer = nil
			dev, err := p.Open()
			if err != nil {
				glog.Warningf("open gamepad: %v", err)
			}
			if dev == nil {
				p.openTimer = time.After(time.Second)
				continue
			}
			glog.Infof("gamepad %d %q opened", dev.Index(), dev.Name())
			p.device, p.eventCh = dev, make(chan gamepad.Event, 1)
			go p.poll(ctx, dev, p.eventCh)
		case ev, ok := <-p.eventCh:
			if ok {
				loopCtl.PostMessage(&eventMsg{event: ev})
			} else {
				loopCtl.PostMessage(&eventMsg{lost: true})
				p.device.Close()
				p.device, p.eventCh = nil, nil
				p.openTimer = time.After(time.Second)
			}
			loopCtl.TriggerNext()
		}
	}
}

func (p *Pilot) poll(ctx context.Context, dev gamepad.Device, ch chan<- gamepad.Event) {
	defer close(ch)
	for {
		ev, err := dev.ReadEvent()
		if err != nil {
			glog.Warningf("gamepad read: %v", err)
			return
		}
		if p.Verbose {
			glog.Info(ev)
		}
		select {
		case ch <- ev:
		case <-ctx.Done():
			return
		}
	}
}

// Control implements Controller.
func (p *Pilot) Control(cc fx.ControlContext) error {
	cc.Messages().ProcessMessages(fx.ProcessMessageFunc(func(mctx fx.MessageProcessingContext) {
		msg, ok := mctx.CurrentMessage().(*eventMsg)
		if !ok {
			return
		}
		mctx.MessageTaken()
		if msg.lost {
			glog.Warning("gamepad lost, stopping thrusters")
			p.Mapper.Reset()
			p.stop()
			return
		}
		switch p.Mapper.Apply(msg.event) {
		case ActionDrive:
			p.dirty = p.Mapper.Axes() != p.sent
		case ActionStop:
			p.stop()
		case ActionNextCamera:
			if p.Cameras > 0 {
				p.camera = (p.camera + 1) % uint32(p.Cameras)
				p.do(&msgs.CameraSelect{Index: p.camera})
			}
		case ActionBlink:
			p.do(&msgs.Blink{})
		}
	}))
	return nil
}

func (p *Pilot) drive(cc fx.ControlContext) error {
	if !p.dirty {
		return nil
	}
	a := p.Mapper.Axes()
	p.sent, p.dirty = a, false
	p.do(&msgs.ThrusterDrive{
		X:    int32(a.X),
		Y:    int32(a.Y),
		Z:    int32(a.Z),
		Yaw:  int32(a.Yaw),
		Roll: int32(a.Roll),
	})
	return nil
}

func (p *Pilot) stop() {
	p.sent, p.dirty = rov.Axes{}, false
	p.do(&msgs.ThrusterStop{})
}

func (p *Pilot) do(msg fx.Message) {
	future := p.Conn.DoCommand(msg)
	go func() {
		if res := <-future.ResultChan(); res.Err != nil {
			glog.Errorf("%T: %v", msg, res.Err)
		}
	}()
}

type eventMsg struct {
	event gamepad.Event
	lost  bool
}

func (m *eventMsg) NewMessage() fx.Message { return &eventMsg{} }
