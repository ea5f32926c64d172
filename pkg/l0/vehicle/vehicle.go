// Package vehicle ties the frame link, the command dispatcher and the
// thruster governor together.
//
// The link goroutine decodes frames and runs them through the
// Dispatcher, which sets governor targets. The governor ticks from the
// control loop at its own period, independently of frame arrival, so
// thrusters keep ramping while the link is blocked on reading.
package vehicle

import (
	"context"
	"io"
	"time"

	"github.com/golang/glog"

	fx "github.com/robotalks/rov.go/pkg/framework"
	"github.com/robotalks/rov.go/pkg/l0/comm"
	"github.com/robotalks/rov.go/pkg/l0/hw"
	"github.com/robotalks/rov.go/pkg/l0/thruster"
)

// Hardware bundles the collaborators besides the thruster driver.
type Hardware struct {
	Camera    hw.CameraMux
	Indicator hw.Indicator
	Sensors   hw.SensorSource
}

// Vehicle owns the link state: the link with its sequence tracker and
// the six thruster channels.
type Vehicle struct {
	Link       *comm.Link
	Governor   *thruster.Governor
	Dispatcher *Dispatcher
	Metrics    *Metrics
}

// New creates a Vehicle serving frames on rw.
func New(rw io.ReadWriter, gov *thruster.Governor, hardware Hardware) *Vehicle {
	v := &Vehicle{
		Link:     comm.NewLink(rw),
		Governor: gov,
		Dispatcher: &Dispatcher{
			Governor:  gov,
			Camera:    hardware.Camera,
			Indicator: hardware.Indicator,
			Sensors:   hardware.Sensors,
		},
	}
	v.Link.Handler = v.Dispatcher
	return v
}

// WithMetrics enables metrics.
func (v *Vehicle) WithMetrics(m *Metrics) *Vehicle {
	v.Metrics = m
	v.Link.Observer = m
	v.Dispatcher.Observer = m
	return v
}

// Init centers all thrusters.
func (v *Vehicle) Init() error {
	err := v.Governor.Init()
	v.observeChannels()
	return err
}

// Run runs the link. When the link fails all thrusters are commanded
// back to center and keep ramping down as long as the loop ticks.
func (v *Vehicle) Run(ctx context.Context) error {
	err := v.Link.Run(ctx)
	if err != nil && err != context.Canceled {
		glog.Errorf("link stopped: %v, stopping thrusters", err)
	}
	v.Governor.Stop()
	return err
}

// Settle commands all thrusters to center and ticks them there at the
// governor period. Used on shutdown when the loop no longer ticks.
func (v *Vehicle) Settle(ctx context.Context) error {
	v.Governor.Stop()
	ticker := time.NewTicker(v.Governor.Config().TickPeriod)
	defer ticker.Stop()
	for !v.Governor.Settled() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := v.Governor.TickAll(); err != nil {
				return err
			}
		}
	}
	return nil
}

// Tick advances all thrusters one step.
func (v *Vehicle) Tick(cc fx.ControlContext) error {
	err := v.Governor.TickAll()
	v.observeChannels()
	return err
}

func (v *Vehicle) observeChannels() {
	if m := v.Metrics; m != nil {
		m.ObserveChannels(v.Governor.Snapshot(), v.Governor.Config().ESCCenter)
	}
}

// AddToLoop implements LoopAdder.
func (v *Vehicle) AddToLoop(loop *fx.Loop) {
	loop.AddRunnable(fx.NamedRun("link", v))
	loop.AddController(fx.PrLvAcuate, fx.Every(v.Governor.Config().TickPeriod, fx.ControlFunc(v.Tick)))
}
