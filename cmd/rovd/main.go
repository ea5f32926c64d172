package main

//go-build: CGO_ENABLED=0

import (
	"context"
	"flag"
	"time"

	"github.com/golang/glog"

	fx "github.com/robotalks/rov.go/pkg/framework"
	"github.com/robotalks/rov.go/pkg/l0/hw"
	"github.com/robotalks/rov.go/pkg/l0/hw/pca9685"
	"github.com/robotalks/rov.go/pkg/l0/hw/rpio"
	"github.com/robotalks/rov.go/pkg/l0/hw/sim"
	"github.com/robotalks/rov.go/pkg/l0/thruster"
	"github.com/robotalks/rov.go/pkg/l0/vehicle"
	"github.com/robotalks/rov.go/pkg/l1"
	env "github.com/robotalks/rov.go/pkg/l1/env/controller"
	"github.com/robotalks/rov.go/pkg/rov"
)

const settleTimeout = 3 * time.Second

func init() {
	env.SetControllerType(rov.ControllerType, l1.ControllerMeta{Description: "ROV thruster link"})
	env.SetupFlags()
	thruster.SetupFlags()
	vehicle.SetupFlags()
	pca9685.SetupFlags()
}

func openHardware(conf *vehicle.Config) (hw.ThrusterDriver, vehicle.Hardware, func()) {
	if conf.DryRun {
		board := sim.NewBoard()
		board.Verbose = true
		return board, vehicle.Hardware{Camera: board, Indicator: board, Sensors: board}, func() {}
	}
	pwm, err := pca9685.NewConfig().Open()
	if err != nil {
		glog.Exitf("open thruster controller: %v", err)
	}
	board, err := rpio.Open(rpio.DefaultConfig())
	if err != nil {
		pwm.Close()
		glog.Exitf("open gpio: %v", err)
	}
	return pwm, vehicle.Hardware{Camera: board, Indicator: board, Sensors: board}, func() {
		pwm.Close()
		board.Close()
	}
}

func main() {
	flag.Parse()
	defer glog.Flush()

	conf := vehicle.NewConfig()
	driver, hardware, closeHardware := openHardware(conf)
	defer closeHardware()

	gov, err := thruster.NewConfig().NewGovernor(driver)
	if err != nil {
		glog.Exitf("thruster config: %v", err)
	}
	port, err := conf.OpenPort()
	if err != nil {
		glog.Exitf("open %s: %v", conf.Port, err)
	}
	defer port.Close()

	v := vehicle.New(port, gov, hardware).WithMetrics(vehicle.NewMetrics())
	v.Link.FrameGap = conf.FrameGap
	if err := v.Init(); err != nil {
		glog.Exitf("init thrusters: %v", err)
	}

	loop := fx.NewLoop()
	loop.Interval = gov.Config().TickPeriod
	loop.Add(v)
	envConf := env.NewConfig()
	if envConf.MQTTBrokerURL != "" || envConf.WebSocketAddr != "" {
		e := envConf.MustNewEnv()
		loop.Add(e, rov.NewController(v.Dispatcher, e.Registrar))
	} else {
		glog.Info("no registry configured, serving the frame link only")
	}

	runner := fx.NewRunner().HandleSignals().Go(fx.NamedRun("loop", loop))
	if conf.MetricsAddr != "" {
		runner.Go(v.Metrics.Server(conf.MetricsAddr))
	}
	err = runner.Wait()
	if err == fx.ErrForcedExit {
		glog.Exit(err)
	}
	if err != nil {
		glog.Errorf("stopped: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), settleTimeout)
	defer cancel()
	if err := v.Settle(ctx); err != nil {
		glog.Warningf("thrusters not settled: %v", err)
	}
}
