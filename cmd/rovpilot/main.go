package main

//go-build: CGO_ENABLED=0

import (
	"context"
	"flag"
	"log"
	"time"

	fx "github.com/robotalks/rov.go/pkg/framework"
	env "github.com/robotalks/rov.go/pkg/l1/env/connector"
	"github.com/robotalks/rov.go/pkg/pilot"
)

func init() {
	env.SetupFlags()
	pilot.SetupFlags()
}

func main() {
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	conn := env.NewConfig().MustConnect(ctx)
	cancel()

	loop := fx.NewLoop()
	if adder, ok := conn.(fx.LoopAdder); ok {
		loop.Add(adder)
	}
	loop.Add(pilot.NewConfig().NewPilot(conn))

	runner := fx.NewRunner().HandleSignals().Go(fx.NamedRun("loop", loop))
	if err := runner.Wait(); err != nil {
		log.Fatalln(err)
	}
}
