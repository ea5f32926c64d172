package main

//go-build: CGO_ENABLED=0

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	fx "github.com/robotalks/rov.go/pkg/framework"
	"github.com/robotalks/rov.go/pkg/l0/comm"
	"github.com/robotalks/rov.go/pkg/l0/thruster"
	"github.com/robotalks/rov.go/pkg/l0/vehicle"
)

const usage = `usage: rovctl [flags] COMMAND [ARGS]

commands:
  establish         handshake with the vehicle
  motor CH RAW      set thruster CH (0-5) to RAW (0-255)
  stop              set all thrusters to center
  camera INDEX      select camera (0-7)
  sensor ID         read sensor ID
  blink MS          blink the indicator for MS milliseconds

flags:
`

var (
	conf    = *vehicle.Default()
	timeout = time.Second
)

func init() {
	flag.StringVar(&conf.Port, "port", conf.Port, "Serial port of the frame link")
	flag.IntVar(&conf.Baud, "baud", conf.Baud, "Serial baud rate")
	flag.DurationVar(&timeout, "timeout", timeout, "Reply timeout")
	flag.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), usage)
		flag.PrintDefaults()
	}
}

func argByte(args []string, i int) byte {
	if i >= len(args) {
		flag.Usage()
		os.Exit(2)
	}
	v, err := strconv.ParseUint(args[i], 0, 8)
	if err != nil {
		log.Fatalf("invalid argument %q: %v", args[i], err)
	}
	return byte(v)
}

func execute(ctx context.Context, c *comm.Client, args []string) (string, error) {
	switch args[0] {
	case "establish":
		return "established", c.Establish(ctx)
	case "motor":
		applied, err := c.SetMotor(ctx, argByte(args, 1), argByte(args, 2))
		return fmt.Sprintf("applied %d", applied), err
	case "stop":
		center := byte(thruster.Default().InputCenter)
		for ch := 0; ch < thruster.NumChannels; ch++ {
			if _, err := c.SetMotor(ctx, byte(ch), center); err != nil {
				return "", fmt.Errorf("channel %d: %w", ch, err)
			}
		}
		return "stopped", nil
	case "camera":
		return "ok", c.SetCamera(ctx, argByte(args, 1))
	case "sensor":
		val, err := c.ReadSensor(ctx, argByte(args, 1))
		return strconv.Itoa(int(val)), err
	case "blink":
		ms, err := strconv.ParseUint(args[1], 0, 32)
		if err != nil {
			return "", err
		}
		return "ok", c.Blink(ctx, time.Duration(ms)*time.Millisecond)
	}
	return "", fmt.Errorf("unknown command %q", args[0])
}

func main() {
	log.SetFlags(0)
	flag.Parse()
	args := flag.Args()
	if len(args) == 0 || (args[0] == "blink" && len(args) < 2) {
		flag.Usage()
		os.Exit(2)
	}

	port, err := conf.OpenPort()
	if err != nil {
		log.Fatalln(err)
	}
	client := comm.NewClient(comm.NewLink(port))

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	go fx.RunWithContextCloser(ctx, port, func() error {
		return client.Run(ctx)
	})

	out, err := execute(ctx, client, args)
	if err != nil {
		log.Fatalln(err)
	}
	fmt.Println(out)
}
