// Package thruster adds vehicle commands to the shell.
package thruster

import (
	"github.com/abiosoft/ishell"

	"github.com/robotalks/rov.go/pkg/cli/sh"
	"github.com/robotalks/rov.go/pkg/l1/msgs"
)

var (
	// SetCmd exposes ThrusterSet command.
	SetCmd = ishell.Cmd{
		Name:    "thr.set",
		Aliases: []string{"ts"},
		Help:    "CHANNEL RAW",
		Func: sh.MustBeConnected(sh.MinArgs(2, func(c *ishell.Context) {
			channel, err := sh.ArgUint(c, 0, 5)
			if err != nil {
				c.Err(err)
				return
			}
			raw, err := sh.ArgUint(c, 1, 255)
			if err != nil {
				c.Err(err)
				return
			}
			sh.DoCommand(c, &msgs.ThrusterSet{Channel: channel, Raw: raw})
		})),
	}

	// DriveCmd exposes ThrusterDrive command.
	DriveCmd = ishell.Cmd{
		Name:    "thr.drive",
		Aliases: []string{"td"},
		Help:    "X Y Z [YAW [ROLL]] (percent)",
		Func: sh.MustBeConnected(sh.MinArgs(3, func(c *ishell.Context) {
			var axes [5]int32
			for i := 0; i < len(axes) && i < len(c.Args); i++ {
				v, err := sh.ArgInt(c, i, 100)
				if err != nil {
					c.Err(err)
					return
				}
				axes[i] = v
			}
			sh.DoCommand(c, &msgs.ThrusterDrive{X: axes[0], Y: axes[1], Z: axes[2], Yaw: axes[3], Roll: axes[4]})
		})),
	}

	// StopCmd exposes ThrusterStop command.
	StopCmd = ishell.Cmd{
		Name:    "thr.stop",
		Aliases: []string{"stop"},
		Help:    "",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			sh.DoCommand(c, &msgs.ThrusterStop{})
		}),
	}

	// StatusCmd exposes ThrusterStatusQuery command.
	StatusCmd = ishell.Cmd{
		Name:    "thr.status",
		Aliases: []string{"tst"},
		Help:    "",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			sh.DoCommand(c, &msgs.ThrusterStatusQuery{})
		}),
	}

	// CameraCmd exposes CameraSelect command.
	CameraCmd = ishell.Cmd{
		Name: "cam",
		Help: "INDEX",
		Func: sh.MustBeConnected(sh.MinArgs(1, func(c *ishell.Context) {
			index, err := sh.ArgUint(c, 0, 7)
			if err != nil {
				c.Err(err)
				return
			}
			sh.DoCommand(c, &msgs.CameraSelect{Index: index})
		})),
	}

	// BlinkCmd exposes Blink command.
	BlinkCmd = ishell.Cmd{
		Name: "blink",
		Help: "[MILLISECONDS]",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			var ms uint32
			if len(c.Args) > 0 {
				v, err := sh.ArgUint(c, 0, 2550)
				if err != nil {
					c.Err(err)
					return
				}
				ms = v
			}
			sh.DoCommand(c, &msgs.Blink{DurationMs: ms})
		}),
	}
)

func init() {
	sh.AddCmds(
		&SetCmd,
		&DriveCmd,
		&StopCmd,
		&StatusCmd,
		&CameraCmd,
		&BlinkCmd,
	)
}
