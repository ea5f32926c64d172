package rov

import "github.com/robotalks/rov.go/pkg/l0/thruster"

// Axes is the requested motion, each axis in percent (-100..100).
type Axes struct {
	X, Y, Z, Yaw, Roll int
}

// Mix converts axes into the per thruster percentage.
// Thrusters 0, 1, 4, 5 are horizontal (front right, front left,
// rear left, rear right), 2 and 3 are vertical.
func Mix(a Axes) [thruster.NumChannels]int {
	return [thruster.NumChannels]int{
		a.X + a.Y - a.Yaw,
		-a.X + a.Y - a.Yaw,
		a.Z + a.Roll,
		a.Z - a.Roll,
		-a.X + a.Y + a.Yaw,
		a.X + a.Y + a.Yaw,
	}
}

// PercentToRaw maps a thrust percentage to the raw SET_MOTOR value.
// Values beyond ±100 saturate.
func PercentToRaw(v int) byte {
	switch {
	case v > 100:
		return 255
	case v < -100:
		return 0
	}
	return byte(int(float64(v)*1.275 + 127))
}

// MixRaw mixes axes and maps them to raw SET_MOTOR values.
func MixRaw(a Axes) (raws [thruster.NumChannels]byte) {
	for i, v := range Mix(a) {
		raws[i] = PercentToRaw(v)
	}
	return
}
