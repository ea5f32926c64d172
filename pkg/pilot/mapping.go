package pilot

import (
	"github.com/robotalks/rov.go/pkg/pilot/gamepad"
	"github.com/robotalks/rov.go/pkg/rov"
)

// Gamepad layout of an XBox style controller on the Linux js driver.
const (
	AxisLeftX     = 0
	AxisLeftY     = 1
	AxisLeftTrig  = 2
	AxisRightX    = 3
	AxisRightY    = 4
	AxisRightTrig = 5

	ButtonA = 0
	ButtonB = 1
	ButtonX = 2
	ButtonY = 3
)

// Action is what an event asks the pilot to do besides driving.
type Action int

// Actions.
const (
	ActionNone Action = iota
	ActionDrive
	ActionStop
	ActionNextCamera
	ActionBlink
)

// Mapper turns gamepad events into axes.
//
// Left stick drives X (forward) and Y (strafe), right stick yaw and
// roll, right trigger ascends and left trigger descends. Nothing is
// driven until both triggers have been seen released, as a trigger
// resting half way reads as half thrust.
type Mapper struct {
	// DeadZone in percent, stick values within it read as 0.
	DeadZone int

	axes     rov.Axes
	trigL    int
	trigR    int
	trigSeen [2]bool
	armed    bool
}

// NewMapper creates a Mapper.
func NewMapper(deadZone int) *Mapper {
	return &Mapper{DeadZone: deadZone}
}

// Armed tells whether triggers have been zeroed.
func (m *Mapper) Armed() bool {
	return m.armed
}

// Axes returns the current axes, all zero until armed.
func (m *Mapper) Axes() rov.Axes {
	if !m.armed {
		return rov.Axes{}
	}
	return m.axes
}

// Reset forgets all state, e.g. when the device goes away.
func (m *Mapper) Reset() {
	*m = Mapper{DeadZone: m.DeadZone}
}

// Apply updates the state with ev.
func (m *Mapper) Apply(ev gamepad.Event) Action {
	switch ev.Kind {
	case gamepad.KindAxis:
		return m.applyAxis(ev)
	case gamepad.KindButton:
		if ev.Init {
			return ActionNone
		}
		switch ev.Number {
		case ButtonA:
			if !ev.Pressed() {
				return ActionNextCamera
			}
		case ButtonB:
			if ev.Pressed() {
				return ActionStop
			}
		case ButtonY:
			if ev.Pressed() {
				return ActionBlink
			}
		}
	}
	return ActionNone
}

func (m *Mapper) applyAxis(ev gamepad.Event) Action {
	switch ev.Number {
	case AxisLeftX:
		m.axes.Y = m.stick(ev.Value)
	case AxisLeftY:
		m.axes.X = -m.stick(ev.Value)
	case AxisRightX:
		m.axes.Yaw = m.stick(ev.Value)
	case AxisRightY:
		m.axes.Roll = -m.stick(ev.Value)
	case AxisLeftTrig:
		m.trigL, m.trigSeen[0] = trigger(ev.Value), true
	case AxisRightTrig:
		m.trigR, m.trigSeen[1] = trigger(ev.Value), true
	default:
		return ActionNone
	}
	m.axes.Z = m.trigR - m.trigL
	if !m.armed && m.trigSeen[0] && m.trigSeen[1] && m.trigL == 0 && m.trigR == 0 {
		m.armed = true
	}
	if !m.armed {
		return ActionNone
	}
	return ActionDrive
}

func (m *Mapper) stick(value int) int {
	pct := value * 100 / gamepad.AxisMax
	switch {
	case pct > 100:
		pct = 100
	case pct < -100:
		pct = -100
	}
	if pct < m.DeadZone && pct > -m.DeadZone {
		return 0
	}
	return pct
}

// trigger maps a trigger travel of -AxisMax..AxisMax to 0..100.
func trigger(value int) int {
	pct := (value + gamepad.AxisMax) * 50 / gamepad.AxisMax
	switch {
	case pct > 100:
		pct = 100
	case pct < 0:
		pct = 0
	}
	return pct
}
