package framework

import "time"

// PeriodicController runs the wrapped Controller at most once per Period,
// no matter how often the loop iterates (e.g. on TriggerNext).
// An iteration up to Period/8 ahead of schedule counts as on time so a
// loop ticking at the same Period doesn't skip runs on timer jitter.
type PeriodicController struct {
	Period     time.Duration
	Controller Controller

	next time.Time
}

// Every wraps a Controller to run once per period.
func Every(period time.Duration, ctl Controller) *PeriodicController {
	return &PeriodicController{Period: period, Controller: ctl}
}

// Control implements Controller.
func (p *PeriodicController) Control(cc ControlContext) error {
	now := cc.Time()
	if now.Add(p.Period / 8).Before(p.next) {
		return nil
	}
	if p.next.IsZero() || now.Sub(p.next) >= p.Period {
		// first run or fell behind, don't try to catch up
		p.next = now.Add(p.Period)
	} else {
		p.next = p.next.Add(p.Period)
	}
	return p.Controller.Control(cc)
}
