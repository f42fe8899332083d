package animation

import "time"

// Periodic is a repeating timer handle stepped by a [Scheduler].
//
// It fires at most once per frame: a frame that arrives late by several
// intervals produces a single call. A stopped Periodic cannot be restarted;
// create a new one with [Scheduler.Every].
type Periodic struct {
	ticker   *Ticker
	interval time.Duration
	fired    int64
	fn       func()
}

// Every starts a timer that calls fn each time interval elapses.
// A non-positive interval never fires.
func (s *Scheduler) Every(interval time.Duration, fn func()) *Periodic {
	p := &Periodic{interval: interval, fn: fn}
	p.ticker = s.NewTicker(p.tick)
	p.ticker.Start()
	return p
}

func (p *Periodic) tick(elapsed time.Duration) {
	if p.interval <= 0 || p.fn == nil {
		return
	}
	n := int64(elapsed / p.interval)
	if n <= p.fired {
		return
	}
	p.fired = n
	p.fn()
}

// Stop cancels the timer. It is safe to call on a nil or stopped Periodic.
func (p *Periodic) Stop() {
	if p == nil {
		return
	}
	p.ticker.Stop()
}

// Active reports whether the timer will fire again.
func (p *Periodic) Active() bool {
	return p != nil && p.ticker.IsActive()
}

// Interval returns the timer period.
func (p *Periodic) Interval() time.Duration {
	if p == nil {
		return 0
	}
	return p.interval
}
