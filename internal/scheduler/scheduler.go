// Package scheduler decides when the panel should refresh the remote weather.
package scheduler

import "time"

const DefaultInterval = 10 * time.Second

// Trigger asks the loop to attempt a fetch and flip the displayed panel.
type Trigger struct {
	At time.Time
	// Seq counts triggers since start, beginning at 1.
	Seq uint64
}

// Scheduler fires at most once per interval. It is driven entirely by the
// caller's clock and is not safe for concurrent use.
type Scheduler struct {
	interval    time.Duration
	lastAttempt time.Time
	seq         uint64
}

// New returns a scheduler whose first trigger is due one interval after start.
func New(interval time.Duration, start time.Time) *Scheduler {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Scheduler{interval: interval, lastAttempt: start}
}

func (s *Scheduler) Interval() time.Duration { return s.interval }

func (s *Scheduler) LastAttempt() time.Time { return s.lastAttempt }

// Tick reports whether a refresh is due at now. A due tick records now as the
// last attempt whatever the outcome of the fetch that follows.
func (s *Scheduler) Tick(now time.Time) (Trigger, bool) {
	if now.Sub(s.lastAttempt) < s.interval {
		return Trigger{}, false
	}
	s.lastAttempt = now
	s.seq++
	return Trigger{At: now, Seq: s.seq}, true
}
