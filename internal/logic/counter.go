package logic

import "time"

// Counter tracks ticks and button presses since startup and decides when a
// heartbeat is due.
type Counter struct {
	startTime     time.Time
	lastHeartbeat time.Time
	ticks         int
	counts        PressCounts
}

// NewCounter creates a counter. The startTime is used for calculating uptime
// in heartbeats.
func NewCounter(startTime time.Time) *Counter {
	return &Counter{
		startTime:     startTime,
		lastHeartbeat: startTime,
	}
}

// Record counts one tick and the presses seen on it.
func (c *Counter) Record(p Presses) {
	c.ticks++
	for i, pressed := range p {
		if pressed {
			c.counts[i]++
		}
	}
}

// Ticks returns the number of recorded ticks.
func (c *Counter) Ticks() int {
	return c.ticks
}

// CountsSnapshot returns a copy of the press counts.
func (c *Counter) CountsSnapshot() PressCounts {
	return c.counts
}

// CheckHeartbeat returns heartbeat data if the interval has elapsed since the
// last heartbeat (or startup). Returns nil if the interval has not elapsed,
// or if interval is <= 0 (disabled).
func (c *Counter) CheckHeartbeat(now time.Time, interval time.Duration) *HeartbeatData {
	if interval <= 0 {
		return nil
	}

	if now.Sub(c.lastHeartbeat) < interval {
		return nil
	}

	c.lastHeartbeat = now
	return &HeartbeatData{
		Timestamp: now,
		Uptime:    now.Sub(c.startTime),
		Ticks:     c.ticks,
		Counts:    c.counts,
	}
}
