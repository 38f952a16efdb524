// Package status provides a thread-safe status tracker for the panel.
// It is written by the control loop and read by the simulator view and the
// heartbeat log.
package status

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/sweeney/tempsim/internal/logic"
)

// Config contains daemon configuration for display.
type Config struct {
	TickMs      int64
	HeartbeatMs int64
	Intensity   int
	Chain       int
	ChainPos    int
	Sim         bool
}

// Snapshot is a point-in-time view of panel state.
// It is a value type, safe to use after the lock is released.
type Snapshot struct {
	State     logic.State
	AlarmOn   bool
	Ticks     int
	Counts    logic.PressCounts
	StartTime time.Time
	Now       time.Time
	Config    Config
}

// Uptime returns the duration since the daemon started.
func (s Snapshot) Uptime() time.Duration {
	return s.Now.Sub(s.StartTime)
}

// Tracker holds mutable panel state behind an RWMutex.
type Tracker struct {
	mu    sync.RWMutex
	clock clockwork.Clock
	snap  Snapshot
}

// NewTracker creates a Tracker with the given clock and config. The start
// time is taken from the clock.
func NewTracker(clock clockwork.Clock, cfg Config) *Tracker {
	return &Tracker{
		clock: clock,
		snap: Snapshot{
			State:     logic.NewState(),
			StartTime: clock.Now(),
			Config:    cfg,
		},
	}
}

// Update records the state after a tick.
// Called from runLoop on every tick.
func (t *Tracker) Update(state logic.State, alarmOn bool, ticks int, counts logic.PressCounts) {
	t.mu.Lock()
	t.snap.State = state
	t.snap.AlarmOn = alarmOn
	t.snap.Ticks = ticks
	t.snap.Counts = counts
	t.mu.Unlock()
}

// Snapshot returns a point-in-time copy of the panel state.
// The Now field is set from the clock at the moment of the call.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	s := t.snap
	t.mu.RUnlock()
	s.Now = t.clock.Now()
	return s
}
