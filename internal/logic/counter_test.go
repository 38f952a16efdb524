package logic

import (
	"testing"
	"time"
)

func TestCounterRecord(t *testing.T) {
	start := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	c := NewCounter(start)

	c.Record(press(ButtonIncrement))
	c.Record(press(ButtonIncrement, ButtonUnit))
	c.Record(Presses{})

	if c.Ticks() != 3 {
		t.Errorf("expected 3 ticks, got %d", c.Ticks())
	}
	counts := c.CountsSnapshot()
	if counts[ButtonIncrement] != 2 {
		t.Errorf("expected 2 increments, got %d", counts[ButtonIncrement])
	}
	if counts[ButtonUnit] != 1 {
		t.Errorf("expected 1 unit toggle, got %d", counts[ButtonUnit])
	}
	if counts[ButtonReset] != 0 {
		t.Errorf("expected 0 resets, got %d", counts[ButtonReset])
	}
}

func TestCheckHeartbeatDisabledWithZeroInterval(t *testing.T) {
	start := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	c := NewCounter(start)

	if hb := c.CheckHeartbeat(start.Add(15*time.Minute), 0); hb != nil {
		t.Error("should not return heartbeat when interval is 0 (disabled)")
	}
	if hb := c.CheckHeartbeat(start.Add(15*time.Minute), -time.Minute); hb != nil {
		t.Error("should not return heartbeat when interval is negative")
	}
}

func TestCheckHeartbeatBeforeInterval(t *testing.T) {
	start := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	c := NewCounter(start)

	if hb := c.CheckHeartbeat(start.Add(14*time.Minute), 15*time.Minute); hb != nil {
		t.Error("should not return heartbeat before interval")
	}
}

func TestCheckHeartbeatAtInterval(t *testing.T) {
	start := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	c := NewCounter(start)
	c.Record(press(ButtonReset))

	check := start.Add(15 * time.Minute)
	hb := c.CheckHeartbeat(check, 15*time.Minute)
	if hb == nil {
		t.Fatal("should return heartbeat at interval")
	}
	if !hb.Timestamp.Equal(check) {
		t.Errorf("expected timestamp %v, got %v", check, hb.Timestamp)
	}
	if hb.Uptime != 15*time.Minute {
		t.Errorf("expected uptime 15m, got %v", hb.Uptime)
	}
	if hb.Ticks != 1 || hb.Counts[ButtonReset] != 1 {
		t.Errorf("unexpected heartbeat contents: %+v", hb)
	}

	if hb := c.CheckHeartbeat(check.Add(time.Second), 15*time.Minute); hb != nil {
		t.Error("should not return heartbeat immediately after previous")
	}
	if hb := c.CheckHeartbeat(check.Add(15*time.Minute), 15*time.Minute); hb == nil {
		t.Error("should return second heartbeat")
	}
}
