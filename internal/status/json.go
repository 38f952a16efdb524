package status

import (
	"encoding/json"
	"time"

	"github.com/sweeney/tempsim/internal/logic"
)

// StatusJSON is the top-level JSON envelope for status output.
type StatusJSON struct {
	Status StatusInner `json:"status"`
}

// StatusInner contains the status details.
type StatusInner struct {
	Event          string     `json:"event,omitempty"`
	Reason         string     `json:"reason,omitempty"`
	Count          int        `json:"count"`
	DisplayedValue int        `json:"displayed_value"`
	Unit           string     `json:"unit"`
	Display        string     `json:"display"`
	Alarm          AlarmJSON  `json:"alarm"`
	Ticks          int        `json:"ticks"`
	UptimeSeconds  int64      `json:"uptime_seconds"`
	StartTime      string     `json:"start_time"`
	Timestamp      string     `json:"timestamp"`
	Counts         CountsJSON `json:"press_counts"`
	Config         ConfigJSON `json:"config"`
}

// AlarmJSON reports the alarm indicator.
type AlarmJSON struct {
	Armed bool `json:"armed"`
	On    bool `json:"on"`
}

// CountsJSON is the JSON representation of press counts.
type CountsJSON struct {
	Increment int `json:"increment"`
	Decrement int `json:"decrement"`
	Reset     int `json:"reset"`
	Unit      int `json:"unit"`
	Display   int `json:"display"`
}

// ConfigJSON is the JSON representation of daemon config.
type ConfigJSON struct {
	TickMs      int64 `json:"tick_ms"`
	HeartbeatMs int64 `json:"heartbeat_ms"`
	Intensity   int   `json:"intensity"`
	Chain       int   `json:"chain"`
	ChainPos    int   `json:"chain_pos"`
	Sim         bool  `json:"sim"`
}

// LevelsJSON is the JSON representation of one button sample.
type LevelsJSON struct {
	Increment bool `json:"increment"`
	Decrement bool `json:"decrement"`
	Reset     bool `json:"reset"`
	Unit      bool `json:"unit"`
	Display   bool `json:"display"`
}

func buildInner(snap Snapshot) StatusInner {
	c := snap.Counts
	return StatusInner{
		Count:          snap.State.Count,
		DisplayedValue: snap.State.DisplayValue(),
		Unit:           snap.State.Unit.String(),
		Display:        snap.State.Display.String(),
		Alarm:          AlarmJSON{Armed: snap.State.Alarm.Armed, On: snap.AlarmOn},
		Ticks:          snap.Ticks,
		UptimeSeconds:  int64(snap.Uptime().Truncate(time.Second).Seconds()),
		StartTime:      snap.StartTime.UTC().Format(time.RFC3339),
		Timestamp:      snap.Now.UTC().Format(time.RFC3339),
		Counts: CountsJSON{
			Increment: c[logic.ButtonIncrement],
			Decrement: c[logic.ButtonDecrement],
			Reset:     c[logic.ButtonReset],
			Unit:      c[logic.ButtonUnit],
			Display:   c[logic.ButtonDisplay],
		},
		Config: ConfigJSON{
			TickMs:      snap.Config.TickMs,
			HeartbeatMs: snap.Config.HeartbeatMs,
			Intensity:   snap.Config.Intensity,
			Chain:       snap.Config.Chain,
			ChainPos:    snap.Config.ChainPos,
			Sim:         snap.Config.Sim,
		},
	}
}

// FormatJSON returns the indented JSON status (no event/reason).
func FormatJSON(snap Snapshot) []byte {
	data, _ := json.MarshalIndent(StatusJSON{Status: buildInner(snap)}, "", "  ")
	return data
}

// FormatStatusEvent returns the single-line JSON status for a lifecycle log
// line (e.g. STARTUP, HEARTBEAT, SHUTDOWN).
func FormatStatusEvent(snap Snapshot, event, reason string) []byte {
	inner := buildInner(snap)
	inner.Event = event
	inner.Reason = reason

	data, _ := json.Marshal(StatusJSON{Status: inner})
	return data
}

// FormatLevels returns the JSON form of one button sample.
func FormatLevels(l logic.Levels) []byte {
	data, _ := json.Marshal(LevelsJSON{
		Increment: l[logic.ButtonIncrement],
		Decrement: l[logic.ButtonDecrement],
		Reset:     l[logic.ButtonReset],
		Unit:      l[logic.ButtonUnit],
		Display:   l[logic.ButtonDisplay],
	})
	return data
}
