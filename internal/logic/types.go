// Package logic contains the pure state of the temperature level panel.
// This package has NO external dependencies (no GPIO, display, OS, or time.Sleep).
// Time is always injectable via time.Time parameters.
package logic

import "time"

// Limits of the simulated temperature count.
const (
	MaxCount       = 200
	AlarmThreshold = 40
)

// Button identifies one of the logical push-buttons.
type Button int

const (
	ButtonIncrement Button = iota
	ButtonDecrement
	ButtonReset
	ButtonUnit
	ButtonDisplay
)

// NumButtons is the number of logical buttons sampled every tick.
const NumButtons = 5

var buttonNames = [NumButtons]string{"INCREMENT", "DECREMENT", "RESET", "UNIT", "DISPLAY"}

func (b Button) String() string {
	if b < 0 || int(b) >= NumButtons {
		return "UNKNOWN"
	}
	return buttonNames[b]
}

// Levels holds the logical level of every button (true = asserted).
type Levels [NumButtons]bool

// Presses holds one "pressed this tick" flag per button.
type Presses [NumButtons]bool

// Any reports whether at least one button was pressed.
func (p Presses) Any() bool {
	for _, v := range p {
		if v {
			return true
		}
	}
	return false
}

// UnitMode selects the unit the digit display shows.
type UnitMode int

const (
	UnitNative UnitMode = iota
	UnitConverted
)

func (u UnitMode) String() string {
	if u == UnitConverted {
		return "CONVERTED"
	}
	return "NATIVE"
}

// DisplayMode selects the active output surface.
type DisplayMode int

const (
	DisplayDigits DisplayMode = iota
	DisplayAnalog
)

func (d DisplayMode) String() string {
	if d == DisplayAnalog {
		return "ANALOG_BANK"
	}
	return "DIGIT_MATRIX"
}

// Alarm tracks the over-threshold indicator.
type Alarm struct {
	Armed bool
	// Phase is the blink phase; ignored while not armed.
	Phase bool
}

// State is the complete mutable state of the panel.
type State struct {
	Count   int
	Unit    UnitMode
	Display DisplayMode
	Alarm   Alarm
}

// Transition describes what a call to State.Apply changed, including the
// output side effects the caller must perform.
type Transition struct {
	// Applied lists the button events that took effect, in processing order.
	Applied []Button
	// ClearAnalog is set when switching to the digit display.
	ClearAnalog bool
	// ClearDigits is set when switching to the analog bank.
	ClearDigits bool
	// AlarmForcedOff is set when the alarm output must be driven off now.
	AlarmForcedOff bool
	// Armed and Disarmed report alarm edges within this tick.
	Armed    bool
	Disarmed bool
}

// PressCounts tracks the number of presses per button since startup.
type PressCounts [NumButtons]int

// HeartbeatData contains information for a heartbeat log line.
type HeartbeatData struct {
	Timestamp time.Time
	Uptime    time.Duration
	Ticks     int
	Counts    PressCounts
}
