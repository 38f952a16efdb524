// Package gpio provides button input and output line access with hardware abstraction.
// The real implementation uses the Linux GPIO character device for discrete
// lines and periph.io for PWM channels.
// The fake implementations allow testing without hardware.
package gpio

// NumButtons is the number of button inputs read on every sample.
const NumButtons = 5

// Levels holds the logical level of each button, in the order
// increment, decrement, reset, unit, display. true = pressed.
type Levels [NumButtons]bool

// Reader reads button input states.
type Reader interface {
	// Read returns the logical level of every button.
	// Buttons are wired active-low with pull-up: raw 0 = logical pressed.
	Read() (Levels, error)

	// Close releases GPIO resources.
	Close() error
}

// Output drives a discrete on/off line.
type Output interface {
	Set(on bool) error
}

// OutputFunc adapts a function to the Output interface.
type OutputFunc func(on bool) error

// Set calls f(on).
func (f OutputFunc) Set(on bool) error {
	return f(on)
}

// PWM drives a hardware PWM channel with an 8-bit duty register.
type PWM interface {
	// SetDuty sets the duty cycle, 0 = off, 255 = fully on.
	SetDuty(duty uint8) error
}

// Button pin definitions (BCM numbering)
const (
	DefaultPinIncrement = 17
	DefaultPinDecrement = 27
	DefaultPinReset     = 22
	DefaultPinUnit      = 23
	DefaultPinDisplay   = 24
)

// Output pin definitions (BCM numbering)
const (
	DefaultPinDIN     = 10
	DefaultPinCLK     = 11
	DefaultPinCS      = 8
	DefaultPinOverHot = 5
	DefaultPinAlarm   = 6
)

// PWM pin names as known to the periph.io registry.
const (
	DefaultPWMCold   = "GPIO12"
	DefaultPWMNormal = "GPIO13"
	DefaultPWMWarm   = "GPIO18"
	DefaultPWMHot    = "GPIO19"
)
