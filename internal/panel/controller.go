// Package panel ties button events to the display surfaces and the alarm
// indicator. One Controller owns the whole device state; Tick is called once
// per scheduling period from a single goroutine.
package panel

import (
	"errors"
	"fmt"

	"github.com/sweeney/tempsim/internal/gpio"
	"github.com/sweeney/tempsim/internal/logic"
)

// DigitDisplay is the digit-matrix surface.
type DigitDisplay interface {
	ShowNumber(value uint) error
	ShowUnitGlyph(converted bool) error
	Clear() error
}

// AnalogDisplay is the graded brightness surface.
type AnalogDisplay interface {
	Apply(value int) error
	Clear() error
}

// Result summarises one tick.
type Result struct {
	Presses    logic.Presses
	Transition logic.Transition
	State      logic.State
	AlarmOn    bool
}

// Controller is the mode/event state machine.
type Controller struct {
	state   logic.State
	edges   *logic.EdgeDetector
	digits  DigitDisplay
	analog  AnalogDisplay
	alarm   gpio.Output
	alarmOn bool
}

// New creates a controller in the power-on state. The digit display must
// already be initialized.
func New(digits DigitDisplay, analog AnalogDisplay, alarm gpio.Output) *Controller {
	return &Controller{
		state:  logic.NewState(),
		edges:  logic.NewEdgeDetector(),
		digits: digits,
		analog: analog,
		alarm:  alarm,
	}
}

// Tick runs one period: edge detection, event handling, surface clearing on
// display mode change, rendering and alarm blink. Output errors do not stop
// the tick; they are collected and returned together.
func (c *Controller) Tick(levels logic.Levels) (Result, error) {
	presses := c.edges.Process(levels)
	tr := c.state.Apply(presses)

	var errs []error
	if tr.AlarmForcedOff {
		errs = append(errs, c.setAlarm(false))
	}
	if tr.ClearAnalog {
		if err := c.analog.Clear(); err != nil {
			errs = append(errs, fmt.Errorf("clear analog: %w", err))
		}
	}
	if tr.ClearDigits {
		if err := c.digits.Clear(); err != nil {
			errs = append(errs, fmt.Errorf("clear digits: %w", err))
		}
	}

	errs = append(errs, c.render())

	if level, armed := c.state.Blink(); armed {
		errs = append(errs, c.setAlarm(level))
	}

	return Result{
		Presses:    presses,
		Transition: tr,
		State:      c.state,
		AlarmOn:    c.alarmOn,
	}, errors.Join(errs...)
}

// render draws the active surface. The analog bank always shows the native
// count, whatever the unit mode.
func (c *Controller) render() error {
	if c.state.Display == logic.DisplayAnalog {
		if err := c.analog.Apply(c.state.Count); err != nil {
			return fmt.Errorf("render analog: %w", err)
		}
		return nil
	}

	if err := c.digits.ShowNumber(uint(c.state.DisplayValue())); err != nil {
		return fmt.Errorf("render digits: %w", err)
	}
	if err := c.digits.ShowUnitGlyph(c.state.Unit == logic.UnitConverted); err != nil {
		return fmt.Errorf("render unit: %w", err)
	}
	return nil
}

func (c *Controller) setAlarm(on bool) error {
	if err := c.alarm.Set(on); err != nil {
		return fmt.Errorf("alarm %v: %w", on, err)
	}
	c.alarmOn = on
	return nil
}

// Shutdown blanks both surfaces and turns the alarm off.
func (c *Controller) Shutdown() error {
	var errs []error
	if err := c.digits.Clear(); err != nil {
		errs = append(errs, fmt.Errorf("clear digits: %w", err))
	}
	if err := c.analog.Clear(); err != nil {
		errs = append(errs, fmt.Errorf("clear analog: %w", err))
	}
	errs = append(errs, c.setAlarm(false))
	return errors.Join(errs...)
}

// State returns a copy of the current state.
func (c *Controller) State() logic.State {
	return c.state
}

// AlarmOn reports the level last driven on the alarm output.
func (c *Controller) AlarmOn() bool {
	return c.alarmOn
}
