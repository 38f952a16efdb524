package gpio

import (
	"fmt"

	pgpio "periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/host/v3"
)

// DefaultPWMFrequency is the carrier frequency of the graded channels.
const DefaultPWMFrequency = physic.KiloHertz

// DutyFromByte scales an 8-bit duty register value onto periph's duty range.
func DutyFromByte(duty uint8) pgpio.Duty {
	return pgpio.Duty(int64(duty) * int64(pgpio.DutyMax) / 255)
}

// PeriphPWM adapts a periph.io pin to the 8-bit PWM interface.
type PeriphPWM struct {
	pin  pgpio.PinOut
	freq physic.Frequency
}

// NewPeriphPWM wraps pin, driving it at freq.
func NewPeriphPWM(pin pgpio.PinOut, freq physic.Frequency) *PeriphPWM {
	return &PeriphPWM{pin: pin, freq: freq}
}

// SetDuty sets the duty cycle; 255 maps to gpio.DutyMax.
func (p *PeriphPWM) SetDuty(duty uint8) error {
	if err := p.pin.PWM(DutyFromByte(duty), p.freq); err != nil {
		return fmt.Errorf("pwm %s: %w", p.pin, err)
	}
	return nil
}

// Close stops the PWM output.
func (p *PeriphPWM) Close() error {
	if err := p.pin.Halt(); err != nil {
		return fmt.Errorf("halt %s: %w", p.pin, err)
	}
	return nil
}

// PeriphOutput adapts a periph.io pin to the Output interface.
type PeriphOutput struct {
	pin pgpio.PinOut
}

// NewPeriphOutput wraps pin.
func NewPeriphOutput(pin pgpio.PinOut) *PeriphOutput {
	return &PeriphOutput{pin: pin}
}

// Set drives the pin high for on, low otherwise.
func (o *PeriphOutput) Set(on bool) error {
	l := pgpio.Low
	if on {
		l = pgpio.High
	}
	if err := o.pin.Out(l); err != nil {
		return fmt.Errorf("out %s: %w", o.pin, err)
	}
	return nil
}

// OpenPWM initializes the periph.io host drivers and looks up each named
// pin in the registry.
func OpenPWM(freq physic.Frequency, names ...string) ([]*PeriphPWM, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("init periph host: %w", err)
	}

	pwms := make([]*PeriphPWM, 0, len(names))
	for _, name := range names {
		pin := gpioreg.ByName(name)
		if pin == nil {
			return nil, fmt.Errorf("unknown pwm pin %q", name)
		}
		pwms = append(pwms, NewPeriphPWM(pin, freq))
	}
	return pwms, nil
}
