package max7219

import "fmt"

// Device is one display controller, possibly part of a daisy chain.
type Device struct {
	tx        Transmitter
	chain     int
	pos       int
	intensity byte
}

// Option configures a Device.
type Option func(*Device)

// WithChain places the device at pos (0 = nearest the MCU) in a chain of
// length controllers. Writes to other controllers in the chain are No-Ops.
func WithChain(length, pos int) Option {
	return func(d *Device) {
		d.chain = length
		d.pos = pos
	}
}

// WithIntensity sets the brightness written by Initialize (0-15).
func WithIntensity(level byte) Option {
	return func(d *Device) {
		d.intensity = level
	}
}

// New creates a device writing through tx. Defaults to a single controller
// at maximum intensity.
func New(tx Transmitter, opts ...Option) (*Device, error) {
	d := &Device{
		tx:        tx,
		chain:     1,
		intensity: MaxIntensity,
	}
	for _, opt := range opts {
		opt(d)
	}

	if d.chain < 1 {
		return nil, fmt.Errorf("chain length %d: must be at least 1", d.chain)
	}
	if d.pos < 0 || d.pos >= d.chain {
		return nil, fmt.Errorf("chain position %d: out of range for chain of %d", d.pos, d.chain)
	}
	if d.intensity > MaxIntensity {
		return nil, fmt.Errorf("intensity %d: must be 0-%d", d.intensity, MaxIntensity)
	}
	return d, nil
}

// WriteRegister sends one address/data pair to this device. In a chain the
// frame carries one word per controller, farthest first, so that after the
// full shift each controller holds its own word.
func (d *Device) WriteRegister(address, data byte) error {
	frame := make(Frame, 0, 16*d.chain)
	for i := d.chain - 1; i >= 0; i-- {
		if i == d.pos {
			frame = frame.AppendWord(address, data)
		} else {
			frame = frame.AppendWord(RegNoOp, 0)
		}
	}
	if err := d.tx.Transmit(frame); err != nil {
		return fmt.Errorf("write register 0x%02x: %w", address, err)
	}
	return nil
}

// Initialize configures the controller for raw segment output on all eight
// digits and takes it out of shutdown. Must run once before any digit write.
func (d *Device) Initialize() error {
	seq := []Word{
		{RegDecodeMode, noDecode},
		{RegIntensity, d.intensity},
		{RegScanLimit, scanAllDigits},
		{RegShutdown, normalOperation},
		{RegDisplayTest, testOff},
	}
	for _, w := range seq {
		if err := d.WriteRegister(w.Address, w.Data); err != nil {
			return fmt.Errorf("initialize: %w", err)
		}
	}
	return nil
}

// ShowNumber writes the ones, tens and hundreds digits of value. Only the
// low three digits are shown; leading zeros are drawn.
func (d *Device) ShowNumber(value uint) error {
	digits := []struct {
		pos   byte
		digit uint
	}{
		{posOnes, value % 10},
		{posTens, (value / 10) % 10},
		{posHundreds, (value / 100) % 10},
	}
	for _, dg := range digits {
		if err := d.WriteRegister(dg.pos, digitPatterns[dg.digit]); err != nil {
			return fmt.Errorf("show number %d: %w", value, err)
		}
	}
	return nil
}

// ShowUnitGlyph draws 'F' when converted is set, 'C' otherwise.
func (d *Device) ShowUnitGlyph(converted bool) error {
	pattern := PatternC
	if converted {
		pattern = PatternF
	}
	return d.WriteRegister(posUnit, pattern)
}

// Clear blanks all eight digits.
func (d *Device) Clear() error {
	for pos := byte(1); pos <= NumDigits; pos++ {
		if err := d.WriteRegister(pos, 0); err != nil {
			return fmt.Errorf("clear: %w", err)
		}
	}
	return nil
}
