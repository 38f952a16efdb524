//go:build linux

package gpio

import (
	"fmt"

	"github.com/warthog618/go-gpiocdev"
)

// RealReader reads buttons from actual hardware using Linux GPIO character device.
type RealReader struct {
	chip  *gpiocdev.Chip
	lines [NumButtons]*gpiocdev.Line
}

// NewRealReader creates a button reader on the given chip. pins holds the
// line offsets in button order.
func NewRealReader(chipName string, pins [NumButtons]int) (*RealReader, error) {
	chip, err := gpiocdev.NewChip(chipName)
	if err != nil {
		return nil, fmt.Errorf("open gpio chip: %w", err)
	}

	r := &RealReader{chip: chip}
	for i, pin := range pins {
		// Buttons short the line to ground, so bias it high.
		line, err := chip.RequestLine(pin, gpiocdev.AsInput, gpiocdev.WithPullUp)
		if err != nil {
			r.Close()
			return nil, fmt.Errorf("request button pin %d: %w", pin, err)
		}
		r.lines[i] = line
	}

	return r, nil
}

// Read returns the logical level of every button.
// Inverts raw GPIO: raw low (0) = pressed, raw high (1) = released.
func (r *RealReader) Read() (Levels, error) {
	var levels Levels
	for i, line := range r.lines {
		raw, err := line.Value()
		if err != nil {
			return Levels{}, fmt.Errorf("read button pin %d: %w", line.Offset(), err)
		}
		levels[i] = raw == 0
	}
	return levels, nil
}

// Close releases GPIO resources.
func (r *RealReader) Close() error {
	var errs []error

	for _, line := range r.lines {
		if line == nil {
			continue
		}
		if err := line.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close button pin %d: %w", line.Offset(), err))
		}
	}
	if r.chip != nil {
		if err := r.chip.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close chip: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}

// RealOutputs drives discrete output lines on actual hardware.
type RealOutputs struct {
	chip  *gpiocdev.Chip
	lines []*gpiocdev.Line
}

// NewRealOutputs requests each pin as an output driven low.
func NewRealOutputs(chipName string, pins ...int) (*RealOutputs, error) {
	chip, err := gpiocdev.NewChip(chipName)
	if err != nil {
		return nil, fmt.Errorf("open gpio chip: %w", err)
	}

	o := &RealOutputs{chip: chip}
	for _, pin := range pins {
		line, err := chip.RequestLine(pin, gpiocdev.AsOutput(0))
		if err != nil {
			o.Close()
			return nil, fmt.Errorf("request output pin %d: %w", pin, err)
		}
		o.lines = append(o.lines, line)
	}

	return o, nil
}

// Line returns the i'th requested line, in the order passed to NewRealOutputs.
func (o *RealOutputs) Line(i int) Output {
	return lineOutput{line: o.lines[i]}
}

// Close releases GPIO resources.
// Lines are driven low and then reconfigured as inputs so nothing is left
// driving the display or LEDs after exit.
func (o *RealOutputs) Close() error {
	var errs []error

	for _, line := range o.lines {
		if err := line.SetValue(0); err != nil {
			errs = append(errs, fmt.Errorf("drive pin %d low: %w", line.Offset(), err))
		}
		if err := line.Reconfigure(gpiocdev.AsInput); err != nil {
			errs = append(errs, fmt.Errorf("reconfigure pin %d: %w", line.Offset(), err))
		}
		if err := line.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close pin %d: %w", line.Offset(), err))
		}
	}
	if o.chip != nil {
		if err := o.chip.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close chip: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}

type lineOutput struct {
	line *gpiocdev.Line
}

func (l lineOutput) Set(on bool) error {
	v := 0
	if on {
		v = 1
	}
	if err := l.line.SetValue(v); err != nil {
		return fmt.Errorf("set pin %d: %w", l.line.Offset(), err)
	}
	return nil
}
