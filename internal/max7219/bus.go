package max7219

import (
	"errors"
	"fmt"

	"github.com/sweeney/tempsim/internal/gpio"
)

// Frame is the bit sequence of one chip-select window, in transmit order.
type Frame []bool

// Word is one address/data pair.
type Word struct {
	Address byte
	Data    byte
}

// AppendWord appends the 16 bits of an address/data pair, MSB first.
func (f Frame) AppendWord(address, data byte) Frame {
	for i := 7; i >= 0; i-- {
		f = append(f, address&(1<<i) != 0)
	}
	for i := 7; i >= 0; i-- {
		f = append(f, data&(1<<i) != 0)
	}
	return f
}

// Words splits the frame into 16-bit words. Trailing bits that do not fill
// a word are dropped.
func (f Frame) Words() []Word {
	words := make([]Word, 0, len(f)/16)
	for off := 0; off+16 <= len(f); off += 16 {
		var w Word
		for i := 0; i < 8; i++ {
			w.Address <<= 1
			if f[off+i] {
				w.Address |= 1
			}
		}
		for i := 8; i < 16; i++ {
			w.Data <<= 1
			if f[off+i] {
				w.Data |= 1
			}
		}
		words = append(words, w)
	}
	return words
}

// Transmitter sends one frame with chip select held low for its whole length.
type Transmitter interface {
	Transmit(frame Frame) error
}

// BitBang drives the bus through three output lines.
type BitBang struct {
	din, clk, cs gpio.Output
}

// NewBitBang returns a bus on the given lines, left idle with CS high and
// CLK low.
func NewBitBang(din, clk, cs gpio.Output) (*BitBang, error) {
	b := &BitBang{din: din, clk: clk, cs: cs}
	if err := cs.Set(true); err != nil {
		return nil, fmt.Errorf("idle cs: %w", err)
	}
	if err := clk.Set(false); err != nil {
		return nil, fmt.Errorf("idle clk: %w", err)
	}
	return b, nil
}

// Transmit pulls CS low, presents each bit on DIN and pulses CLK, then
// raises CS to latch. CS is released even when a bit write fails.
func (b *BitBang) Transmit(frame Frame) error {
	if err := b.cs.Set(false); err != nil {
		return fmt.Errorf("select: %w", err)
	}
	if err := b.shift(frame); err != nil {
		return errors.Join(err, b.cs.Set(true))
	}
	if err := b.cs.Set(true); err != nil {
		return fmt.Errorf("latch: %w", err)
	}
	return nil
}

func (b *BitBang) shift(frame Frame) error {
	for i, bit := range frame {
		if err := b.din.Set(bit); err != nil {
			return fmt.Errorf("bit %d: %w", i, err)
		}
		if err := b.clk.Set(true); err != nil {
			return fmt.Errorf("clock bit %d: %w", i, err)
		}
		if err := b.clk.Set(false); err != nil {
			return fmt.Errorf("clock bit %d: %w", i, err)
		}
	}
	return nil
}

// Recorder is a Transmitter that keeps every frame it is given.
type Recorder struct {
	Frames []Frame

	// Err, if set, is returned by Transmit without recording.
	Err error
}

// Transmit records a copy of frame.
func (r *Recorder) Transmit(frame Frame) error {
	if r.Err != nil {
		return r.Err
	}
	r.Frames = append(r.Frames, append(Frame(nil), frame...))
	return nil
}

// Words returns the words of every recorded frame, flattened in order.
func (r *Recorder) Words() []Word {
	var words []Word
	for _, f := range r.Frames {
		words = append(words, f.Words()...)
	}
	return words
}

// Reset drops recorded frames.
func (r *Recorder) Reset() {
	r.Frames = nil
}
