package max7219

import (
	"sync"

	"github.com/sweeney/tempsim/internal/gpio"
)

// Emulator is a virtual display controller driven by pin activity. It samples
// DIN on each rising CLK edge while CS is low and, when CS rises, latches the
// word addressed to its chain position into its register file.
// Safe for concurrent use.
type Emulator struct {
	mu      sync.Mutex
	pos     int
	din     bool
	clk     bool
	cs      bool
	bits    Frame
	regs    [16]byte
	latched int
}

// NewEmulator creates an emulated controller at chain position pos
// (0 = nearest the MCU), powered up with CS idle high.
func NewEmulator(pos int) *Emulator {
	return &Emulator{pos: pos, cs: true}
}

// DIN returns the data input line.
func (e *Emulator) DIN() gpio.Output {
	return gpio.OutputFunc(func(on bool) error {
		e.mu.Lock()
		e.din = on
		e.mu.Unlock()
		return nil
	})
}

// CLK returns the clock input line.
func (e *Emulator) CLK() gpio.Output {
	return gpio.OutputFunc(func(on bool) error {
		e.mu.Lock()
		defer e.mu.Unlock()
		if on && !e.clk && !e.cs {
			e.bits = append(e.bits, e.din)
		}
		e.clk = on
		return nil
	})
}

// CS returns the chip select (load) input line.
func (e *Emulator) CS() gpio.Output {
	return gpio.OutputFunc(func(on bool) error {
		e.mu.Lock()
		defer e.mu.Unlock()
		switch {
		case !on && e.cs:
			e.bits = e.bits[:0]
		case on && !e.cs:
			e.latch()
		}
		e.cs = on
		return nil
	})
}

// latch stores the word that shifted through to this position. The word
// for position p is the (p+1)'th word from the end of the shift.
func (e *Emulator) latch() {
	end := len(e.bits) - 16*e.pos
	start := end - 16
	if start < 0 {
		return
	}
	w := e.bits[start:end].Words()[0]
	addr := w.Address & 0x0f
	if addr == RegNoOp {
		return
	}
	e.regs[addr] = w.Data
	e.latched++
}

// Register returns the value last latched into addr.
func (e *Emulator) Register(addr byte) byte {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.regs[addr&0x0f]
}

// Digits returns the eight digit registers; index 0 is digit position 1.
func (e *Emulator) Digits() [NumDigits]byte {
	e.mu.Lock()
	defer e.mu.Unlock()
	var d [NumDigits]byte
	copy(d[:], e.regs[RegDigit0:RegDigit0+NumDigits])
	return d
}

// Latched returns the number of non-No-Op words latched so far.
func (e *Emulator) Latched() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.latched
}

// Enabled reports whether the controller is out of shutdown.
func (e *Emulator) Enabled() bool {
	return e.Register(RegShutdown)&0x01 != 0
}

// Text decodes the digit registers left to right, position 8 first.
func (e *Emulator) Text() string {
	d := e.Digits()
	out := make([]rune, 0, NumDigits)
	for i := NumDigits - 1; i >= 0; i-- {
		out = append(out, Decode(d[i]))
	}
	return string(out)
}
