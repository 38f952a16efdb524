// Package sim runs the panel against a terminal instead of GPIO hardware.
// Keys stand in for the buttons; the digit matrix, analog bank and alarm
// are drawn from in-memory pins.
package sim

import (
	"sync"

	"github.com/nsf/termbox-go"

	"github.com/sweeney/tempsim/internal/gpio"
	"github.com/sweeney/tempsim/internal/logic"
)

// ButtonForKey maps a key event to the button it stands in for.
func ButtonForKey(ev termbox.Event) (logic.Button, bool) {
	switch ev.Key {
	case termbox.KeyArrowUp:
		return logic.ButtonIncrement, true
	case termbox.KeyArrowDown:
		return logic.ButtonDecrement, true
	case termbox.KeyTab:
		return logic.ButtonDisplay, true
	}
	switch ev.Ch {
	case '+', '=':
		return logic.ButtonIncrement, true
	case '-':
		return logic.ButtonDecrement, true
	case 'r', 'R':
		return logic.ButtonReset, true
	case 'u', 'U':
		return logic.ButtonUnit, true
	case 'd', 'D':
		return logic.ButtonDisplay, true
	}
	return 0, false
}

// IsQuit reports whether ev asks the simulator to exit.
func IsQuit(ev termbox.Event) bool {
	switch ev.Key {
	case termbox.KeyCtrlC, termbox.KeyEsc:
		return true
	}
	return ev.Ch == 'q' || ev.Ch == 'Q'
}

// Keyboard is a gpio.Reader fed by key events.
// Each key reads as a held button for exactly one sample, so the edge
// detector sees one press per key and a release on the next tick.
type Keyboard struct {
	mu      sync.Mutex
	pending gpio.Levels
}

// NewKeyboard returns a Keyboard with every button released.
func NewKeyboard() *Keyboard {
	return &Keyboard{}
}

// HandleKey latches the button for ev, if any. It returns true when ev is
// a quit key.
func (k *Keyboard) HandleKey(ev termbox.Event) bool {
	if ev.Type != termbox.EventKey {
		return false
	}
	if IsQuit(ev) {
		return true
	}
	if b, ok := ButtonForKey(ev); ok {
		k.Press(b)
	}
	return false
}

// Press latches b until the next Read.
func (k *Keyboard) Press(b logic.Button) {
	k.mu.Lock()
	defer k.mu.Unlock()
	if int(b) < gpio.NumButtons {
		k.pending[b] = true
	}
}

// Read returns the latched buttons and releases them.
func (k *Keyboard) Read() (gpio.Levels, error) {
	k.mu.Lock()
	defer k.mu.Unlock()
	l := k.pending
	k.pending = gpio.Levels{}
	return l, nil
}

// Close drops any latched buttons.
func (k *Keyboard) Close() error {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.pending = gpio.Levels{}
	return nil
}
