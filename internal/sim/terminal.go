package sim

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/nsf/termbox-go"
	pgpio "periph.io/x/conn/v3/gpio"

	"github.com/sweeney/tempsim/internal/analog"
	"github.com/sweeney/tempsim/internal/status"
)

// ErrQuit is returned by Run when a quit key is pressed.
var ErrQuit = errors.New("sim: quit requested")

const barWidth = 20

// Terminal owns the termbox screen for the lifetime of a simulation.
type Terminal struct {
	kb      *Keyboard
	out     Outputs
	tracker *status.Tracker

	mu sync.Mutex // serializes drawing
}

// Open initializes termbox and returns a Terminal feeding kb and drawing out.
func Open(kb *Keyboard, out Outputs, tracker *status.Tracker) (*Terminal, error) {
	if err := termbox.Init(); err != nil {
		return nil, fmt.Errorf("init terminal: %w", err)
	}
	termbox.SetInputMode(termbox.InputEsc)
	return &Terminal{kb: kb, out: out, tracker: tracker}, nil
}

// Run polls key events until ctx is cancelled or a quit key is pressed.
func (t *Terminal) Run(ctx context.Context) error {
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			termbox.Interrupt()
		case <-done:
		}
	}()

	for {
		ev := termbox.PollEvent()
		switch ev.Type {
		case termbox.EventKey:
			if t.kb.HandleKey(ev) {
				return ErrQuit
			}
		case termbox.EventResize:
			t.Draw()
		case termbox.EventInterrupt:
			if ctx.Err() != nil {
				return nil
			}
		case termbox.EventError:
			return fmt.Errorf("poll terminal: %w", ev.Err)
		}
	}
}

// Refresh redraws the screen every interval until ctx is cancelled.
func (t *Terminal) Refresh(ctx context.Context, clock clockwork.Clock, interval time.Duration) error {
	ticker := clock.NewTicker(interval)
	defer ticker.Stop()

	t.Draw()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.Chan():
			t.Draw()
		}
	}
}

// Draw renders the current outputs and status.
func (t *Terminal) Draw() {
	lines := renderLines(t.out.sample(), t.tracker.Snapshot())

	t.mu.Lock()
	defer t.mu.Unlock()
	termbox.Clear(termbox.ColorDefault, termbox.ColorDefault)
	for y, line := range lines {
		fg := termbox.ColorDefault
		if strings.HasPrefix(line, "ALARM") && strings.Contains(line, " ON") {
			fg = termbox.ColorRed | termbox.AttrBold
		}
		for x, r := range line {
			termbox.SetCell(x, y, r, fg, termbox.ColorDefault)
		}
	}
	termbox.Flush()
}

// Close restores the terminal.
func (t *Terminal) Close() {
	termbox.Close()
}

func renderLines(v view, snap status.Snapshot) []string {
	matrix := "[  off   ]"
	if v.enabled {
		matrix = "[" + v.digits + "]"
	}

	lines := []string{
		"tempsim",
		"",
		fmt.Sprintf("display  %-12s  unit %s", snap.State.Display, snap.State.Unit),
		fmt.Sprintf("matrix   %s", matrix),
	}
	for i, d := range v.duties {
		lines = append(lines, fmt.Sprintf("%-7s  %s %3d%%", analog.Channel(i), bar(d), percent(d)))
	}
	lines = append(lines,
		fmt.Sprintf("OVERHOT  %s", onOff(v.overHot)),
		fmt.Sprintf("ALARM    %s  armed=%t", onOff(v.alarm), snap.State.Alarm.Armed),
		"",
		fmt.Sprintf("count %d  ticks %d  uptime %s", snap.State.Count, snap.Ticks, snap.Uptime().Truncate(time.Second)),
		"",
		"keys: +/- count  r reset  u unit  d display  q quit",
	)
	return lines
}

func bar(d pgpio.Duty) string {
	n := int(int64(d) * barWidth / int64(pgpio.DutyMax))
	if n > barWidth {
		n = barWidth
	}
	if n < 0 {
		n = 0
	}
	return strings.Repeat("#", n) + strings.Repeat(".", barWidth-n)
}

func percent(d pgpio.Duty) int {
	return int(int64(d) * 100 / int64(pgpio.DutyMax))
}

func onOff(on bool) string {
	if on {
		return "ON"
	}
	return "off"
}
