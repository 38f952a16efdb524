// Package analog renders a count as a cold to hot brightness gradient across
// four PWM channels plus a discrete over-hot line.
package analog

import (
	"errors"
	"fmt"

	"github.com/sweeney/tempsim/internal/gpio"
)

// Channel identifies one graded output.
type Channel int

const (
	Cold Channel = iota
	Normal
	Warm
	Hot
)

// NumChannels is the number of graded outputs.
const NumChannels = 4

var channelNames = [NumChannels]string{"cold", "normal", "warm", "hot"}

func (c Channel) String() string {
	if c < 0 || int(c) >= NumChannels {
		return "unknown"
	}
	return channelNames[c]
}

// Band maps values Low..High onto one channel as (value-Low)*255/Span.
type Band struct {
	Channel Channel
	Low     int
	High    int
	Span    int
}

// Bands is the range table, lowest values first. Values above the last
// band drive the over-hot line instead.
var Bands = []Band{
	{Cold, 0, 15, 15},
	{Normal, 16, 25, 10},
	{Warm, 26, 35, 10},
	{Hot, 36, 40, 5},
}

// Level is the output pattern for one value.
type Level struct {
	Duties  [NumChannels]uint8
	OverHot bool
}

// Map returns the output pattern for value. At most one channel is
// non-zero; integer division truncates, so only evenly dividing band tops
// reach 255.
func Map(value int) Level {
	var l Level
	for _, b := range Bands {
		if value >= b.Low && value <= b.High {
			l.Duties[b.Channel] = uint8((value - b.Low) * 255 / b.Span)
			return l
		}
	}
	if value > Bands[len(Bands)-1].High {
		l.OverHot = true
	}
	return l
}

// Bank drives the graded channels and the over-hot line.
type Bank struct {
	channels [NumChannels]gpio.PWM
	overHot  gpio.Output
}

// NewBank creates a bank. channels are indexed by Channel.
func NewBank(channels [NumChannels]gpio.PWM, overHot gpio.Output) *Bank {
	return &Bank{channels: channels, overHot: overHot}
}

// Apply renders value. Every channel is zeroed and the over-hot line
// released first, so nothing carries over from the previous call.
func (b *Bank) Apply(value int) error {
	errs := []error{b.Clear()}

	l := Map(value)
	for c, duty := range l.Duties {
		if duty == 0 {
			continue
		}
		if err := b.channels[c].SetDuty(duty); err != nil {
			errs = append(errs, fmt.Errorf("%s duty %d: %w", Channel(c), duty, err))
		}
	}
	if l.OverHot {
		if err := b.overHot.Set(true); err != nil {
			errs = append(errs, fmt.Errorf("over-hot on: %w", err))
		}
	}
	return errors.Join(errs...)
}

// Clear sets every duty to zero and releases the over-hot line.
func (b *Bank) Clear() error {
	var errs []error
	for c, ch := range b.channels {
		if err := ch.SetDuty(0); err != nil {
			errs = append(errs, fmt.Errorf("%s off: %w", Channel(c), err))
		}
	}
	if err := b.overHot.Set(false); err != nil {
		errs = append(errs, fmt.Errorf("over-hot off: %w", err))
	}
	return errors.Join(errs...)
}
