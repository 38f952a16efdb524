package sim

import (
	pgpio "periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpiotest"

	"github.com/sweeney/tempsim/internal/analog"
	"github.com/sweeney/tempsim/internal/gpio"
	"github.com/sweeney/tempsim/internal/max7219"
)

// Outputs holds the in-memory pins the simulated panel drives.
type Outputs struct {
	Display  *max7219.Emulator
	Channels [analog.NumChannels]*gpiotest.Pin
	OverHot  *gpiotest.Pin
	Alarm    *gpiotest.Pin
}

// NewOutputs creates an emulator for chain position pos and a test pin
// for every analog and alarm line.
func NewOutputs(pos int) Outputs {
	o := Outputs{
		Display: max7219.NewEmulator(pos),
		OverHot: &gpiotest.Pin{N: "OVERHOT"},
		Alarm:   &gpiotest.Pin{N: "ALARM"},
	}
	for i := range o.Channels {
		o.Channels[i] = &gpiotest.Pin{N: analog.Channel(i).String()}
	}
	return o
}

// PWMs wraps the channel pins as 8-bit PWM outputs.
func (o Outputs) PWMs() [analog.NumChannels]gpio.PWM {
	var pwms [analog.NumChannels]gpio.PWM
	for i, p := range o.Channels {
		pwms[i] = gpio.NewPeriphPWM(p, gpio.DefaultPWMFrequency)
	}
	return pwms
}

type view struct {
	digits  string
	enabled bool
	duties  [analog.NumChannels]pgpio.Duty
	overHot bool
	alarm   bool
}

func (o Outputs) sample() view {
	v := view{
		digits:  o.Display.Text(),
		enabled: o.Display.Enabled(),
		overHot: level(o.OverHot),
		alarm:   level(o.Alarm),
	}
	for i, p := range o.Channels {
		p.Lock()
		v.duties[i] = p.D
		p.Unlock()
	}
	return v
}

func level(p *gpiotest.Pin) bool {
	p.Lock()
	defer p.Unlock()
	return p.L == pgpio.High
}
