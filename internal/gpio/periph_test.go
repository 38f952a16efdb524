package gpio

import (
	"testing"

	pgpio "periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpiotest"
	"periph.io/x/conn/v3/physic"
)

func TestDutyFromByte(t *testing.T) {
	tests := []struct {
		in   uint8
		want pgpio.Duty
	}{
		{0, 0},
		{255, pgpio.DutyMax},
		{51, pgpio.DutyMax / 5},
	}
	for _, tt := range tests {
		if got := DutyFromByte(tt.in); got != tt.want {
			t.Errorf("DutyFromByte(%d) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestPeriphPWMSetDuty(t *testing.T) {
	pin := &gpiotest.Pin{N: "COLD"}
	p := NewPeriphPWM(pin, 2*physic.KiloHertz)

	if err := p.SetDuty(255); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	pin.Lock()
	defer pin.Unlock()
	if pin.D != pgpio.DutyMax {
		t.Errorf("expected duty %v, got %v", pgpio.DutyMax, pin.D)
	}
	if pin.F != 2*physic.KiloHertz {
		t.Errorf("expected frequency 2kHz, got %v", pin.F)
	}
}

func TestPeriphOutputSet(t *testing.T) {
	pin := &gpiotest.Pin{N: "ALARM"}
	o := NewPeriphOutput(pin)

	if err := o.Set(true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pin.Read() != pgpio.High {
		t.Error("expected pin high")
	}
	if err := o.Set(false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pin.Read() != pgpio.Low {
		t.Error("expected pin low")
	}
}
