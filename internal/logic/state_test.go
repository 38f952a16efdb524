package logic

import (
	"reflect"
	"testing"
)

func press(buttons ...Button) Presses {
	var p Presses
	for _, b := range buttons {
		p[b] = true
	}
	return p
}

func TestNewState(t *testing.T) {
	s := NewState()
	if s.Count != 0 {
		t.Errorf("expected count 0, got %d", s.Count)
	}
	if s.Unit != UnitNative {
		t.Errorf("expected NATIVE unit, got %s", s.Unit)
	}
	if s.Display != DisplayDigits {
		t.Errorf("expected DIGIT_MATRIX display, got %s", s.Display)
	}
	if s.Alarm.Armed || s.Alarm.Phase {
		t.Errorf("expected alarm disarmed, got %+v", s.Alarm)
	}
}

func TestConvert(t *testing.T) {
	tests := []struct {
		count int
		want  int
	}{
		{0, 32},
		{1, 33}, // 9/5 truncates
		{40, 104},
		{100, 212},
		{199, 390},
		{200, 392},
	}
	for _, tt := range tests {
		if got := Convert(tt.count); got != tt.want {
			t.Errorf("Convert(%d) = %d, want %d", tt.count, got, tt.want)
		}
	}
}

func TestConvertMatchesFormulaForWholeRange(t *testing.T) {
	for c := 0; c <= MaxCount; c++ {
		want := int(float64(c)*9/5 + 32) // positive, so truncation is floor
		if got := Convert(c); got != want {
			t.Fatalf("Convert(%d) = %d, want %d", c, got, want)
		}
	}
}

func TestIncrement(t *testing.T) {
	s := NewState()
	tr := s.Apply(press(ButtonIncrement))
	if s.Count != 1 {
		t.Errorf("expected count 1, got %d", s.Count)
	}
	if !reflect.DeepEqual(tr.Applied, []Button{ButtonIncrement}) {
		t.Errorf("unexpected applied events: %v", tr.Applied)
	}
	if s.Alarm.Armed {
		t.Error("alarm should not arm below threshold")
	}
}

func TestIncrementArmsAtThreshold(t *testing.T) {
	s := NewState()
	s.Count = AlarmThreshold - 2

	tr := s.Apply(press(ButtonIncrement))
	if s.Alarm.Armed || tr.Armed {
		t.Fatalf("alarm armed at count %d", s.Count)
	}

	tr = s.Apply(press(ButtonIncrement))
	if s.Count != AlarmThreshold {
		t.Fatalf("expected count %d, got %d", AlarmThreshold, s.Count)
	}
	if !s.Alarm.Armed {
		t.Error("alarm should arm when count reaches threshold")
	}
	if !tr.Armed {
		t.Error("transition should report the arm edge")
	}

	tr = s.Apply(press(ButtonIncrement))
	if tr.Armed {
		t.Error("arm edge should only be reported once")
	}
}

func TestIncrementWrap(t *testing.T) {
	s := NewState()
	s.Count = 199

	s.Apply(press(ButtonIncrement))
	if s.Count != 0 {
		t.Errorf("expected wrap to 0, got %d", s.Count)
	}
	if !s.Alarm.Armed {
		t.Error("wrap from 199 should arm the alarm")
	}
}

func TestIncrementFromMaxWraps(t *testing.T) {
	s := NewState()
	s.Count = MaxCount
	s.Apply(press(ButtonIncrement))
	if s.Count != 0 {
		t.Errorf("expected wrap to 0, got %d", s.Count)
	}
}

func TestDecrementUnderflow(t *testing.T) {
	s := NewState()

	tr := s.Apply(press(ButtonDecrement))
	if s.Count != MaxCount {
		t.Errorf("expected underflow to %d, got %d", MaxCount, s.Count)
	}
	if !s.Alarm.Armed || !tr.Armed {
		t.Error("underflow should arm the alarm")
	}
	if tr.AlarmForcedOff {
		t.Error("alarm output should not be forced off above threshold")
	}
}

func TestDecrementDisarmsBelowThreshold(t *testing.T) {
	s := NewState()
	s.Count = AlarmThreshold
	s.Alarm = Alarm{Armed: true, Phase: true}

	tr := s.Apply(press(ButtonDecrement))
	if s.Count != AlarmThreshold-1 {
		t.Fatalf("expected count %d, got %d", AlarmThreshold-1, s.Count)
	}
	if s.Alarm.Armed {
		t.Error("alarm should disarm below threshold")
	}
	if !tr.AlarmForcedOff {
		t.Error("alarm output should be forced off")
	}
	if !tr.Disarmed {
		t.Error("transition should report the disarm edge")
	}
}

func TestDecrementAboveThresholdKeepsAlarm(t *testing.T) {
	s := NewState()
	s.Count = 50
	s.Alarm.Armed = true

	tr := s.Apply(press(ButtonDecrement))
	if !s.Alarm.Armed {
		t.Error("alarm should stay armed above threshold")
	}
	if tr.AlarmForcedOff {
		t.Error("alarm should not be forced off above threshold")
	}
}

func TestIncrementNeverDisarms(t *testing.T) {
	s := NewState()
	s.Count = 45
	s.Alarm.Armed = true

	for i := 0; i < 10; i++ {
		s.Apply(press(ButtonIncrement))
	}
	if !s.Alarm.Armed {
		t.Error("increment must not disarm the alarm")
	}
}

func TestReset(t *testing.T) {
	s := NewState()
	s.Count = 120
	s.Alarm = Alarm{Armed: true, Phase: true}

	tr := s.Apply(press(ButtonReset))
	if s.Count != 0 {
		t.Errorf("expected count 0, got %d", s.Count)
	}
	if s.Alarm.Armed || s.Alarm.Phase {
		t.Errorf("expected alarm cleared, got %+v", s.Alarm)
	}
	if !tr.AlarmForcedOff || !tr.Disarmed {
		t.Errorf("unexpected transition: %+v", tr)
	}
}

func TestResetTakesPriorityOverCounting(t *testing.T) {
	s := NewState()
	s.Count = 10

	tr := s.Apply(press(ButtonIncrement, ButtonDecrement, ButtonReset))
	if s.Count != 0 {
		t.Errorf("expected count 0 after reset, got %d", s.Count)
	}
	if s.Alarm.Armed {
		t.Error("alarm should be disarmed after reset")
	}
	if !reflect.DeepEqual(tr.Applied, []Button{ButtonReset}) {
		t.Errorf("expected only RESET applied, got %v", tr.Applied)
	}
}

func TestResetWithDecrementAtZeroDoesNotArm(t *testing.T) {
	s := NewState()
	s.Apply(press(ButtonDecrement, ButtonReset))
	if s.Count != 0 || s.Alarm.Armed {
		t.Errorf("expected reset state, got count=%d armed=%v", s.Count, s.Alarm.Armed)
	}
}

func TestResetDoesNotBlockToggles(t *testing.T) {
	s := NewState()
	tr := s.Apply(press(ButtonReset, ButtonUnit, ButtonDisplay))
	if s.Unit != UnitConverted {
		t.Error("unit toggle should apply alongside reset")
	}
	if s.Display != DisplayAnalog {
		t.Error("display toggle should apply alongside reset")
	}
	want := []Button{ButtonReset, ButtonUnit, ButtonDisplay}
	if !reflect.DeepEqual(tr.Applied, want) {
		t.Errorf("applied = %v, want %v", tr.Applied, want)
	}
}

func TestIncrementAndDecrementSameTick(t *testing.T) {
	s := NewState()
	s.Count = AlarmThreshold - 1

	tr := s.Apply(press(ButtonIncrement, ButtonDecrement))
	if s.Count != AlarmThreshold-1 {
		t.Errorf("expected count unchanged, got %d", s.Count)
	}
	if s.Alarm.Armed {
		t.Error("decrement below threshold should disarm")
	}
	if tr.Armed || tr.Disarmed {
		t.Error("no net alarm edge expected")
	}
	if !tr.AlarmForcedOff {
		t.Error("alarm output should still be forced off")
	}
}

func TestUnitToggle(t *testing.T) {
	s := NewState()
	s.Count = 100

	s.Apply(press(ButtonUnit))
	if s.Unit != UnitConverted {
		t.Fatalf("expected CONVERTED, got %s", s.Unit)
	}
	if v := s.DisplayValue(); v != 212 {
		t.Errorf("expected display value 212, got %d", v)
	}

	s.Apply(press(ButtonUnit))
	if s.Unit != UnitNative {
		t.Fatalf("expected NATIVE, got %s", s.Unit)
	}
	if v := s.DisplayValue(); v != 100 {
		t.Errorf("expected display value 100, got %d", v)
	}
}

func TestDisplayToggle(t *testing.T) {
	s := NewState()

	tr := s.Apply(press(ButtonDisplay))
	if s.Display != DisplayAnalog {
		t.Fatalf("expected ANALOG_BANK, got %s", s.Display)
	}
	if !tr.ClearDigits || tr.ClearAnalog {
		t.Errorf("switching to analog should clear digits only: %+v", tr)
	}

	tr = s.Apply(press(ButtonDisplay))
	if s.Display != DisplayDigits {
		t.Fatalf("expected DIGIT_MATRIX, got %s", s.Display)
	}
	if !tr.ClearAnalog || tr.ClearDigits {
		t.Errorf("switching to digits should clear analog only: %+v", tr)
	}
}

func TestNoPressesNoChange(t *testing.T) {
	s := NewState()
	s.Count = 77
	before := s

	tr := s.Apply(Presses{})
	if s != before {
		t.Errorf("state changed without presses: %+v -> %+v", before, s)
	}
	if len(tr.Applied) != 0 || tr.AlarmForcedOff || tr.ClearAnalog || tr.ClearDigits {
		t.Errorf("unexpected transition: %+v", tr)
	}
}

func TestBlink(t *testing.T) {
	s := NewState()

	if level, armed := s.Blink(); level || armed {
		t.Error("disarmed alarm should not blink")
	}

	s.Alarm.Armed = true
	want := []bool{true, false, true, false}
	for i, w := range want {
		level, armed := s.Blink()
		if !armed {
			t.Fatalf("tick %d: expected armed", i)
		}
		if level != w {
			t.Errorf("tick %d: expected level %v, got %v", i, w, level)
		}
	}
}

func TestCountStaysInRange(t *testing.T) {
	s := NewState()
	seq := []Presses{
		press(ButtonDecrement),
		press(ButtonIncrement),
		press(ButtonDecrement),
		press(ButtonDecrement),
	}
	for i := 0; i < 1000; i++ {
		s.Apply(seq[i%len(seq)])
		if s.Count < 0 || s.Count > MaxCount {
			t.Fatalf("count out of range at step %d: %d", i, s.Count)
		}
	}
}

func TestButtonString(t *testing.T) {
	if ButtonIncrement.String() != "INCREMENT" {
		t.Errorf("unexpected name %q", ButtonIncrement.String())
	}
	if ButtonDisplay.String() != "DISPLAY" {
		t.Errorf("unexpected name %q", ButtonDisplay.String())
	}
	if Button(9).String() != "UNKNOWN" {
		t.Errorf("unexpected name %q", Button(9).String())
	}
}
