package logic

// NewState returns the power-on state: count zero, native unit, digit
// display, alarm disarmed.
func NewState() State {
	return State{
		Count:   0,
		Unit:    UnitNative,
		Display: DisplayDigits,
	}
}

// Apply processes the button events of one tick and returns the resulting
// transition. Events are handled in a fixed order: increment, decrement,
// reset, unit toggle, display toggle.
//
// Reset takes priority over counting: when reset is pressed, increment and
// decrement presses in the same tick are dropped. Toggles always apply.
func (s *State) Apply(p Presses) Transition {
	var tr Transition
	wasArmed := s.Alarm.Armed

	if p[ButtonReset] {
		s.reset(&tr)
	} else {
		if p[ButtonIncrement] {
			s.increment()
			tr.Applied = append(tr.Applied, ButtonIncrement)
		}
		if p[ButtonDecrement] {
			s.decrement(&tr)
			tr.Applied = append(tr.Applied, ButtonDecrement)
		}
	}

	if p[ButtonReset] {
		tr.Applied = append(tr.Applied, ButtonReset)
	}

	if p[ButtonUnit] {
		if s.Unit == UnitNative {
			s.Unit = UnitConverted
		} else {
			s.Unit = UnitNative
		}
		tr.Applied = append(tr.Applied, ButtonUnit)
	}

	if p[ButtonDisplay] {
		if s.Display == DisplayDigits {
			s.Display = DisplayAnalog
			tr.ClearDigits = true
		} else {
			s.Display = DisplayDigits
			tr.ClearAnalog = true
		}
		tr.Applied = append(tr.Applied, ButtonDisplay)
	}

	tr.Armed = !wasArmed && s.Alarm.Armed
	tr.Disarmed = wasArmed && !s.Alarm.Armed
	return tr
}

// increment arms on the pre-wrap value, so 199 -> 200 arms and then wraps to 0.
func (s *State) increment() {
	s.Count++
	if s.Count >= AlarmThreshold {
		s.Alarm.Armed = true
	}
	if s.Count >= MaxCount {
		s.Count = 0
	}
}

// decrement underflows to MaxCount, which counts as an over-threshold event.
func (s *State) decrement(tr *Transition) {
	if s.Count > 0 {
		s.Count--
	} else {
		s.Count = MaxCount
		s.Alarm.Armed = true
	}
	if s.Count < AlarmThreshold {
		s.Alarm.Armed = false
		tr.AlarmForcedOff = true
	}
}

func (s *State) reset(tr *Transition) {
	s.Count = 0
	s.Alarm.Armed = false
	s.Alarm.Phase = false
	tr.AlarmForcedOff = true
}

// Blink advances the blink phase. It returns the level the alarm output must
// be driven to, and false for armed when the output must be left alone.
func (s *State) Blink() (level, armed bool) {
	if !s.Alarm.Armed {
		return false, false
	}
	s.Alarm.Phase = !s.Alarm.Phase
	return s.Alarm.Phase, true
}

// DisplayValue returns the number the digit display shows for this state.
func (s State) DisplayValue() int {
	if s.Unit == UnitConverted {
		return Convert(s.Count)
	}
	return s.Count
}
