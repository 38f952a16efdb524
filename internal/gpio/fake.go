package gpio

import (
	"errors"
	"sync"
)

// FakeReader is a test double that returns scripted button levels.
type FakeReader struct {
	// Samples contains scripted levels to return.
	// Each call to Read() consumes the next sample.
	Samples []Levels

	// index tracks current position in Samples
	index int

	// Closed tracks if Close was called
	Closed bool

	// ReadError, if set, will be returned by Read()
	ReadError error
}

// NewFakeReader creates a FakeReader with the given samples.
func NewFakeReader(samples []Levels) *FakeReader {
	return &FakeReader{Samples: samples}
}

// Read returns the next scripted sample.
// If samples are exhausted, returns the last sample repeatedly.
func (f *FakeReader) Read() (Levels, error) {
	if f.ReadError != nil {
		return Levels{}, f.ReadError
	}

	if len(f.Samples) == 0 {
		return Levels{}, errors.New("no samples configured")
	}

	sample := f.Samples[f.index]
	if f.index < len(f.Samples)-1 {
		f.index++
	}

	return sample, nil
}

// Close marks the reader as closed.
func (f *FakeReader) Close() error {
	f.Closed = true
	return nil
}

// Reset resets the reader to the beginning of samples.
func (f *FakeReader) Reset() {
	f.index = 0
	f.Closed = false
}

// FakeOutput records every level written to a discrete line.
// Safe for concurrent use.
type FakeOutput struct {
	mu     sync.Mutex
	writes []bool

	// SetError, if set, will be returned by Set without recording.
	SetError error
}

// Set records on.
func (f *FakeOutput) Set(on bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.SetError != nil {
		return f.SetError
	}
	f.writes = append(f.writes, on)
	return nil
}

// On reports the last written level (false if never written).
func (f *FakeOutput) On() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.writes) == 0 {
		return false
	}
	return f.writes[len(f.writes)-1]
}

// Writes returns a copy of every level written.
func (f *FakeOutput) Writes() []bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]bool(nil), f.writes...)
}

// Reset clears recorded writes.
func (f *FakeOutput) Reset() {
	f.mu.Lock()
	f.writes = nil
	f.mu.Unlock()
}

// FakePWM records every duty written to a PWM channel.
// Safe for concurrent use.
type FakePWM struct {
	mu     sync.Mutex
	duties []uint8

	// SetError, if set, will be returned by SetDuty without recording.
	SetError error
}

// SetDuty records duty.
func (f *FakePWM) SetDuty(duty uint8) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.SetError != nil {
		return f.SetError
	}
	f.duties = append(f.duties, duty)
	return nil
}

// Duty returns the last written duty (0 if never written).
func (f *FakePWM) Duty() uint8 {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.duties) == 0 {
		return 0
	}
	return f.duties[len(f.duties)-1]
}

// Duties returns a copy of every duty written.
func (f *FakePWM) Duties() []uint8 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]uint8(nil), f.duties...)
}

// Reset clears recorded duties.
func (f *FakePWM) Reset() {
	f.mu.Lock()
	f.duties = nil
	f.mu.Unlock()
}
