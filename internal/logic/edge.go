package logic

// EdgeDetector turns sampled button levels into single-tick press events.
// A press is reported only on the sample where a button goes from released
// to asserted; holding a button produces no further events. There is no time
// window: noise suppression comes from the fixed delay between samples.
type EdgeDetector struct {
	prev Levels
}

// NewEdgeDetector creates a detector with every button released.
func NewEdgeDetector() *EdgeDetector {
	return &EdgeDetector{}
}

// Process compares levels with the previous sample and returns the buttons
// pressed on this tick. The previous sample is always replaced by levels.
func (d *EdgeDetector) Process(levels Levels) Presses {
	var p Presses
	for i, asserted := range levels {
		p[i] = asserted && !d.prev[i]
	}
	d.prev = levels
	return p
}

// Previous returns the levels recorded on the last call to Process.
func (d *EdgeDetector) Previous() Levels {
	return d.prev
}
