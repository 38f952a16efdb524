package sim

import (
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"gotest.tools/v3/assert"
	pgpio "periph.io/x/conn/v3/gpio"

	"github.com/sweeney/tempsim/internal/analog"
	"github.com/sweeney/tempsim/internal/logic"
	"github.com/sweeney/tempsim/internal/max7219"
	"github.com/sweeney/tempsim/internal/status"
)

func TestRenderLines(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	snap := status.Snapshot{
		State: logic.State{
			Count: 40,
			Unit:  logic.UnitConverted,
			Alarm: logic.Alarm{Armed: true},
		},
		Ticks:     12,
		StartTime: start,
		Now:       start.Add(3*time.Second + 400*time.Millisecond),
	}
	v := view{
		digits:  "    104F",
		enabled: true,
		duties:  [analog.NumChannels]pgpio.Duty{0, pgpio.DutyMax / 2, 0, pgpio.DutyMax},
		alarm:   true,
	}

	want := []string{
		"tempsim",
		"",
		"display  DIGIT_MATRIX  unit CONVERTED",
		"matrix   [    104F]",
		"cold     ....................   0%",
		"normal   ##########..........  50%",
		"warm     ....................   0%",
		"hot      #################### 100%",
		"OVERHOT  off",
		"ALARM    ON  armed=true",
		"",
		"count 40  ticks 12  uptime 3s",
		"",
		"keys: +/- count  r reset  u unit  d display  q quit",
	}
	if diff := cmp.Diff(want, renderLines(v, snap)); diff != "" {
		t.Errorf("renderLines mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderLinesDisplayOff(t *testing.T) {
	lines := renderLines(view{digits: "    0040"}, status.Snapshot{})
	assert.Equal(t, lines[3], "matrix   [  off   ]")
}

func TestOutputsSample(t *testing.T) {
	out := NewOutputs(0)
	pwms := out.PWMs()
	assert.NilError(t, pwms[analog.Hot].SetDuty(255))
	out.Alarm.Lock()
	out.Alarm.L = pgpio.High
	out.Alarm.Unlock()

	bus, err := max7219.NewBitBang(out.Display.DIN(), out.Display.CLK(), out.Display.CS())
	assert.NilError(t, err)
	dev, err := max7219.New(bus)
	assert.NilError(t, err)
	assert.NilError(t, dev.Initialize())
	assert.NilError(t, dev.ShowNumber(7))

	v := out.sample()
	assert.Equal(t, v.duties[analog.Hot], pgpio.DutyMax)
	assert.Equal(t, v.duties[analog.Cold], pgpio.Duty(0))
	assert.Assert(t, v.alarm)
	assert.Assert(t, !v.overHot)
	assert.Assert(t, v.enabled)
	assert.Equal(t, strings.TrimSpace(v.digits), "007")
}
