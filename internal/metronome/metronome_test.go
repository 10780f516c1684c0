package metronome

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/jscyril/soundboard/internal/clock"
	sberrors "github.com/jscyril/soundboard/pkg/errors"
)

type recordingClicker struct {
	at []float64
}

func (r *recordingClicker) Click(at float64) {
	r.at = append(r.at, at)
}

func assertInstants(t *testing.T, got, want []float64) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("clicks at %v, want %v", got, want)
	}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-6 {
			t.Fatalf("clicks at %v, want %v", got, want)
		}
	}
}

func TestInterval(t *testing.T) {
	tests := []struct {
		bpm  int
		want time.Duration
	}{
		{60, time.Second},
		{120, 500 * time.Millisecond},
		{90, 666666666 * time.Nanosecond},
	}
	for _, tt := range tests {
		if got := Interval(tt.bpm); got != tt.want {
			t.Errorf("Interval(%d) = %v, want %v", tt.bpm, got, tt.want)
		}
	}
}

func TestEnableTicksImmediatelyThenPeriodically(t *testing.T) {
	clk := clock.NewFake()
	out := &recordingClicker{}
	m := New(clk, out, nil, 120)

	m.Enable()
	clk.Advance(1600 * time.Millisecond)

	assertInstants(t, out.at, []float64{0, 0.5, 1.0, 1.5})
	if m.Ticks() != 4 {
		t.Errorf("Ticks() = %d, want 4", m.Ticks())
	}
}

func TestEnableTwiceDoesNotDoubleSchedule(t *testing.T) {
	clk := clock.NewFake()
	out := &recordingClicker{}
	m := New(clk, out, nil, 60)

	m.Enable()
	m.Enable()
	clk.Advance(2 * time.Second)

	assertInstants(t, out.at, []float64{0, 1, 2})
}

func TestDisableStopsTicks(t *testing.T) {
	clk := clock.NewFake()
	out := &recordingClicker{}
	m := New(clk, out, nil, 60)

	m.Enable()
	clk.Advance(1500 * time.Millisecond)
	m.Disable()
	clk.Advance(5 * time.Second)

	assertInstants(t, out.at, []float64{0, 1})
	if m.Enabled() {
		t.Error("metronome should be disabled")
	}
	if clk.Pending() != 0 {
		t.Errorf("Pending() = %d after Disable", clk.Pending())
	}
}

func TestTempoChangeWhileEnabledReschedules(t *testing.T) {
	clk := clock.NewFake()
	out := &recordingClicker{}
	m := New(clk, out, nil, 60)

	m.Enable()
	clk.Advance(1200 * time.Millisecond)
	if err := m.SetTempo(120); err != nil {
		t.Fatal(err)
	}
	clk.Advance(1050 * time.Millisecond)

	// the 60 BPM tick that was due at 2.0 must not appear
	assertInstants(t, out.at, []float64{0, 1, 1.2, 1.7, 2.2})
	if clk.Pending() != 1 {
		t.Errorf("Pending() = %d, want a single schedule", clk.Pending())
	}
}

func TestStaleCallbackIsIgnored(t *testing.T) {
	clk := clock.NewFake()
	clk.LeakyStop = true
	out := &recordingClicker{}
	m := New(clk, out, nil, 60)

	m.Enable()
	clk.Advance(200 * time.Millisecond)
	m.SetTempo(120)
	clk.Advance(1000 * time.Millisecond)

	// old timer at 1.0 still fires but its generation is stale
	assertInstants(t, out.at, []float64{0, 0.2, 0.7, 1.2})
}

func TestSetTempoWhileDisabled(t *testing.T) {
	clk := clock.NewFake()
	out := &recordingClicker{}
	m := New(clk, out, nil, 120)

	if err := m.SetTempo(60); err != nil {
		t.Fatal(err)
	}
	if len(out.at) != 0 {
		t.Error("tempo change while disabled should not tick")
	}
	if m.BPM() != 60 || m.Interval() != time.Second {
		t.Errorf("BPM() = %d, Interval() = %v", m.BPM(), m.Interval())
	}
}

func TestInvalidTempo(t *testing.T) {
	m := New(clock.NewFake(), &recordingClicker{}, nil, 0)
	if m.BPM() != DefaultBPM {
		t.Errorf("invalid constructor tempo should default, got %d", m.BPM())
	}
	for _, bpm := range []int{0, -60, MaxBPM + 1} {
		if err := m.SetTempo(bpm); !errors.Is(err, sberrors.ErrInvalidTempo) {
			t.Errorf("SetTempo(%d) error = %v", bpm, err)
		}
	}
}
