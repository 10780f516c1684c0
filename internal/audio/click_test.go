package audio

import (
	"math"
	"testing"
)

func TestClickLengthAndDecay(t *testing.T) {
	const rate = 44100
	s := NewClick(rate)

	samples := make([][2]float64, rate)
	n, ok := s.Stream(samples)
	if !ok {
		t.Fatal("first Stream call should succeed")
	}
	if want := 2205; n != want {
		t.Errorf("click length = %d samples, want %d", n, want)
	}

	peakHead, peakTail := 0.0, 0.0
	for i := 0; i < 200; i++ {
		peakHead = math.Max(peakHead, math.Abs(samples[i][0]))
		peakTail = math.Max(peakTail, math.Abs(samples[n-1-i][0]))
	}
	if peakHead > ClickGain+1e-9 {
		t.Errorf("peak %v exceeds click gain", peakHead)
	}
	if peakTail >= peakHead/10 {
		t.Errorf("click does not decay: head %v tail %v", peakHead, peakTail)
	}

	if n, ok := s.Stream(samples); n != 0 || ok {
		t.Errorf("drained click returned (%d, %v)", n, ok)
	}
}
