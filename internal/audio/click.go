package audio

import (
	"math"
	"time"

	"github.com/faiface/beep"
)

// Metronome click: a short sine burst with exponential decay
const (
	ClickFrequency = 880.0
	ClickGain      = 0.2
	ClickFloor     = 0.001
	ClickLength    = 50 * time.Millisecond
)

// NewClick synthesizes one metronome click at the given sample rate
func NewClick(sr beep.SampleRate) beep.Streamer {
	n := sr.N(ClickLength)
	decay := math.Pow(ClickFloor/ClickGain, 1/float64(n))
	step := 2 * math.Pi * ClickFrequency / float64(sr)

	gain := ClickGain
	pos := 0
	return beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		if pos >= n {
			return 0, false
		}
		i := 0
		for ; i < len(samples) && pos < n; i++ {
			v := gain * math.Sin(step*float64(pos))
			samples[i] = [2]float64{v, v}
			gain *= decay
			pos++
		}
		return i, true
	})
}
