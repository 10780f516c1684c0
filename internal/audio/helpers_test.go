package audio

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/faiface/beep"
	"github.com/faiface/beep/wav"
	"github.com/jscyril/soundboard/api"
)

// constant returns a streamer producing n samples of value v
func constant(n int, v float64) beep.Streamer {
	return beep.Take(n, beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		for i := range samples {
			samples[i] = [2]float64{v, v}
		}
		return len(samples), true
	}))
}

// writeWAV writes a mono 16-bit WAV of n samples to dir/name
func writeWAV(t *testing.T, dir, name string, rate beep.SampleRate, n int) string {
	t.Helper()
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	format := beep.Format{SampleRate: rate, NumChannels: 1, Precision: 2}
	if err := wav.Encode(f, constant(n, 0.5), format); err != nil {
		t.Fatal(err)
	}
	return path
}

type mapCatalog map[string]api.SoundItem

func (m mapCatalog) Lookup(id string) (api.SoundItem, bool) {
	item, ok := m[id]
	return item, ok
}

func testSound(id string, rate beep.SampleRate, n int, v float64) *Sound {
	buf := beep.NewBuffer(beep.Format{SampleRate: rate, NumChannels: 1, Precision: 2})
	buf.Append(constant(n, v))
	return NewSound(id, buf)
}
