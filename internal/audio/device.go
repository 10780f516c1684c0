package audio

import (
	"math"
	"sync"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/effects"
	"github.com/faiface/beep/speaker"
	"github.com/jscyril/soundboard/internal/clock"
)

// Ensure Device is usable as the shared timebase at compile time
var _ clock.Clock = (*Device)(nil)

// Voice is a scheduled or playing sound that can be cut off
type Voice interface {
	Stop()
}

// Device is the process-wide audio output. It mixes every scheduled voice into one
// streamer registered with the speaker, and doubles as the audio clock: instant t maps
// to sample t*rate of the mixed stream.
type Device struct {
	rate   beep.SampleRate
	buffer time.Duration

	mu     sync.Mutex
	ready  bool
	sys    *clock.System
	pos    int
	voices []*voice
	tmp    [][2]float64
	volume *effects.Volume
}

type voice struct {
	dev     *Device
	start   int
	s       beep.Streamer
	stopped bool
}

// NewDevice creates an output that is not ready until Start
func NewDevice(rate beep.SampleRate, buffer time.Duration) *Device {
	d := &Device{
		rate:   rate,
		buffer: buffer,
		sys:    clock.NewSystem(),
	}
	d.volume = &effects.Volume{
		Streamer: d,
		Base:     2,
		Volume:   0,
		Silent:   false,
	}
	return d
}

// Start opens the speaker. It is the "user gesture" that unlocks audio; calling it again
// is a no-op.
func (d *Device) Start() error {
	d.mu.Lock()
	if d.ready {
		d.mu.Unlock()
		return nil
	}
	if err := speaker.Init(d.rate, d.rate.N(d.buffer)); err != nil {
		d.mu.Unlock()
		return err
	}
	d.sys = clock.NewSystem()
	d.pos = 0
	d.ready = true
	d.mu.Unlock()

	speaker.Play(d.volume)
	return nil
}

// Close stops output and drops every voice
func (d *Device) Close() {
	speaker.Clear()

	d.mu.Lock()
	defer d.mu.Unlock()
	d.ready = false
	d.voices = nil
}

// Ready reports whether the speaker has been opened
func (d *Device) Ready() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.ready
}

// SampleRate returns the output sample rate
func (d *Device) SampleRate() beep.SampleRate {
	return d.rate
}

// Now returns seconds since Start
func (d *Device) Now() float64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.ready {
		return 0
	}
	return d.sys.Now()
}

// AfterFunc schedules f on a wall-clock timer
func (d *Device) AfterFunc(dur time.Duration, f func()) clock.Timer {
	d.mu.Lock()
	sys := d.sys
	d.mu.Unlock()
	return sys.AfterFunc(dur, f)
}

// SetVolume sets the master level (0.0 to 1.0)
func (d *Device) SetVolume(level float64) {
	speaker.Lock()
	defer speaker.Unlock()
	d.volume.Silent = level <= 0
	d.volume.Volume = level*2 - 1
}

// PlayAt schedules a sound to start at instant at. Instants in the past start at once.
func (d *Device) PlayAt(s *Sound, at float64) Voice {
	return d.schedule(s.StreamerAt(d.rate), at)
}

// Click schedules one metronome click at instant at
func (d *Device) Click(at float64) {
	d.schedule(NewClick(d.rate), at)
}

func (d *Device) schedule(s beep.Streamer, at float64) Voice {
	d.mu.Lock()
	defer d.mu.Unlock()

	start := int(math.Round(at * float64(d.rate)))
	if start < d.pos {
		start = d.pos
	}
	v := &voice{dev: d, start: start, s: s}
	d.voices = append(d.voices, v)
	return v
}

// Stop cuts the voice off, whether it has started or not
func (v *voice) Stop() {
	v.dev.mu.Lock()
	defer v.dev.mu.Unlock()
	v.stopped = true
}

// Stream mixes all due voices; it never drains
func (d *Device) Stream(samples [][2]float64) (n int, ok bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	for i := range samples {
		samples[i] = [2]float64{}
	}
	if cap(d.tmp) < len(samples) {
		d.tmp = make([][2]float64, len(samples))
	}

	end := d.pos + len(samples)
	live := d.voices[:0]
	for _, v := range d.voices {
		if v.stopped {
			continue
		}
		if v.start >= end {
			live = append(live, v)
			continue
		}

		offset := v.start - d.pos
		if offset < 0 {
			offset = 0
		}
		want := len(samples) - offset
		tmp := d.tmp[:want]
		sn, sok := v.s.Stream(tmp)
		for i := 0; i < sn; i++ {
			samples[offset+i][0] += tmp[i][0]
			samples[offset+i][1] += tmp[i][1]
		}
		if sok && sn == want {
			live = append(live, v)
		}
	}
	for i := len(live); i < len(d.voices); i++ {
		d.voices[i] = nil
	}
	d.voices = live
	d.pos = end

	return len(samples), true
}

// Err implements beep.Streamer
func (d *Device) Err() error {
	return nil
}

// Active returns the number of voices still scheduled or playing
func (d *Device) Active() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.voices)
}
