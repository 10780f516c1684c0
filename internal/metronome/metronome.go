// Package metronome generates periodic click ticks at a selectable tempo.
package metronome

import (
	"sync"
	"time"

	"github.com/jscyril/soundboard/api"
	"github.com/jscyril/soundboard/internal/clock"
	sberrors "github.com/jscyril/soundboard/pkg/errors"
)

// Tempo limits
const (
	MinBPM     = 20
	MaxBPM     = 300
	DefaultBPM = 120
)

// Clicker renders an audible click at an instant of the shared clock
type Clicker interface {
	Click(at float64)
}

// Publisher receives tick notifications
type Publisher interface {
	Publish(event api.Event)
}

// Interval returns the tick period for a tempo: 60000/bpm milliseconds
func Interval(bpm int) time.Duration {
	return time.Minute / time.Duration(bpm)
}

// ValidTempo reports whether bpm is inside the supported range
func ValidTempo(bpm int) bool {
	return bpm >= MinBPM && bpm <= MaxBPM
}

// Metronome ticks at a fixed tempo while enabled.
// Ticks are scheduled against an anchor instant so they do not drift; every restart
// bumps the generation so a callback from an earlier schedule cannot tick again.
type Metronome struct {
	mu      sync.Mutex
	clock   clock.Clock
	out     Clicker
	pub     Publisher
	bpm     int
	enabled bool

	timer  clock.Timer
	gen    uint64
	anchor float64
	beat   int
	ticks  int
}

// New creates a disabled metronome. An out-of-range bpm falls back to DefaultBPM.
func New(clk clock.Clock, out Clicker, pub Publisher, bpm int) *Metronome {
	if !ValidTempo(bpm) {
		bpm = DefaultBPM
	}
	return &Metronome{
		clock: clk,
		out:   out,
		pub:   pub,
		bpm:   bpm,
	}
}

// BPM returns the current tempo
func (m *Metronome) BPM() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.bpm
}

// Interval returns the current tick period
func (m *Metronome) Interval() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Interval(m.bpm)
}

// Enabled reports whether the metronome is ticking
func (m *Metronome) Enabled() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.enabled
}

// Ticks returns the number of ticks fired so far
func (m *Metronome) Ticks() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ticks
}

// SetTempo changes the tempo. While enabled the schedule restarts at once with a tick.
func (m *Metronome) SetTempo(bpm int) error {
	if !ValidTempo(bpm) {
		return sberrors.ErrInvalidTempo
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.bpm = bpm
	if m.enabled {
		m.restartLocked()
	}
	return nil
}

// Enable fires one tick immediately and keeps ticking until Disable
func (m *Metronome) Enable() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.enabled {
		return
	}
	m.enabled = true
	m.restartLocked()
}

// Disable stops ticking
func (m *Metronome) Disable() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.enabled {
		return
	}
	m.enabled = false
	m.cancelLocked()
}

// SetEnabled enables or disables the metronome
func (m *Metronome) SetEnabled(enabled bool) {
	if enabled {
		m.Enable()
	} else {
		m.Disable()
	}
}

func (m *Metronome) restartLocked() {
	m.cancelLocked()
	m.anchor = m.clock.Now()
	m.beat = 0
	m.tickLocked()
	m.scheduleLocked(m.gen)
}

func (m *Metronome) cancelLocked() {
	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
	m.gen++
}

func (m *Metronome) scheduleLocked(gen uint64) {
	m.beat++
	next := m.anchor + float64(m.beat)*Interval(m.bpm).Seconds()
	delay := clock.Seconds(next - m.clock.Now())
	if delay < 0 {
		delay = 0
	}
	m.timer = m.clock.AfterFunc(delay, func() { m.fire(gen) })
}

func (m *Metronome) fire(gen uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if gen != m.gen || !m.enabled {
		return
	}
	m.tickLocked()
	m.scheduleLocked(gen)
}

func (m *Metronome) tickLocked() {
	m.ticks++
	m.out.Click(m.clock.Now())
	if m.pub != nil {
		m.pub.Publish(api.Event{Type: api.EventTick, Payload: m.ticks})
	}
}
