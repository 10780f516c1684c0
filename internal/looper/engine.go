// Package looper implements the loop recorder and stored-loop player.
//
// The engine is a small state machine (Idle, PreRoll, Recording, Playback) driven by
// commands and by timer callbacks on a shared clock. Every transition and callback runs
// under one mutex, which gives the same run-to-completion semantics as a single-threaded
// event loop. Each scheduled callback captures the engine generation at the time it was
// scheduled; cancelling bumps the generation so a callback that was already queued turns
// into a no-op.
package looper

import (
	"fmt"
	"log/slog"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/jscyril/soundboard/api"
	"github.com/jscyril/soundboard/internal/audio"
	"github.com/jscyril/soundboard/internal/clock"
	sberrors "github.com/jscyril/soundboard/pkg/errors"
)

// Timing constants
const (
	PreRollTicks = 4
	// PlaybackTail is added after a stored loop before playback is reported finished
	PlaybackTail = 100 * time.Millisecond
	// clampBelow zeroes the countdown readout right before a boundary
	clampBelow = 0.05
	// DefaultEventWarning is the accumulator size that triggers a growth warning
	DefaultEventWarning = 2048
)

// NotReadyMessage is the status line shown when a command needs audio that is still locked
const NotReadyMessage = "Audio not ready. Press a key to enable audio first."

// Output is the audio side the engine schedules sounds and clicks on
type Output interface {
	Ready() bool
	PlayAt(s *audio.Sound, at float64) audio.Voice
	Click(at float64)
}

// Sounds resolves sound ids to decoded buffers. Get may load and block, so it is only
// called outside the engine lock; scheduled replays use Peek and skip sounds that are
// not decoded yet.
type Sounds interface {
	Get(id string) *audio.Sound
	Peek(id string) (*audio.Sound, bool)
}

// Metronome is the part of the metronome the engine needs for the count-in
type Metronome interface {
	Enabled() bool
	Interval() time.Duration
}

// Publisher receives engine notifications
type Publisher interface {
	Publish(event api.Event)
}

// ValidDuration reports whether seconds is a supported loop window
func ValidDuration(seconds int) bool {
	return seconds == 4 || seconds == 8
}

// Options configures an Engine
type Options struct {
	Clock     clock.Clock
	Output    Output
	Sounds    Sounds
	Metronome Metronome
	Publisher Publisher
	Logger    *slog.Logger
	// LoopDuration is the initial window length, 4 or 8 seconds
	LoopDuration int
	// EventWarning is the accumulator size that logs a growth warning; 0 uses the default
	EventWarning int
}

// Engine is the loop recorder / player
type Engine struct {
	mu    sync.Mutex
	clock clock.Clock
	out   Output
	sound Sounds
	metro Metronome
	pub   Publisher
	log   *slog.Logger

	state        api.TransportState
	gen          uint64
	timer        clock.Timer
	voices       []audio.Voice
	message      string
	loopDuration int

	// recording session
	sessionDuration int
	events          []api.RecordingEvent
	cycleStart      float64
	cycle           int
	preRollLeft     int
	warnAt          int
	warned          bool

	// stored loops
	loops        []api.StoredLoop
	playing      int
	playingStart float64
}

// New creates an idle engine
func New(opts Options) *Engine {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if !ValidDuration(opts.LoopDuration) {
		opts.LoopDuration = 4
	}
	if opts.EventWarning <= 0 {
		opts.EventWarning = DefaultEventWarning
	}
	return &Engine{
		clock:        opts.Clock,
		out:          opts.Output,
		sound:        opts.Sounds,
		metro:        opts.Metronome,
		pub:          opts.Publisher,
		log:          opts.Logger,
		state:        api.StateIdle,
		loopDuration: opts.LoopDuration,
		warnAt:       opts.EventWarning,
		playing:      -1,
	}
}

// BeginRecording starts the count-in, after which recording begins.
// It is a no-op unless the engine is idle.
func (e *Engine) BeginRecording() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.out.Ready() {
		e.setMessageLocked(NotReadyMessage)
		return sberrors.ErrNotReady
	}
	if e.state != api.StateIdle {
		return nil
	}

	interval := e.metro.Interval()
	audible := !e.metro.Enabled()

	e.stopVoicesLocked()
	e.events = nil
	e.warned = false
	e.sessionDuration = e.loopDuration
	e.cycle = 0
	e.preRollLeft = PreRollTicks
	e.gen++
	e.setStateLocked(api.StatePreRoll)
	e.log.Info("recording count-in", "duration", e.sessionDuration, "interval", interval, "clicks", audible)

	e.preRollTickLocked(e.gen, interval, audible)
	return nil
}

// preRollTickLocked emits one count-in tick, or starts recording once all ticks are out
func (e *Engine) preRollTickLocked(gen uint64, interval time.Duration, audible bool) {
	if e.preRollLeft == 0 {
		e.startRecordingLocked()
		return
	}
	if audible {
		e.out.Click(e.clock.Now())
	}
	e.setMessageLocked(fmt.Sprintf("Get Ready... %d", e.preRollLeft))
	e.preRollLeft--
	e.timer = e.clock.AfterFunc(interval, e.guard(gen, func() {
		e.preRollTickLocked(gen, interval, audible)
	}))
}

func (e *Engine) startRecordingLocked() {
	e.cycleStart = e.clock.Now()
	e.cycle = 1
	e.events = e.events[:0]
	e.setStateLocked(api.StateRecording)
	e.setMessageLocked("Recording... (Loop 1)")
	e.scheduleBoundaryLocked(e.gen)
}

func (e *Engine) scheduleBoundaryLocked(gen uint64) {
	d := time.Duration(e.sessionDuration) * time.Second
	e.timer = e.clock.AfterFunc(d, e.guard(gen, func() {
		e.boundaryLocked(gen)
	}))
}

// boundaryLocked ends one loop window: the whole accumulator is replayed against the
// new window and recording carries on.
func (e *Engine) boundaryLocked(gen uint64) {
	e.setMessageLocked(fmt.Sprintf("Looping... (Playing loop %d, Recording loop %d)", e.cycle, e.cycle+1))

	now := e.clock.Now()
	e.stopVoicesLocked()
	e.scheduleEventsLocked(e.events, now)

	e.cycleStart = now
	e.cycle++
	e.publishLocked(api.EventStateChange, e.state)
	e.scheduleBoundaryLocked(gen)
}

// CapturePadHit plays a sound right away and, while recording, appends it to the loop
func (e *Engine) CapturePadHit(soundID string) error {
	if !e.out.Ready() {
		e.mu.Lock()
		e.setMessageLocked(NotReadyMessage)
		e.mu.Unlock()
		return sberrors.ErrNotReady
	}

	// decoding may block on first use, keep it outside the engine lock
	snd := e.sound.Get(soundID)

	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.clock.Now()
	if snd != nil {
		e.out.PlayAt(snd, now)
	}
	e.publishLocked(api.EventPadHit, soundID)

	if e.state != api.StateRecording {
		return nil
	}

	window := float64(e.sessionDuration)
	offset := now - e.cycleStart
	if offset < 0 {
		offset = 0
	}
	if offset >= window {
		// the boundary callback is late; the hit belongs to the next window
		offset = math.Mod(offset, window)
	}
	e.events = append(e.events, api.RecordingEvent{SoundID: soundID, Offset: offset})

	if len(e.events) >= e.warnAt && !e.warned {
		e.warned = true
		e.log.Warn("loop accumulator is growing without bound", "events", len(e.events))
	}
	return nil
}

// StopRecording ends the recording session and stores it as a new loop.
// During the count-in it cancels without storing anything.
func (e *Engine) StopRecording() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	switch e.state {
	case api.StatePreRoll:
		e.cancelLocked()
		e.preRollLeft = 0
		e.setStateLocked(api.StateIdle)
		e.setMessageLocked("Recording cancelled.")
		return nil
	case api.StateRecording:
	default:
		return nil
	}

	e.cancelLocked()
	e.stopVoicesLocked()

	// overdubbed cycles append out of time order
	events := make([]api.RecordingEvent, len(e.events))
	copy(events, e.events)
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Offset < events[j].Offset
	})
	loop := api.StoredLoop{
		Name:     fmt.Sprintf("Loop %d", len(e.loops)+1),
		Duration: e.sessionDuration,
		Events:   events,
	}
	e.loops = append(e.loops, loop)
	e.events = nil
	e.cycle = 0

	e.setStateLocked(api.StateIdle)
	e.setMessageLocked(fmt.Sprintf("Loop recording stopped. %q (%d events) stored.", loop.Name, len(events)))
	e.publishLocked(api.EventLoopStored, summarize(loop))
	e.log.Info("loop stored", "loop", loop.Name, "duration", loop.Duration, "events", len(events))
	return nil
}

// PlayStoredLoop plays stored loop index once. It is a no-op unless the engine is idle.
func (e *Engine) PlayStoredLoop(index int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.out.Ready() {
		e.setMessageLocked(NotReadyMessage)
		return sberrors.ErrNotReady
	}
	if e.state != api.StateIdle {
		return nil
	}
	if index < 0 || index >= len(e.loops) {
		return sberrors.ErrLoopNotFound
	}

	loop := e.loops[index]
	e.gen++
	gen := e.gen
	e.playing = index
	e.playingStart = e.clock.Now()

	e.stopVoicesLocked()
	e.scheduleEventsLocked(loop.Events, e.playingStart)

	e.setStateLocked(api.StatePlayback)
	e.setMessageLocked(fmt.Sprintf("Playing %s...", loop.Name))

	d := time.Duration(loop.Duration)*time.Second + PlaybackTail
	e.timer = e.clock.AfterFunc(d, e.guard(gen, func() {
		e.finishPlaybackLocked(index)
	}))
	return nil
}

func (e *Engine) finishPlaybackLocked(index int) {
	if e.state != api.StatePlayback || e.playing != index {
		return
	}
	name := e.loops[index].Name
	e.timer = nil
	e.gen++
	e.voices = nil
	e.playing = -1
	e.setStateLocked(api.StateIdle)
	e.setMessageLocked(fmt.Sprintf("%q finished.", name))
}

// StopStoredLoopPlayback cuts the playing stored loop short
func (e *Engine) StopStoredLoopPlayback() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state != api.StatePlayback {
		return nil
	}
	name := e.loops[e.playing].Name

	e.cancelLocked()
	e.stopVoicesLocked()
	e.playing = -1
	e.setStateLocked(api.StateIdle)
	e.setMessageLocked(fmt.Sprintf("Playback of %q stopped.", name))
	return nil
}

// SetLoopDuration selects the window for the next recording; ignored unless idle
func (e *Engine) SetLoopDuration(seconds int) error {
	if !ValidDuration(seconds) {
		return sberrors.ErrInvalidDuration
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != api.StateIdle {
		return nil
	}
	e.loopDuration = seconds
	return nil
}

// State returns the transport state
func (e *Engine) State() api.TransportState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Remaining returns the time left in the running cycle. ok is false when neither a
// recording nor a playback is running.
func (e *Engine) Remaining() (seconds float64, duration int, ok bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.remainingLocked()
}

func (e *Engine) remainingLocked() (float64, int, bool) {
	var ref float64
	var duration int

	switch e.state {
	case api.StateRecording:
		ref, duration = e.cycleStart, e.sessionDuration
	case api.StatePlayback:
		ref, duration = e.playingStart, e.loops[e.playing].Duration
	default:
		return 0, 0, false
	}

	window := float64(duration)
	elapsed := e.clock.Now() - ref
	if elapsed < 0 {
		elapsed = 0
	}
	remaining := window - math.Mod(elapsed, window)
	if remaining < clampBelow {
		remaining = 0
	}
	return math.Round(remaining*10) / 10, duration, true
}

// Loops returns summaries of the stored loops in creation order
func (e *Engine) Loops() []api.LoopSummary {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]api.LoopSummary, len(e.loops))
	for i, l := range e.loops {
		out[i] = summarize(l)
	}
	return out
}

// Loop returns a copy of stored loop index
func (e *Engine) Loop(index int) (api.StoredLoop, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if index < 0 || index >= len(e.loops) {
		return api.StoredLoop{}, sberrors.ErrLoopNotFound
	}
	return e.loops[index].Clone(), nil
}

// Events returns a copy of the events captured in the running session
func (e *Engine) Events() []api.RecordingEvent {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]api.RecordingEvent, len(e.events))
	copy(out, e.events)
	return out
}

// Snapshot fills the transport part of a status report
func (e *Engine) Snapshot(s *api.Status) {
	e.mu.Lock()
	defer e.mu.Unlock()

	s.State = e.state
	s.Message = e.message
	s.LoopDuration = e.loopDuration
	s.Cycle = e.cycle
	s.PreRollLeft = 0
	if e.state == api.StatePreRoll {
		s.PreRollLeft = e.preRollLeft + 1
	}
	s.PlayingIndex = e.playing
	s.Remaining, s.ActiveDuration, s.HasRemaining = e.remainingLocked()

	s.Loops = make([]api.LoopSummary, len(e.loops))
	for i, l := range e.loops {
		s.Loops[i] = summarize(l)
	}
}

// ReportNotReady sets the locked-audio status line for a command refused outside the engine
func (e *Engine) ReportNotReady() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.setMessageLocked(NotReadyMessage)
}

// Message returns the human-readable status line
func (e *Engine) Message() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.message
}

// guard wraps a timer callback so it runs under the engine lock and only if no
// transition happened since it was scheduled.
func (e *Engine) guard(gen uint64, fn func()) func() {
	return func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		if gen != e.gen {
			return
		}
		fn()
	}
}

func (e *Engine) cancelLocked() {
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
	e.gen++
}

func (e *Engine) scheduleEventsLocked(events []api.RecordingEvent, ref float64) {
	for _, ev := range events {
		snd, ok := e.sound.Peek(ev.SoundID)
		if !ok || snd == nil {
			continue
		}
		e.voices = append(e.voices, e.out.PlayAt(snd, ref+ev.Offset))
	}
}

func (e *Engine) stopVoicesLocked() {
	for _, v := range e.voices {
		v.Stop()
	}
	e.voices = nil
}

func (e *Engine) setStateLocked(state api.TransportState) {
	if e.state == state {
		return
	}
	e.state = state
	e.publishLocked(api.EventStateChange, state)
}

func (e *Engine) setMessageLocked(msg string) {
	e.message = msg
	e.publishLocked(api.EventStatus, msg)
}

func (e *Engine) publishLocked(t api.EventType, payload interface{}) {
	if e.pub != nil {
		e.pub.Publish(api.Event{Type: t, Payload: payload})
	}
}

func summarize(l api.StoredLoop) api.LoopSummary {
	return api.LoopSummary{Name: l.Name, Duration: l.Duration, Events: len(l.Events)}
}
