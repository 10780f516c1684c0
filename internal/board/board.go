// Package board wires the pad table, sound cache, metronome, loop engine and exporter
// into the command surface the UI talks to.
package board

import (
	"fmt"
	"log/slog"

	"github.com/jscyril/soundboard/api"
	"github.com/jscyril/soundboard/internal/audio"
	"github.com/jscyril/soundboard/internal/clock"
	"github.com/jscyril/soundboard/internal/export"
	"github.com/jscyril/soundboard/internal/looper"
	"github.com/jscyril/soundboard/internal/metronome"
	"github.com/jscyril/soundboard/internal/pads"
	sberrors "github.com/jscyril/soundboard/pkg/errors"
	"github.com/jscyril/soundboard/pkg/events"
)

// Ensure Board implements the UI command interface at compile time
var _ api.Soundboard = (*Board)(nil)

// Device is the audio output. It is also the clock everything is scheduled on.
type Device interface {
	clock.Clock
	looper.Output
	Start() error
}

// Sounds is the decoded-sound cache
type Sounds interface {
	Get(id string) *audio.Sound
	Peek(id string) (*audio.Sound, bool)
	Load(id string) (*audio.Sound, error)
	Preload(ids ...string)
}

// Catalog resolves sound ids
type Catalog interface {
	Lookup(id string) (api.SoundItem, bool)
}

// Options configures a Board
type Options struct {
	Device        Device
	Catalog       Catalog
	Sounds        Sounds
	Bus           *events.EventBus
	Logger        *slog.Logger
	LoopDuration  int
	BPM           int
	EventWarning  int
	OfflineRender bool
}

// Board is the soundboard core
type Board struct {
	dev      Device
	catalog  Catalog
	sounds   Sounds
	bus      *events.EventBus
	log      *slog.Logger
	pads     *pads.Table
	metro    *metronome.Metronome
	engine   *looper.Engine
	exporter *export.Exporter
}

// New composes a board. The device stays locked until Unlock.
func New(opts Options) *Board {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Bus == nil {
		opts.Bus = events.NewEventBus()
	}

	metro := metronome.New(opts.Device, opts.Device, opts.Bus, opts.BPM)
	engine := looper.New(looper.Options{
		Clock:        opts.Device,
		Output:       opts.Device,
		Sounds:       opts.Sounds,
		Metronome:    metro,
		Publisher:    opts.Bus,
		Logger:       opts.Logger.With("component", "looper"),
		LoopDuration: opts.LoopDuration,
		EventWarning: opts.EventWarning,
	})

	return &Board{
		dev:      opts.Device,
		catalog:  opts.Catalog,
		sounds:   opts.Sounds,
		bus:      opts.Bus,
		log:      opts.Logger,
		pads:     pads.NewTable(),
		metro:    metro,
		engine:   engine,
		exporter: export.New(opts.Sounds, opts.OfflineRender, opts.Logger.With("component", "export")),
	}
}

// Bus returns the event bus status notifications are published on
func (b *Board) Bus() *events.EventBus {
	return b.bus
}

// Unlock brings the audio device up; the first user gesture calls it
func (b *Board) Unlock() error {
	if err := b.dev.Start(); err != nil {
		return b.fail("unlock", fmt.Errorf("%w: %v", sberrors.ErrNotReady, err))
	}
	b.log.Info("audio unlocked")
	return nil
}

// AssignPad puts a catalog sound on a pad; an empty id clears the pad
func (b *Board) AssignPad(index int, soundID string) error {
	if soundID == "" {
		return b.pads.Unassign(index)
	}

	item, ok := b.catalog.Lookup(soundID)
	if !ok {
		return b.fail("assign", sberrors.NewSoundError("assign", soundID, sberrors.ErrSoundNotFound))
	}
	if err := b.pads.Assign(index, &item); err != nil {
		return err
	}
	b.sounds.Preload(soundID)
	b.log.Debug("pad assigned", "pad", index, "sound", soundID)
	return nil
}

// Pads returns the current pad assignments
func (b *Board) Pads() [pads.Count]*api.SoundItem {
	return b.pads.Slots()
}

// HitPad triggers the sound on a pad. Empty pads do nothing.
func (b *Board) HitPad(index int) error {
	if index < 0 || index >= pads.Count {
		return sberrors.ErrPadOutOfRange
	}
	item, ok := b.pads.Get(index)
	if !ok {
		return nil
	}
	return b.CapturePadHit(item.ID)
}

// CapturePadHit plays a sound and records it while a recording is running
func (b *Board) CapturePadHit(soundID string) error {
	return b.engine.CapturePadHit(soundID)
}

// BeginRecording starts the count-in; recording begins after the fourth tick
func (b *Board) BeginRecording() error {
	return b.engine.BeginRecording()
}

// StopRecording stores the running recording as a new loop, or cancels the count-in
func (b *Board) StopRecording() error {
	return b.engine.StopRecording()
}

// PlayStoredLoop plays stored loop index once
func (b *Board) PlayStoredLoop(index int) error {
	return b.engine.PlayStoredLoop(index)
}

// StopStoredLoopPlayback cuts the playing stored loop short
func (b *Board) StopStoredLoopPlayback() error {
	return b.engine.StopStoredLoopPlayback()
}

// SetLoopDuration selects a 4 or 8 second window for the next recording
func (b *Board) SetLoopDuration(seconds int) error {
	return b.engine.SetLoopDuration(seconds)
}

// SetMetronomeEnabled starts or stops the metronome. Starting needs a ready device.
func (b *Board) SetMetronomeEnabled(enabled bool) error {
	if enabled && !b.dev.Ready() {
		b.engine.ReportNotReady()
		return b.fail("metronome", sberrors.ErrNotReady)
	}
	b.metro.SetEnabled(enabled)
	return nil
}

// SetTempo changes the metronome tempo, which also paces the count-in
func (b *Board) SetTempo(bpm int) error {
	return b.metro.SetTempo(bpm)
}

// ExportLoop renders stored loop index to a file
func (b *Board) ExportLoop(index int) (*api.ExportFile, error) {
	loop, err := b.engine.Loop(index)
	if err != nil {
		return nil, err
	}
	file, err := b.exporter.Export(loop)
	if err != nil {
		return nil, b.fail("export", err)
	}
	b.log.Info("loop exported", "loop", loop.Name, "file", file.Name, "bytes", len(file.Data))
	return file, nil
}

// Status returns a snapshot for the UI
func (b *Board) Status() api.Status {
	var s api.Status
	b.engine.Snapshot(&s)
	s.Ready = b.dev.Ready()
	s.MetronomeEnabled = b.metro.Enabled()
	s.BPM = b.metro.BPM()
	if !s.Ready && s.Message == "" {
		s.Message = "Press any pad key to enable audio."
	}
	return s
}

// Close stops everything that is scheduled
func (b *Board) Close() {
	b.metro.Disable()
	b.engine.StopRecording()
	b.engine.StopStoredLoopPlayback()
}

func (b *Board) fail(op string, err error) error {
	b.log.Warn("command failed", "op", op, "err", err)
	b.bus.Publish(api.Event{Type: api.EventError, Payload: err})
	return err
}
