package board

import (
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/faiface/beep"
	"github.com/jscyril/soundboard/api"
	"github.com/jscyril/soundboard/internal/audio"
	"github.com/jscyril/soundboard/internal/catalog"
	"github.com/jscyril/soundboard/internal/clock"
	"github.com/jscyril/soundboard/internal/export"
	"github.com/jscyril/soundboard/internal/looper"
	sberrors "github.com/jscyril/soundboard/pkg/errors"
	"github.com/jscyril/soundboard/pkg/events"
)

type nopVoice struct{}

func (nopVoice) Stop() {}

// fakeDevice is a device on a fake clock that records what it is asked to play
type fakeDevice struct {
	*clock.Fake

	mu       sync.Mutex
	ready    bool
	startErr error
	plays    []string
	clicks   int
}

func (d *fakeDevice) Start() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.startErr != nil {
		return d.startErr
	}
	d.ready = true
	return nil
}

func (d *fakeDevice) Ready() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.ready
}

func (d *fakeDevice) PlayAt(s *audio.Sound, at float64) audio.Voice {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.plays = append(d.plays, s.ID)
	return nopVoice{}
}

func (d *fakeDevice) Click(at float64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.clicks++
}

func (d *fakeDevice) playCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.plays)
}

type synthLoader struct{}

func (synthLoader) Load(id string) (*audio.Sound, error) {
	if id == "broken" {
		return nil, sberrors.NewSoundError("decode", id, sberrors.ErrInvalidFormat)
	}
	buf := beep.NewBuffer(beep.Format{SampleRate: 44100, NumChannels: 1, Precision: 2})
	buf.Append(beep.Silence(441))
	return audio.NewSound(id, buf), nil
}

func quiet() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newBoard(t *testing.T, offline bool) (*Board, *fakeDevice) {
	t.Helper()

	cat := catalog.New()
	for _, item := range []api.SoundItem{
		{ID: "kick", Sound: "kick.wav", Category: "Drums"},
		{ID: "snare", Sound: "snare.wav", Category: "Drums"},
		{ID: "broken", Sound: "broken.wav", Category: "Misc"},
	} {
		if err := cat.Add(item); err != nil {
			t.Fatal(err)
		}
	}

	dev := &fakeDevice{Fake: clock.NewFake()}
	b := New(Options{
		Device:        dev,
		Catalog:       cat,
		Sounds:        audio.NewCache(synthLoader{}, quiet()),
		Bus:           events.NewEventBus(),
		Logger:        quiet(),
		LoopDuration:  4,
		BPM:           120,
		OfflineRender: offline,
	})
	return b, dev
}

func TestNotReady(t *testing.T) {
	b, dev := newBoard(t, true)
	b.AssignPad(0, "kick")

	if err := b.HitPad(0); !errors.Is(err, sberrors.ErrNotReady) {
		t.Errorf("HitPad() error = %v, want ErrNotReady", err)
	}
	if err := b.BeginRecording(); !errors.Is(err, sberrors.ErrNotReady) {
		t.Errorf("BeginRecording() error = %v, want ErrNotReady", err)
	}
	if err := b.SetMetronomeEnabled(true); !errors.Is(err, sberrors.ErrNotReady) {
		t.Errorf("SetMetronomeEnabled() error = %v, want ErrNotReady", err)
	}
	if dev.playCount() != 0 {
		t.Errorf("plays = %d, want 0", dev.playCount())
	}

	st := b.Status()
	if st.Ready || st.State != api.StateIdle {
		t.Errorf("Status() = %+v", st)
	}
	if st.Message == "" {
		t.Error("Status() should explain that audio is locked")
	}
}

func TestMetronomeNeedsAudio(t *testing.T) {
	b, _ := newBoard(t, true)
	errs := b.Bus().Subscribe(api.EventError)

	if err := b.SetMetronomeEnabled(true); !errors.Is(err, sberrors.ErrNotReady) {
		t.Fatalf("SetMetronomeEnabled() error = %v, want ErrNotReady", err)
	}
	select {
	case e := <-errs:
		if err, _ := e.Payload.(error); !errors.Is(err, sberrors.ErrNotReady) {
			t.Errorf("EventError payload = %v, want ErrNotReady", e.Payload)
		}
	case <-time.After(time.Second):
		t.Error("no EventError published")
	}

	st := b.Status()
	if st.Message != looper.NotReadyMessage {
		t.Errorf("Status().Message = %q, want %q", st.Message, looper.NotReadyMessage)
	}
	if st.MetronomeEnabled {
		t.Error("metronome enabled without audio")
	}
}

func TestUnlock(t *testing.T) {
	b, dev := newBoard(t, true)

	dev.startErr = errors.New("no output device")
	errs := b.Bus().Subscribe(api.EventError)
	if err := b.Unlock(); !errors.Is(err, sberrors.ErrNotReady) {
		t.Fatalf("Unlock() error = %v, want ErrNotReady", err)
	}
	select {
	case <-errs:
	case <-time.After(time.Second):
		t.Error("no EventError published")
	}

	dev.startErr = nil
	if err := b.Unlock(); err != nil {
		t.Fatalf("Unlock() error = %v", err)
	}
	if !b.Status().Ready {
		t.Error("Status().Ready = false after Unlock")
	}
}

func TestAssignPad(t *testing.T) {
	b, _ := newBoard(t, true)

	tests := []struct {
		name    string
		index   int
		sound   string
		wantErr error
	}{
		{"assign", 0, "kick", nil},
		{"reassign", 0, "snare", nil},
		{"unknown sound", 1, "cowbell", sberrors.ErrSoundNotFound},
		{"out of range", 9, "kick", sberrors.ErrPadOutOfRange},
		{"negative", -1, "kick", sberrors.ErrPadOutOfRange},
		{"clear", 2, "", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := b.AssignPad(tt.index, tt.sound)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("AssignPad(%d, %q) error = %v, want %v", tt.index, tt.sound, err, tt.wantErr)
			}
		})
	}

	slots := b.Pads()
	if slots[0] == nil || slots[0].ID != "snare" {
		t.Errorf("pad 0 = %+v, want snare", slots[0])
	}
	if slots[1] != nil || slots[2] != nil {
		t.Errorf("pads 1 and 2 should be empty: %+v %+v", slots[1], slots[2])
	}

	b.AssignPad(0, "")
	if b.Pads()[0] != nil {
		t.Error("AssignPad with an empty id should clear the pad")
	}
}

func TestHitPad(t *testing.T) {
	b, dev := newBoard(t, true)
	b.Unlock()
	b.AssignPad(4, "kick")
	b.AssignPad(5, "broken")

	if err := b.HitPad(0); err != nil {
		t.Errorf("HitPad(empty) error = %v", err)
	}
	if err := b.HitPad(4); err != nil {
		t.Errorf("HitPad(4) error = %v", err)
	}
	if err := b.HitPad(5); err != nil {
		t.Errorf("HitPad(broken) error = %v", err)
	}
	if err := b.HitPad(12); !errors.Is(err, sberrors.ErrPadOutOfRange) {
		t.Errorf("HitPad(12) error = %v, want ErrPadOutOfRange", err)
	}
	if dev.playCount() != 1 {
		t.Errorf("plays = %d, want 1", dev.playCount())
	}
}

func TestRecordPlayExport(t *testing.T) {
	b, dev := newBoard(t, true)
	stored := b.Bus().Subscribe(api.EventLoopStored)

	b.Unlock()
	b.AssignPad(0, "kick")
	if err := b.BeginRecording(); err != nil {
		t.Fatalf("BeginRecording() error = %v", err)
	}
	if st := b.Status(); st.State != api.StatePreRoll || st.PreRollLeft != 4 {
		t.Errorf("Status() during count-in = %+v", st)
	}
	if dev.clicks != 1 {
		t.Errorf("count-in clicks = %d, want 1", dev.clicks)
	}

	dev.Advance(3 * time.Second)
	b.HitPad(0)
	st := b.Status()
	if st.State != api.StateRecording || st.RemainingText() != "3.0s / 4s" {
		t.Errorf("Status() while recording = %+v (%s)", st, st.RemainingText())
	}

	if err := b.StopRecording(); err != nil {
		t.Fatalf("StopRecording() error = %v", err)
	}
	select {
	case e := <-stored:
		if s := e.Payload.(api.LoopSummary); s.Name != "Loop 1" || s.Events != 1 {
			t.Errorf("stored loop = %+v", s)
		}
	case <-time.After(time.Second):
		t.Error("no EventLoopStored published")
	}

	st = b.Status()
	if len(st.Loops) != 1 || st.PlayingIndex != -1 {
		t.Errorf("Status() after stop = %+v", st)
	}

	if err := b.PlayStoredLoop(0); err != nil {
		t.Fatalf("PlayStoredLoop() error = %v", err)
	}
	if st := b.Status(); st.State != api.StatePlayback || st.PlayingIndex != 0 {
		t.Errorf("Status() during playback = %+v", st)
	}
	dev.Advance(4*time.Second + 200*time.Millisecond)
	if st := b.Status(); st.State != api.StateIdle {
		t.Errorf("State = %v after playback, want Idle", st.State)
	}

	file, err := b.ExportLoop(0)
	if err != nil {
		t.Fatalf("ExportLoop() error = %v", err)
	}
	if file.ContentType != export.ContentTypeWAV || file.Name != "loop_1.wav" {
		t.Errorf("ExportLoop() = %s (%s)", file.Name, file.ContentType)
	}
	if want := export.HeaderSize + export.Frames(4)*2; len(file.Data) != want {
		t.Errorf("len(data) = %d, want %d", len(file.Data), want)
	}

	if _, err := b.ExportLoop(3); !errors.Is(err, sberrors.ErrLoopNotFound) {
		t.Errorf("ExportLoop(3) error = %v, want ErrLoopNotFound", err)
	}
}

func TestExportFallback(t *testing.T) {
	b, dev := newBoard(t, false)
	b.Unlock()
	b.BeginRecording()
	dev.Advance(2500 * time.Millisecond)
	b.CapturePadHit("snare")
	b.StopRecording()

	file, err := b.ExportLoop(0)
	if err != nil {
		t.Fatalf("ExportLoop() error = %v", err)
	}
	if file.ContentType != export.ContentTypeJSON || file.Name != "loop_1.json" {
		t.Errorf("ExportLoop() = %s (%s)", file.Name, file.ContentType)
	}
}

func TestMetronomeControls(t *testing.T) {
	b, dev := newBoard(t, true)
	b.Unlock()

	if err := b.SetTempo(10); !errors.Is(err, sberrors.ErrInvalidTempo) {
		t.Errorf("SetTempo(10) error = %v, want ErrInvalidTempo", err)
	}
	if err := b.SetTempo(60); err != nil {
		t.Fatalf("SetTempo(60) error = %v", err)
	}
	if err := b.SetMetronomeEnabled(true); err != nil {
		t.Fatalf("SetMetronomeEnabled() error = %v", err)
	}
	dev.Advance(2500 * time.Millisecond)
	if dev.clicks != 3 {
		t.Errorf("clicks = %d, want 3", dev.clicks)
	}

	st := b.Status()
	if !st.MetronomeEnabled || st.BPM != 60 {
		t.Errorf("Status() = %+v", st)
	}

	// count-in stays silent while the metronome is running
	b.BeginRecording()
	if dev.clicks != 3 {
		t.Errorf("clicks = %d after BeginRecording, want 3", dev.clicks)
	}

	b.Close()
	dev.Advance(10 * time.Second)
	if dev.clicks != 3 || b.Status().MetronomeEnabled {
		t.Errorf("metronome kept ticking after Close: %d clicks", dev.clicks)
	}
}

func TestSetLoopDuration(t *testing.T) {
	b, _ := newBoard(t, true)
	if err := b.SetLoopDuration(8); err != nil {
		t.Fatalf("SetLoopDuration(8) error = %v", err)
	}
	if got := b.Status().LoopDuration; got != 8 {
		t.Errorf("LoopDuration = %d, want 8", got)
	}
	if err := b.SetLoopDuration(3); !errors.Is(err, sberrors.ErrInvalidDuration) {
		t.Errorf("SetLoopDuration(3) error = %v, want ErrInvalidDuration", err)
	}
}
