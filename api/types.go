package api

import "fmt"

// SoundItem is one entry of the static sound catalog
type SoundItem struct {
	ID          string `json:"id"`
	Icon        string `json:"icon"`
	Sound       string `json:"sound"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

// RecordingEvent is a pad hit captured during a loop window.
// Offset is measured from the start of the window it was captured in.
type RecordingEvent struct {
	SoundID string  `json:"soundId"`
	Offset  float64 `json:"time"`
}

// StoredLoop is a finished recording session. It is never mutated after creation.
type StoredLoop struct {
	Name     string           `json:"name"`
	Duration int              `json:"duration"`
	Events   []RecordingEvent `json:"events"`
}

// Clone returns a deep copy of the loop
func (l StoredLoop) Clone() StoredLoop {
	events := make([]RecordingEvent, len(l.Events))
	copy(events, l.Events)
	l.Events = events
	return l
}

// LoopSummary is what a UI needs to list a stored loop
type LoopSummary struct {
	Name     string `json:"name"`
	Duration int    `json:"duration"`
	Events   int    `json:"events"`
}

// TransportState is the state of the loop recorder / player
type TransportState int

const (
	StateIdle TransportState = iota
	StatePreRoll
	StateRecording
	StatePlayback
)

func (s TransportState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePreRoll:
		return "pre-roll"
	case StateRecording:
		return "recording"
	case StatePlayback:
		return "playback"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Status is a point-in-time snapshot of the soundboard core
type Status struct {
	Ready            bool
	State            TransportState
	Message          string
	Remaining        float64 // seconds left in the current cycle, one decimal
	HasRemaining     bool
	LoopDuration     int // duration selected for the next recording
	ActiveDuration   int // duration of the running recording or playback
	Cycle            int
	PreRollLeft      int
	PlayingIndex     int // -1 when no stored loop is playing
	MetronomeEnabled bool
	BPM              int
	Loops            []LoopSummary
}

// RemainingText renders the countdown readout, "--" when nothing is running
func (s Status) RemainingText() string {
	if !s.HasRemaining {
		return "--"
	}
	return fmt.Sprintf("%.1fs / %ds", s.Remaining, s.ActiveDuration)
}

// ExportFile is the result of exporting a stored loop
type ExportFile struct {
	Name        string
	ContentType string
	Data        []byte
}

// EventType identifies a notification published by the core
type EventType int

const (
	EventStateChange EventType = iota
	EventStatus
	EventTick
	EventLoopStored
	EventPadHit
	EventError
)

// Event is a notification published on the event bus
type Event struct {
	Type    EventType
	Payload interface{}
}

// Soundboard is the command interface exposed to the UI layer
type Soundboard interface {
	Unlock() error
	AssignPad(index int, soundID string) error
	HitPad(index int) error
	CapturePadHit(soundID string) error
	BeginRecording() error
	StopRecording() error
	PlayStoredLoop(index int) error
	StopStoredLoopPlayback() error
	SetLoopDuration(seconds int) error
	SetMetronomeEnabled(enabled bool) error
	SetTempo(bpm int) error
	ExportLoop(index int) (*ExportFile, error)
	Status() Status
}
