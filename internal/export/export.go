// Package export turns stored loops into downloadable files.
//
// The primary format is a mono 16-bit PCM WAVE rendered offline at 44.1 kHz. When offline
// rendering is switched off, or the render fails, the loop is exported as a JSON document
// listing its events instead.
package export

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/faiface/beep"
	"github.com/faiface/beep/wav"
	"github.com/jscyril/soundboard/api"
	"github.com/jscyril/soundboard/internal/audio"
	sberrors "github.com/jscyril/soundboard/pkg/errors"
)

// Render format
const (
	SampleRate = beep.SampleRate(44100)
	Channels   = 1
	Precision  = 2
	HeaderSize = 44
)

// Content types of the two export formats
const (
	ContentTypeWAV  = "audio/wav"
	ContentTypeJSON = "application/json"
)

// Format is the render format passed to the WAVE encoder
var Format = beep.Format{SampleRate: SampleRate, NumChannels: Channels, Precision: Precision}

// Loader resolves sound ids to decoded sounds
type Loader interface {
	Load(id string) (*audio.Sound, error)
}

// Exporter renders stored loops
type Exporter struct {
	loader  Loader
	offline bool
	log     *slog.Logger
}

// New creates an exporter. With offline false every export is a JSON document.
func New(loader Loader, offline bool, log *slog.Logger) *Exporter {
	if log == nil {
		log = slog.Default()
	}
	return &Exporter{loader: loader, offline: offline, log: log}
}

// Offline reports whether WAVE rendering is enabled
func (e *Exporter) Offline() bool {
	return e.offline
}

// Export renders loop to a WAVE file, or to JSON when rendering is unavailable
func (e *Exporter) Export(loop api.StoredLoop) (*api.ExportFile, error) {
	if loop.Duration <= 0 {
		return nil, sberrors.ErrInvalidDuration
	}

	if e.offline {
		data, err := e.RenderWAV(loop)
		if err == nil {
			return &api.ExportFile{
				Name:        FileName(loop.Name, ".wav"),
				ContentType: ContentTypeWAV,
				Data:        data,
			}, nil
		}
		e.log.Warn("offline render failed, exporting events", "loop", loop.Name, "err", err)
	}

	data, err := EncodeJSON(loop)
	if err != nil {
		return nil, err
	}
	return &api.ExportFile{
		Name:        FileName(loop.Name, ".json"),
		ContentType: ContentTypeJSON,
		Data:        data,
	}, nil
}

// Frames returns the number of frames rendered for a loop of the given length
func Frames(seconds int) int {
	return int(math.Ceil(float64(SampleRate) * float64(seconds)))
}

// Render mixes every resolvable event of loop into a streamer of exactly Frames(duration)
// frames. Events whose sound cannot be loaded are skipped.
func (e *Exporter) Render(loop api.StoredLoop) beep.Streamer {
	mixer := &beep.Mixer{}
	for _, ev := range loop.Events {
		snd, err := e.loader.Load(ev.SoundID)
		if err != nil {
			e.log.Warn("skipping event in render", "loop", loop.Name, "sound", ev.SoundID, "err", err)
			continue
		}
		start := int(math.Round(ev.Offset * float64(SampleRate)))
		mixer.Add(beep.Seq(beep.Silence(start), snd.StreamerAt(SampleRate)))
	}
	return beep.Take(Frames(loop.Duration), mixer)
}

// RenderWAV renders loop and encodes it as a WAVE file
func (e *Exporter) RenderWAV(loop api.StoredLoop) ([]byte, error) {
	var buf writeSeeker
	if err := wav.Encode(&buf, e.Render(loop), Format); err != nil {
		return nil, sberrors.NewSoundError("render", loop.Name, fmt.Errorf("%w: %v", sberrors.ErrRenderUnsupported, err))
	}
	data := buf.Bytes()
	if len(data) < HeaderSize {
		return nil, sberrors.NewSoundError("render", loop.Name, sberrors.ErrRenderUnsupported)
	}
	putUint32(data[4:8], uint32(len(data)-8))
	return data, nil
}

type document struct {
	Name     string               `json:"name"`
	Duration int                  `json:"duration"`
	Events   []api.RecordingEvent `json:"events"`
}

// EncodeJSON serializes the loop's events as an indented JSON document
func EncodeJSON(loop api.StoredLoop) ([]byte, error) {
	doc := document{
		Name:     loop.Name,
		Duration: loop.Duration,
		Events:   make([]api.RecordingEvent, len(loop.Events)),
	}
	copy(doc.Events, loop.Events)
	return json.MarshalIndent(doc, "", "  ")
}

// FileName derives a download name from a loop name: lower case, whitespace as underscores
func FileName(name, ext string) string {
	base := strings.Join(strings.Fields(strings.ToLower(name)), "_")
	if base == "" {
		base = "loop"
	}
	return base + ext
}

// WriteFile saves an export into dir and returns the written path
func WriteFile(dir string, file *api.ExportFile) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, file.Name)
	if err := os.WriteFile(path, file.Data, 0644); err != nil {
		return "", err
	}
	return path, nil
}

func putUint32(b []byte, v uint32) {
	b[0] = byte(v)
	b[1] = byte(v >> 8)
	b[2] = byte(v >> 16)
	b[3] = byte(v >> 24)
}
