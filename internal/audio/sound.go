package audio

import (
	"time"

	"github.com/faiface/beep"
)

// Sound is a decoded, ready-to-play clip
type Sound struct {
	ID     string
	Buffer *beep.Buffer
}

// NewSound wraps a decoded buffer
func NewSound(id string, buf *beep.Buffer) *Sound {
	return &Sound{ID: id, Buffer: buf}
}

// Format returns the buffer format
func (s *Sound) Format() beep.Format {
	return s.Buffer.Format()
}

// Len returns the clip length in samples
func (s *Sound) Len() int {
	return s.Buffer.Len()
}

// Duration returns the clip length
func (s *Sound) Duration() time.Duration {
	return s.Format().SampleRate.D(s.Len())
}

// Streamer returns a fresh streamer over the whole clip
func (s *Sound) Streamer() beep.StreamSeeker {
	return s.Buffer.Streamer(0, s.Buffer.Len())
}

// StreamerAt returns a streamer over the clip resampled to rate if needed
func (s *Sound) StreamerAt(rate beep.SampleRate) beep.Streamer {
	src := s.Format().SampleRate
	if src == rate {
		return s.Streamer()
	}
	return beep.Resample(resampleQuality, src, rate, s.Streamer())
}
