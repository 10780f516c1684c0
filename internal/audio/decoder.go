package audio

import (
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"

	"github.com/faiface/beep"
	"github.com/faiface/beep/flac"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/wav"
	sberrors "github.com/jscyril/soundboard/pkg/errors"
)

// resampleQuality is the beep.Resample quality used for every clip
const resampleQuality = 4

type decodeFunc func(io.ReadCloser) (beep.StreamSeekCloser, beep.Format, error)

// decoders maps a lower-case file extension to its beep decoder
var decoders = map[string]decodeFunc{
	".mp3":  mp3.Decode,
	".wav":  func(r io.ReadCloser) (beep.StreamSeekCloser, beep.Format, error) { return wav.Decode(r) },
	".flac": func(r io.ReadCloser) (beep.StreamSeekCloser, beep.Format, error) { return flac.Decode(r) },
}

// SupportedFormats lists the extensions a clip can have, sorted
func SupportedFormats() []string {
	exts := make([]string, 0, len(decoders))
	for ext := range decoders {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// IsSupported reports whether a clip file name has a decodable extension
func IsSupported(name string) bool {
	_, ok := decoders[strings.ToLower(filepath.Ext(name))]
	return ok
}

// Decode reads a whole clip into memory at the given rate. The format is chosen from
// name's extension; r is closed once the clip is buffered.
func Decode(id, name string, r io.ReadSeekCloser, rate beep.SampleRate) (*Sound, error) {
	ext := strings.ToLower(filepath.Ext(name))
	decode, ok := decoders[ext]
	if !ok {
		r.Close()
		return nil, sberrors.NewSoundError("decode", id, fmt.Errorf("%w: %q", sberrors.ErrInvalidFormat, ext))
	}

	streamer, format, err := decode(r)
	if err != nil {
		r.Close()
		return nil, sberrors.NewSoundError("decode", id, err)
	}
	defer streamer.Close()

	var s beep.Streamer = streamer
	if format.SampleRate != rate {
		s = beep.Resample(resampleQuality, format.SampleRate, rate, streamer)
	}

	buf := beep.NewBuffer(beep.Format{
		SampleRate:  rate,
		NumChannels: format.NumChannels,
		Precision:   format.Precision,
	})
	buf.Append(s)
	if err := streamer.Err(); err != nil {
		return nil, sberrors.NewSoundError("decode", id, err)
	}
	return NewSound(id, buf), nil
}
