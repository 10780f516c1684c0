package audio

import (
	"errors"
	"io/fs"
	"math"
	"testing"

	"github.com/faiface/beep"
	sberrors "github.com/jscyril/soundboard/pkg/errors"
)

func TestAssetLoaderDecodesWAV(t *testing.T) {
	dir := t.TempDir()
	writeWAV(t, dir, "dog.wav", 44100, 4410)

	catalog := mapCatalog{"dog": {ID: "dog", Sound: "dog.wav"}}
	loader := NewAssetLoader(catalog, DirSource{Dir: dir}, 44100)

	s, err := loader.Load("dog")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.ID != "dog" {
		t.Errorf("ID = %q", s.ID)
	}
	if s.Len() != 4410 {
		t.Errorf("Len() = %d, want 4410", s.Len())
	}
	if s.Format().SampleRate != 44100 {
		t.Errorf("SampleRate = %d", s.Format().SampleRate)
	}
}

func TestAssetLoaderResamples(t *testing.T) {
	dir := t.TempDir()
	writeWAV(t, dir, "cat.wav", 22050, 2205)

	catalog := mapCatalog{"cat": {ID: "cat", Sound: "cat.wav"}}
	loader := NewAssetLoader(catalog, DirSource{Dir: dir}, beep.SampleRate(44100))

	s, err := loader.Load("cat")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.Format().SampleRate != 44100 {
		t.Errorf("SampleRate = %d, want 44100", s.Format().SampleRate)
	}
	if diff := math.Abs(float64(s.Len() - 4410)); diff > 4410*0.05 {
		t.Errorf("Len() = %d, want about 4410", s.Len())
	}
}

func TestAssetLoaderErrors(t *testing.T) {
	dir := t.TempDir()
	catalog := mapCatalog{
		"ghost": {ID: "ghost", Sound: "ghost.mp3"},
		"odd":   {ID: "odd", Sound: "odd.ogg"},
	}
	writeWAV(t, dir, "odd.ogg", 44100, 10)
	loader := NewAssetLoader(catalog, DirSource{Dir: dir}, 44100)

	tests := []struct {
		id   string
		want error
	}{
		{"unknown", sberrors.ErrSoundNotFound},
		{"ghost", fs.ErrNotExist},
		{"odd", sberrors.ErrInvalidFormat},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			_, err := loader.Load(tt.id)
			if !errors.Is(err, tt.want) {
				t.Errorf("Load(%s) error = %v, want %v", tt.id, err, tt.want)
			}
			var se *sberrors.SoundError
			if !errors.As(err, &se) || se.Sound != tt.id {
				t.Errorf("error %v should be a SoundError for %s", err, tt.id)
			}
		})
	}
}

var _ Catalog = mapCatalog{}
