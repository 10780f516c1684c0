package audio

import (
	"github.com/faiface/beep"
	"github.com/jscyril/soundboard/api"
	sberrors "github.com/jscyril/soundboard/pkg/errors"
)

// Catalog resolves sound identifiers to catalog entries
type Catalog interface {
	Lookup(id string) (api.SoundItem, bool)
}

// AssetLoader fetches and decodes catalog sounds into memory buffers
type AssetLoader struct {
	catalog Catalog
	source  Source
	rate    beep.SampleRate
}

// NewAssetLoader creates a loader that decodes to the given sample rate
func NewAssetLoader(catalog Catalog, source Source, rate beep.SampleRate) *AssetLoader {
	return &AssetLoader{catalog: catalog, source: source, rate: rate}
}

// Load fetches, decodes and resamples one sound
func (l *AssetLoader) Load(id string) (*Sound, error) {
	item, ok := l.catalog.Lookup(id)
	if !ok {
		return nil, sberrors.NewSoundError("lookup", id, sberrors.ErrSoundNotFound)
	}

	rc, err := l.source.Open(item.Sound)
	if err != nil {
		return nil, sberrors.NewSoundError("open", id, err)
	}

	return Decode(id, item.Sound, rc, l.rate)
}
