package catalog

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dhowden/tag"
	"github.com/jscyril/soundboard/api"
)

// ScannedCategory is used for scanned files that carry no genre tag
const ScannedCategory = "Custom"

// MetadataReader turns a sound file into a catalog entry
type MetadataReader struct{}

// NewMetadataReader creates a new metadata reader
func NewMetadataReader() *MetadataReader {
	return &MetadataReader{}
}

// Read builds a catalog entry for the file at root/rel.
// The entry's Sound is rel so that a directory source rooted at root can open it.
func (r *MetadataReader) Read(root, rel string) (api.SoundItem, error) {
	file, err := os.Open(filepath.Join(root, rel))
	if err != nil {
		return api.SoundItem{}, fmt.Errorf("open file: %w", err)
	}
	defer file.Close()

	base := strings.TrimSuffix(filepath.Base(rel), filepath.Ext(rel))
	item := api.SoundItem{
		ID:          SoundID(rel),
		Sound:       filepath.ToSlash(rel),
		Description: base,
		Category:    ScannedCategory,
	}

	// untagged files (plain WAVE, most samples) keep the file-name defaults
	metadata, err := tag.ReadFrom(file)
	if err != nil {
		return item, nil
	}
	item.Description = getOrDefault(metadata.Title(), base)
	item.Category = getOrDefault(metadata.Genre(), ScannedCategory)
	return item, nil
}

// SoundID derives a catalog id from a path relative to the scanned directory:
// lower case, extension dropped, separators and spaces as dashes.
func SoundID(rel string) string {
	rel = filepath.ToSlash(strings.TrimSuffix(rel, filepath.Ext(rel)))
	rel = strings.ToLower(rel)
	return strings.Join(strings.FieldsFunc(rel, func(r rune) bool {
		return r == '/' || r == ' ' || r == '\t' || r == '_'
	}), "-")
}

// getOrDefault returns the value if non-empty, otherwise returns the default
func getOrDefault(value, defaultValue string) string {
	if value == "" {
		return defaultValue
	}
	return value
}
