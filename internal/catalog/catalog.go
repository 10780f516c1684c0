// Package catalog holds the sound catalog: the built-in sound list plus anything found by
// scanning local sound directories.
package catalog

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/jscyril/soundboard/api"
	sberrors "github.com/jscyril/soundboard/pkg/errors"
)

//go:embed sounds.json
var builtin []byte

// Catalog is an ordered, id-indexed set of sounds
type Catalog struct {
	mu    sync.RWMutex
	items []api.SoundItem
	index map[string]int

	// categoryIndex maps a category to positions in items
	categoryIndex map[string][]int

	scanner *Scanner
}

// New creates an empty catalog
func New() *Catalog {
	return &Catalog{
		index:         make(map[string]int),
		categoryIndex: make(map[string][]int),
		scanner:       NewScanner(4),
	}
}

// Default returns the built-in catalog
func Default() (*Catalog, error) {
	return Parse(builtin)
}

// Parse builds a catalog from a JSON array of sound items
func Parse(data []byte) (*Catalog, error) {
	var items []api.SoundItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("unmarshal catalog: %w", err)
	}

	c := New()
	for _, item := range items {
		if err := c.Add(item); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// LoadFile reads a catalog file, falling back to the built-in list if it does not exist
func LoadFile(path string) (*Catalog, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Default()
	}
	if err != nil {
		return nil, fmt.Errorf("read catalog file: %w", err)
	}
	return Parse(data)
}

// Add appends a sound. Ids must be unique.
func (c *Catalog) Add(item api.SoundItem) error {
	if item.ID == "" {
		return fmt.Errorf("add sound %q: %w", item.Sound, sberrors.ErrSoundNotFound)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.index[item.ID]; exists {
		return fmt.Errorf("add sound %s: %w", item.ID, sberrors.ErrDuplicateSound)
	}
	c.index[item.ID] = len(c.items)
	c.items = append(c.items, item)
	if item.Category != "" {
		c.categoryIndex[item.Category] = append(c.categoryIndex[item.Category], len(c.items)-1)
	}
	return nil
}

// Lookup returns the sound with the given id
func (c *Catalog) Lookup(id string) (api.SoundItem, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	i, ok := c.index[id]
	if !ok {
		return api.SoundItem{}, false
	}
	return c.items[i], true
}

// Len returns the number of sounds
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// All returns every sound in catalog order
func (c *Catalog) All() []api.SoundItem {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]api.SoundItem, len(c.items))
	copy(out, c.items)
	return out
}

// Categories returns the distinct categories, sorted
func (c *Catalog) Categories() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	categories := make([]string, 0, len(c.categoryIndex))
	for category := range c.categoryIndex {
		categories = append(categories, category)
	}
	sort.Strings(categories)
	return categories
}

// Filter returns the sounds in any of the given categories, in catalog order.
// No categories means everything.
func (c *Catalog) Filter(categories ...string) []api.SoundItem {
	if len(categories) == 0 {
		return c.All()
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	var positions []int
	for _, category := range categories {
		positions = append(positions, c.categoryIndex[category]...)
	}
	sort.Ints(positions)

	out := make([]api.SoundItem, 0, len(positions))
	last := -1
	for _, p := range positions {
		if p == last {
			continue
		}
		out = append(out, c.items[p])
		last = p
	}
	return out
}

// Search matches query against id and description, case-insensitively.
// Description matches come first.
func (c *Catalog) Search(query string, in []api.SoundItem) []api.SoundItem {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return in
	}

	results := make([]api.SoundItem, 0, 10)
	for _, item := range in {
		if strings.Contains(strings.ToLower(item.Description), query) ||
			strings.Contains(strings.ToLower(item.ID), query) {
			results = append(results, item)
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		iDesc := strings.Contains(strings.ToLower(results[i].Description), query)
		jDesc := strings.Contains(strings.ToLower(results[j].Description), query)
		return iDesc && !jDesc
	})
	return results
}

// Scan scans dirs for sound files and adds them. Files whose id is already taken are
// reported as scan errors and skipped.
func (c *Catalog) Scan(ctx context.Context, dirs []string) (added int, errs []error) {
	items, errCh := c.scanner.Scan(ctx, dirs)

	var wg sync.WaitGroup
	var mu sync.Mutex
	wg.Add(1)
	go func() {
		defer wg.Done()
		for err := range errCh {
			mu.Lock()
			errs = append(errs, err)
			mu.Unlock()
		}
	}()

	for item := range items {
		if err := c.Add(item); err != nil {
			mu.Lock()
			errs = append(errs, &sberrors.ScanError{Path: item.Sound, Err: err})
			mu.Unlock()
			continue
		}
		added++
	}
	wg.Wait()
	return added, errs
}
