package catalog

import (
	"context"
	"io/fs"
	"path/filepath"
	"sync"

	"github.com/jscyril/soundboard/api"
	"github.com/jscyril/soundboard/internal/audio"
	sberrors "github.com/jscyril/soundboard/pkg/errors"
)

// Scanner scans sound directories concurrently using a worker pool
type Scanner struct {
	workers    int
	metaReader *MetadataReader
}

// NewScanner creates a new directory scanner
func NewScanner(workers int) *Scanner {
	if workers <= 0 {
		workers = 4
	}
	return &Scanner{
		workers:    workers,
		metaReader: NewMetadataReader(),
	}
}

type found struct {
	root, rel string
}

// Scan walks dirs and returns channels of catalog entries and errors.
// Both channels are closed once the scan finishes or ctx is cancelled.
func (s *Scanner) Scan(ctx context.Context, dirs []string) (<-chan api.SoundItem, <-chan error) {
	items := make(chan api.SoundItem, 100)
	errors := make(chan error, 10)
	files := make(chan found, 100)

	var wg sync.WaitGroup

	report := func(path string, err error) {
		select {
		case errors <- &sberrors.ScanError{Path: path, Err: err}:
		default:
		}
	}

	go func() {
		defer close(files)
		for _, dir := range dirs {
			if ctx.Err() != nil {
				return
			}

			err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
				if err != nil {
					report(p, err)
					return nil
				}
				if ctx.Err() != nil {
					return ctx.Err()
				}
				if d.IsDir() || !audio.IsSupported(p) {
					return nil
				}

				rel, err := filepath.Rel(dir, p)
				if err != nil {
					report(p, err)
					return nil
				}
				select {
				case files <- found{root: dir, rel: rel}:
				case <-ctx.Done():
					return ctx.Err()
				}
				return nil
			})

			if err != nil && err != context.Canceled {
				report(dir, err)
			}
		}
	}()

	for i := 0; i < s.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for f := range files {
				if ctx.Err() != nil {
					return
				}

				item, err := s.metaReader.Read(f.root, f.rel)
				if err != nil {
					report(filepath.Join(f.root, f.rel), err)
					continue
				}

				select {
				case items <- item:
				case <-ctx.Done():
					return
				}
			}
		}()
	}

	go func() {
		wg.Wait()
		close(items)
		close(errors)
	}()

	return items, errors
}
