package audio

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// maxAssetSize bounds a single downloaded sound asset
const maxAssetSize = 32 << 20

// Source opens raw sound assets by their catalog file name
type Source interface {
	Open(name string) (io.ReadSeekCloser, error)
}

// DirSource serves assets from a local directory
type DirSource struct {
	Dir string
}

// Open opens name relative to the directory
func (s DirSource) Open(name string) (io.ReadSeekCloser, error) {
	clean := filepath.Clean("/" + name)
	f, err := os.Open(filepath.Join(s.Dir, clean))
	if err != nil {
		return nil, err
	}
	return f, nil
}

// HTTPSource downloads assets from a base URL
type HTTPSource struct {
	BaseURL string
	Client  *http.Client
	Timeout time.Duration
}

// NewHTTPSource creates a source for externally hosted assets
func NewHTTPSource(baseURL string) *HTTPSource {
	return &HTTPSource{
		BaseURL: baseURL,
		Client:  http.DefaultClient,
		Timeout: 15 * time.Second,
	}
}

// Open downloads the asset fully into memory
func (s *HTTPSource) Open(name string) (io.ReadSeekCloser, error) {
	u, err := url.Parse(s.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	u.Path = path.Join(u.Path, name)

	ctx, cancel := context.WithTimeout(context.Background(), s.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("fetch %s: %w", name, fs.ErrNotExist)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: http status %d", name, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxAssetSize+1))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	if len(data) > maxAssetSize {
		return nil, fmt.Errorf("read %s: asset larger than %d bytes", name, maxAssetSize)
	}
	return memAsset{bytes.NewReader(data)}, nil
}

// MultiSource tries each source in order and returns the first asset found
type MultiSource []Source

// Open returns the first successful open, or the last error
func (m MultiSource) Open(name string) (io.ReadSeekCloser, error) {
	err := fs.ErrNotExist
	for _, src := range m {
		rc, openErr := src.Open(name)
		if openErr == nil {
			return rc, nil
		}
		err = openErr
		if !errors.Is(openErr, fs.ErrNotExist) {
			break
		}
	}
	return nil, err
}

// NewSource picks the asset source for a configuration: an HTTP base URL when set,
// otherwise the sound directories in order.
func NewSource(baseURL string, dirs ...string) Source {
	var sources MultiSource
	for _, dir := range dirs {
		if strings.TrimSpace(dir) != "" {
			sources = append(sources, DirSource{Dir: dir})
		}
	}
	if baseURL != "" {
		sources = append(sources, NewHTTPSource(baseURL))
	}
	if len(sources) == 1 {
		return sources[0]
	}
	return sources
}

// Sources is a MultiSource that can grow while sounds are being loaded, so that
// directories scanned at runtime become loadable.
type Sources struct {
	mu   sync.RWMutex
	list MultiSource
}

// NewSources creates a growable source starting with base
func NewSources(base ...Source) *Sources {
	s := &Sources{}
	for _, src := range base {
		if src != nil {
			s.list = append(s.list, src)
		}
	}
	return s
}

// Add appends a source, searched after the existing ones
func (s *Sources) Add(src Source) {
	s.mu.Lock()
	s.list = append(s.list, src)
	s.mu.Unlock()
}

// AddDir appends a directory source unless dir is already present
func (s *Sources) AddDir(dir string) {
	dir = filepath.Clean(dir)
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, src := range s.list {
		if d, ok := src.(DirSource); ok && filepath.Clean(d.Dir) == dir {
			return
		}
	}
	s.list = append(s.list, DirSource{Dir: dir})
}

// Open searches the sources in order
func (s *Sources) Open(name string) (io.ReadSeekCloser, error) {
	s.mu.RLock()
	list := s.list
	s.mu.RUnlock()
	return list.Open(name)
}

type memAsset struct {
	*bytes.Reader
}

func (memAsset) Close() error { return nil }
