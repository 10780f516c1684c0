package audio

import (
	"log/slog"
	"sync"

	"golang.org/x/sync/singleflight"
)

// Loader produces a decoded sound for an identifier
type Loader interface {
	Load(id string) (*Sound, error)
}

// Cache memoizes decoded sounds per identifier.
// Concurrent loads of the same id share one decode; failed loads are not cached.
type Cache struct {
	loader Loader
	log    *slog.Logger
	group  singleflight.Group

	mu     sync.RWMutex
	sounds map[string]*Sound
}

// NewCache creates an empty cache in front of loader
func NewCache(loader Loader, log *slog.Logger) *Cache {
	if log == nil {
		log = slog.Default()
	}
	return &Cache{
		loader: loader,
		log:    log,
		sounds: make(map[string]*Sound),
	}
}

// Load returns the cached sound or decodes it
func (c *Cache) Load(id string) (*Sound, error) {
	if s, ok := c.Peek(id); ok {
		return s, nil
	}

	v, err, _ := c.group.Do(id, func() (interface{}, error) {
		// a previous flight may have finished between Peek and Do
		if s, ok := c.Peek(id); ok {
			return s, nil
		}
		s, err := c.loader.Load(id)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.sounds[id] = s
		c.mu.Unlock()
		c.log.Debug("sound decoded", "sound", id, "duration", s.Duration())
		return s, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Sound), nil
}

// Get is Load for callers that tolerate a missing sound: failures are logged and nil returned
func (c *Cache) Get(id string) *Sound {
	s, err := c.Load(id)
	if err != nil {
		c.log.Warn("sound unavailable", "sound", id, "err", err)
		return nil
	}
	return s
}

// Peek returns a cached sound without loading
func (c *Cache) Peek(id string) (*Sound, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	s, ok := c.sounds[id]
	return s, ok
}

// Preload warms the cache in the background
func (c *Cache) Preload(ids ...string) {
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := c.Peek(id); ok {
			continue
		}
		go c.Get(id)
	}
}

// Len returns the number of cached sounds
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.sounds)
}
