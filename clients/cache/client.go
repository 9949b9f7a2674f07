package cache

import (
	"context"
	"sync"
)

// ComputeFunc produces the value for a cache key on a miss
type ComputeFunc func(ctx context.Context) ([]string, error)

// Client is a read-through cache for external lookups like git branch lists and dockerfile
// service scans, so the resolution engine never depends on ambient cache state
//go:generate mockgen -package=cache -destination ./mock.go -source=client.go
type Client interface {
	FetchOrCompute(ctx context.Context, key string, compute ComputeFunc) ([]string, error)
	Invalidate(key string)
}

// NewClient returns a new in-memory cache.Client
func NewClient(ctx context.Context) (Client, error) {
	return &client{
		entries:  make(map[string][]string),
		keyLocks: newMapMutex(),
		mutex:    &sync.RWMutex{},
	}, nil
}

type client struct {
	entries  map[string][]string
	keyLocks *mapMutex
	mutex    *sync.RWMutex
}

func (c *client) FetchOrCompute(ctx context.Context, key string, compute ComputeFunc) ([]string, error) {

	// lock per key so concurrent misses for the same key compute only once, while other keys
	// keep resolving in parallel
	c.keyLocks.Lock(key)
	defer c.keyLocks.Unlock(key)

	c.mutex.RLock()
	if value, ok := c.entries[key]; ok {
		c.mutex.RUnlock()
		return value, nil
	}
	c.mutex.RUnlock()

	value, err := compute(ctx)
	if err != nil {
		return nil, err
	}

	c.mutex.Lock()
	c.entries[key] = value
	c.mutex.Unlock()

	return value, nil
}

func (c *client) Invalidate(key string) {
	c.keyLocks.Lock(key)
	defer c.keyLocks.Unlock(key)

	c.mutex.Lock()
	delete(c.entries, key)
	c.mutex.Unlock()
}

type mapMutex struct {
	innerMap map[string]*sync.RWMutex
	mutex    *sync.RWMutex
}

func newMapMutex() *mapMutex {
	return &mapMutex{
		innerMap: make(map[string]*sync.RWMutex),
		mutex:    &sync.RWMutex{},
	}
}

func (m *mapMutex) getKeyLock(key string) *sync.RWMutex {
	// set read lock to check if key exists
	m.mutex.RLock()

	if lock, ok := m.innerMap[key]; ok {
		m.mutex.RUnlock()
		return lock
	}

	m.mutex.RUnlock()

	// set write lock to add lock to initialize key
	m.mutex.Lock()

	// double check if it hasn't been created in the meantime
	if lock, ok := m.innerMap[key]; ok {
		m.mutex.Unlock()
		return lock
	}

	// otherwise create it
	lock := &sync.RWMutex{}

	m.innerMap[key] = lock
	m.mutex.Unlock()

	return lock
}

func (m *mapMutex) Lock(key string) {
	m.getKeyLock(key).Lock()
}

func (m *mapMutex) Unlock(key string) {
	m.getKeyLock(key).Unlock()
}
