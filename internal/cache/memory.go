package cache

import (
	"bytes"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Memory holds templates for the life of the process. Values are copied on
// the way in and out, so callers may modify what they get back.
type Memory struct {
	items *gocache.Cache
}

// NewMemory creates a memory layer whose entries expire after ttl. Expired
// entries are purged at twice that interval, or never when ttl is not
// positive.
func NewMemory(ttl time.Duration) *Memory {
	if ttl <= 0 {
		return &Memory{items: gocache.New(gocache.NoExpiration, 0)}
	}
	return &Memory{items: gocache.New(ttl, 2*ttl)}
}

func (m *Memory) Get(key string) ([]byte, bool) {
	v, ok := m.items.Get(key)
	if !ok {
		return nil, false
	}
	data, ok := v.([]byte)
	if !ok {
		return nil, false
	}
	return bytes.Clone(data), true
}

// Set stores a copy of value. A zero ttl means the layer default.
func (m *Memory) Set(key string, value []byte, ttl time.Duration) error {
	if ttl == 0 {
		ttl = gocache.DefaultExpiration
	}
	m.items.Set(key, bytes.Clone(value), ttl)
	return nil
}

func (m *Memory) Delete(key string) error {
	m.items.Delete(key)
	return nil
}

func (m *Memory) Clear() error {
	m.items.Flush()
	return nil
}

// Len reports how many templates are held, expired ones included until the
// next purge.
func (m *Memory) Len() int {
	return m.items.ItemCount()
}
