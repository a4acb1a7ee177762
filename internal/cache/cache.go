// Package cache stores generated templates keyed by the fingerprint of the
// rule set that produced them.
package cache

import (
	"time"

	"github.com/ppiankov/apa7/internal/model"
)

// Cache defines the interface for caching
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// keyVersion changes whenever the generated template layout changes, so
// templates written by an older binary are not reused.
const keyVersion = "v2"

// TemplateKey generates a cache key from a rule set fingerprint
func TemplateKey(fingerprint string) string {
	return "apa7-template-" + keyVersion + "-" + fingerprint
}

// New builds the cache described by the configuration: memory in front of
// disk, or a no-op cache when caching is disabled.
func New(cfg model.CacheConfig) Cache {
	if !cfg.Enabled || cfg.Dir == "" {
		return Nop{}
	}
	return NewLayered(NewMemory(cfg.TTL), NewDisk(cfg.Dir, cfg.TTL))
}

// Nop is a cache that stores nothing.
type Nop struct{}

func (Nop) Get(string) ([]byte, bool) { return nil, false }

func (Nop) Set(string, []byte, time.Duration) error { return nil }

func (Nop) Delete(string) error { return nil }

func (Nop) Clear() error { return nil }
