package cache

import (
	"errors"
	"time"
)

// Layered reads through a chain of caches, fastest first. A hit in a slower
// layer is copied into every faster one.
type Layered struct {
	layers []Cache
}

// NewLayered chains the given layers in lookup order.
func NewLayered(layers ...Cache) *Layered {
	return &Layered{layers: layers}
}

func (l *Layered) Get(key string) ([]byte, bool) {
	for i, layer := range l.layers {
		val, ok := layer.Get(key)
		if !ok {
			continue
		}
		for _, faster := range l.layers[:i] {
			_ = faster.Set(key, val, 0)
		}
		return val, true
	}
	return nil, false
}

// Set writes to every layer and reports the first failure.
func (l *Layered) Set(key string, value []byte, ttl time.Duration) error {
	for _, layer := range l.layers {
		if err := layer.Set(key, value, ttl); err != nil {
			return err
		}
	}
	return nil
}

func (l *Layered) Delete(key string) error {
	errs := make([]error, 0, len(l.layers))
	for _, layer := range l.layers {
		errs = append(errs, layer.Delete(key))
	}
	return errors.Join(errs...)
}

func (l *Layered) Clear() error {
	errs := make([]error, 0, len(l.layers))
	for _, layer := range l.layers {
		errs = append(errs, layer.Clear())
	}
	return errors.Join(errs...)
}
