// Package memory implements an in-process store driver used by tests
// and dev mode.
package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/hrygo/designgenie/store"
)

type entry struct {
	value     string
	expiresAt time.Time // zero means no expiry
}

// DB is a mutex-guarded map with the same semantics as the remote
// key-value service: flat keys, glob Keys scan, lazy TTL expiry.
type DB struct {
	mu      sync.RWMutex
	entries map[string]entry
}

func NewDB() *DB {
	return &DB{entries: make(map[string]entry)}
}

func (d *DB) Get(_ context.Context, key string) (string, bool, error) {
	d.mu.RLock()
	e, ok := d.entries[key]
	d.mu.RUnlock()
	if !ok || expired(e) {
		return "", false, nil
	}
	return e.value, true, nil
}

func (d *DB) Set(_ context.Context, key string, value string, ttl time.Duration) error {
	e := entry{value: value}
	if ttl > 0 {
		e.expiresAt = time.Now().Add(ttl)
	}
	d.mu.Lock()
	d.entries[key] = e
	d.mu.Unlock()
	return nil
}

func (d *DB) Delete(_ context.Context, keys ...string) (int64, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	var count int64
	for _, key := range keys {
		if e, ok := d.entries[key]; ok {
			if !expired(e) {
				count++
			}
			delete(d.entries, key)
		}
	}
	return count, nil
}

func (d *DB) Exists(_ context.Context, key string) (bool, error) {
	d.mu.RLock()
	e, ok := d.entries[key]
	d.mu.RUnlock()
	return ok && !expired(e), nil
}

// Keys supports the prefix-glob form used by the session key
// convention ("prefix*") plus exact matches.
func (d *DB) Keys(_ context.Context, pattern string) ([]string, error) {
	prefix, glob := strings.CutSuffix(pattern, "*")
	d.mu.RLock()
	defer d.mu.RUnlock()
	keys := make([]string, 0, len(d.entries))
	for key, e := range d.entries {
		if expired(e) {
			continue
		}
		if glob && strings.HasPrefix(key, prefix) || !glob && key == pattern {
			keys = append(keys, key)
		}
	}
	return keys, nil
}

func (d *DB) MGet(_ context.Context, keys ...string) ([]*string, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	values := make([]*string, len(keys))
	for i, key := range keys {
		if e, ok := d.entries[key]; ok && !expired(e) {
			value := e.value
			values[i] = &value
		}
	}
	return values, nil
}

func (d *DB) Ping(_ context.Context) error {
	return nil
}

func (d *DB) Close() error {
	return nil
}

func expired(e entry) bool {
	return !e.expiresAt.IsZero() && time.Now().After(e.expiresAt)
}

var _ store.Driver = (*DB)(nil)
