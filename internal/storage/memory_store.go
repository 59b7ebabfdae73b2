package storage

import (
	"context"
	"sync"
	"time"
)

// MemoryBackend keeps every profile in process memory. Nothing survives a
// restart; it is the default driver and the one tests use.
type MemoryBackend struct {
	mu       sync.RWMutex
	profiles map[string]*profileDocument
	now      func() time.Time
}

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{
		profiles: make(map[string]*profileDocument),
		now:      time.Now,
	}
}

func (b *MemoryBackend) Load(ctx context.Context, profileID string, keys []string) (map[string]string, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	doc, ok := b.profiles[profileID]
	if !ok {
		return map[string]string{}, nil
	}
	return doc.pick(keys), nil
}

func (b *MemoryBackend) Save(ctx context.Context, profileID string, set map[string]string, remove []string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	doc, ok := b.profiles[profileID]
	if !ok {
		doc = &profileDocument{Records: map[string]string{}}
		b.profiles[profileID] = doc
	}
	doc.apply(set, remove, b.now())
	if len(doc.Records) == 0 {
		delete(b.profiles, profileID)
	}
	return nil
}

func (b *MemoryBackend) PurgeStale(ctx context.Context, maxIdle time.Duration) (int64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	cutoff := b.now().Add(-maxIdle)
	var purged int64
	for id, doc := range b.profiles {
		if doc.UpdatedAt.Before(cutoff) {
			delete(b.profiles, id)
			purged++
		}
	}
	return purged, nil
}

// NewMemoryStore is a single-profile store over a fresh memory backend.
func NewMemoryStore() Store {
	return NewProvider(NewMemoryBackend()).ForProfile("default")
}
