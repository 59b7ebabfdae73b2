package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ikkim/storefront/pkg/logger"
)

const profileFileExt = ".json"

// FileBackend stores one JSON document per profile in a directory. Writes go
// to a temp file that is renamed over the old document, so a reader sees
// either the previous or the next version of the profile.
type FileBackend struct {
	dir   string
	locks stripedLock
	now   func() time.Time
}

func NewFileBackend(dir string) (*FileBackend, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create profile directory: %w", err)
	}
	return &FileBackend{dir: dir, now: time.Now}, nil
}

func (b *FileBackend) path(profileID string) string {
	return filepath.Join(b.dir, profileID+profileFileExt)
}

func (b *FileBackend) read(profileID string) (*profileDocument, error) {
	data, err := os.ReadFile(b.path(profileID))
	if errors.Is(err, fs.ErrNotExist) {
		return decodeDocument(nil)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read profile: %w", err)
	}
	doc, err := decodeDocument(data)
	if err != nil {
		// A corrupt profile file reads as an empty profile.
		logger.Warn("Discarding unreadable profile document", map[string]interface{}{
			"profile_id": profileID,
			"error":      err.Error(),
		})
		return decodeDocument(nil)
	}
	return doc, nil
}

func (b *FileBackend) Load(ctx context.Context, profileID string, keys []string) (map[string]string, error) {
	doc, err := b.read(profileID)
	if err != nil {
		return nil, err
	}
	return doc.pick(keys), nil
}

func (b *FileBackend) Save(ctx context.Context, profileID string, set map[string]string, remove []string) error {
	unlock := b.locks.lock(profileID)
	defer unlock()

	doc, err := b.read(profileID)
	if err != nil {
		return err
	}
	doc.apply(set, remove, b.now())

	if len(doc.Records) == 0 {
		if err := os.Remove(b.path(profileID)); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to remove profile: %w", err)
		}
		return nil
	}

	data, err := doc.encode()
	if err != nil {
		return fmt.Errorf("failed to encode profile: %w", err)
	}

	tmp, err := os.CreateTemp(b.dir, "."+profileID+"-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp profile: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write profile: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to write profile: %w", err)
	}
	if err := os.Rename(tmpName, b.path(profileID)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace profile: %w", err)
	}
	return nil
}

func (b *FileBackend) PurgeStale(ctx context.Context, maxIdle time.Duration) (int64, error) {
	entries, err := os.ReadDir(b.dir)
	if err != nil {
		return 0, fmt.Errorf("failed to list profiles: %w", err)
	}

	cutoff := b.now().Add(-maxIdle)
	var purged int64
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") || !strings.HasSuffix(name, profileFileExt) {
			continue
		}
		if err := ctx.Err(); err != nil {
			return purged, err
		}
		profileID := strings.TrimSuffix(name, profileFileExt)

		unlock := b.locks.lock(profileID)
		doc, err := b.read(profileID)
		if err == nil && doc.UpdatedAt.Before(cutoff) {
			if err := os.Remove(b.path(profileID)); err == nil {
				purged++
			}
		}
		unlock()
	}
	return purged, nil
}
