package storage

import (
	"sync"

	"github.com/cespare/xxhash/v2"
)

const lockStripes = 64

// stripedLock serialises read-modify-write cycles per profile without
// keeping one mutex alive for every profile ever seen.
type stripedLock struct {
	stripes [lockStripes]sync.Mutex
}

func (l *stripedLock) lock(profileID string) func() {
	m := &l.stripes[xxhash.Sum64String(profileID)%lockStripes]
	m.Lock()
	return m.Unlock
}
