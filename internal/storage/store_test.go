package storage

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runBackendContract exercises the behaviour every driver must share.
func runBackendContract(t *testing.T, newBackend func(t *testing.T) Backend) {
	ctx := context.Background()

	t.Run("get missing key", func(t *testing.T) {
		s := NewProvider(newBackend(t)).ForProfile("p-missing")
		v, ok, err := s.Get(ctx, KeyCart)
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Empty(t, v)
	})

	t.Run("set then get", func(t *testing.T) {
		s := NewProvider(newBackend(t)).ForProfile("p-set")
		require.NoError(t, s.Set(ctx, KeyCart, `[{"id":1}]`))

		v, ok, err := s.Get(ctx, KeyCart)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, `[{"id":1}]`, v)
	})

	t.Run("overwrite", func(t *testing.T) {
		s := NewProvider(newBackend(t)).ForProfile("p-over")
		require.NoError(t, s.Set(ctx, KeyIsLoggedIn, "false"))
		require.NoError(t, s.Set(ctx, KeyIsLoggedIn, "true"))

		v, _, err := s.Get(ctx, KeyIsLoggedIn)
		require.NoError(t, err)
		assert.Equal(t, "true", v)
	})

	t.Run("remove absent key is not an error", func(t *testing.T) {
		s := NewProvider(newBackend(t)).ForProfile("p-remove")
		assert.NoError(t, s.Remove(ctx, KeyUser))
	})

	t.Run("group write and remove", func(t *testing.T) {
		s := NewProvider(newBackend(t)).ForProfile("p-group")
		require.NoError(t, s.SetMany(ctx, map[string]string{
			KeyAuthToken:    "access",
			KeyRefreshToken: "refresh",
			KeyUser:         `{"id":1}`,
			KeyIsLoggedIn:   "true",
		}))
		require.NoError(t, s.Set(ctx, KeyCart, "[]"))

		got, err := s.GetMany(ctx, KeyAuthToken, KeyRefreshToken, KeyUser, KeyIsLoggedIn, KeyCart)
		require.NoError(t, err)
		assert.Len(t, got, 5)

		require.NoError(t, s.RemoveMany(ctx, KeyAuthToken, KeyRefreshToken, KeyUser, KeyIsLoggedIn))
		got, err = s.GetMany(ctx, KeyAuthToken, KeyRefreshToken, KeyUser, KeyIsLoggedIn, KeyCart)
		require.NoError(t, err)
		assert.Equal(t, map[string]string{KeyCart: "[]"}, got)
	})

	t.Run("profiles are isolated", func(t *testing.T) {
		p := NewProvider(newBackend(t))
		require.NoError(t, p.ForProfile("alice").Set(ctx, KeyCart, "a"))
		require.NoError(t, p.ForProfile("bob").Set(ctx, KeyCart, "b"))

		v, _, err := p.ForProfile("alice").Get(ctx, KeyCart)
		require.NoError(t, err)
		assert.Equal(t, "a", v)

		require.NoError(t, p.ForProfile("bob").Remove(ctx, KeyCart))
		_, ok, err := p.ForProfile("alice").Get(ctx, KeyCart)
		require.NoError(t, err)
		assert.True(t, ok)
	})
}

func TestMemoryBackend_Contract(t *testing.T) {
	runBackendContract(t, func(t *testing.T) Backend { return NewMemoryBackend() })
}

func TestMemoryBackend_PurgeStale(t *testing.T) {
	ctx := context.Background()
	b := NewMemoryBackend()
	now := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)

	b.now = func() time.Time { return now.Add(-48 * time.Hour) }
	require.NoError(t, b.Save(ctx, "old", map[string]string{KeyCart: "[]"}, nil))
	b.now = func() time.Time { return now }
	require.NoError(t, b.Save(ctx, "fresh", map[string]string{KeyCart: "[]"}, nil))

	purged, err := b.PurgeStale(ctx, 24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(1), purged)

	got, err := b.Load(ctx, "old", nil)
	require.NoError(t, err)
	assert.Empty(t, got)
	got, err = b.Load(ctx, "fresh", nil)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestMemoryBackend_ConcurrentGroupWrites(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if i%2 == 0 {
				_ = s.SetMany(ctx, map[string]string{KeyAuthToken: "t", KeyIsLoggedIn: "true"})
			} else {
				_ = s.RemoveMany(ctx, KeyAuthToken, KeyIsLoggedIn)
			}
		}(i)
	}
	wg.Wait()

	got, err := s.GetMany(ctx, KeyAuthToken, KeyIsLoggedIn)
	require.NoError(t, err)
	// never half a group
	assert.True(t, len(got) == 0 || len(got) == 2)
}

func TestProfileStore_Validation(t *testing.T) {
	ctx := context.Background()
	p := NewProvider(NewMemoryBackend())

	tests := []struct {
		name    string
		profile string
	}{
		{"empty", ""},
		{"path separator", "../etc"},
		{"dot prefix", ".hidden"},
		{"colon", "a:b"},
		{"inner dot", "a.b"},
		{"space", "a b"},
		{"non ascii", "프로필"},
		{"too long", strings.Repeat("a", 65)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := p.ForProfile(tt.profile).Get(ctx, KeyCart)
			assert.ErrorIs(t, err, ErrInvalidProfile)
		})
	}

	t.Run("accepts uuid and word ids", func(t *testing.T) {
		for _, id := range []string{"0b6e7f3a-2c1d-4e5f-9a8b-7c6d5e4f3a2b", "profile_1", strings.Repeat("a", 64)} {
			assert.NoError(t, ValidateProfileID(id), id)
		}
	})

	t.Run("empty key", func(t *testing.T) {
		err := p.ForProfile("ok").Set(ctx, "", "v")
		assert.ErrorIs(t, err, ErrInvalidKey)
	})
}

func TestDecodeJSON(t *testing.T) {
	ctx := context.Background()

	type line struct {
		ID       int64 `json:"id"`
		Quantity int   `json:"quantity"`
	}

	t.Run("valid", func(t *testing.T) {
		s := NewMemoryStore()
		require.NoError(t, s.Set(ctx, KeyCart, `[{"id":7,"quantity":2}]`))

		var lines []line
		assert.True(t, DecodeJSON(ctx, s, KeyCart, &lines))
		assert.Equal(t, []line{{ID: 7, Quantity: 2}}, lines)
	})

	t.Run("missing key keeps default", func(t *testing.T) {
		s := NewMemoryStore()
		lines := []line{}
		assert.False(t, DecodeJSON(ctx, s, KeyCart, &lines))
		assert.NotNil(t, lines)
		assert.Empty(t, lines)
	})

	t.Run("malformed keeps default", func(t *testing.T) {
		s := NewMemoryStore()
		require.NoError(t, s.Set(ctx, KeyCart, `[{"id":7,"quantity":`))

		lines := []line{}
		assert.False(t, DecodeJSON(ctx, s, KeyCart, &lines))
		assert.Empty(t, lines)
	})

	t.Run("wrong shape keeps default", func(t *testing.T) {
		s := NewMemoryStore()
		require.NoError(t, s.Set(ctx, KeyCart, `{"id":7}`))

		var lines []line
		assert.False(t, DecodeJSON(ctx, s, KeyCart, &lines))
		assert.Nil(t, lines)
	})
}

func TestEncodeJSON(t *testing.T) {
	s, err := EncodeJSON(map[string]int{"quantity": 3})
	require.NoError(t, err)
	assert.Equal(t, `{"quantity":3}`, s)
}
