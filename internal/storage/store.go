// Package storage persists the per-profile key/value records that back the
// cart and the auth session. A profile plays the part of a browser's local
// storage: isolated, string keyed and string valued.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"reflect"
	"time"

	"github.com/ikkim/storefront/pkg/logger"
)

// Persisted keys.
const (
	KeyAuthToken    = "authToken"
	KeyRefreshToken = "refreshToken"
	KeyUser         = "user"
	KeyIsLoggedIn   = "isLoggedIn"
	KeyCart         = "cart"
)

var (
	ErrInvalidProfile = errors.New("invalid profile id")
	ErrInvalidKey     = errors.New("invalid storage key")
)

// Store is the accessor a single profile sees.
//
// The *Many variants are atomic: readers never observe half of a group
// written by SetMany or removed by RemoveMany.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
	GetMany(ctx context.Context, keys ...string) (map[string]string, error)
	SetMany(ctx context.Context, values map[string]string) error
	RemoveMany(ctx context.Context, keys ...string) error
}

// Backend is implemented by each storage driver. Load with no keys returns
// every record of the profile. Save applies set and remove as one unit.
type Backend interface {
	Load(ctx context.Context, profileID string, keys []string) (map[string]string, error)
	Save(ctx context.Context, profileID string, set map[string]string, remove []string) error
}

// Sweeper is implemented by backends that can drop abandoned profiles.
type Sweeper interface {
	PurgeStale(ctx context.Context, maxIdle time.Duration) (int64, error)
}

// Provider hands out profile-bound stores.
type Provider interface {
	ForProfile(profileID string) Store
}

type provider struct {
	backend Backend
}

func NewProvider(backend Backend) Provider {
	return &provider{backend: backend}
}

func (p *provider) ForProfile(profileID string) Store {
	return &profileStore{backend: p.backend, profileID: profileID}
}

type profileStore struct {
	backend   Backend
	profileID string
}

func (s *profileStore) Get(ctx context.Context, key string) (string, bool, error) {
	values, err := s.GetMany(ctx, key)
	if err != nil {
		return "", false, err
	}
	v, ok := values[key]
	return v, ok, nil
}

func (s *profileStore) Set(ctx context.Context, key, value string) error {
	return s.SetMany(ctx, map[string]string{key: value})
}

func (s *profileStore) Remove(ctx context.Context, key string) error {
	return s.RemoveMany(ctx, key)
}

func (s *profileStore) GetMany(ctx context.Context, keys ...string) (map[string]string, error) {
	if err := ValidateProfileID(s.profileID); err != nil {
		return nil, err
	}
	if len(keys) == 0 {
		return map[string]string{}, nil
	}
	for _, k := range keys {
		if k == "" {
			return nil, ErrInvalidKey
		}
	}
	values, err := s.backend.Load(ctx, s.profileID, keys)
	if err != nil {
		return nil, err
	}
	if values == nil {
		values = map[string]string{}
	}
	return values, nil
}

func (s *profileStore) SetMany(ctx context.Context, values map[string]string) error {
	if err := ValidateProfileID(s.profileID); err != nil {
		return err
	}
	if len(values) == 0 {
		return nil
	}
	for k := range values {
		if k == "" {
			return ErrInvalidKey
		}
	}
	return s.backend.Save(ctx, s.profileID, values, nil)
}

func (s *profileStore) RemoveMany(ctx context.Context, keys ...string) error {
	if err := ValidateProfileID(s.profileID); err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return s.backend.Save(ctx, s.profileID, nil, keys)
}

const maxProfileIDLen = 64

// ValidateProfileID accepts 1 to 64 characters of [A-Za-z0-9_-], which keeps
// ids usable as file names, redis keys and object keys.
func ValidateProfileID(id string) error {
	if id == "" || len(id) > maxProfileIDLen {
		return ErrInvalidProfile
	}
	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
		default:
			return ErrInvalidProfile
		}
	}
	return nil
}

// DecodeJSON reads key and unmarshals it into v. A missing key, a read error
// or malformed content leaves v untouched and reports false; callers fall
// back to their default.
func DecodeJSON(ctx context.Context, s Store, key string, v interface{}) bool {
	raw, ok, err := s.Get(ctx, key)
	if err != nil {
		logger.Warn("Failed to read stored value, using default", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
		return false
	}
	if !ok {
		return false
	}
	return DecodeValue(key, raw, v)
}

// DecodeValue is DecodeJSON for a value already read, e.g. through GetMany.
func DecodeValue(key, raw string, v interface{}) bool {
	rv := reflect.ValueOf(v)
	if raw == "" || rv.Kind() != reflect.Ptr || rv.IsNil() {
		return false
	}
	// Decode into a scratch value so a half-decoded document never leaks
	// into v.
	scratch := reflect.New(rv.Elem().Type())
	if err := json.Unmarshal([]byte(raw), scratch.Interface()); err != nil {
		logger.Warn("Discarding malformed stored value", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
		return false
	}
	rv.Elem().Set(scratch.Elem())
	return true
}

func EncodeJSON(v interface{}) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
