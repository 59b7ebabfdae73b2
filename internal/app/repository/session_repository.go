package repository

import (
	"context"
	"errors"

	"github.com/ikkim/storefront/internal/app/model"
	"github.com/ikkim/storefront/internal/storage"
	"github.com/ikkim/storefront/pkg/logger"
)

var ErrNoSession = errors.New("no active session")

var sessionKeys = []string{
	storage.KeyAuthToken,
	storage.KeyRefreshToken,
	storage.KeyUser,
	storage.KeyIsLoggedIn,
}

// SessionRepository reads and writes the four session keys as one group.
type SessionRepository interface {
	FindByProfile(ctx context.Context, profileID string) (model.Session, error)
	Save(ctx context.Context, profileID string, session model.Session) error
	UpdateAccessToken(ctx context.Context, profileID, token string) error
	DeleteByProfile(ctx context.Context, profileID string) error
}

type sessionRepository struct {
	stores storage.Provider
}

func NewSessionRepository(stores storage.Provider) SessionRepository {
	return &sessionRepository{stores: stores}
}

// FindByProfile returns the stored session, or an anonymous one when the
// group is absent or incomplete.
func (r *sessionRepository) FindByProfile(ctx context.Context, profileID string) (model.Session, error) {
	values, err := r.stores.ForProfile(profileID).GetMany(ctx, sessionKeys...)
	if err != nil {
		logger.Error("Failed to read session from storage", err, map[string]interface{}{
			"profile_id": profileID,
		})
		return model.Session{}, err
	}
	if len(values) == 0 {
		return model.Session{}, nil
	}

	var user model.User
	session := model.Session{
		AccessToken:  values[storage.KeyAuthToken],
		RefreshToken: values[storage.KeyRefreshToken],
		LoggedIn:     values[storage.KeyIsLoggedIn] == "true",
	}
	if raw, ok := values[storage.KeyUser]; ok && storage.DecodeValue(storage.KeyUser, raw, &user) {
		session.User = &user
	}

	if !session.Authenticated() {
		logger.Warn("Ignoring incomplete stored session", map[string]interface{}{
			"profile_id": profileID,
			"logged_in":  session.LoggedIn,
			"has_token":  session.AccessToken != "",
			"has_user":   session.User != nil,
		})
		return model.Session{}, nil
	}
	return session, nil
}

func (r *sessionRepository) Save(ctx context.Context, profileID string, session model.Session) error {
	if !session.Authenticated() {
		return ErrNoSession
	}
	user, err := storage.EncodeJSON(session.User)
	if err != nil {
		return err
	}

	err = r.stores.ForProfile(profileID).SetMany(ctx, map[string]string{
		storage.KeyAuthToken:    session.AccessToken,
		storage.KeyRefreshToken: session.RefreshToken,
		storage.KeyUser:         user,
		storage.KeyIsLoggedIn:   "true",
	})
	if err != nil {
		logger.Error("Failed to write session to storage", err, map[string]interface{}{
			"profile_id": profileID,
		})
		return err
	}
	return nil
}

// UpdateAccessToken rewrites the whole group with a new access token. It
// refuses to resurrect a session that was cleared in the meantime.
func (r *sessionRepository) UpdateAccessToken(ctx context.Context, profileID, token string) error {
	session, err := r.FindByProfile(ctx, profileID)
	if err != nil {
		return err
	}
	if !session.Authenticated() {
		return ErrNoSession
	}
	session.AccessToken = token
	return r.Save(ctx, profileID, session)
}

func (r *sessionRepository) DeleteByProfile(ctx context.Context, profileID string) error {
	if err := r.stores.ForProfile(profileID).RemoveMany(ctx, sessionKeys...); err != nil {
		logger.Error("Failed to clear session from storage", err, map[string]interface{}{
			"profile_id": profileID,
		})
		return err
	}
	return nil
}
