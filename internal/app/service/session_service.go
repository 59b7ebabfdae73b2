package service

import (
	"context"
	"errors"
	"strings"

	"github.com/ikkim/storefront/internal/app/model"
	"github.com/ikkim/storefront/internal/app/repository"
	"github.com/ikkim/storefront/pkg/logger"
	"github.com/ikkim/storefront/pkg/shopapi"
	"github.com/ikkim/storefront/pkg/util"
)

const (
	RedirectAfterLogin    = "/products"
	RedirectAfterLogout   = "/login"
	RedirectAfterRegister = "/login"
)

var (
	ErrMissingCredentials = errors.New("email and password are required")
	ErrMissingFields      = errors.New("required fields are missing")
	ErrNotAuthenticated   = errors.New("authentication required")
)

// AuthError carries the message shown to the user for a failed auth call.
type AuthError struct {
	Message string
	Err     error
}

func (e *AuthError) Error() string {
	return e.Message
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

// authFailure prefers the server's own message over fallback.
func authFailure(err error, fallback string) *AuthError {
	msg, ok := shopapi.ServerMessage(err)
	if !ok {
		msg = fallback
	}
	return &AuthError{Message: msg, Err: err}
}

type SessionService interface {
	Rehydrate(ctx context.Context, profileID string) model.Session
	Login(ctx context.Context, profileID, email, password string) (model.Session, error)
	Logout(ctx context.Context, profileID string) error
	Register(ctx context.Context, profileID string, input model.RegisterInput) (string, error)
	RefreshToken(ctx context.Context, profileID, refreshToken string) (string, error)
	RenewAccessToken(ctx context.Context, profileID string) (model.Session, error)
	CurrentUser(ctx context.Context, profileID string) (*model.User, error)
	RequestPasswordReset(ctx context.Context, profileID, email string) (string, error)
	ResetPassword(ctx context.Context, profileID, token, password string) (string, error)
	// Gateway returns the shop API client bound to the profile's tokens.
	Gateway(profileID string) *shopapi.Client
}

type sessionService struct {
	sessionRepo repository.SessionRepository
	client      *shopapi.Client
}

func NewSessionService(sessionRepo repository.SessionRepository, client *shopapi.Client) SessionService {
	return &sessionService{
		sessionRepo: sessionRepo,
		client:      client,
	}
}

func (s *sessionService) Gateway(profileID string) *shopapi.Client {
	return s.client.WithSession(&sessionTokens{repo: s.sessionRepo, profileID: profileID})
}

// Rehydrate restores the stored session without asking the server. An
// expired token is only discovered by the next gated call.
func (s *sessionService) Rehydrate(ctx context.Context, profileID string) model.Session {
	session, err := s.sessionRepo.FindByProfile(ctx, profileID)
	if err != nil {
		logger.Warn("Session unavailable, treating profile as anonymous", map[string]interface{}{
			"profile_id": profileID,
			"error":      err.Error(),
		})
		return model.Session{}
	}
	session.ExpiresAt = util.TokenExpiry(session.AccessToken)
	return session
}

func (s *sessionService) Login(ctx context.Context, profileID, email, password string) (model.Session, error) {
	email = strings.TrimSpace(email)
	logger.Info("Attempting user login", map[string]interface{}{
		"profile_id": profileID,
		"email":      email,
	})

	if email == "" || password == "" {
		NotifyError(ctx, "Missing information", "Please enter both email and password")
		return s.Rehydrate(ctx, profileID), ErrMissingCredentials
	}

	resp, err := s.Gateway(profileID).Auth().Login(ctx, email, password)
	if err == nil && (resp.Token == "" || (resp.User.ID == 0 && resp.User.Email == "")) {
		err = shopapi.ErrInvalidResponse
	}
	if err != nil {
		authErr := authFailure(err, "Invalid credentials")
		logger.Warn("Login failed", map[string]interface{}{
			"profile_id": profileID,
			"email":      email,
			"status":     shopapi.StatusCode(err),
			"error":      err.Error(),
		})
		NotifyError(ctx, "Login failed", authErr.Message)
		return s.Rehydrate(ctx, profileID), authErr
	}

	user := resp.User
	session := model.Session{
		AccessToken:  resp.Token,
		RefreshToken: resp.Refresh,
		User:         &user,
		LoggedIn:     true,
	}
	if err := s.sessionRepo.Save(ctx, profileID, session); err != nil {
		return s.Rehydrate(ctx, profileID), err
	}
	session.ExpiresAt = util.TokenExpiry(session.AccessToken)

	Notify(ctx, "Login successful", "Welcome back!")
	logger.Info("User logged in successfully", map[string]interface{}{
		"profile_id": profileID,
		"user_id":    user.ID,
	})
	return session, nil
}

func (s *sessionService) Logout(ctx context.Context, profileID string) error {
	if err := s.sessionRepo.DeleteByProfile(ctx, profileID); err != nil {
		return err
	}
	Notify(ctx, "Logged out", "You have been successfully logged out")
	logger.Info("User logged out", map[string]interface{}{
		"profile_id": profileID,
	})
	return nil
}

// Register creates the account but never signs in: tokens in the response
// are dropped and the user is sent back to the login form.
func (s *sessionService) Register(ctx context.Context, profileID string, input model.RegisterInput) (string, error) {
	input.Email = strings.TrimSpace(input.Email)
	input.FullName = strings.TrimSpace(input.FullName)
	input.Username = strings.TrimSpace(input.Username)
	if input.Username == "" {
		input.Username = input.Email
	}

	logger.Info("Attempting user registration", map[string]interface{}{
		"profile_id": profileID,
		"email":      input.Email,
	})

	if input.Email == "" || input.Password == "" || input.FullName == "" {
		NotifyError(ctx, "Missing information", "Please fill in all fields")
		return "", ErrMissingFields
	}

	resp, err := s.Gateway(profileID).Auth().Register(ctx, input)
	if err != nil {
		authErr := authFailure(err, "Please try again")
		logger.Warn("Registration failed", map[string]interface{}{
			"profile_id": profileID,
			"email":      input.Email,
			"error":      err.Error(),
		})
		NotifyError(ctx, "Registration failed", authErr.Message)
		return "", authErr
	}

	Notify(ctx, "Account created", "Your account has been created successfully!")
	logger.Info("User registered successfully", map[string]interface{}{
		"profile_id": profileID,
		"user_id":    resp.User.ID,
	})
	return resp.Message, nil
}

// RefreshToken exchanges refreshToken for a new access token and leaves the
// stored session alone.
func (s *sessionService) RefreshToken(ctx context.Context, profileID, refreshToken string) (string, error) {
	if refreshToken == "" {
		return "", ErrNotAuthenticated
	}
	return s.Gateway(profileID).Auth().RefreshToken(ctx, refreshToken)
}

// RenewAccessToken refreshes and stores the access token of the current
// session. A rejected refresh token ends the session.
func (s *sessionService) RenewAccessToken(ctx context.Context, profileID string) (model.Session, error) {
	session := s.Rehydrate(ctx, profileID)
	if !session.Authenticated() || session.RefreshToken == "" {
		return session, ErrNotAuthenticated
	}

	access, err := s.RefreshToken(ctx, profileID, session.RefreshToken)
	if err != nil {
		if shopapi.RefreshRejected(err) {
			s.expireSession(ctx, profileID)
			return model.Session{}, shopapi.ErrSessionExpired
		}
		return session, err
	}

	if err := s.sessionRepo.UpdateAccessToken(ctx, profileID, access); err != nil {
		if errors.Is(err, repository.ErrNoSession) {
			return model.Session{}, ErrNotAuthenticated
		}
		return session, err
	}
	session.AccessToken = access
	session.ExpiresAt = util.TokenExpiry(access)

	logger.Info("Access token renewed", map[string]interface{}{
		"profile_id": profileID,
	})
	return session, nil
}

func (s *sessionService) CurrentUser(ctx context.Context, profileID string) (*model.User, error) {
	if !s.Rehydrate(ctx, profileID).Authenticated() {
		return nil, ErrNotAuthenticated
	}
	user, err := s.Gateway(profileID).Auth().CurrentUser(ctx)
	if err != nil {
		logger.Warn("Failed to fetch current user", map[string]interface{}{
			"profile_id": profileID,
			"error":      err.Error(),
		})
		return nil, err
	}
	return user, nil
}

func (s *sessionService) RequestPasswordReset(ctx context.Context, profileID, email string) (string, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		NotifyError(ctx, "Missing information", "Please enter your email address")
		return "", ErrMissingFields
	}

	msg, err := s.Gateway(profileID).Auth().RequestPasswordReset(ctx, email)
	if err != nil {
		authErr := authFailure(err, "Please try again")
		NotifyError(ctx, "Request failed", authErr.Message)
		return "", authErr
	}
	Notify(ctx, "Reset link sent", "Check your email for a link to reset your password")
	return msg, nil
}

func (s *sessionService) ResetPassword(ctx context.Context, profileID, token, password string) (string, error) {
	if token == "" || password == "" {
		NotifyError(ctx, "Missing information", "Please fill in all fields")
		return "", ErrMissingFields
	}

	msg, err := s.Gateway(profileID).Auth().ResetPassword(ctx, token, password)
	if err != nil {
		authErr := authFailure(err, "Please try again")
		NotifyError(ctx, "Password reset failed", authErr.Message)
		return "", authErr
	}
	Notify(ctx, "Password updated", "You can now log in with your new password")
	return msg, nil
}

func (s *sessionService) expireSession(ctx context.Context, profileID string) {
	tokens := &sessionTokens{repo: s.sessionRepo, profileID: profileID}
	if err := tokens.Expire(ctx); err != nil {
		logger.Error("Failed to clear expired session", err, map[string]interface{}{
			"profile_id": profileID,
		})
	}
}

// sessionTokens lets the gateway read and replace one profile's tokens.
type sessionTokens struct {
	repo      repository.SessionRepository
	profileID string
}

func (t *sessionTokens) session(ctx context.Context) model.Session {
	session, err := t.repo.FindByProfile(ctx, t.profileID)
	if err != nil {
		return model.Session{}
	}
	return session
}

func (t *sessionTokens) AccessToken(ctx context.Context) string {
	return t.session(ctx).AccessToken
}

func (t *sessionTokens) RefreshToken(ctx context.Context) string {
	return t.session(ctx).RefreshToken
}

func (t *sessionTokens) UpdateAccessToken(ctx context.Context, token string) error {
	return t.repo.UpdateAccessToken(ctx, t.profileID, token)
}

// Expire is the forced logout that follows a failed refresh.
func (t *sessionTokens) Expire(ctx context.Context) error {
	if err := t.repo.DeleteByProfile(ctx, t.profileID); err != nil {
		return err
	}
	NotifyError(ctx, "Session expired", "Please log in again")
	logger.Info("Session expired, user logged out", map[string]interface{}{
		"profile_id": t.profileID,
	})
	return nil
}
