package shopapi

import (
	"context"
	"net/http"

	"github.com/ikkim/storefront/internal/app/model"
)

const (
	endpointLogin                = "/auth/login/"
	endpointRegister             = "/auth/register/"
	endpointTokenRefresh         = "/auth/token/refresh/"
	endpointCurrentUser          = "/auth/user/"
	endpointPasswordReset        = "/auth/password-reset/"
	endpointPasswordResetConfirm = "/auth/password-reset/confirm/"
)

type LoginResponse struct {
	Token   string     `json:"token"`
	Refresh string     `json:"refresh"`
	User    model.User `json:"user"`
}

type RegisterResponse struct {
	Message string          `json:"message"`
	Tokens  model.TokenPair `json:"tokens"`
	User    model.User      `json:"user"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type AuthAPI struct {
	c *Client
}

func (c *Client) Auth() *AuthAPI {
	return &AuthAPI{c: c}
}

func (a *AuthAPI) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	var resp LoginResponse
	err := a.c.Do(ctx, http.MethodPost, endpointLogin, map[string]string{
		"email":    email,
		"password": password,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

func (a *AuthAPI) Register(ctx context.Context, input model.RegisterInput) (*RegisterResponse, error) {
	var resp RegisterResponse
	if err := a.c.Do(ctx, http.MethodPost, endpointRegister, input, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// RefreshToken exchanges a refresh token for a new access token. It does
// not store the result.
func (a *AuthAPI) RefreshToken(ctx context.Context, refresh string) (string, error) {
	var resp struct {
		Access string `json:"access"`
	}
	err := a.c.Do(ctx, http.MethodPost, endpointTokenRefresh, map[string]string{
		"refresh": refresh,
	}, &resp)
	if err != nil {
		return "", err
	}
	if resp.Access == "" {
		return "", ErrInvalidResponse
	}
	return resp.Access, nil
}

func (a *AuthAPI) CurrentUser(ctx context.Context) (*model.User, error) {
	var user model.User
	if err := a.c.Do(ctx, http.MethodGet, endpointCurrentUser, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (a *AuthAPI) RequestPasswordReset(ctx context.Context, email string) (string, error) {
	var resp messageResponse
	err := a.c.Do(ctx, http.MethodPost, endpointPasswordReset, map[string]string{
		"email": email,
	}, &resp)
	return resp.Message, err
}

func (a *AuthAPI) ResetPassword(ctx context.Context, token, password string) (string, error) {
	var resp messageResponse
	err := a.c.Do(ctx, http.MethodPost, endpointPasswordResetConfirm, map[string]string{
		"token":    token,
		"password": password,
	}, &resp)
	return resp.Message, err
}
