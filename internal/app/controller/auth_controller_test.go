package controller

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sessionOf(body map[string]interface{}) map[string]interface{} {
	s, _ := body["session"].(map[string]interface{})
	return s
}

func TestAuthController_Login_Success(t *testing.T) {
	env := setupControllerTest(t, false)
	env.shop.handle(http.MethodPost, "/auth/login/", func(w http.ResponseWriter, r *http.Request) {
		var req map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "ann@example.com", req["email"])
		assert.Empty(t, r.Header.Get("Authorization"))
		writeJSON(w, http.StatusOK, loginPayload("access-1"))
	})

	w := env.do(t, http.MethodPost, "/api/v1/auth/login", map[string]string{
		"email":    "ann@example.com",
		"password": "secret",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := decodeBody(t, w)
	assert.Equal(t, "/products", body["redirect"])
	assert.Equal(t, []string{"Login successful"}, notificationTitles(body))
	assert.Equal(t, true, sessionOf(body)["authenticated"])
	assert.NotContains(t, w.Body.String(), "access-1")

	w = env.do(t, http.MethodGet, "/api/v1/auth/session", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, sessionOf(decodeBody(t, w))["authenticated"])
}

func TestAuthController_Login_Failure(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		payload     interface{}
		wantMessage string
	}{
		{"server message", http.StatusBadRequest, map[string]string{"message": "Account locked"}, "Account locked"},
		{"error field", http.StatusUnauthorized, map[string]string{"error": "Wrong password"}, "Wrong password"},
		{"no message", http.StatusInternalServerError, map[string]string{"detail": "boom"}, "Invalid credentials"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := setupControllerTest(t, false)
			env.shop.handle(http.MethodPost, "/auth/login/", func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, tt.status, tt.payload)
			})

			w := env.do(t, http.MethodPost, "/api/v1/auth/login", map[string]string{
				"email":    "ann@example.com",
				"password": "wrong",
			})
			assert.Equal(t, http.StatusUnauthorized, w.Code)
			body := decodeBody(t, w)
			assert.Equal(t, "AUTH_INVALID_CREDENTIALS", body["error"])
			assert.Equal(t, tt.wantMessage, body["message"])
			assert.Equal(t, []string{"Login failed"}, notificationTitles(body))

			w = env.do(t, http.MethodGet, "/api/v1/auth/session", nil)
			assert.Equal(t, false, sessionOf(decodeBody(t, w))["authenticated"])
		})
	}
}

func TestAuthController_Login_MissingFields(t *testing.T) {
	env := setupControllerTest(t, false)

	w := env.do(t, http.MethodPost, "/api/v1/auth/login", map[string]string{"email": "ann@example.com"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VALIDATION_REQUIRED", decodeBody(t, w)["error"])
	assert.Zero(t, env.shop.count(http.MethodPost, "/auth/login/"))
}

func TestAuthController_Logout(t *testing.T) {
	env := setupControllerTest(t, false)
	env.signIn(t)

	w := env.do(t, http.MethodPost, "/api/v1/auth/logout", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "/login", body["redirect"])
	assert.Equal(t, []string{"Logged out"}, notificationTitles(body))

	w = env.do(t, http.MethodGet, "/api/v1/auth/session", nil)
	assert.Equal(t, false, sessionOf(decodeBody(t, w))["authenticated"])
}

func TestAuthController_Register_DoesNotSignIn(t *testing.T) {
	env := setupControllerTest(t, false)
	env.shop.handle(http.MethodPost, "/auth/register/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusCreated, map[string]interface{}{
			"message": "User registered",
			"tokens":  map[string]string{"access": "a", "refresh": "r"},
			"user":    map[string]interface{}{"id": 9, "email": "new@example.com"},
		})
	})

	w := env.do(t, http.MethodPost, "/api/v1/auth/register", map[string]string{
		"email":     "new@example.com",
		"password":  "secret",
		"full_name": "New User",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	body := decodeBody(t, w)
	assert.Equal(t, "/login", body["redirect"])
	assert.Equal(t, "User registered", body["message"])

	w = env.do(t, http.MethodGet, "/api/v1/auth/session", nil)
	assert.Equal(t, false, sessionOf(decodeBody(t, w))["authenticated"])
}

func TestAuthController_Register_Rejected(t *testing.T) {
	env := setupControllerTest(t, false)
	env.shop.handle(http.MethodPost, "/auth/register/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Email already registered"})
	})

	w := env.do(t, http.MethodPost, "/api/v1/auth/register", map[string]string{
		"email":     "taken@example.com",
		"password":  "secret",
		"full_name": "Taken",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "AUTH_REGISTRATION_FAILED", body["error"])
	assert.Equal(t, "Email already registered", body["message"])
}

func TestAuthController_Register_MissingFields(t *testing.T) {
	env := setupControllerTest(t, false)

	w := env.do(t, http.MethodPost, "/api/v1/auth/register", map[string]string{"email": "x@example.com"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Zero(t, env.shop.count(http.MethodPost, "/auth/register/"))
}

func TestAuthController_GetMe_Gated(t *testing.T) {
	env := setupControllerTest(t, false)
	env.shop.handle(http.MethodGet, "/auth/user/", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer access-1", r.Header.Get("Authorization"))
		writeJSON(w, http.StatusOK, map[string]interface{}{"id": 7, "email": "ann@example.com"})
	})

	w := env.do(t, http.MethodGet, "/api/v1/auth/me", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "/login", decodeBody(t, w)["redirect"])

	env.signIn(t)
	w = env.do(t, http.MethodGet, "/api/v1/auth/me", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	user := decodeBody(t, w)["user"].(map[string]interface{})
	assert.Equal(t, "ann@example.com", user["email"])
}

func TestAuthController_Refresh(t *testing.T) {
	env := setupControllerTest(t, false)

	w := env.do(t, http.MethodPost, "/api/v1/auth/refresh", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	env.signIn(t)
	env.shop.handle(http.MethodPost, "/auth/token/refresh/", func(w http.ResponseWriter, r *http.Request) {
		var req map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "refresh-access-1", req["refresh"])
		writeJSON(w, http.StatusOK, map[string]string{"access": "access-2"})
	})

	w = env.do(t, http.MethodPost, "/api/v1/auth/refresh", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, true, sessionOf(decodeBody(t, w))["authenticated"])
}

func TestAuthController_Refresh_Rejected_LogsOut(t *testing.T) {
	env := setupControllerTest(t, false)
	env.signIn(t)
	env.shop.handle(http.MethodPost, "/auth/token/refresh/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Token is invalid or expired"})
	})

	w := env.do(t, http.MethodPost, "/api/v1/auth/refresh", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "AUTH_SESSION_EXPIRED", body["error"])
	assert.Equal(t, "/login", body["redirect"])
	assert.Contains(t, notificationTitles(body), "Session expired")

	w = env.do(t, http.MethodGet, "/api/v1/auth/session", nil)
	assert.Equal(t, false, sessionOf(decodeBody(t, w))["authenticated"])
}

func TestAuthController_PasswordReset(t *testing.T) {
	env := setupControllerTest(t, false)
	env.shop.handle(http.MethodPost, "/auth/password-reset/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"message": "Reset link sent"})
	})
	env.shop.handle(http.MethodPost, "/auth/password-reset/confirm/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid or expired token"})
	})

	w := env.do(t, http.MethodPost, "/api/v1/auth/password-reset", map[string]string{"email": "ann@example.com"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Reset link sent", decodeBody(t, w)["message"])

	w = env.do(t, http.MethodPost, "/api/v1/auth/password-reset/confirm", map[string]string{
		"token":        "bad",
		"new_password": "secret2",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid or expired token", decodeBody(t, w)["message"])
}
