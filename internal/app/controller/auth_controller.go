package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/storefront/internal/app/model"
	"github.com/ikkim/storefront/internal/app/service"
	apperrors "github.com/ikkim/storefront/internal/errors"
	"github.com/ikkim/storefront/internal/middleware"
	"github.com/ikkim/storefront/pkg/shopapi"
)

type AuthController struct {
	sessionService service.SessionService
}

func NewAuthController(sessionService service.SessionService) *AuthController {
	return &AuthController{
		sessionService: sessionService,
	}
}

// Field presence is checked by the session service so that a missing field
// produces the same notification as in the login form.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
	Phone    string `json:"phone"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

type ResetPasswordRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}

// Login signs the profile in
// POST /api/v1/auth/login
func (ctrl *AuthController) Login(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	profileID := middleware.GetProfileID(c)

	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid login request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request data")
		return
	}

	session, err := ctrl.sessionService.Login(c.Request.Context(), profileID, req.Email, req.Password)
	if err != nil {
		var authErr *service.AuthError
		switch {
		case errors.Is(err, service.ErrMissingCredentials):
			apperrors.BadRequest(c, apperrors.ValidationRequired, "Please enter both email and password")
		case errors.As(err, &authErr) && errors.Is(err, shopapi.ErrNetwork):
			apperrors.RespondWithError(c, http.StatusBadGateway, apperrors.UpstreamUnreachable, authErr.Message)
		case errors.As(err, &authErr):
			apperrors.RespondWithError(c, http.StatusUnauthorized, apperrors.AuthInvalidCredentials, authErr.Message)
		default:
			log.Error("Login failed", err, map[string]interface{}{
				"profile_id": profileID,
			})
			apperrors.ParseAndRespond(c, err, "log in")
		}
		return
	}

	log.Info("User logged in successfully", map[string]interface{}{
		"profile_id": profileID,
		"user_id":    session.User.ID,
	})

	respond(c, http.StatusOK, gin.H{
		"session":  session,
		"redirect": service.RedirectAfterLogin,
	})
}

// Logout ends the session
// POST /api/v1/auth/logout
func (ctrl *AuthController) Logout(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	profileID := middleware.GetProfileID(c)

	if err := ctrl.sessionService.Logout(c.Request.Context(), profileID); err != nil {
		log.Error("Logout failed", err, map[string]interface{}{
			"profile_id": profileID,
		})
		apperrors.ParseAndRespond(c, err, "log out")
		return
	}

	respond(c, http.StatusOK, gin.H{
		"session":  model.Session{},
		"redirect": service.RedirectAfterLogout,
	})
}

// Register creates an account. The visitor is not signed in afterwards.
// POST /api/v1/auth/register
func (ctrl *AuthController) Register(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	profileID := middleware.GetProfileID(c)

	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid registration request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request data")
		return
	}

	message, err := ctrl.sessionService.Register(c.Request.Context(), profileID, model.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		FullName: req.FullName,
		Phone:    req.Phone,
	})
	if err != nil {
		respondAuthFailure(c, err, apperrors.AuthRegistrationFailed, "register")
		return
	}

	if message == "" {
		message = "Your account has been created successfully!"
	}
	respond(c, http.StatusCreated, gin.H{
		"message":  message,
		"redirect": service.RedirectAfterRegister,
	})
}

// Refresh renews the stored access token
// POST /api/v1/auth/refresh
func (ctrl *AuthController) Refresh(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	profileID := middleware.GetProfileID(c)

	session, err := ctrl.sessionService.RenewAccessToken(c.Request.Context(), profileID)
	if err != nil {
		if errors.Is(err, service.ErrNotAuthenticated) {
			apperrors.Unauthorized(c, "")
			return
		}
		log.Warn("Token refresh failed", map[string]interface{}{
			"profile_id": profileID,
			"error":      err.Error(),
		})
		apperrors.ParseAndRespond(c, err, "refresh your session")
		return
	}

	respond(c, http.StatusOK, gin.H{"session": session})
}

// GetSession returns the rehydrated session without contacting the shop API
// GET /api/v1/auth/session
func (ctrl *AuthController) GetSession(c *gin.Context) {
	session := middleware.GetSession(c)
	if !session.Authenticated() {
		session = model.Session{}
	}
	respond(c, http.StatusOK, gin.H{"session": session})
}

// GetMe returns the signed in user as the shop API knows it
// GET /api/v1/auth/me
func (ctrl *AuthController) GetMe(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	profileID := middleware.GetProfileID(c)

	user, err := ctrl.sessionService.CurrentUser(c.Request.Context(), profileID)
	if err != nil {
		if errors.Is(err, service.ErrNotAuthenticated) {
			apperrors.Unauthorized(c, "")
			return
		}
		log.Warn("Failed to fetch current user", map[string]interface{}{
			"profile_id": profileID,
			"error":      err.Error(),
		})
		apperrors.ParseAndRespond(c, err, "load your profile")
		return
	}

	respond(c, http.StatusOK, gin.H{"user": user})
}

// ForgotPassword asks the shop API to mail a reset link
// POST /api/v1/auth/password-reset
func (ctrl *AuthController) ForgotPassword(c *gin.Context) {
	var req ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request data")
		return
	}

	message, err := ctrl.sessionService.RequestPasswordReset(c.Request.Context(), middleware.GetProfileID(c), req.Email)
	if err != nil {
		respondAuthFailure(c, err, apperrors.AuthPasswordReset, "request a password reset")
		return
	}

	respond(c, http.StatusOK, gin.H{"message": message})
}

// ResetPassword sets a new password from a reset token
// POST /api/v1/auth/password-reset/confirm
func (ctrl *AuthController) ResetPassword(c *gin.Context) {
	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request data")
		return
	}

	message, err := ctrl.sessionService.ResetPassword(c.Request.Context(), middleware.GetProfileID(c), req.Token, req.NewPassword)
	if err != nil {
		respondAuthFailure(c, err, apperrors.AuthPasswordReset, "reset your password")
		return
	}

	respond(c, http.StatusOK, gin.H{
		"message":  message,
		"redirect": service.RedirectAfterLogout,
	})
}

// respondAuthFailure maps the errors shared by register and password reset.
// A rejection by the shop API keeps its status and message.
func respondAuthFailure(c *gin.Context, err error, code, action string) {
	log := middleware.GetLoggerFromContext(c)

	if errors.Is(err, service.ErrMissingFields) {
		apperrors.BadRequest(c, apperrors.ValidationRequired, "Please fill in all fields")
		return
	}

	var authErr *service.AuthError
	if errors.As(err, &authErr) {
		status := shopapi.StatusCode(err)
		if status >= 400 && status < 500 {
			apperrors.RespondWithError(c, status, code, authErr.Message)
			return
		}
	}

	log.Warn("Auth request failed", map[string]interface{}{
		"action": action,
		"error":  err.Error(),
	})
	apperrors.ParseAndRespond(c, err, action)
}
