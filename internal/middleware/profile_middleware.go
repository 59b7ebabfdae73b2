package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/ikkim/storefront/internal/errors"
	"github.com/ikkim/storefront/internal/storage"
)

const (
	ProfileIDKey    = "profile_id"
	ProfileCookie   = "sf_profile"
	ProfileIDHeader = "X-Profile-ID"

	profileCookieMaxAge = 365 * 24 * 60 * 60
)

// ProfileMiddleware binds every request to a storage profile, the server
// side stand-in for a browser's local storage. The id comes from the
// X-Profile-ID header or the sf_profile cookie; a request carrying neither
// gets a new id set as a cookie.
func ProfileMiddleware(secureCookie bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		log := GetLoggerFromContext(c)

		profileID := strings.TrimSpace(c.GetHeader(ProfileIDHeader))
		if profileID == "" {
			if cookie, err := c.Cookie(ProfileCookie); err == nil {
				profileID = cookie
			}
		}

		if profileID == "" {
			profileID = uuid.NewString()
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(ProfileCookie, profileID, profileCookieMaxAge, "/", "", secureCookie, true)
			log.Debug("Issued new profile", map[string]interface{}{
				"profile_id": profileID,
			})
		} else if storage.ValidateProfileID(profileID) != nil {
			log.Warn("Rejected malformed profile id", map[string]interface{}{
				"path": c.Request.URL.Path,
			})
			errors.BadRequest(c, errors.ProfileInvalid, "Invalid browser profile")
			c.Abort()
			return
		}

		c.Set(ProfileIDKey, profileID)
		c.Next()
	}
}

// GetProfileID returns the profile bound by ProfileMiddleware.
func GetProfileID(c *gin.Context) string {
	return c.GetString(ProfileIDKey)
}
