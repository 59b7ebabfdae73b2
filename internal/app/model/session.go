package model

import "time"

// Session is the authenticated identity a profile holds. Tokens never leave
// the server in JSON.
type Session struct {
	AccessToken  string     `json:"-"`
	RefreshToken string     `json:"-"`
	User         *User      `json:"user,omitempty"`
	LoggedIn     bool       `json:"authenticated"`
	ExpiresAt    *time.Time `json:"expires_at,omitempty"`
}

// Authenticated reports whether the session satisfies the logged-in
// invariant: flag set, access token and user present.
func (s Session) Authenticated() bool {
	return s.LoggedIn && s.AccessToken != "" && s.User != nil
}

// TokenPair is what login hands back.
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}
