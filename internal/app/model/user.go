package model

type UserProfile struct {
	FullName string `json:"full_name"`
	Phone    string `json:"phone,omitempty"`
}

// User is the profile returned by the auth endpoints and cached in the
// session.
type User struct {
	ID       int64        `json:"id"`
	Username string       `json:"username"`
	Email    string       `json:"email"`
	Profile  *UserProfile `json:"profile,omitempty"`
}

func (u User) DisplayName() string {
	if u.Profile != nil && u.Profile.FullName != "" {
		return u.Profile.FullName
	}
	if u.Username != "" {
		return u.Username
	}
	return u.Email
}

// RegisterInput is the sign-up form.
type RegisterInput struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
	Phone    string `json:"phone,omitempty"`
}
