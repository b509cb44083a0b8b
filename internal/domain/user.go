package domain

import "time"

// UserProfile is the identity returned by the backend on login and cached locally
// so access checks can run without a network round trip.
type UserProfile struct {
	ID             string `json:"id"`
	Email          string `json:"email"`
	Name           string `json:"name"`
	Role           Role   `json:"role"`
	OrganizationID string `json:"organizationId,omitempty"`
}

// Subject classifies the profile role across both role vocabularies.
func (u *UserProfile) Subject() Subject {
	if u == nil {
		return Subject{}
	}
	return SubjectFor(string(u.Role))
}

// Session is the authenticated identity currently held by the client.
type Session struct {
	AccessToken  string
	RefreshToken string
	User         *UserProfile
}

// Role returns the session's role, RoleNone for a nil session or a session
// whose profile has not been resolved yet.
func (s *Session) Role() Role {
	if s == nil || s.User == nil {
		return RoleNone
	}
	return s.User.Role
}

// Authenticated reports whether both the token and the profile are present.
func (s *Session) Authenticated() bool {
	return s != nil && s.AccessToken != "" && s.User != nil
}

// User is a backend account: the public profile plus credentials.
type User struct {
	UserProfile
	HashedPassword string
	Active         bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Profile returns a copy of the public part of the account.
func (u *User) Profile() *UserProfile {
	p := u.UserProfile
	return &p
}
