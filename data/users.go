package data

import "time"

// AnonymousUser represents a request without a valid bearer token.
var AnonymousUser = &User{}

// User is the subset of an account this service reads. Accounts are created and
// authenticated by the auth service; reviews only reference them.
type User struct {
	ID           int64     `json:"id"`
	CreatedAt    time.Time `json:"createdAt"`
	Username     string    `json:"username"`
	ProfileImage string    `json:"profileImage,omitempty"`
}

// IsAnonymous checks if a user instance is the anonymous user.
func (u *User) IsAnonymous() bool {
	return u == AnonymousUser
}

// Author returns the public projection attached to reviews.
func (u *User) Author() Author {
	return Author{ID: u.ID, Username: u.Username, ProfileImage: u.ProfileImage}
}
