package domain

import "errors"

// ErrUserNotFound indicates that the user is not found.
var ErrUserNotFound = errors.New("user not found")

// User holds the user data exposed by the user directory. Identity
// management lives in a separate service; only the read surface needed
// for history enrichment is modeled here.
type User struct {
	ID        int64  `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
}
