// Package models holds the domain types persisted by the repository.
package models

import "time"

// User is a registered account. PasswordHash is a bcrypt hash; the plain
// password never touches storage.
type User struct {
	CreatedAt    time.Time
	Username     string
	Email        string
	PasswordHash string
	About        string
	ID           int64
}
