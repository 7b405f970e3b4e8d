// Package model defines the data structures used throughout the application.
package model

import "time"

// User represents a registered account. Users own binders; nothing in the
// system is shared between users.
//
// Email is unique case-insensitively — the repository stores it lowercased.
// PasswordHash is the bcrypt hash for email/password accounts and empty for
// accounts created through GitHub OAuth (GitHubID non-zero). It is opaque to
// everything except the auth package and is never serialized.
type User struct {
	ID           string    `json:"id"        db:"id"`
	Email        string    `json:"email"     db:"email"`
	PasswordHash string    `json:"-"         db:"password_hash"`
	GitHubID     int64     `json:"-"         db:"github_id"` // 0 unless the account came from GitHub OAuth
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" db:"updated_at"`
}
