package model

import "time"

// Binder is a named collection of compliance tasks and documents for one
// physical site or engagement. Every binder has exactly one owner; it is
// visible and mutable only by that owner.
type Binder struct {
	ID        string    `json:"id"        db:"id"`
	OwnerID   string    `json:"-"         db:"owner_id"`
	Name      string    `json:"name"      db:"name"`
	Industry  string    `json:"industry"  db:"industry"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}
