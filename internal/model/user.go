// Package model defines the data structures used throughout the application.
package model

import "time"

// User represents a registered account.
//
// WHY PasswordHash WITH json:"-" AND A SEPARATE STORAGE VIEW?
// The hash must never appear in an API response, so the API-facing struct
// tag is "-". The flat-file store still has to persist it, which is why the
// repository marshals users through storedUser (see repository/jsonfile) —
// the on-disk record and the API record are deliberately not the same shape.
//
// GitHubID is zero for password accounts and set only for accounts created
// through the optional GitHub sign-in flow. Those accounts have an empty
// PasswordHash, so password login for them always fails verification.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"` // normalized: trimmed + lowercased, unique
	PasswordHash string    `json:"-"`
	GitHubID     int64     `json:"githubId,omitempty"`
	CreatedAt    time.Time `json:"created"`
}
