// Package model defines the data structures used throughout the application.
// In Go, we use structs to represent our data — similar to classes in other languages,
// but without inheritance. Go favours composition over inheritance.
package model

import "time"

// Snippet represents a saved code snippet owned by exactly one user.
//
// The `json:"..."` tags tell Go's encoding/json package how to serialize
// this struct — both for API responses and for the flat-file store, which
// persists the collection as a JSON array of these records.
//
// ID, Owner, and CreatedAt are set once at creation and never change.
// The service layer enforces this — updates only touch the content fields.
type Snippet struct {
	ID          string    `json:"id"`
	Owner       string    `json:"owner"` // User.ID of the creating user
	Title       string    `json:"title"`
	Language    string    `json:"language"`
	Description string    `json:"description"`
	Code        string    `json:"code"`
	Tags        []string  `json:"tags"` // normalized: trimmed, lowercased, deduped, max 5
	CreatedAt   time.Time `json:"created"`
}

// HasTag reports whether the snippet carries the given (already normalized) tag.
func (s *Snippet) HasTag(tag string) bool {
	for _, t := range s.Tags {
		if t == tag {
			return true
		}
	}
	return false
}
