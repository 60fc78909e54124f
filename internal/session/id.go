package session

import "github.com/google/uuid"

// GenerateID mints an opaque unique session identifier.
func GenerateID() string {
	return uuid.NewString()
}
