package model

import "github.com/google/uuid"

// NewID creates a new UUID string.
func NewID() string {
	return uuid.New().String()
}
