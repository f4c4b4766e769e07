package pkg

import "github.com/google/uuid"

// GenerateSessionID returns a new random game session id.
func GenerateSessionID() string {
	return uuid.NewString()
}
