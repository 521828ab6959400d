package queue

import "github.com/google/uuid"

// NewID returns a time-ordered UUID (version 7), falling back to a random
// version 4 UUID if the v7 generator fails.
func NewID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}
