package uid

import (
	"github.com/google/uuid"
)

// New returns a new unique identifier string
func New() string {
	return uuid.New().String()
}

// IsValid reports whether s parses as a UUID
func IsValid(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}
