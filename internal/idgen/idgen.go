package idgen

import (
	"github.com/google/uuid"
)

// ID prefixes for different models
const (
	PrefixImport = "imp_"
)

// NewImport generates a new import history entry ID with imp_ prefix
func NewImport() string {
	return PrefixImport + uuid.New().String()
}

// New generates a generic UUID without prefix (for internal use only)
func New() string {
	return uuid.New().String()
}
