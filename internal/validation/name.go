package validation

import (
	"errors"
	"strings"
)

const maxNameLength = 100

// ValidateName validates a goal name
func ValidateName(name string) error {
	trimmed := strings.TrimSpace(name)

	if trimmed == "" {
		return errors.New("name is required")
	}

	if len(trimmed) > maxNameLength {
		return errors.New("name is too long (max 100 characters)")
	}

	return nil
}
