package validation

import (
	"errors"
	"net/mail"
)

// ValidateEmail checks the address a goal is shared with. Callers normalize
// it first; display names ("Ana <ana@x.com>") are rejected.
func ValidateEmail(email string) error {
	if email == "" {
		return errors.New("viewer email is required")
	}
	if len(email) > 254 {
		return errors.New("viewer email is too long (max 254 characters)")
	}

	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return errors.New("viewer email is not a plain address")
	}

	return nil
}
