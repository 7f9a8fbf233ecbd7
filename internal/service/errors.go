package service

import "errors"

var (
	ErrInvalidName   = errors.New("invalid goal name")
	ErrInvalidTarget = errors.New("target must be greater than zero")
	ErrInvalidAmount = errors.New("amount must be greater than zero")
	ErrInvalidEmail  = errors.New("invalid email address")
	ErrEmptyPatch    = errors.New("nothing to update")
)
