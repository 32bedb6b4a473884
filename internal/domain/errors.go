package domain

import "errors"

var (
	ErrEmptyDescription   = errors.New("empty description")
	ErrInvalidAmount      = errors.New("amount must be a positive number")
	ErrUnknownCategory    = errors.New("category is not in the active set")
	ErrInvalidType        = errors.New("invalid transaction type")
	ErrInvalidPaymentMode = errors.New("invalid payment mode")
	ErrInvalidDate        = errors.New("invalid calendar date")
	ErrEmptyName          = errors.New("profile name is required")
)
