package domain

import "errors"

var (
	ErrSellerNotFound  = errors.New("seller not found")
	ErrTrainerNotFound = errors.New("trainer not found")
	ErrSessionNotFound = errors.New("session not found")
	ErrInvalidIdentity = errors.New("invalid identity assertion")
)
