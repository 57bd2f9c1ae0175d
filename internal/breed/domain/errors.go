package domain

import "errors"

var (
	ErrBreedNotFound = errors.New("breed not found")
	ErrInvalidBreed  = errors.New("invalid breed data")
)
