package domain

import "errors"

var (
	ErrElevageNotFound = errors.New("elevage not found")
	ErrDogNotFound     = errors.New("dog not found")
	ErrInvalidElevage  = errors.New("invalid elevage data")
)
