package domain

import "errors"

var (
	ErrRequestNotFound   = errors.New("booking request not found")
	ErrInvalidRequest    = errors.New("invalid booking request data")
	ErrInvalidContact    = errors.New("invalid contact message data")
	ErrInvalidTransition = errors.New("invalid request status transition")
)
