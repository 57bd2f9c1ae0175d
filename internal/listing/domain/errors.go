package domain

import "errors"

var (
	ErrListingNotFound    = errors.New("listing not found")
	ErrFavoriteNotFound   = errors.New("favorite not found")
	ErrInvalidListingData = errors.New("invalid listing data")
	ErrDuplicateFavorite  = errors.New("favorite already exists")
	ErrDuplicateSlug      = errors.New("slug already exists")
	ErrNotPending         = errors.New("only pending listings can be approved")
)
