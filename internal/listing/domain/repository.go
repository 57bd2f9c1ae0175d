package domain

import "context"

type ListingRepository interface {
	Create(ctx context.Context, listing *Listing) error
	Update(ctx context.Context, listing *Listing) error
	// UpdateStatus changes only the status field of the listing.
	UpdateStatus(ctx context.Context, id string, status ListingStatus) error
	Delete(ctx context.Context, id string) error
	FindByID(ctx context.Context, id string) (*Listing, error)
	FindBySlug(ctx context.Context, slug string) (*Listing, error)
	FindByFilter(ctx context.Context, filter Filter) ([]*Listing, int64, error)
	IncrementViews(ctx context.Context, id string) error
	SlugExists(ctx context.Context, slug string) (bool, error)
}

type FavoriteRepository interface {
	Add(ctx context.Context, favorite *Favorite) error
	Remove(ctx context.Context, userID, listingID string) error
	FindByUserID(ctx context.Context, userID string) ([]*Favorite, error)
	Exists(ctx context.Context, userID, listingID string) (bool, error)
}
