package domain

import "time"

type ListingStatus string

const (
	// StatusPending is the state every new listing starts in. It gates public
	// visibility until an admin approves.
	StatusPending ListingStatus = "pending"
	// StatusApproved is terminal; there is no rejection or re-review state.
	StatusApproved ListingStatus = "approved"
)

// MediaObject references one uploaded image. The storage key is persisted
// alongside the URL so remote deletion never has to parse the URL back into
// a key.
type MediaObject struct {
	URL string
	Key string
}

// Listing is a seller-posted classified ad for an animal. SellerName and
// SellerEmail are denormalized at creation time and intentionally not kept
// in sync with later seller edits.
type Listing struct {
	ID          string
	SellerID    string
	SellerName  string
	SellerEmail string
	Breed       string
	Description string
	Price       float64
	Location    string
	Phone       string
	Media       []MediaObject
	Status      ListingStatus
	Views       int64
	Slug        string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Favorite struct {
	ID        string
	UserID    string
	ListingID string
	CreatedAt time.Time
}

// Filter describes an ad hoc listing search. Breed and Location match as
// case-insensitive substrings; price bounds are inclusive on both ends.
// Zero-valued fields are ignored.
type Filter struct {
	Breed    string
	Location string
	MinPrice float64
	MaxPrice float64
	Status   ListingStatus
	SellerID string
	Page     int64
	Limit    int64
}
