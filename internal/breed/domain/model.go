package domain

import "time"

// Details carries the long-form encyclopedia fields of a breed entry.
type Details struct {
	Origin      string
	SizeRange   string
	WeightRange string
	LifeSpan    string
	Temperament string
	Care        string
}

// Breed is an admin-authored encyclopedia entry describing a canine breed.
// Read-mostly; lifecycle independent from listings.
type Breed struct {
	ID        string
	Name      string
	Slug      string
	Summary   string
	Content   string
	ImageURL  string
	Details   Details
	CreatedAt time.Time
	UpdatedAt time.Time
}
