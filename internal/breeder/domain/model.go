package domain

import "time"

// Dog is a sub-record of an Elevage: one animal currently raised or offered
// by the breeder.
type Dog struct {
	ID        string
	Name      string
	Breed     string
	AgeMonths int
	Price     float64
	Pedigree  bool
	Images    []string
	CreatedAt time.Time
}

// Elevage is a breeder's business profile. It is owned by exactly one
// account id and is distinct from the Seller account itself.
type Elevage struct {
	ID           string
	OwnerID      string
	Name         string
	Slug         string
	Description  string
	Phone        string
	Email        string
	City         string
	ProfileImage string
	CoverImage   string
	Dogs         []Dog
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
