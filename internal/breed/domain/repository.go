package domain

import "context"

type BreedRepository interface {
	Create(ctx context.Context, breed *Breed) error
	Update(ctx context.Context, breed *Breed) error
	Delete(ctx context.Context, id string) error
	FindByID(ctx context.Context, id string) (*Breed, error)
	FindBySlug(ctx context.Context, slug string) (*Breed, error)
	FindByName(ctx context.Context, name string) (*Breed, error)
	List(ctx context.Context) ([]*Breed, error)
}
