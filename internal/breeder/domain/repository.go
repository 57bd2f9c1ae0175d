package domain

import "context"

type ElevageRepository interface {
	Create(ctx context.Context, elevage *Elevage) error
	Update(ctx context.Context, elevage *Elevage) error
	Delete(ctx context.Context, id string) error
	FindByID(ctx context.Context, id string) (*Elevage, error)
	FindBySlug(ctx context.Context, slug string) (*Elevage, error)
	FindByOwnerID(ctx context.Context, ownerID string) (*Elevage, error)
	List(ctx context.Context, city string, page, limit int64) ([]*Elevage, int64, error)
	AddDog(ctx context.Context, elevageID string, dog *Dog) error
	RemoveDog(ctx context.Context, elevageID, dogID string) error
	SlugExists(ctx context.Context, slug string) (bool, error)
}
