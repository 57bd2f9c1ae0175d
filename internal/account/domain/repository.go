package domain

import "context"

type SellerRepository interface {
	// UpsertByGoogleID atomically finds or creates the seller for an external
	// identity. The insert branch uses newSeller as the document to create;
	// concurrent first logins converge on a single record.
	UpsertByGoogleID(ctx context.Context, googleID string, newSeller *Seller) (*Seller, error)
	FindByID(ctx context.Context, id string) (*Seller, error)
	FindByGoogleID(ctx context.Context, googleID string) (*Seller, error)
	FindBySlug(ctx context.Context, slug string) (*Seller, error)
	UpdateName(ctx context.Context, id, name, slug string) error
	SlugExists(ctx context.Context, slug string) (bool, error)
}

type TrainerRepository interface {
	FindByGoogleID(ctx context.Context, googleID string) (*Trainer, error)
}

type SessionRepository interface {
	Create(ctx context.Context, session *Session) error
	Find(ctx context.Context, id string) (*Session, error)
	Delete(ctx context.Context, id string) error
}
