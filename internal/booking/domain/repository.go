package domain

import "context"

type RequestRepository interface {
	Create(ctx context.Context, request *Request) error
	FindByID(ctx context.Context, id string) (*Request, error)
	FindByProviderID(ctx context.Context, providerID string) ([]*Request, error)
	MarkRead(ctx context.Context, id string) error
	UpdateStatus(ctx context.Context, id string, status RequestStatus) error
	CountUnread(ctx context.Context, providerID string) (int64, error)
}

type ContactRepository interface {
	Create(ctx context.Context, message *ContactMessage) error
	List(ctx context.Context, page, limit int64) ([]*ContactMessage, int64, error)
}
