package usecase

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/mohamed-bella/dresseur-ma/internal/listing/domain"
	"github.com/mohamed-bella/dresseur-ma/internal/media"
	"github.com/mohamed-bella/dresseur-ma/internal/platform/metrics"
)

// PhotoUsecase attaches and detaches media objects on a listing. It shares
// the listing repository with ListingUsecase but owns the ingestion flow.
type PhotoUsecase struct {
	repo     domain.ListingRepository
	ingestor *media.Ingestor
	metrics  *metrics.Manager
	logger   *zap.Logger
}

func NewPhotoUsecase(repo domain.ListingRepository, ingestor *media.Ingestor, m *metrics.Manager, logger *zap.Logger) *PhotoUsecase {
	return &PhotoUsecase{
		repo:     repo,
		ingestor: ingestor,
		metrics:  m,
		logger:   logger.Named("PhotoUsecase"),
	}
}

// Attach ingests each uploaded buffer and appends the resulting objects to
// the listing's media list. The batch is all-or-nothing: the first failing
// file aborts the request and already-uploaded objects are removed again.
func (uc *PhotoUsecase) Attach(ctx context.Context, listingID, actorID string, files [][]byte) (*domain.Listing, error) {
	listing, err := uc.repo.FindByID(ctx, listingID)
	if err != nil {
		return nil, err
	}
	if listing.SellerID != actorID {
		return nil, ErrForbidden
	}

	uploaded := make([]*media.Object, 0, len(files))
	for _, data := range files {
		obj, err := uc.ingestor.Ingest(ctx, data)
		if err != nil {
			for _, prev := range uploaded {
				uc.ingestor.Remove(ctx, prev.Key)
			}
			return nil, fmt.Errorf("PhotoUsecase.Attach: %w", err)
		}
		uploaded = append(uploaded, obj)
		if uc.metrics != nil {
			uc.metrics.MediaUploadsTotal.Inc()
			uc.metrics.MediaUploadBytes.Add(float64(len(data)))
		}
	}

	for _, obj := range uploaded {
		listing.Media = append(listing.Media, domain.MediaObject{URL: obj.URL, Key: obj.Key})
	}
	listing.UpdatedAt = time.Now()

	if err := uc.repo.Update(ctx, listing); err != nil {
		for _, obj := range uploaded {
			uc.ingestor.Remove(ctx, obj.Key)
		}
		return nil, fmt.Errorf("PhotoUsecase.Attach: failed to persist media list: %w", err)
	}

	uc.logger.Info("media attached to listing",
		zap.String("listing_id", listingID),
		zap.Int("count", len(uploaded)))
	return listing, nil
}

// Detach removes one media object by storage key, from the document first
// and then from object storage.
func (uc *PhotoUsecase) Detach(ctx context.Context, listingID, actorID, key string) (*domain.Listing, error) {
	listing, err := uc.repo.FindByID(ctx, listingID)
	if err != nil {
		return nil, err
	}
	if listing.SellerID != actorID {
		return nil, ErrForbidden
	}

	kept := listing.Media[:0]
	found := false
	for _, obj := range listing.Media {
		if obj.Key == key {
			found = true
			continue
		}
		kept = append(kept, obj)
	}
	if !found {
		return nil, domain.ErrListingNotFound
	}
	listing.Media = kept
	listing.UpdatedAt = time.Now()

	if err := uc.repo.Update(ctx, listing); err != nil {
		return nil, fmt.Errorf("PhotoUsecase.Detach: %w", err)
	}
	uc.ingestor.Remove(ctx, key)

	uc.logger.Info("media detached from listing",
		zap.String("listing_id", listingID),
		zap.String("key", key))
	return listing, nil
}
