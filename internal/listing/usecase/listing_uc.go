package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"go.uber.org/zap"

	accountdomain "github.com/mohamed-bella/dresseur-ma/internal/account/domain"
	"github.com/mohamed-bella/dresseur-ma/internal/listing/domain"
	"github.com/mohamed-bella/dresseur-ma/internal/media"
	"github.com/mohamed-bella/dresseur-ma/internal/platform/metrics"
	"github.com/mohamed-bella/dresseur-ma/internal/port/cache"
	"github.com/mohamed-bella/dresseur-ma/pkg/slug"
)

// ErrForbidden is returned when the acting account is neither the owner of
// the targeted listing nor an admin.
var ErrForbidden = errors.New("account is not allowed to modify this listing")

const (
	detailCacheKeyPrefix = "listing:slug:"
	detailCacheTTL       = 5 * time.Minute
)

// EventPublisher decouples the usecase from the NATS adapter. A nil
// publisher disables event emission without changing listing behavior.
type EventPublisher interface {
	PublishListingCreated(ctx context.Context, listing *domain.Listing) error
	PublishListingApproved(ctx context.Context, listing *domain.Listing) error
	PublishListingDeleted(ctx context.Context, listingID string) error
}

// CreateListingInput carries the seller-supplied fields of a new listing.
type CreateListingInput struct {
	Breed       string
	Description string
	Price       float64
	Location    string
	Phone       string
}

// UpdateListingInput is a partial update; nil fields are left untouched.
type UpdateListingInput struct {
	Breed       *string
	Description *string
	Price       *float64
	Location    *string
	Phone       *string
}

type ListingUsecase struct {
	repo      domain.ListingRepository
	sellers   accountdomain.SellerRepository
	ingestor  *media.Ingestor
	publisher EventPublisher
	cacheRepo cache.CacheRepository
	metrics   *metrics.Manager
	logger    *zap.Logger
}

func NewListingUsecase(
	repo domain.ListingRepository,
	sellers accountdomain.SellerRepository,
	ingestor *media.Ingestor,
	publisher EventPublisher,
	cacheRepo cache.CacheRepository,
	m *metrics.Manager,
	logger *zap.Logger,
) *ListingUsecase {
	return &ListingUsecase{
		repo:      repo,
		sellers:   sellers,
		ingestor:  ingestor,
		publisher: publisher,
		cacheRepo: cacheRepo,
		metrics:   m,
		logger:    logger.Named("ListingUsecase"),
	}
}

// Create validates the input, denormalizes the seller's contact fields and
// persists the listing in the pending state. Nothing is written when
// validation fails.
func (uc *ListingUsecase) Create(ctx context.Context, sellerID string, input CreateListingInput) (*domain.Listing, error) {
	if err := validateCreateInput(input); err != nil {
		return nil, err
	}

	seller, err := uc.sellers.FindByID(ctx, sellerID)
	if err != nil {
		return nil, fmt.Errorf("ListingUsecase.Create: seller lookup failed: %w", err)
	}

	listingSlug, err := uc.uniqueListingSlug(ctx, input.Breed)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	listing := &domain.Listing{
		SellerID:    seller.ID,
		SellerName:  seller.Name,
		SellerEmail: seller.Email,
		Breed:       strings.TrimSpace(input.Breed),
		Description: strings.TrimSpace(input.Description),
		Price:       input.Price,
		Location:    strings.TrimSpace(input.Location),
		Phone:       strings.TrimSpace(input.Phone),
		Status:      domain.StatusPending,
		Slug:        listingSlug,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := uc.repo.Create(ctx, listing); err != nil {
		uc.logger.Error("failed to create listing", zap.String("seller_id", sellerID), zap.Error(err))
		return nil, fmt.Errorf("ListingUsecase.Create: %w", err)
	}

	if uc.metrics != nil {
		uc.metrics.ListingsCreatedTotal.Inc()
	}
	if uc.publisher != nil {
		if err := uc.publisher.PublishListingCreated(ctx, listing); err != nil {
			uc.logger.Warn("failed to publish listing.created event",
				zap.String("listing_id", listing.ID), zap.Error(err))
		}
	}

	uc.logger.Info("listing created",
		zap.String("listing_id", listing.ID),
		zap.String("slug", listing.Slug),
		zap.String("seller_id", sellerID))
	return listing, nil
}

// Update applies a partial edit. Only the owner may edit, and edited
// listings keep whatever status they had; re-moderation is not triggered.
func (uc *ListingUsecase) Update(ctx context.Context, listingID, actorID string, input UpdateListingInput) (*domain.Listing, error) {
	listing, err := uc.repo.FindByID(ctx, listingID)
	if err != nil {
		return nil, err
	}
	if listing.SellerID != actorID {
		return nil, ErrForbidden
	}

	if input.Breed != nil {
		listing.Breed = strings.TrimSpace(*input.Breed)
	}
	if input.Description != nil {
		listing.Description = strings.TrimSpace(*input.Description)
	}
	if input.Price != nil {
		listing.Price = *input.Price
	}
	if input.Location != nil {
		listing.Location = strings.TrimSpace(*input.Location)
	}
	if input.Phone != nil {
		listing.Phone = strings.TrimSpace(*input.Phone)
	}

	if listing.Breed == "" || listing.Description == "" || listing.Location == "" || listing.Price <= 0 {
		return nil, domain.ErrInvalidListingData
	}

	listing.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, listing); err != nil {
		return nil, fmt.Errorf("ListingUsecase.Update: %w", err)
	}
	uc.invalidateDetailCache(ctx, listing.Slug)
	return listing, nil
}

// Delete removes a listing and best-effort deletes its stored media. Owners
// and admins may delete; anybody else gets ErrForbidden.
func (uc *ListingUsecase) Delete(ctx context.Context, listingID, actorID string, actorRole accountdomain.Role) error {
	listing, err := uc.repo.FindByID(ctx, listingID)
	if err != nil {
		return err
	}
	if listing.SellerID != actorID && actorRole != accountdomain.RoleAdmin {
		return ErrForbidden
	}

	if err := uc.repo.Delete(ctx, listingID); err != nil {
		return fmt.Errorf("ListingUsecase.Delete: %w", err)
	}

	if uc.ingestor != nil {
		for _, obj := range listing.Media {
			uc.ingestor.Remove(ctx, obj.Key)
		}
	}

	if uc.metrics != nil {
		uc.metrics.ListingsDeletedTotal.Inc()
	}
	if uc.publisher != nil {
		if err := uc.publisher.PublishListingDeleted(ctx, listingID); err != nil {
			uc.logger.Warn("failed to publish listing.deleted event",
				zap.String("listing_id", listingID), zap.Error(err))
		}
	}
	uc.invalidateDetailCache(ctx, listing.Slug)

	uc.logger.Info("listing deleted",
		zap.String("listing_id", listingID),
		zap.String("actor_id", actorID))
	return nil
}

// Approve flips a pending listing to approved. The status field is the only
// thing that changes; content and timestamps stay as the seller left them.
func (uc *ListingUsecase) Approve(ctx context.Context, listingID string, actorRole accountdomain.Role) (*domain.Listing, error) {
	if actorRole != accountdomain.RoleAdmin {
		return nil, ErrForbidden
	}

	listing, err := uc.repo.FindByID(ctx, listingID)
	if err != nil {
		return nil, err
	}
	if listing.Status != domain.StatusPending {
		return nil, domain.ErrNotPending
	}

	if err := uc.repo.UpdateStatus(ctx, listingID, domain.StatusApproved); err != nil {
		return nil, fmt.Errorf("ListingUsecase.Approve: %w", err)
	}
	listing.Status = domain.StatusApproved

	if uc.metrics != nil {
		uc.metrics.ListingsApprovedTotal.Inc()
	}
	if uc.publisher != nil {
		if err := uc.publisher.PublishListingApproved(ctx, listing); err != nil {
			uc.logger.Warn("failed to publish listing.approved event",
				zap.String("listing_id", listingID), zap.Error(err))
		}
	}
	uc.invalidateDetailCache(ctx, listing.Slug)

	uc.logger.Info("listing approved", zap.String("listing_id", listingID))
	return listing, nil
}

func (uc *ListingUsecase) GetByID(ctx context.Context, id string) (*domain.Listing, error) {
	return uc.repo.FindByID(ctx, id)
}

// GetBySlug serves the detail page: cache first, then Mongo, and a
// view-count increment on every hit. The counter is advisory so increment
// failures are logged and ignored. Listings that are not yet approved stay
// invisible; only their owner or an admin gets them, everyone else sees a
// not-found, and they never enter the cache.
func (uc *ListingUsecase) GetBySlug(ctx context.Context, listingSlug, actorID string, actorRole accountdomain.Role) (*domain.Listing, error) {
	if uc.cacheRepo != nil {
		cached, err := uc.cacheRepo.Get(ctx, detailCacheKeyPrefix+listingSlug)
		if err == nil {
			var listing domain.Listing
			if jsonErr := json.Unmarshal(cached, &listing); jsonErr == nil {
				if !visibleTo(&listing, actorID, actorRole) {
					return nil, domain.ErrListingNotFound
				}
				uc.bumpViews(ctx, listing.ID)
				listing.Views++
				return &listing, nil
			}
		} else if !errors.Is(err, cache.ErrNotFound) {
			uc.logger.Warn("listing detail cache read failed", zap.String("slug", listingSlug), zap.Error(err))
		}
	}

	listing, err := uc.repo.FindBySlug(ctx, listingSlug)
	if err != nil {
		return nil, err
	}
	if !visibleTo(listing, actorID, actorRole) {
		return nil, domain.ErrListingNotFound
	}

	if uc.cacheRepo != nil && listing.Status == domain.StatusApproved {
		if data, jsonErr := json.Marshal(listing); jsonErr == nil {
			if cacheErr := uc.cacheRepo.Set(ctx, detailCacheKeyPrefix+listingSlug, data, detailCacheTTL); cacheErr != nil {
				uc.logger.Warn("listing detail cache write failed", zap.String("slug", listingSlug), zap.Error(cacheErr))
			}
		}
	}

	uc.bumpViews(ctx, listing.ID)
	listing.Views++
	return listing, nil
}

// visibleTo gates moderation visibility: pending listings exist only for
// their owner and for admins.
func visibleTo(listing *domain.Listing, actorID string, actorRole accountdomain.Role) bool {
	if listing.Status == domain.StatusApproved {
		return true
	}
	if actorID != "" && actorID == listing.SellerID {
		return true
	}
	return actorRole == accountdomain.RoleAdmin
}

// Search runs a filtered browse. Public callers should pass
// Status=StatusApproved; seller dashboards pass their own SellerID with no
// status constraint.
func (uc *ListingUsecase) Search(ctx context.Context, filter domain.Filter) ([]*domain.Listing, int64, error) {
	return uc.repo.FindByFilter(ctx, filter)
}

func (uc *ListingUsecase) bumpViews(ctx context.Context, id string) {
	if err := uc.repo.IncrementViews(ctx, id); err != nil {
		uc.logger.Warn("failed to increment listing views", zap.String("listing_id", id), zap.Error(err))
	}
}

func (uc *ListingUsecase) invalidateDetailCache(ctx context.Context, listingSlug string) {
	if uc.cacheRepo == nil || listingSlug == "" {
		return
	}
	if err := uc.cacheRepo.Delete(ctx, detailCacheKeyPrefix+listingSlug); err != nil {
		uc.logger.Warn("failed to invalidate listing detail cache", zap.String("slug", listingSlug), zap.Error(err))
	}
}

// uniqueListingSlug builds "<breed-slug>-NNNN" with a random four-digit
// suffix and retries on collision against the unique slug index.
func (uc *ListingUsecase) uniqueListingSlug(ctx context.Context, breed string) (string, error) {
	base := slug.From(breed)
	if base == "" {
		base = "annonce"
	}
	for {
		candidate := fmt.Sprintf("%s-%04d", base, rand.Intn(10000))
		exists, err := uc.repo.SlugExists(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("failed to check listing slug uniqueness: %w", err)
		}
		if !exists {
			return candidate, nil
		}
	}
}

func validateCreateInput(input CreateListingInput) error {
	if strings.TrimSpace(input.Breed) == "" ||
		strings.TrimSpace(input.Description) == "" ||
		strings.TrimSpace(input.Location) == "" ||
		strings.TrimSpace(input.Phone) == "" ||
		input.Price <= 0 {
		return domain.ErrInvalidListingData
	}
	return nil
}
