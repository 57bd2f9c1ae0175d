package usecase

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/mohamed-bella/dresseur-ma/internal/listing/domain"
)

type FavoriteUsecase struct {
	favorites domain.FavoriteRepository
	listings  domain.ListingRepository
	logger    *zap.Logger
}

func NewFavoriteUsecase(favorites domain.FavoriteRepository, listings domain.ListingRepository, logger *zap.Logger) *FavoriteUsecase {
	return &FavoriteUsecase{
		favorites: favorites,
		listings:  listings,
		logger:    logger.Named("FavoriteUsecase"),
	}
}

// Add bookmarks a listing for a user. The listing must exist; adding the
// same listing twice returns ErrDuplicateFavorite.
func (uc *FavoriteUsecase) Add(ctx context.Context, userID, listingID string) error {
	if _, err := uc.listings.FindByID(ctx, listingID); err != nil {
		return err
	}
	favorite := &domain.Favorite{
		UserID:    userID,
		ListingID: listingID,
		CreatedAt: time.Now(),
	}
	if err := uc.favorites.Add(ctx, favorite); err != nil {
		return err
	}
	uc.logger.Info("favorite added",
		zap.String("user_id", userID),
		zap.String("listing_id", listingID))
	return nil
}

func (uc *FavoriteUsecase) Remove(ctx context.Context, userID, listingID string) error {
	return uc.favorites.Remove(ctx, userID, listingID)
}

func (uc *FavoriteUsecase) IsFavorite(ctx context.Context, userID, listingID string) (bool, error) {
	return uc.favorites.Exists(ctx, userID, listingID)
}

// List resolves the user's bookmarks into full listings. Bookmarks whose
// listing has since been deleted are silently skipped.
func (uc *FavoriteUsecase) List(ctx context.Context, userID string) ([]*domain.Listing, error) {
	favorites, err := uc.favorites.FindByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("FavoriteUsecase.List: %w", err)
	}

	listings := make([]*domain.Listing, 0, len(favorites))
	for _, fav := range favorites {
		listing, err := uc.listings.FindByID(ctx, fav.ListingID)
		if err != nil {
			continue
		}
		listings = append(listings, listing)
	}
	return listings, nil
}
