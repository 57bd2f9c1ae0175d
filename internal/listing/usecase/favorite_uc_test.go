package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mohamed-bella/dresseur-ma/internal/listing/domain"
)

type MockFavoriteRepository struct{ mock.Mock }

func (m *MockFavoriteRepository) Add(ctx context.Context, favorite *domain.Favorite) error {
	args := m.Called(ctx, favorite)
	return args.Error(0)
}
func (m *MockFavoriteRepository) Remove(ctx context.Context, userID, listingID string) error {
	args := m.Called(ctx, userID, listingID)
	return args.Error(0)
}
func (m *MockFavoriteRepository) FindByUserID(ctx context.Context, userID string) ([]*domain.Favorite, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Favorite), args.Error(1)
}
func (m *MockFavoriteRepository) Exists(ctx context.Context, userID, listingID string) (bool, error) {
	args := m.Called(ctx, userID, listingID)
	return args.Bool(0), args.Error(1)
}

func TestAddFavorite_UnknownListingRejected(t *testing.T) {
	favorites := new(MockFavoriteRepository)
	listings := new(MockListingRepository)
	uc := NewFavoriteUsecase(favorites, listings, zap.NewNop())

	listings.On("FindByID", mock.Anything, "missing").Return(nil, domain.ErrListingNotFound)

	err := uc.Add(context.Background(), "user-1", "missing")
	assert.ErrorIs(t, err, domain.ErrListingNotFound)
	favorites.AssertNotCalled(t, "Add", mock.Anything, mock.Anything)
}

func TestAddFavorite_DuplicatePropagates(t *testing.T) {
	favorites := new(MockFavoriteRepository)
	listings := new(MockListingRepository)
	uc := NewFavoriteUsecase(favorites, listings, zap.NewNop())

	listings.On("FindByID", mock.Anything, "l1").Return(&domain.Listing{ID: "l1"}, nil)
	favorites.On("Add", mock.Anything, mock.Anything).Return(domain.ErrDuplicateFavorite)

	err := uc.Add(context.Background(), "user-1", "l1")
	assert.ErrorIs(t, err, domain.ErrDuplicateFavorite)
}

func TestListFavorites_SkipsDeletedListings(t *testing.T) {
	favorites := new(MockFavoriteRepository)
	listings := new(MockListingRepository)
	uc := NewFavoriteUsecase(favorites, listings, zap.NewNop())

	favorites.On("FindByUserID", mock.Anything, "user-1").Return([]*domain.Favorite{
		{ListingID: "l1"},
		{ListingID: "gone"},
		{ListingID: "l2"},
	}, nil)
	listings.On("FindByID", mock.Anything, "l1").Return(&domain.Listing{ID: "l1"}, nil)
	listings.On("FindByID", mock.Anything, "gone").Return(nil, domain.ErrListingNotFound)
	listings.On("FindByID", mock.Anything, "l2").Return(&domain.Listing{ID: "l2"}, nil)

	result, err := uc.List(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Len(t, result, 2)
}
