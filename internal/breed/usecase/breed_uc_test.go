package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mohamed-bella/dresseur-ma/internal/breed/domain"
	"github.com/mohamed-bella/dresseur-ma/internal/port/cache"
)

type MockBreedRepository struct{ mock.Mock }

func (m *MockBreedRepository) Create(ctx context.Context, breed *domain.Breed) error {
	args := m.Called(ctx, breed)
	return args.Error(0)
}
func (m *MockBreedRepository) Update(ctx context.Context, breed *domain.Breed) error {
	args := m.Called(ctx, breed)
	return args.Error(0)
}
func (m *MockBreedRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockBreedRepository) FindByID(ctx context.Context, id string) (*domain.Breed, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Breed), args.Error(1)
}
func (m *MockBreedRepository) FindBySlug(ctx context.Context, slug string) (*domain.Breed, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Breed), args.Error(1)
}
func (m *MockBreedRepository) FindByName(ctx context.Context, name string) (*domain.Breed, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Breed), args.Error(1)
}
func (m *MockBreedRepository) List(ctx context.Context) ([]*domain.Breed, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Breed), args.Error(1)
}

// mapCache is an in-memory stand-in for the Redis adapter.
type mapCache struct {
	data map[string][]byte
}

func newMapCache() *mapCache { return &mapCache{data: map[string][]byte{}} }

func (c *mapCache) Get(ctx context.Context, key string) ([]byte, error) {
	val, ok := c.data[key]
	if !ok {
		return nil, cache.ErrNotFound
	}
	return val, nil
}
func (c *mapCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	c.data[key] = value
	return nil
}
func (c *mapCache) Delete(ctx context.Context, key string) error {
	delete(c.data, key)
	return nil
}

func TestImageURL_CachesPositiveLookup(t *testing.T) {
	repo := new(MockBreedRepository)
	uc := NewBreedUsecase(repo, newMapCache(), zap.NewNop())

	repo.On("FindByName", mock.Anything, "Labrador").Return(&domain.Breed{
		Name:     "Labrador",
		ImageURL: "https://cdn.example.com/labrador.jpg",
	}, nil).Once()

	url, err := uc.ImageURL(context.Background(), "Labrador")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/labrador.jpg", url)

	// Second call must be served from the cache.
	url, err = uc.ImageURL(context.Background(), "Labrador")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/labrador.jpg", url)
	repo.AssertNumberOfCalls(t, "FindByName", 1)
}

func TestImageURL_CachesUnknownBreed(t *testing.T) {
	repo := new(MockBreedRepository)
	uc := NewBreedUsecase(repo, newMapCache(), zap.NewNop())

	repo.On("FindByName", mock.Anything, "Licorne").Return(nil, domain.ErrBreedNotFound).Once()

	url, err := uc.ImageURL(context.Background(), "Licorne")
	require.NoError(t, err)
	assert.Empty(t, url)

	url, err = uc.ImageURL(context.Background(), "Licorne")
	require.NoError(t, err)
	assert.Empty(t, url)
	repo.AssertNumberOfCalls(t, "FindByName", 1)
}

func TestList_InvalidatedOnCreate(t *testing.T) {
	repo := new(MockBreedRepository)
	memCache := newMapCache()
	uc := NewBreedUsecase(repo, memCache, zap.NewNop())

	repo.On("List", mock.Anything).Return([]*domain.Breed{{Name: "Beauceron"}}, nil)
	_, err := uc.List(context.Background())
	require.NoError(t, err)
	assert.Contains(t, memCache.data, "breeds:list")

	repo.On("FindBySlug", mock.Anything, "malinois").Return(nil, domain.ErrBreedNotFound)
	repo.On("Create", mock.Anything, mock.Anything).Return(nil)
	_, err = uc.Create(context.Background(), BreedInput{Name: "Malinois", Summary: "Chien de berger belge."})
	require.NoError(t, err)

	assert.NotContains(t, memCache.data, "breeds:list")
}

func TestCreate_DuplicateSlugRejected(t *testing.T) {
	repo := new(MockBreedRepository)
	uc := NewBreedUsecase(repo, nil, zap.NewNop())

	repo.On("FindBySlug", mock.Anything, "malinois").Return(&domain.Breed{Slug: "malinois"}, nil)

	_, err := uc.Create(context.Background(), BreedInput{Name: "Malinois", Summary: "dup"})
	assert.ErrorIs(t, err, domain.ErrInvalidBreed)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestUpdate_RenameToTakenSlugRejected(t *testing.T) {
	repo := new(MockBreedRepository)
	uc := NewBreedUsecase(repo, nil, zap.NewNop())

	repo.On("FindByID", mock.Anything, "b1").Return(&domain.Breed{
		ID: "b1", Name: "Malinois", Slug: "malinois",
	}, nil)
	repo.On("FindBySlug", mock.Anything, "beauceron").Return(&domain.Breed{
		ID: "b2", Name: "Beauceron", Slug: "beauceron",
	}, nil)

	_, err := uc.Update(context.Background(), "b1", BreedInput{Name: "Beauceron"})
	assert.ErrorIs(t, err, domain.ErrInvalidBreed)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestUpdate_RenameToFreeSlug(t *testing.T) {
	repo := new(MockBreedRepository)
	uc := NewBreedUsecase(repo, nil, zap.NewNop())

	repo.On("FindByID", mock.Anything, "b1").Return(&domain.Breed{
		ID: "b1", Name: "Malinois", Slug: "malinois",
	}, nil)
	repo.On("FindBySlug", mock.Anything, "berger-blanc").Return(nil, domain.ErrBreedNotFound)
	repo.On("Update", mock.Anything, mock.MatchedBy(func(b *domain.Breed) bool {
		return b.Name == "Berger Blanc" && b.Slug == "berger-blanc"
	})).Return(nil)

	breed, err := uc.Update(context.Background(), "b1", BreedInput{Name: "Berger Blanc"})
	require.NoError(t, err)
	assert.Equal(t, "berger-blanc", breed.Slug)
	repo.AssertExpectations(t)
}
