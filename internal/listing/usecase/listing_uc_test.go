package usecase

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	accountdomain "github.com/mohamed-bella/dresseur-ma/internal/account/domain"
	"github.com/mohamed-bella/dresseur-ma/internal/listing/domain"
	"github.com/mohamed-bella/dresseur-ma/internal/port/cache"
)

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

type MockListingRepository struct{ mock.Mock }

func (m *MockListingRepository) Create(ctx context.Context, listing *domain.Listing) error {
	args := m.Called(ctx, listing)
	return args.Error(0)
}
func (m *MockListingRepository) Update(ctx context.Context, listing *domain.Listing) error {
	args := m.Called(ctx, listing)
	return args.Error(0)
}
func (m *MockListingRepository) UpdateStatus(ctx context.Context, id string, status domain.ListingStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}
func (m *MockListingRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockListingRepository) FindByID(ctx context.Context, id string) (*domain.Listing, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Listing), args.Error(1)
}
func (m *MockListingRepository) FindBySlug(ctx context.Context, slug string) (*domain.Listing, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Listing), args.Error(1)
}
func (m *MockListingRepository) FindByFilter(ctx context.Context, filter domain.Filter) ([]*domain.Listing, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]*domain.Listing), args.Get(1).(int64), args.Error(2)
}
func (m *MockListingRepository) IncrementViews(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockListingRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	args := m.Called(ctx, slug)
	return args.Bool(0), args.Error(1)
}

type MockSellerRepository struct{ mock.Mock }

func (m *MockSellerRepository) UpsertByGoogleID(ctx context.Context, googleID string, newSeller *accountdomain.Seller) (*accountdomain.Seller, error) {
	args := m.Called(ctx, googleID, newSeller)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*accountdomain.Seller), args.Error(1)
}
func (m *MockSellerRepository) FindByID(ctx context.Context, id string) (*accountdomain.Seller, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*accountdomain.Seller), args.Error(1)
}
func (m *MockSellerRepository) FindByGoogleID(ctx context.Context, googleID string) (*accountdomain.Seller, error) {
	args := m.Called(ctx, googleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*accountdomain.Seller), args.Error(1)
}
func (m *MockSellerRepository) FindBySlug(ctx context.Context, slug string) (*accountdomain.Seller, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*accountdomain.Seller), args.Error(1)
}
func (m *MockSellerRepository) UpdateName(ctx context.Context, id, name, slug string) error {
	args := m.Called(ctx, id, name, slug)
	return args.Error(0)
}
func (m *MockSellerRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	args := m.Called(ctx, slug)
	return args.Bool(0), args.Error(1)
}

func newTestListingUsecase(repo *MockListingRepository, sellers *MockSellerRepository) *ListingUsecase {
	return NewListingUsecase(repo, sellers, nil, nil, nil, nil, zap.NewNop())
}

func testSeller() *accountdomain.Seller {
	return &accountdomain.Seller{
		ID:    "seller-1",
		Name:  "Karim Benani",
		Email: "karim@example.com",
		Role:  accountdomain.RoleSeller,
	}
}

func validInput() CreateListingInput {
	return CreateListingInput{
		Breed:       "Labrador Retriever",
		Description: "Chiots labrador, vaccinés et vermifugés.",
		Price:       3500,
		Location:    "Casablanca",
		Phone:       "0612345678",
	}
}

func TestCreateListing_InvalidInputWritesNothing(t *testing.T) {
	repo := new(MockListingRepository)
	sellers := new(MockSellerRepository)
	uc := newTestListingUsecase(repo, sellers)

	cases := []struct {
		name   string
		mutate func(*CreateListingInput)
	}{
		{"missing breed", func(in *CreateListingInput) { in.Breed = "" }},
		{"missing description", func(in *CreateListingInput) { in.Description = "  " }},
		{"missing location", func(in *CreateListingInput) { in.Location = "" }},
		{"missing phone", func(in *CreateListingInput) { in.Phone = "" }},
		{"zero price", func(in *CreateListingInput) { in.Price = 0 }},
		{"negative price", func(in *CreateListingInput) { in.Price = -50 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			input := validInput()
			tc.mutate(&input)

			listing, err := uc.Create(context.Background(), "seller-1", input)
			assert.ErrorIs(t, err, domain.ErrInvalidListingData)
			assert.Nil(t, listing)
		})
	}
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateListing_StartsPendingWithDenormalizedSeller(t *testing.T) {
	repo := new(MockListingRepository)
	sellers := new(MockSellerRepository)
	uc := newTestListingUsecase(repo, sellers)

	sellers.On("FindByID", mock.Anything, "seller-1").Return(testSeller(), nil)
	repo.On("SlugExists", mock.Anything, mock.Anything).Return(false, nil)
	repo.On("Create", mock.Anything, mock.Anything).Return(nil)

	listing, err := uc.Create(context.Background(), "seller-1", validInput())
	require.NoError(t, err)

	assert.Equal(t, domain.StatusPending, listing.Status)
	assert.Equal(t, "seller-1", listing.SellerID)
	assert.Equal(t, "Karim Benani", listing.SellerName)
	assert.Equal(t, "karim@example.com", listing.SellerEmail)
	repo.AssertExpectations(t)
}

func TestCreateListing_SlugPattern(t *testing.T) {
	repo := new(MockListingRepository)
	sellers := new(MockSellerRepository)
	uc := newTestListingUsecase(repo, sellers)

	sellers.On("FindByID", mock.Anything, "seller-1").Return(testSeller(), nil)
	repo.On("SlugExists", mock.Anything, mock.Anything).Return(false, nil)
	repo.On("Create", mock.Anything, mock.Anything).Return(nil)

	listing, err := uc.Create(context.Background(), "seller-1", validInput())
	require.NoError(t, err)

	assert.Regexp(t, regexp.MustCompile(`^labrador-retriever-\d{4}$`), listing.Slug)
}

func TestCreateListing_SlugCollisionRetries(t *testing.T) {
	repo := new(MockListingRepository)
	sellers := new(MockSellerRepository)
	uc := newTestListingUsecase(repo, sellers)

	sellers.On("FindByID", mock.Anything, "seller-1").Return(testSeller(), nil)
	repo.On("SlugExists", mock.Anything, mock.Anything).Return(true, nil).Twice()
	repo.On("SlugExists", mock.Anything, mock.Anything).Return(false, nil).Once()
	repo.On("Create", mock.Anything, mock.Anything).Return(nil)

	listing, err := uc.Create(context.Background(), "seller-1", validInput())
	require.NoError(t, err)

	assert.NotEmpty(t, listing.Slug)
	repo.AssertNumberOfCalls(t, "SlugExists", 3)
}

func TestUpdateListing_NotOwnerForbidden(t *testing.T) {
	repo := new(MockListingRepository)
	sellers := new(MockSellerRepository)
	uc := newTestListingUsecase(repo, sellers)

	repo.On("FindByID", mock.Anything, "l1").Return(&domain.Listing{
		ID:       "l1",
		SellerID: "seller-1",
		Breed:    "Beauceron",
		Status:   domain.StatusApproved,
	}, nil)

	desc := "nouvelle description"
	_, err := uc.Update(context.Background(), "l1", "intruder", UpdateListingInput{Description: &desc})
	assert.ErrorIs(t, err, ErrForbidden)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestUpdateListing_KeepsStatus(t *testing.T) {
	repo := new(MockListingRepository)
	sellers := new(MockSellerRepository)
	uc := newTestListingUsecase(repo, sellers)

	repo.On("FindByID", mock.Anything, "l1").Return(&domain.Listing{
		ID:          "l1",
		SellerID:    "seller-1",
		Breed:       "Beauceron",
		Description: "ancienne",
		Price:       2000,
		Location:    "Rabat",
		Status:      domain.StatusApproved,
	}, nil)
	repo.On("Update", mock.Anything, mock.MatchedBy(func(l *domain.Listing) bool {
		return l.Status == domain.StatusApproved && l.Description == "nouvelle description"
	})).Return(nil)

	desc := "nouvelle description"
	updated, err := uc.Update(context.Background(), "l1", "seller-1", UpdateListingInput{Description: &desc})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusApproved, updated.Status)
	repo.AssertExpectations(t)
}

func TestApproveListing_NonAdminForbidden(t *testing.T) {
	repo := new(MockListingRepository)
	sellers := new(MockSellerRepository)
	uc := newTestListingUsecase(repo, sellers)

	_, err := uc.Approve(context.Background(), "l1", accountdomain.RoleSeller)
	assert.ErrorIs(t, err, ErrForbidden)
	repo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestApproveListing_ChangesOnlyStatus(t *testing.T) {
	repo := new(MockListingRepository)
	sellers := new(MockSellerRepository)
	uc := newTestListingUsecase(repo, sellers)

	created := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	repo.On("FindByID", mock.Anything, "l1").Return(&domain.Listing{
		ID:        "l1",
		SellerID:  "seller-1",
		Breed:     "Malinois",
		Status:    domain.StatusPending,
		CreatedAt: created,
		UpdatedAt: created,
	}, nil)
	repo.On("UpdateStatus", mock.Anything, "l1", domain.StatusApproved).Return(nil)

	listing, err := uc.Approve(context.Background(), "l1", accountdomain.RoleAdmin)
	require.NoError(t, err)

	assert.Equal(t, domain.StatusApproved, listing.Status)
	assert.Equal(t, created, listing.UpdatedAt)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	repo.AssertExpectations(t)
}

func TestDeleteListing_AdminMayDeleteAnyListing(t *testing.T) {
	repo := new(MockListingRepository)
	sellers := new(MockSellerRepository)
	uc := newTestListingUsecase(repo, sellers)

	repo.On("FindByID", mock.Anything, "l1").Return(&domain.Listing{
		ID:       "l1",
		SellerID: "seller-1",
	}, nil)
	repo.On("Delete", mock.Anything, "l1").Return(nil)

	err := uc.Delete(context.Background(), "l1", "admin-1", accountdomain.RoleAdmin)
	assert.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestDeleteListing_StrangerForbidden(t *testing.T) {
	repo := new(MockListingRepository)
	sellers := new(MockSellerRepository)
	uc := newTestListingUsecase(repo, sellers)

	repo.On("FindByID", mock.Anything, "l1").Return(&domain.Listing{
		ID:       "l1",
		SellerID: "seller-1",
	}, nil)

	err := uc.Delete(context.Background(), "l1", "someone-else", accountdomain.RoleUser)
	assert.ErrorIs(t, err, ErrForbidden)
	repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestApproveListing_AlreadyApprovedRejected(t *testing.T) {
	repo := new(MockListingRepository)
	sellers := new(MockSellerRepository)
	uc := newTestListingUsecase(repo, sellers)

	repo.On("FindByID", mock.Anything, "l1").Return(&domain.Listing{
		ID:       "l1",
		SellerID: "seller-1",
		Status:   domain.StatusApproved,
	}, nil)

	_, err := uc.Approve(context.Background(), "l1", accountdomain.RoleAdmin)
	assert.ErrorIs(t, err, domain.ErrNotPending)
	repo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestGetBySlug_IncrementsViews(t *testing.T) {
	repo := new(MockListingRepository)
	sellers := new(MockSellerRepository)
	uc := newTestListingUsecase(repo, sellers)

	repo.On("FindBySlug", mock.Anything, "malinois-1234").Return(&domain.Listing{
		ID:     "l1",
		Slug:   "malinois-1234",
		Status: domain.StatusApproved,
		Views:  7,
	}, nil)
	repo.On("IncrementViews", mock.Anything, "l1").Return(nil)

	listing, err := uc.GetBySlug(context.Background(), "malinois-1234", "", "")
	require.NoError(t, err)
	assert.Equal(t, int64(8), listing.Views)
	repo.AssertExpectations(t)
}

func TestGetBySlug_PendingHiddenFromPublic(t *testing.T) {
	repo := new(MockListingRepository)
	sellers := new(MockSellerRepository)
	uc := newTestListingUsecase(repo, sellers)

	repo.On("FindBySlug", mock.Anything, "malinois-1234").Return(&domain.Listing{
		ID:       "l1",
		SellerID: "seller-1",
		Slug:     "malinois-1234",
		Status:   domain.StatusPending,
	}, nil)

	listing, err := uc.GetBySlug(context.Background(), "malinois-1234", "", "")
	assert.ErrorIs(t, err, domain.ErrListingNotFound)
	assert.Nil(t, listing)
	repo.AssertNotCalled(t, "IncrementViews", mock.Anything, mock.Anything)
}

func TestGetBySlug_OwnerSeesOwnPendingListing(t *testing.T) {
	repo := new(MockListingRepository)
	sellers := new(MockSellerRepository)
	uc := newTestListingUsecase(repo, sellers)

	repo.On("FindBySlug", mock.Anything, "malinois-1234").Return(&domain.Listing{
		ID:       "l1",
		SellerID: "seller-1",
		Slug:     "malinois-1234",
		Status:   domain.StatusPending,
	}, nil)
	repo.On("IncrementViews", mock.Anything, "l1").Return(nil)

	listing, err := uc.GetBySlug(context.Background(), "malinois-1234", "seller-1", accountdomain.RoleSeller)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, listing.Status)
}

func TestGetBySlug_AdminSeesPendingListing(t *testing.T) {
	repo := new(MockListingRepository)
	sellers := new(MockSellerRepository)
	uc := newTestListingUsecase(repo, sellers)

	repo.On("FindBySlug", mock.Anything, "malinois-1234").Return(&domain.Listing{
		ID:       "l1",
		SellerID: "seller-1",
		Slug:     "malinois-1234",
		Status:   domain.StatusPending,
	}, nil)
	repo.On("IncrementViews", mock.Anything, "l1").Return(nil)

	listing, err := uc.GetBySlug(context.Background(), "malinois-1234", "admin-1", accountdomain.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, listing.Status)
}

func TestGetBySlug_PendingNeverCached(t *testing.T) {
	repo := new(MockListingRepository)
	sellers := new(MockSellerRepository)
	memCache := newMapCache()
	uc := NewListingUsecase(repo, sellers, nil, nil, memCache, nil, zap.NewNop())

	repo.On("FindBySlug", mock.Anything, "malinois-1234").Return(&domain.Listing{
		ID:       "l1",
		SellerID: "seller-1",
		Slug:     "malinois-1234",
		Status:   domain.StatusPending,
	}, nil)
	repo.On("IncrementViews", mock.Anything, "l1").Return(nil)

	_, err := uc.GetBySlug(context.Background(), "malinois-1234", "seller-1", accountdomain.RoleSeller)
	require.NoError(t, err)
	assert.Empty(t, memCache.data)
}

func TestGetBySlug_ApprovedListingIsCached(t *testing.T) {
	repo := new(MockListingRepository)
	sellers := new(MockSellerRepository)
	memCache := newMapCache()
	uc := NewListingUsecase(repo, sellers, nil, nil, memCache, nil, zap.NewNop())

	repo.On("FindBySlug", mock.Anything, "malinois-1234").Return(&domain.Listing{
		ID:     "l1",
		Slug:   "malinois-1234",
		Status: domain.StatusApproved,
	}, nil).Once()
	repo.On("IncrementViews", mock.Anything, "l1").Return(nil)

	_, err := uc.GetBySlug(context.Background(), "malinois-1234", "", "")
	require.NoError(t, err)
	assert.Contains(t, memCache.data, "listing:slug:malinois-1234")

	// Second read is served from the cache.
	_, err = uc.GetBySlug(context.Background(), "malinois-1234", "", "")
	require.NoError(t, err)
	repo.AssertNumberOfCalls(t, "FindBySlug", 1)
}
