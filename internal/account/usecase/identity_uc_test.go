package usecase

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/mohamed-bella/dresseur-ma/internal/account/domain"
)

type MockSellerRepository struct{ mock.Mock }

func (m *MockSellerRepository) UpsertByGoogleID(ctx context.Context, googleID string, newSeller *domain.Seller) (*domain.Seller, error) {
	args := m.Called(ctx, googleID, newSeller)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Seller), args.Error(1)
}
func (m *MockSellerRepository) FindByID(ctx context.Context, id string) (*domain.Seller, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Seller), args.Error(1)
}
func (m *MockSellerRepository) FindByGoogleID(ctx context.Context, googleID string) (*domain.Seller, error) {
	args := m.Called(ctx, googleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Seller), args.Error(1)
}
func (m *MockSellerRepository) FindBySlug(ctx context.Context, slug string) (*domain.Seller, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Seller), args.Error(1)
}
func (m *MockSellerRepository) UpdateName(ctx context.Context, id, name, slug string) error {
	args := m.Called(ctx, id, name, slug)
	return args.Error(0)
}
func (m *MockSellerRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	args := m.Called(ctx, slug)
	return args.Bool(0), args.Error(1)
}

type MockTrainerRepository struct{ mock.Mock }

func (m *MockTrainerRepository) FindByGoogleID(ctx context.Context, googleID string) (*domain.Trainer, error) {
	args := m.Called(ctx, googleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Trainer), args.Error(1)
}

type MockSessionRepository struct{ mock.Mock }

func (m *MockSessionRepository) Create(ctx context.Context, session *domain.Session) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}
func (m *MockSessionRepository) Find(ctx context.Context, id string) (*domain.Session, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Session), args.Error(1)
}
func (m *MockSessionRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

const testSecret = "test-identity-secret"

func newTestIdentityUsecase(sellers *MockSellerRepository, trainers *MockTrainerRepository, sessions *MockSessionRepository, statics []StaticCredential) *IdentityUsecase {
	return NewIdentityUsecase(sellers, trainers, sessions, testSecret, time.Hour, statics, zap.NewNop())
}

func testIdentity() *domain.Identity {
	return &domain.Identity{
		GoogleID: "google-123",
		Name:     "Yasmine Alaoui",
		Email:    "yasmine@example.com",
		Picture:  "https://example.com/p.jpg",
	}
}

func TestResolve_ExistingTrainerWins(t *testing.T) {
	sellers := new(MockSellerRepository)
	trainers := new(MockTrainerRepository)
	sessions := new(MockSessionRepository)
	uc := newTestIdentityUsecase(sellers, trainers, sessions, nil)

	trainers.On("FindByGoogleID", mock.Anything, "google-123").Return(&domain.Trainer{
		ID:    "trainer-1",
		Name:  "Yasmine Alaoui",
		Email: "yasmine@example.com",
	}, nil)

	account, err := uc.Resolve(context.Background(), testIdentity())
	require.NoError(t, err)

	assert.Equal(t, "trainer-1", account.ID)
	assert.Equal(t, domain.RoleUser, account.Role)
	sellers.AssertNotCalled(t, "FindByGoogleID", mock.Anything, mock.Anything)
	sellers.AssertNotCalled(t, "UpsertByGoogleID", mock.Anything, mock.Anything, mock.Anything)
}

func TestResolve_ExistingSellerBeforeCreate(t *testing.T) {
	sellers := new(MockSellerRepository)
	trainers := new(MockTrainerRepository)
	sessions := new(MockSessionRepository)
	uc := newTestIdentityUsecase(sellers, trainers, sessions, nil)

	trainers.On("FindByGoogleID", mock.Anything, "google-123").Return(nil, domain.ErrTrainerNotFound)
	sellers.On("FindByGoogleID", mock.Anything, "google-123").Return(&domain.Seller{
		ID:   "seller-1",
		Role: domain.RoleSeller,
	}, nil)

	account, err := uc.Resolve(context.Background(), testIdentity())
	require.NoError(t, err)

	assert.Equal(t, "seller-1", account.ID)
	assert.Equal(t, domain.RoleSeller, account.Role)
	sellers.AssertNotCalled(t, "UpsertByGoogleID", mock.Anything, mock.Anything, mock.Anything)
}

func TestResolve_FirstLoginUpserts(t *testing.T) {
	sellers := new(MockSellerRepository)
	trainers := new(MockTrainerRepository)
	sessions := new(MockSessionRepository)
	uc := newTestIdentityUsecase(sellers, trainers, sessions, nil)

	trainers.On("FindByGoogleID", mock.Anything, "google-123").Return(nil, domain.ErrTrainerNotFound)
	sellers.On("FindByGoogleID", mock.Anything, "google-123").Return(nil, domain.ErrSellerNotFound)
	sellers.On("SlugExists", mock.Anything, mock.Anything).Return(false, nil)
	sellers.On("UpsertByGoogleID", mock.Anything, "google-123", mock.MatchedBy(func(s *domain.Seller) bool {
		return s.GoogleID == "google-123" &&
			s.Role == domain.RoleSeller &&
			regexp.MustCompile(`^yasmine-alaoui-\d{4}$`).MatchString(s.Slug)
	})).Return(&domain.Seller{ID: "seller-new", Role: domain.RoleSeller, Slug: "yasmine-alaoui-0042"}, nil)

	account, err := uc.Resolve(context.Background(), testIdentity())
	require.NoError(t, err)

	assert.Equal(t, "seller-new", account.ID)
	sellers.AssertExpectations(t)
}

func TestResolve_MissingGoogleID(t *testing.T) {
	uc := newTestIdentityUsecase(new(MockSellerRepository), new(MockTrainerRepository), new(MockSessionRepository), nil)

	_, err := uc.Resolve(context.Background(), &domain.Identity{})
	assert.ErrorIs(t, err, domain.ErrInvalidIdentity)
}

func TestVerifyAssertion_RoundTrip(t *testing.T) {
	uc := newTestIdentityUsecase(new(MockSellerRepository), new(MockTrainerRepository), new(MockSessionRepository), nil)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":     "google-123",
		"name":    "Yasmine Alaoui",
		"email":   "yasmine@example.com",
		"picture": "https://example.com/p.jpg",
	})
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)

	identity, err := uc.VerifyAssertion(signed)
	require.NoError(t, err)
	assert.Equal(t, "google-123", identity.GoogleID)
	assert.Equal(t, "yasmine@example.com", identity.Email)
}

func TestVerifyAssertion_WrongKeyRejected(t *testing.T) {
	uc := newTestIdentityUsecase(new(MockSellerRepository), new(MockTrainerRepository), new(MockSessionRepository), nil)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "google-123"})
	signed, err := token.SignedString([]byte("some-other-secret"))
	require.NoError(t, err)

	_, err = uc.VerifyAssertion(signed)
	assert.ErrorIs(t, err, ErrInvalidAssertion)
}

func TestGetSession_ExpiredTreatedAsMissing(t *testing.T) {
	sellers := new(MockSellerRepository)
	trainers := new(MockTrainerRepository)
	sessions := new(MockSessionRepository)
	uc := newTestIdentityUsecase(sellers, trainers, sessions, nil)

	sessions.On("Find", mock.Anything, "s1").Return(&domain.Session{
		ID:        "s1",
		AccountID: "seller-1",
		ExpiresAt: time.Now().Add(-time.Minute),
	}, nil)
	sessions.On("Delete", mock.Anything, "s1").Return(nil)

	_, err := uc.GetSession(context.Background(), "s1")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	sessions.AssertExpectations(t)
}

func TestStaticLogin(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)

	statics := []StaticCredential{{
		Email:        "admin@dresseur.ma",
		PasswordHash: string(hash),
		Role:         domain.RoleAdmin,
	}}
	uc := newTestIdentityUsecase(new(MockSellerRepository), new(MockTrainerRepository), new(MockSessionRepository), statics)

	account, err := uc.StaticLogin("admin@dresseur.ma", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, account.Role)

	_, err = uc.StaticLogin("admin@dresseur.ma", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = uc.StaticLogin("unknown@dresseur.ma", "s3cret")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
