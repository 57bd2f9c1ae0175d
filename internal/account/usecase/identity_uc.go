package usecase

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/mohamed-bella/dresseur-ma/internal/account/domain"
	"github.com/mohamed-bella/dresseur-ma/pkg/slug"
)

var (
	ErrInvalidAssertion   = errors.New("identity assertion could not be verified")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// Account is the resolved view of whoever is behind a request, regardless
// of which collection their record lives in.
type Account struct {
	ID    string
	Role  domain.Role
	Name  string
	Email string
	Image string
}

// StaticCredential is a configured back-office login (admin, author).
type StaticCredential struct {
	Email        string
	PasswordHash string
	Role         domain.Role
}

type IdentityUsecase struct {
	sellers        domain.SellerRepository
	trainers       domain.TrainerRepository
	sessions       domain.SessionRepository
	identitySecret []byte
	sessionTTL     time.Duration
	statics        []StaticCredential
	logger         *zap.Logger
}

func NewIdentityUsecase(
	sellers domain.SellerRepository,
	trainers domain.TrainerRepository,
	sessions domain.SessionRepository,
	identitySecret string,
	sessionTTL time.Duration,
	statics []StaticCredential,
	logger *zap.Logger,
) *IdentityUsecase {
	return &IdentityUsecase{
		sellers:        sellers,
		trainers:       trainers,
		sessions:       sessions,
		identitySecret: []byte(identitySecret),
		sessionTTL:     sessionTTL,
		statics:        statics,
		logger:         logger.Named("IdentityUsecase"),
	}
}

// VerifyAssertion checks the HS256 token forwarded by the identity-provider
// callback and extracts the identity claims. Nothing from the request body
// is trusted beyond this token.
func (uc *IdentityUsecase) VerifyAssertion(tokenString string) (*domain.Identity, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return uc.identitySecret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidAssertion
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidAssertion
	}

	sub, _ := claims["sub"].(string)
	if sub == "" {
		return nil, ErrInvalidAssertion
	}
	name, _ := claims["name"].(string)
	email, _ := claims["email"].(string)
	picture, _ := claims["picture"].(string)

	return &domain.Identity{GoogleID: sub, Name: name, Email: email, Picture: picture}, nil
}

// Resolve maps a verified identity to exactly one account. Resolution order
// is strict: existing trainer, then existing seller, then a freshly created
// seller. Creation is an atomic upsert so concurrent first logins of the
// same identity converge on one record.
func (uc *IdentityUsecase) Resolve(ctx context.Context, identity *domain.Identity) (*Account, error) {
	if identity == nil || identity.GoogleID == "" {
		return nil, domain.ErrInvalidIdentity
	}

	trainer, err := uc.trainers.FindByGoogleID(ctx, identity.GoogleID)
	if err == nil {
		return &Account{
			ID:    trainer.ID,
			Role:  domain.RoleUser,
			Name:  trainer.Name,
			Email: trainer.Email,
			Image: trainer.Image,
		}, nil
	}
	if !errors.Is(err, domain.ErrTrainerNotFound) {
		return nil, fmt.Errorf("IdentityUsecase.Resolve: trainer lookup failed: %w", err)
	}

	seller, err := uc.sellers.FindByGoogleID(ctx, identity.GoogleID)
	if err == nil {
		return sellerAccount(seller), nil
	}
	if !errors.Is(err, domain.ErrSellerNotFound) {
		return nil, fmt.Errorf("IdentityUsecase.Resolve: seller lookup failed: %w", err)
	}

	sellerSlug, err := uc.uniqueSellerSlug(ctx, identity.Name)
	if err != nil {
		return nil, err
	}

	newSeller := &domain.Seller{
		GoogleID:  identity.GoogleID,
		Slug:      sellerSlug,
		Name:      identity.Name,
		Email:     identity.Email,
		Image:     identity.Picture,
		Role:      domain.RoleSeller,
		CreatedAt: time.Now(),
	}
	seller, err = uc.sellers.UpsertByGoogleID(ctx, identity.GoogleID, newSeller)
	if err != nil {
		uc.logger.Error("failed to upsert seller on first login",
			zap.String("google_id", identity.GoogleID), zap.Error(err))
		return nil, fmt.Errorf("IdentityUsecase.Resolve: failed to create seller: %w", err)
	}

	uc.logger.Info("seller account resolved",
		zap.String("seller_id", seller.ID),
		zap.String("slug", seller.Slug))
	return sellerAccount(seller), nil
}

// StaticLogin authenticates the configured admin/author credential pairs.
func (uc *IdentityUsecase) StaticLogin(email, password string) (*Account, error) {
	for _, cred := range uc.statics {
		if cred.Email != email || cred.PasswordHash == "" {
			continue
		}
		if bcrypt.CompareHashAndPassword([]byte(cred.PasswordHash), []byte(password)) != nil {
			return nil, ErrInvalidCredentials
		}
		return &Account{ID: "static:" + email, Role: cred.Role, Email: email}, nil
	}
	return nil, ErrInvalidCredentials
}

// RenameSeller updates the display name and regenerates the slug; this is
// the only event besides creation that changes a seller's slug.
func (uc *IdentityUsecase) RenameSeller(ctx context.Context, sellerID, name string) (*domain.Seller, error) {
	seller, err := uc.sellers.FindByID(ctx, sellerID)
	if err != nil {
		return nil, err
	}
	if name == "" || name == seller.Name {
		return seller, nil
	}

	newSlug, err := uc.uniqueSellerSlug(ctx, name)
	if err != nil {
		return nil, err
	}
	if err := uc.sellers.UpdateName(ctx, sellerID, name, newSlug); err != nil {
		return nil, err
	}
	seller.Name = name
	seller.Slug = newSlug
	return seller, nil
}

func (uc *IdentityUsecase) CreateSession(ctx context.Context, account *Account) (*domain.Session, error) {
	session := &domain.Session{
		ID:        uuid.New().String(),
		AccountID: account.ID,
		Role:      account.Role,
		CreatedAt: time.Now(),
		ExpiresAt: time.Now().Add(uc.sessionTTL),
	}
	if err := uc.sessions.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("IdentityUsecase.CreateSession: %w", err)
	}
	return session, nil
}

func (uc *IdentityUsecase) GetSession(ctx context.Context, id string) (*domain.Session, error) {
	session, err := uc.sessions.Find(ctx, id)
	if err != nil {
		return nil, err
	}
	if session.Expired(time.Now()) {
		// TTL reaping is eventual; treat an expired-but-present record as gone.
		_ = uc.sessions.Delete(ctx, id)
		return nil, domain.ErrSessionNotFound
	}
	return session, nil
}

func (uc *IdentityUsecase) DeleteSession(ctx context.Context, id string) error {
	return uc.sessions.Delete(ctx, id)
}

func (uc *IdentityUsecase) GetSeller(ctx context.Context, id string) (*domain.Seller, error) {
	return uc.sellers.FindByID(ctx, id)
}

func (uc *IdentityUsecase) GetSellerBySlug(ctx context.Context, s string) (*domain.Seller, error) {
	return uc.sellers.FindBySlug(ctx, s)
}

// uniqueSellerSlug derives a slug from the display name plus a random
// four-digit suffix, retrying until no collision remains. Suffix entropy
// makes the loop terminate quickly in practice.
func (uc *IdentityUsecase) uniqueSellerSlug(ctx context.Context, name string) (string, error) {
	base := slug.From(name)
	if base == "" {
		base = "vendeur"
	}
	for {
		candidate := fmt.Sprintf("%s-%04d", base, rand.Intn(10000))
		exists, err := uc.sellers.SlugExists(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("failed to check seller slug uniqueness: %w", err)
		}
		if !exists {
			return candidate, nil
		}
	}
}

func sellerAccount(s *domain.Seller) *Account {
	role := s.Role
	if role == "" {
		role = domain.RoleSeller
	}
	return &Account{
		ID:    s.ID,
		Role:  role,
		Name:  s.Name,
		Email: s.Email,
		Image: s.Image,
	}
}
