package usecase

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"go.uber.org/zap"

	accountdomain "github.com/mohamed-bella/dresseur-ma/internal/account/domain"
	"github.com/mohamed-bella/dresseur-ma/internal/breeder/domain"
	"github.com/mohamed-bella/dresseur-ma/internal/media"
	"github.com/mohamed-bella/dresseur-ma/pkg/slug"
)

var (
	// ErrForbidden is returned when the actor does not own the elevage.
	ErrForbidden = errors.New("account is not allowed to modify this elevage")
	// ErrElevageExists is returned when an owner who already has a profile
	// tries to create a second one.
	ErrElevageExists = errors.New("account already owns an elevage")
)

// CreateElevageInput carries the owner-supplied profile fields.
type CreateElevageInput struct {
	Name        string
	Description string
	Phone       string
	Email       string
	City        string
}

// UpdateElevageInput is a partial profile edit; nil fields keep their value.
type UpdateElevageInput struct {
	Name         *string
	Description  *string
	Phone        *string
	Email        *string
	City         *string
	ProfileImage *string
	CoverImage   *string
}

// AddDogInput describes one animal added to an elevage.
type AddDogInput struct {
	Name      string
	Breed     string
	AgeMonths int
	Price     float64
	Pedigree  bool
	Images    []string
}

type BreederUsecase struct {
	repo     domain.ElevageRepository
	ingestor *media.Ingestor
	logger   *zap.Logger
}

func NewBreederUsecase(repo domain.ElevageRepository, ingestor *media.Ingestor, logger *zap.Logger) *BreederUsecase {
	return &BreederUsecase{
		repo:     repo,
		ingestor: ingestor,
		logger:   logger.Named("BreederUsecase"),
	}
}

// Create registers a breeder profile. Each account owns at most one.
func (uc *BreederUsecase) Create(ctx context.Context, ownerID string, input CreateElevageInput) (*domain.Elevage, error) {
	if strings.TrimSpace(input.Name) == "" || strings.TrimSpace(input.City) == "" {
		return nil, domain.ErrInvalidElevage
	}

	_, err := uc.repo.FindByOwnerID(ctx, ownerID)
	if err == nil {
		return nil, ErrElevageExists
	}
	if !errors.Is(err, domain.ErrElevageNotFound) {
		return nil, fmt.Errorf("BreederUsecase.Create: owner lookup failed: %w", err)
	}

	elevageSlug, err := uc.uniqueSlug(ctx, input.Name)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	elevage := &domain.Elevage{
		OwnerID:     ownerID,
		Name:        strings.TrimSpace(input.Name),
		Slug:        elevageSlug,
		Description: strings.TrimSpace(input.Description),
		Phone:       strings.TrimSpace(input.Phone),
		Email:       strings.TrimSpace(input.Email),
		City:        strings.TrimSpace(input.City),
		Dogs:        []domain.Dog{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.repo.Create(ctx, elevage); err != nil {
		return nil, fmt.Errorf("BreederUsecase.Create: %w", err)
	}

	uc.logger.Info("elevage created",
		zap.String("elevage_id", elevage.ID),
		zap.String("owner_id", ownerID),
		zap.String("slug", elevage.Slug))
	return elevage, nil
}

func (uc *BreederUsecase) Update(ctx context.Context, elevageID, actorID string, input UpdateElevageInput) (*domain.Elevage, error) {
	elevage, err := uc.repo.FindByID(ctx, elevageID)
	if err != nil {
		return nil, err
	}
	if elevage.OwnerID != actorID {
		return nil, ErrForbidden
	}

	if input.Name != nil && strings.TrimSpace(*input.Name) != "" && *input.Name != elevage.Name {
		elevage.Name = strings.TrimSpace(*input.Name)
		newSlug, err := uc.uniqueSlug(ctx, elevage.Name)
		if err != nil {
			return nil, err
		}
		elevage.Slug = newSlug
	}
	if input.Description != nil {
		elevage.Description = strings.TrimSpace(*input.Description)
	}
	if input.Phone != nil {
		elevage.Phone = strings.TrimSpace(*input.Phone)
	}
	if input.Email != nil {
		elevage.Email = strings.TrimSpace(*input.Email)
	}
	if input.City != nil && strings.TrimSpace(*input.City) != "" {
		elevage.City = strings.TrimSpace(*input.City)
	}
	if input.ProfileImage != nil {
		elevage.ProfileImage = *input.ProfileImage
	}
	if input.CoverImage != nil {
		elevage.CoverImage = *input.CoverImage
	}
	elevage.UpdatedAt = time.Now()

	if err := uc.repo.Update(ctx, elevage); err != nil {
		return nil, fmt.Errorf("BreederUsecase.Update: %w", err)
	}
	return elevage, nil
}

// Delete removes the profile and best-effort deletes its stored images.
// Owners and admins may delete.
func (uc *BreederUsecase) Delete(ctx context.Context, elevageID, actorID string, actorRole accountdomain.Role) error {
	elevage, err := uc.repo.FindByID(ctx, elevageID)
	if err != nil {
		return err
	}
	if elevage.OwnerID != actorID && actorRole != accountdomain.RoleAdmin {
		return ErrForbidden
	}
	if err := uc.repo.Delete(ctx, elevageID); err != nil {
		return fmt.Errorf("BreederUsecase.Delete: %w", err)
	}
	uc.logger.Info("elevage deleted",
		zap.String("elevage_id", elevageID),
		zap.String("actor_id", actorID))
	return nil
}

func (uc *BreederUsecase) AddDog(ctx context.Context, elevageID, actorID string, input AddDogInput) (*domain.Dog, error) {
	elevage, err := uc.repo.FindByID(ctx, elevageID)
	if err != nil {
		return nil, err
	}
	if elevage.OwnerID != actorID {
		return nil, ErrForbidden
	}
	if strings.TrimSpace(input.Name) == "" || strings.TrimSpace(input.Breed) == "" {
		return nil, domain.ErrInvalidElevage
	}

	dog := &domain.Dog{
		Name:      strings.TrimSpace(input.Name),
		Breed:     strings.TrimSpace(input.Breed),
		AgeMonths: input.AgeMonths,
		Price:     input.Price,
		Pedigree:  input.Pedigree,
		Images:    input.Images,
		CreatedAt: time.Now(),
	}
	if err := uc.repo.AddDog(ctx, elevageID, dog); err != nil {
		return nil, fmt.Errorf("BreederUsecase.AddDog: %w", err)
	}

	uc.logger.Info("dog added to elevage",
		zap.String("elevage_id", elevageID),
		zap.String("dog_id", dog.ID))
	return dog, nil
}

func (uc *BreederUsecase) RemoveDog(ctx context.Context, elevageID, actorID, dogID string) error {
	elevage, err := uc.repo.FindByID(ctx, elevageID)
	if err != nil {
		return err
	}
	if elevage.OwnerID != actorID {
		return ErrForbidden
	}
	return uc.repo.RemoveDog(ctx, elevageID, dogID)
}

// UploadImage ingests a profile or cover image and stores its URL on the
// elevage. kind is "profile" or "cover".
func (uc *BreederUsecase) UploadImage(ctx context.Context, elevageID, actorID, kind string, data []byte) (*domain.Elevage, error) {
	elevage, err := uc.repo.FindByID(ctx, elevageID)
	if err != nil {
		return nil, err
	}
	if elevage.OwnerID != actorID {
		return nil, ErrForbidden
	}

	obj, err := uc.ingestor.Ingest(ctx, data)
	if err != nil {
		return nil, fmt.Errorf("BreederUsecase.UploadImage: %w", err)
	}

	switch kind {
	case "cover":
		elevage.CoverImage = obj.URL
	default:
		elevage.ProfileImage = obj.URL
	}
	elevage.UpdatedAt = time.Now()

	if err := uc.repo.Update(ctx, elevage); err != nil {
		uc.ingestor.Remove(ctx, obj.Key)
		return nil, fmt.Errorf("BreederUsecase.UploadImage: %w", err)
	}
	return elevage, nil
}

func (uc *BreederUsecase) GetBySlug(ctx context.Context, elevageSlug string) (*domain.Elevage, error) {
	return uc.repo.FindBySlug(ctx, elevageSlug)
}

func (uc *BreederUsecase) GetByOwner(ctx context.Context, ownerID string) (*domain.Elevage, error) {
	return uc.repo.FindByOwnerID(ctx, ownerID)
}

// List pages through the public breeder directory, optionally constrained
// to one city.
func (uc *BreederUsecase) List(ctx context.Context, city string, page, limit int64) ([]*domain.Elevage, int64, error) {
	return uc.repo.List(ctx, city, page, limit)
}

func (uc *BreederUsecase) uniqueSlug(ctx context.Context, name string) (string, error) {
	base := slug.From(name)
	if base == "" {
		base = "elevage"
	}
	for {
		candidate := fmt.Sprintf("%s-%04d", base, rand.Intn(10000))
		exists, err := uc.repo.SlugExists(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("failed to check elevage slug uniqueness: %w", err)
		}
		if !exists {
			return candidate, nil
		}
	}
}
