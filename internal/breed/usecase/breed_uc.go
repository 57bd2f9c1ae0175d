package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mohamed-bella/dresseur-ma/internal/breed/domain"
	"github.com/mohamed-bella/dresseur-ma/internal/port/cache"
	"github.com/mohamed-bella/dresseur-ma/pkg/slug"
)

const (
	listCacheKey        = "breeds:list"
	imageCacheKeyPrefix = "breeds:image:"
	listCacheTTL        = 10 * time.Minute
	imageCacheTTL       = time.Hour
)

// BreedInput carries the admin-supplied fields of an encyclopedia entry.
type BreedInput struct {
	Name     string
	Summary  string
	Content  string
	ImageURL string
	Details  domain.Details
}

// BreedUsecase manages the breed encyclopedia. The catalog is read-mostly,
// so the list and the per-name image lookup are cached and invalidated on
// every write.
type BreedUsecase struct {
	repo      domain.BreedRepository
	cacheRepo cache.CacheRepository
	logger    *zap.Logger
}

func NewBreedUsecase(repo domain.BreedRepository, cacheRepo cache.CacheRepository, logger *zap.Logger) *BreedUsecase {
	return &BreedUsecase{
		repo:      repo,
		cacheRepo: cacheRepo,
		logger:    logger.Named("BreedUsecase"),
	}
}

func (uc *BreedUsecase) Create(ctx context.Context, input BreedInput) (*domain.Breed, error) {
	if strings.TrimSpace(input.Name) == "" || strings.TrimSpace(input.Summary) == "" {
		return nil, domain.ErrInvalidBreed
	}

	breedSlug := slug.From(input.Name)
	if _, err := uc.repo.FindBySlug(ctx, breedSlug); err == nil {
		return nil, fmt.Errorf("%w: slug %q already taken", domain.ErrInvalidBreed, breedSlug)
	} else if !errors.Is(err, domain.ErrBreedNotFound) {
		return nil, fmt.Errorf("BreedUsecase.Create: slug lookup failed: %w", err)
	}

	now := time.Now()
	breed := &domain.Breed{
		Name:      strings.TrimSpace(input.Name),
		Slug:      breedSlug,
		Summary:   strings.TrimSpace(input.Summary),
		Content:   input.Content,
		ImageURL:  input.ImageURL,
		Details:   input.Details,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(ctx, breed); err != nil {
		return nil, fmt.Errorf("BreedUsecase.Create: %w", err)
	}

	uc.invalidate(ctx, breed.Name)
	uc.logger.Info("breed created", zap.String("breed_id", breed.ID), zap.String("slug", breed.Slug))
	return breed, nil
}

func (uc *BreedUsecase) Update(ctx context.Context, id string, input BreedInput) (*domain.Breed, error) {
	breed, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	oldName := breed.Name
	if name := strings.TrimSpace(input.Name); name != "" && name != breed.Name {
		newSlug := slug.From(name)
		if other, err := uc.repo.FindBySlug(ctx, newSlug); err == nil {
			if other.ID != breed.ID {
				return nil, fmt.Errorf("%w: slug %q already taken", domain.ErrInvalidBreed, newSlug)
			}
		} else if !errors.Is(err, domain.ErrBreedNotFound) {
			return nil, fmt.Errorf("BreedUsecase.Update: slug lookup failed: %w", err)
		}
		breed.Name = name
		breed.Slug = newSlug
	}
	if strings.TrimSpace(input.Summary) != "" {
		breed.Summary = strings.TrimSpace(input.Summary)
	}
	if input.Content != "" {
		breed.Content = input.Content
	}
	if input.ImageURL != "" {
		breed.ImageURL = input.ImageURL
	}
	if input.Details != (domain.Details{}) {
		breed.Details = input.Details
	}
	breed.UpdatedAt = time.Now()

	if err := uc.repo.Update(ctx, breed); err != nil {
		return nil, fmt.Errorf("BreedUsecase.Update: %w", err)
	}
	uc.invalidate(ctx, oldName)
	uc.invalidate(ctx, breed.Name)
	return breed, nil
}

func (uc *BreedUsecase) Delete(ctx context.Context, id string) error {
	breed, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := uc.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("BreedUsecase.Delete: %w", err)
	}
	uc.invalidate(ctx, breed.Name)
	return nil
}

func (uc *BreedUsecase) GetBySlug(ctx context.Context, breedSlug string) (*domain.Breed, error) {
	return uc.repo.FindBySlug(ctx, breedSlug)
}

// List serves the full catalog, from cache when warm.
func (uc *BreedUsecase) List(ctx context.Context) ([]*domain.Breed, error) {
	if uc.cacheRepo != nil {
		cached, err := uc.cacheRepo.Get(ctx, listCacheKey)
		if err == nil {
			var breeds []*domain.Breed
			if jsonErr := json.Unmarshal(cached, &breeds); jsonErr == nil {
				return breeds, nil
			}
		} else if !errors.Is(err, cache.ErrNotFound) {
			uc.logger.Warn("breed list cache read failed", zap.Error(err))
		}
	}

	breeds, err := uc.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("BreedUsecase.List: %w", err)
	}

	if uc.cacheRepo != nil {
		if data, jsonErr := json.Marshal(breeds); jsonErr == nil {
			if cacheErr := uc.cacheRepo.Set(ctx, listCacheKey, data, listCacheTTL); cacheErr != nil {
				uc.logger.Warn("breed list cache write failed", zap.Error(cacheErr))
			}
		}
	}
	return breeds, nil
}

// ImageURL resolves a breed name to its encyclopedia image so listing pages
// can decorate ads whose breed matches an entry. Lookups are by exact name,
// case-insensitive, and cached per name. An unknown breed yields an empty
// URL, not an error.
func (uc *BreedUsecase) ImageURL(ctx context.Context, name string) (string, error) {
	key := imageCacheKeyPrefix + strings.ToLower(strings.TrimSpace(name))
	if uc.cacheRepo != nil {
		cached, err := uc.cacheRepo.Get(ctx, key)
		if err == nil {
			return string(cached), nil
		}
		if !errors.Is(err, cache.ErrNotFound) {
			uc.logger.Warn("breed image cache read failed", zap.String("name", name), zap.Error(err))
		}
	}

	url := ""
	breed, err := uc.repo.FindByName(ctx, name)
	if err == nil {
		url = breed.ImageURL
	} else if !errors.Is(err, domain.ErrBreedNotFound) {
		return "", fmt.Errorf("BreedUsecase.ImageURL: %w", err)
	}

	if uc.cacheRepo != nil {
		// Negative results are cached too so unknown breeds do not hit
		// Mongo on every page render.
		if cacheErr := uc.cacheRepo.Set(ctx, key, []byte(url), imageCacheTTL); cacheErr != nil {
			uc.logger.Warn("breed image cache write failed", zap.String("name", name), zap.Error(cacheErr))
		}
	}
	return url, nil
}

func (uc *BreedUsecase) invalidate(ctx context.Context, name string) {
	if uc.cacheRepo == nil {
		return
	}
	if err := uc.cacheRepo.Delete(ctx, listCacheKey); err != nil {
		uc.logger.Warn("failed to invalidate breed list cache", zap.Error(err))
	}
	imageKey := imageCacheKeyPrefix + strings.ToLower(strings.TrimSpace(name))
	if err := uc.cacheRepo.Delete(ctx, imageKey); err != nil {
		uc.logger.Warn("failed to invalidate breed image cache", zap.String("name", name), zap.Error(err))
	}
}
