package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	accountdomain "github.com/mohamed-bella/dresseur-ma/internal/account/domain"
	accountuc "github.com/mohamed-bella/dresseur-ma/internal/account/usecase"
	rediscache "github.com/mohamed-bella/dresseur-ma/internal/adapter/cache/redis"
	"github.com/mohamed-bella/dresseur-ma/internal/adapter/httpserver"
	natspub "github.com/mohamed-bella/dresseur-ma/internal/adapter/messaging/nats"
	"github.com/mohamed-bella/dresseur-ma/internal/adapter/repository/mongodb"
	"github.com/mohamed-bella/dresseur-ma/internal/adapter/storage/s3"
	adminuc "github.com/mohamed-bella/dresseur-ma/internal/admin/usecase"
	articleuc "github.com/mohamed-bella/dresseur-ma/internal/article/usecase"
	bookinguc "github.com/mohamed-bella/dresseur-ma/internal/booking/usecase"
	breeduc "github.com/mohamed-bella/dresseur-ma/internal/breed/usecase"
	breederuc "github.com/mohamed-bella/dresseur-ma/internal/breeder/usecase"
	"github.com/mohamed-bella/dresseur-ma/internal/config"
	listinguc "github.com/mohamed-bella/dresseur-ma/internal/listing/usecase"
	"github.com/mohamed-bella/dresseur-ma/internal/mailer"
	"github.com/mohamed-bella/dresseur-ma/internal/media"
	"github.com/mohamed-bella/dresseur-ma/internal/platform/logger"
	"github.com/mohamed-bella/dresseur-ma/internal/platform/metrics"
	"github.com/mohamed-bella/dresseur-ma/internal/platform/tracer"
	"github.com/mohamed-bella/dresseur-ma/internal/port/cache"
)

func main() {
	configPath := "config.yaml"
	if cp := os.Getenv("CONFIG_PATH"); cp != "" {
		configPath = cp
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zapLogger, err := logger.New(cfg.Logger.Level, cfg.Logger.Format)
	if err != nil {
		log.Fatalf("can't initialize zap logger: %v", err)
	}
	defer func() { _ = zapLogger.Sync() }()

	tp := tracer.Init("dresseur-ma")
	if tp != nil {
		defer func() {
			if err := tp.Shutdown(context.Background()); err != nil {
				zapLogger.Error("failed to shut down tracer provider", zap.Error(err))
			}
		}()
	}

	metricsManager := metrics.NewManager("dresseur")
	go func() {
		if err := metrics.StartServer(cfg.Metrics.Port, zapLogger, metricsManager.Registry); err != nil {
			zapLogger.Error("metrics server stopped", zap.Error(err))
		}
	}()

	mongoClient, err := mongodb.NewConnection(&cfg.Mongo)
	if err != nil {
		zapLogger.Fatal("Failed to connect to MongoDB", zap.Error(err))
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			zapLogger.Error("Failed to disconnect MongoDB", zap.Error(err))
		}
	}()
	db := mongoClient.Database(cfg.Mongo.Database)

	// Redis is an accelerator, not a dependency; a missing cache only costs
	// latency.
	var cacheRepo cache.CacheRepository
	if redisClient, err := rediscache.NewClient(&cfg.Redis, zapLogger); err != nil {
		zapLogger.Warn("Redis unavailable, running without cache", zap.Error(err))
	} else {
		defer func() { _ = redisClient.Close() }()
		cacheRepo = rediscache.NewCacheRepository(redisClient, zapLogger)
	}

	// Same for NATS: listing events are best effort.
	var publisher listinguc.EventPublisher
	if natsPublisher, err := natspub.NewPublisher(&cfg.NATS, zapLogger); err != nil {
		zapLogger.Warn("NATS unavailable, running without event publishing", zap.Error(err))
	} else {
		defer natsPublisher.Close()
		publisher = natsPublisher
	}

	storage, err := s3.NewStorage(&cfg.MinIO, zapLogger)
	if err != nil {
		zapLogger.Fatal("Failed to initialize object storage", zap.Error(err))
	}
	ingestor := media.NewIngestor(storage, cfg.Media.MaxFileSize, cfg.Media.MaxEdge, cfg.Media.JPEGQuality, zapLogger)

	sender := mailer.New(&cfg.SMTP, zapLogger)

	sellerRepo := mongodb.NewSellerRepository(db, zapLogger)
	trainerRepo := mongodb.NewTrainerRepository(db, zapLogger)
	sessionRepo := mongodb.NewSessionRepository(db, zapLogger)
	listingRepo := mongodb.NewListingRepository(db, zapLogger)
	favoriteRepo := mongodb.NewFavoriteRepository(db, zapLogger)
	elevageRepo := mongodb.NewElevageRepository(db, zapLogger)
	breedRepo := mongodb.NewBreedRepository(db, zapLogger)
	articleRepo := mongodb.NewArticleRepository(db, zapLogger)
	commentRepo := mongodb.NewCommentRepository(db, zapLogger)
	requestRepo := mongodb.NewRequestRepository(db, zapLogger)
	contactRepo := mongodb.NewContactRepository(db, zapLogger)
	statsRepo := mongodb.NewStatsRepository(db, zapLogger)

	statics := []accountuc.StaticCredential{
		{Email: cfg.Auth.AdminEmail, PasswordHash: cfg.Auth.AdminPasswordHash, Role: accountdomain.RoleAdmin},
		{Email: cfg.Auth.AuthorEmail, PasswordHash: cfg.Auth.AuthorPasswordHash, Role: accountdomain.RoleAuthor},
	}
	identityUC := accountuc.NewIdentityUsecase(sellerRepo, trainerRepo, sessionRepo,
		cfg.Auth.IdentitySecret, cfg.Auth.SessionTTL, statics, zapLogger)

	listingUC := listinguc.NewListingUsecase(listingRepo, sellerRepo, ingestor, publisher, cacheRepo, metricsManager, zapLogger)
	photoUC := listinguc.NewPhotoUsecase(listingRepo, ingestor, metricsManager, zapLogger)
	favoriteUC := listinguc.NewFavoriteUsecase(favoriteRepo, listingRepo, zapLogger)
	breederUC := breederuc.NewBreederUsecase(elevageRepo, ingestor, zapLogger)
	breedUC := breeduc.NewBreedUsecase(breedRepo, cacheRepo, zapLogger)
	articleUC := articleuc.NewArticleUsecase(articleRepo, commentRepo, zapLogger)
	bookingUC := bookinguc.NewBookingUsecase(requestRepo, contactRepo, sellerRepo, sender, cfg.Auth.AdminEmail, zapLogger)
	statsUC := adminuc.NewStatsUsecase(statsRepo, listingRepo, zapLogger)

	handlers := httpserver.Handlers{
		Auth:     httpserver.NewAuthHandler(identityUC, cfg.Auth.SessionSecret, cfg.Auth.SessionTTL, cfg.HTTP.SecureCookies, zapLogger),
		Listings: httpserver.NewListingHandler(listingUC, photoUC, favoriteUC, breedUC, cfg.Media.MaxFileSize, zapLogger),
		Breeders: httpserver.NewBreederHandler(breederUC, cfg.Media.MaxFileSize, zapLogger),
		Breeds:   httpserver.NewBreedHandler(breedUC, zapLogger),
		Articles: httpserver.NewArticleHandler(articleUC, zapLogger),
		Bookings: httpserver.NewBookingHandler(bookingUC, zapLogger),
		Admin:    httpserver.NewAdminHandler(listingUC, statsUC, zapLogger),
	}

	router := httpserver.NewRouter(handlers, identityUC, cfg.Auth.SessionSecret, metricsManager, zapLogger)
	server := httpserver.NewServer(&cfg.HTTP, router, zapLogger)

	errCh := make(chan error, 1)
	go func() { errCh <- server.Run() }()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			zapLogger.Fatal("HTTP server error", zap.Error(err))
		}
	case sig := <-quit:
		zapLogger.Info("shutdown signal received", zap.String("signal", sig.String()))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		zapLogger.Error("graceful shutdown failed", zap.Error(err))
	}
	zapLogger.Info("server stopped")
}
