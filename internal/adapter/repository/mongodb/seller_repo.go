package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/mohamed-bella/dresseur-ma/internal/account/domain"
)

const (
	sellersCollectionName  = "sellers"
	trainersCollectionName = "trainers"
)

type sellerDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	GoogleID  string             `bson:"google_id"`
	Slug      string             `bson:"slug"`
	Name      string             `bson:"name"`
	Email     string             `bson:"email"`
	Image     string             `bson:"image,omitempty"`
	Role      string             `bson:"role"`
	CreatedAt time.Time          `bson:"created_at"`
}

func toSellerDocument(s *domain.Seller) (*sellerDocument, error) {
	doc := &sellerDocument{
		GoogleID:  s.GoogleID,
		Slug:      s.Slug,
		Name:      s.Name,
		Email:     s.Email,
		Image:     s.Image,
		Role:      string(s.Role),
		CreatedAt: s.CreatedAt,
	}
	if s.ID != "" {
		objID, err := primitive.ObjectIDFromHex(s.ID)
		if err != nil {
			return nil, fmt.Errorf("invalid seller ID format: %w", err)
		}
		doc.ID = objID
	}
	return doc, nil
}

func toSellerEntity(doc *sellerDocument) *domain.Seller {
	return &domain.Seller{
		ID:        doc.ID.Hex(),
		GoogleID:  doc.GoogleID,
		Slug:      doc.Slug,
		Name:      doc.Name,
		Email:     doc.Email,
		Image:     doc.Image,
		Role:      domain.Role(doc.Role),
		CreatedAt: doc.CreatedAt,
	}
}

type SellerRepository struct {
	db     *mongo.Database
	logger *zap.Logger
}

func NewSellerRepository(db *mongo.Database, logger *zap.Logger) *SellerRepository {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Unique google_id makes the first-login upsert race-free; unique slug
	// backs the collision-checked slug generator.
	collection := db.Collection(sellersCollectionName)
	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "google_id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "slug", Value: 1}}, Options: options.Index().SetUnique(true)},
	}
	if _, err := collection.Indexes().CreateMany(ctx, indexes); err != nil {
		logger.Warn("failed to create indexes for sellers collection (may already exist)", zap.Error(err))
	}

	return &SellerRepository{db: db, logger: logger.Named("SellerRepository")}
}

func (r *SellerRepository) UpsertByGoogleID(ctx context.Context, googleID string, newSeller *domain.Seller) (*domain.Seller, error) {
	doc, err := toSellerDocument(newSeller)
	if err != nil {
		return nil, err
	}
	doc.ID = primitive.NewObjectID()

	update := bson.M{"$setOnInsert": doc}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var result sellerDocument
	err = r.db.Collection(sellersCollectionName).
		FindOneAndUpdate(ctx, bson.M{"google_id": googleID}, update, opts).
		Decode(&result)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert seller by google id: %w", err)
	}
	return toSellerEntity(&result), nil
}

func (r *SellerRepository) FindByID(ctx context.Context, id string) (*domain.Seller, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrSellerNotFound
	}

	var doc sellerDocument
	err = r.db.Collection(sellersCollectionName).FindOne(ctx, bson.M{"_id": objID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrSellerNotFound
		}
		return nil, fmt.Errorf("failed to get seller by id from mongo: %w", err)
	}
	return toSellerEntity(&doc), nil
}

func (r *SellerRepository) FindByGoogleID(ctx context.Context, googleID string) (*domain.Seller, error) {
	var doc sellerDocument
	err := r.db.Collection(sellersCollectionName).FindOne(ctx, bson.M{"google_id": googleID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrSellerNotFound
		}
		return nil, fmt.Errorf("failed to get seller by google id from mongo: %w", err)
	}
	return toSellerEntity(&doc), nil
}

func (r *SellerRepository) FindBySlug(ctx context.Context, slug string) (*domain.Seller, error) {
	var doc sellerDocument
	err := r.db.Collection(sellersCollectionName).FindOne(ctx, bson.M{"slug": slug}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrSellerNotFound
		}
		return nil, fmt.Errorf("failed to get seller by slug from mongo: %w", err)
	}
	return toSellerEntity(&doc), nil
}

func (r *SellerRepository) UpdateName(ctx context.Context, id, name, slug string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrSellerNotFound
	}

	res, err := r.db.Collection(sellersCollectionName).UpdateOne(ctx,
		bson.M{"_id": objID},
		bson.M{"$set": bson.M{"name": name, "slug": slug}})
	if err != nil {
		return fmt.Errorf("failed to update seller name in mongo: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrSellerNotFound
	}
	return nil
}

func (r *SellerRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	count, err := r.db.Collection(sellersCollectionName).CountDocuments(ctx, bson.M{"slug": slug})
	if err != nil {
		return false, fmt.Errorf("failed to count seller slugs in mongo: %w", err)
	}
	return count > 0, nil
}

type trainerDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	GoogleID  string             `bson:"google_id"`
	Name      string             `bson:"name"`
	Email     string             `bson:"email"`
	Image     string             `bson:"image,omitempty"`
	CreatedAt time.Time          `bson:"created_at"`
}

type TrainerRepository struct {
	db     *mongo.Database
	logger *zap.Logger
}

func NewTrainerRepository(db *mongo.Database, logger *zap.Logger) *TrainerRepository {
	return &TrainerRepository{db: db, logger: logger.Named("TrainerRepository")}
}

func (r *TrainerRepository) FindByGoogleID(ctx context.Context, googleID string) (*domain.Trainer, error) {
	var doc trainerDocument
	err := r.db.Collection(trainersCollectionName).FindOne(ctx, bson.M{"google_id": googleID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrTrainerNotFound
		}
		return nil, fmt.Errorf("failed to get trainer by google id from mongo: %w", err)
	}
	return &domain.Trainer{
		ID:        doc.ID.Hex(),
		GoogleID:  doc.GoogleID,
		Name:      doc.Name,
		Email:     doc.Email,
		Image:     doc.Image,
		CreatedAt: doc.CreatedAt,
	}, nil
}
