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

	"github.com/mohamed-bella/dresseur-ma/internal/breed/domain"
)

const breedsCollectionName = "breeds"

type breedDetailsDocument struct {
	Origin      string `bson:"origin,omitempty"`
	SizeRange   string `bson:"size_range,omitempty"`
	WeightRange string `bson:"weight_range,omitempty"`
	LifeSpan    string `bson:"life_span,omitempty"`
	Temperament string `bson:"temperament,omitempty"`
	Care        string `bson:"care,omitempty"`
}

type breedDocument struct {
	ID        primitive.ObjectID   `bson:"_id,omitempty"`
	Name      string               `bson:"name"`
	Slug      string               `bson:"slug"`
	Summary   string               `bson:"summary,omitempty"`
	Content   string               `bson:"content,omitempty"`
	ImageURL  string               `bson:"image_url,omitempty"`
	Details   breedDetailsDocument `bson:"details"`
	CreatedAt time.Time            `bson:"created_at"`
	UpdatedAt time.Time            `bson:"updated_at"`
}

func toBreedDocument(b *domain.Breed) (*breedDocument, error) {
	doc := &breedDocument{
		Name:     b.Name,
		Slug:     b.Slug,
		Summary:  b.Summary,
		Content:  b.Content,
		ImageURL: b.ImageURL,
		Details: breedDetailsDocument{
			Origin:      b.Details.Origin,
			SizeRange:   b.Details.SizeRange,
			WeightRange: b.Details.WeightRange,
			LifeSpan:    b.Details.LifeSpan,
			Temperament: b.Details.Temperament,
			Care:        b.Details.Care,
		},
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
	if b.ID != "" {
		objID, err := primitive.ObjectIDFromHex(b.ID)
		if err != nil {
			return nil, fmt.Errorf("invalid breed ID format: %w", err)
		}
		doc.ID = objID
	}
	return doc, nil
}

func toBreedEntity(doc *breedDocument) *domain.Breed {
	return &domain.Breed{
		ID:       doc.ID.Hex(),
		Name:     doc.Name,
		Slug:     doc.Slug,
		Summary:  doc.Summary,
		Content:  doc.Content,
		ImageURL: doc.ImageURL,
		Details: domain.Details{
			Origin:      doc.Details.Origin,
			SizeRange:   doc.Details.SizeRange,
			WeightRange: doc.Details.WeightRange,
			LifeSpan:    doc.Details.LifeSpan,
			Temperament: doc.Details.Temperament,
			Care:        doc.Details.Care,
		},
		CreatedAt: doc.CreatedAt,
		UpdatedAt: doc.UpdatedAt,
	}
}

type BreedRepository struct {
	db     *mongo.Database
	logger *zap.Logger
}

func NewBreedRepository(db *mongo.Database, logger *zap.Logger) *BreedRepository {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	collection := db.Collection(breedsCollectionName)
	index := mongo.IndexModel{
		Keys:    bson.D{{Key: "slug", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	if _, err := collection.Indexes().CreateOne(ctx, index); err != nil {
		logger.Warn("failed to create index for breeds collection (may already exist)", zap.Error(err))
	}

	return &BreedRepository{db: db, logger: logger.Named("BreedRepository")}
}

func (r *BreedRepository) Create(ctx context.Context, breed *domain.Breed) error {
	doc, err := toBreedDocument(breed)
	if err != nil {
		return err
	}

	res, err := r.db.Collection(breedsCollectionName).InsertOne(ctx, doc)
	if err != nil {
		return fmt.Errorf("failed to create breed in mongo: %w", err)
	}
	insertedID, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return fmt.Errorf("failed to convert inserted_id to ObjectID")
	}
	breed.ID = insertedID.Hex()
	return nil
}

func (r *BreedRepository) Update(ctx context.Context, breed *domain.Breed) error {
	doc, err := toBreedDocument(breed)
	if err != nil {
		return err
	}
	if doc.ID.IsZero() {
		return fmt.Errorf("breed ID is required for update")
	}

	update := bson.M{
		"$set": bson.M{
			"name":       doc.Name,
			"slug":       doc.Slug,
			"summary":    doc.Summary,
			"content":    doc.Content,
			"image_url":  doc.ImageURL,
			"details":    doc.Details,
			"updated_at": doc.UpdatedAt,
		},
	}

	res, err := r.db.Collection(breedsCollectionName).UpdateOne(ctx, bson.M{"_id": doc.ID}, update)
	if err != nil {
		return fmt.Errorf("failed to update breed in mongo: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrBreedNotFound
	}
	return nil
}

func (r *BreedRepository) Delete(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrBreedNotFound
	}

	res, err := r.db.Collection(breedsCollectionName).DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		return fmt.Errorf("failed to delete breed from mongo: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrBreedNotFound
	}
	return nil
}

func (r *BreedRepository) FindByID(ctx context.Context, id string) (*domain.Breed, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrBreedNotFound
	}
	return r.findOne(ctx, bson.M{"_id": objID})
}

func (r *BreedRepository) FindBySlug(ctx context.Context, slug string) (*domain.Breed, error) {
	return r.findOne(ctx, bson.M{"slug": slug})
}

func (r *BreedRepository) FindByName(ctx context.Context, name string) (*domain.Breed, error) {
	return r.findOne(ctx, bson.M{"name": name})
}

func (r *BreedRepository) findOne(ctx context.Context, filter bson.M) (*domain.Breed, error) {
	var doc breedDocument
	err := r.db.Collection(breedsCollectionName).FindOne(ctx, filter).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrBreedNotFound
		}
		return nil, fmt.Errorf("failed to get breed from mongo: %w", err)
	}
	return toBreedEntity(&doc), nil
}

func (r *BreedRepository) List(ctx context.Context) ([]*domain.Breed, error) {
	cursor, err := r.db.Collection(breedsCollectionName).Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to list breeds from mongo: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []breedDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode breeds from mongo: %w", err)
	}

	breeds := make([]*domain.Breed, len(docs))
	for i := range docs {
		breeds[i] = toBreedEntity(&docs[i])
	}
	return breeds, nil
}
