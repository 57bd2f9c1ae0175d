package mongodb

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/mohamed-bella/dresseur-ma/internal/breeder/domain"
)

const elevagesCollectionName = "elevages"

type dogDocument struct {
	ID        primitive.ObjectID `bson:"_id"`
	Name      string             `bson:"name"`
	Breed     string             `bson:"breed"`
	AgeMonths int                `bson:"age_months"`
	Price     float64            `bson:"price"`
	Pedigree  bool               `bson:"pedigree"`
	Images    []string           `bson:"images,omitempty"`
	CreatedAt time.Time          `bson:"created_at"`
}

type elevageDocument struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	OwnerID      string             `bson:"owner_id"`
	Name         string             `bson:"name"`
	Slug         string             `bson:"slug"`
	Description  string             `bson:"description,omitempty"`
	Phone        string             `bson:"phone,omitempty"`
	Email        string             `bson:"email,omitempty"`
	City         string             `bson:"city,omitempty"`
	ProfileImage string             `bson:"profile_image,omitempty"`
	CoverImage   string             `bson:"cover_image,omitempty"`
	Dogs         []dogDocument      `bson:"dogs,omitempty"`
	CreatedAt    time.Time          `bson:"created_at"`
	UpdatedAt    time.Time          `bson:"updated_at"`
}

func toElevageDocument(e *domain.Elevage) (*elevageDocument, error) {
	dogs := make([]dogDocument, 0, len(e.Dogs))
	for _, d := range e.Dogs {
		dogID := primitive.NewObjectID()
		if d.ID != "" {
			parsed, err := primitive.ObjectIDFromHex(d.ID)
			if err != nil {
				return nil, fmt.Errorf("invalid dog ID format: %w", err)
			}
			dogID = parsed
		}
		dogs = append(dogs, dogDocument{
			ID:        dogID,
			Name:      d.Name,
			Breed:     d.Breed,
			AgeMonths: d.AgeMonths,
			Price:     d.Price,
			Pedigree:  d.Pedigree,
			Images:    d.Images,
			CreatedAt: d.CreatedAt,
		})
	}

	doc := &elevageDocument{
		OwnerID:      e.OwnerID,
		Name:         e.Name,
		Slug:         e.Slug,
		Description:  e.Description,
		Phone:        e.Phone,
		Email:        e.Email,
		City:         e.City,
		ProfileImage: e.ProfileImage,
		CoverImage:   e.CoverImage,
		Dogs:         dogs,
		CreatedAt:    e.CreatedAt,
		UpdatedAt:    e.UpdatedAt,
	}
	if e.ID != "" {
		objID, err := primitive.ObjectIDFromHex(e.ID)
		if err != nil {
			return nil, fmt.Errorf("invalid elevage ID format: %w", err)
		}
		doc.ID = objID
	}
	return doc, nil
}

func toElevageEntity(doc *elevageDocument) *domain.Elevage {
	dogs := make([]domain.Dog, 0, len(doc.Dogs))
	for _, d := range doc.Dogs {
		dogs = append(dogs, domain.Dog{
			ID:        d.ID.Hex(),
			Name:      d.Name,
			Breed:     d.Breed,
			AgeMonths: d.AgeMonths,
			Price:     d.Price,
			Pedigree:  d.Pedigree,
			Images:    d.Images,
			CreatedAt: d.CreatedAt,
		})
	}
	return &domain.Elevage{
		ID:           doc.ID.Hex(),
		OwnerID:      doc.OwnerID,
		Name:         doc.Name,
		Slug:         doc.Slug,
		Description:  doc.Description,
		Phone:        doc.Phone,
		Email:        doc.Email,
		City:         doc.City,
		ProfileImage: doc.ProfileImage,
		CoverImage:   doc.CoverImage,
		Dogs:         dogs,
		CreatedAt:    doc.CreatedAt,
		UpdatedAt:    doc.UpdatedAt,
	}
}

type ElevageRepository struct {
	db     *mongo.Database
	logger *zap.Logger
}

func NewElevageRepository(db *mongo.Database, logger *zap.Logger) *ElevageRepository {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	collection := db.Collection(elevagesCollectionName)
	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "slug", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "owner_id", Value: 1}}, Options: options.Index().SetUnique(true)},
	}
	if _, err := collection.Indexes().CreateMany(ctx, indexes); err != nil {
		logger.Warn("failed to create indexes for elevages collection (may already exist)", zap.Error(err))
	}

	return &ElevageRepository{db: db, logger: logger.Named("ElevageRepository")}
}

func (r *ElevageRepository) Create(ctx context.Context, elevage *domain.Elevage) error {
	doc, err := toElevageDocument(elevage)
	if err != nil {
		return err
	}

	res, err := r.db.Collection(elevagesCollectionName).InsertOne(ctx, doc)
	if err != nil {
		return fmt.Errorf("failed to create elevage in mongo: %w", err)
	}
	insertedID, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return fmt.Errorf("failed to convert inserted_id to ObjectID")
	}
	elevage.ID = insertedID.Hex()
	return nil
}

func (r *ElevageRepository) Update(ctx context.Context, elevage *domain.Elevage) error {
	doc, err := toElevageDocument(elevage)
	if err != nil {
		return err
	}
	if doc.ID.IsZero() {
		return fmt.Errorf("elevage ID is required for update")
	}

	update := bson.M{
		"$set": bson.M{
			"name":          doc.Name,
			"slug":          doc.Slug,
			"description":   doc.Description,
			"phone":         doc.Phone,
			"email":         doc.Email,
			"city":          doc.City,
			"profile_image": doc.ProfileImage,
			"cover_image":   doc.CoverImage,
			"updated_at":    doc.UpdatedAt,
		},
	}

	res, err := r.db.Collection(elevagesCollectionName).UpdateOne(ctx, bson.M{"_id": doc.ID}, update)
	if err != nil {
		return fmt.Errorf("failed to update elevage in mongo: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrElevageNotFound
	}
	return nil
}

func (r *ElevageRepository) Delete(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrElevageNotFound
	}

	res, err := r.db.Collection(elevagesCollectionName).DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		return fmt.Errorf("failed to delete elevage from mongo: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrElevageNotFound
	}
	return nil
}

func (r *ElevageRepository) FindByID(ctx context.Context, id string) (*domain.Elevage, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrElevageNotFound
	}
	return r.findOne(ctx, bson.M{"_id": objID})
}

func (r *ElevageRepository) FindBySlug(ctx context.Context, slug string) (*domain.Elevage, error) {
	return r.findOne(ctx, bson.M{"slug": slug})
}

func (r *ElevageRepository) FindByOwnerID(ctx context.Context, ownerID string) (*domain.Elevage, error) {
	return r.findOne(ctx, bson.M{"owner_id": ownerID})
}

func (r *ElevageRepository) findOne(ctx context.Context, filter bson.M) (*domain.Elevage, error) {
	var doc elevageDocument
	err := r.db.Collection(elevagesCollectionName).FindOne(ctx, filter).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrElevageNotFound
		}
		return nil, fmt.Errorf("failed to get elevage from mongo: %w", err)
	}
	return toElevageEntity(&doc), nil
}

func (r *ElevageRepository) List(ctx context.Context, city string, page, limit int64) ([]*domain.Elevage, int64, error) {
	query := bson.M{}
	if city != "" {
		query["city"] = bson.M{"$regex": primitive.Regex{Pattern: regexp.QuoteMeta(city), Options: "i"}}
	}

	findOptions := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if limit > 0 {
		findOptions.SetLimit(limit)
		if page > 1 {
			findOptions.SetSkip((page - 1) * limit)
		}
	}

	cursor, err := r.db.Collection(elevagesCollectionName).Find(ctx, query, findOptions)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list elevages from mongo: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []elevageDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, 0, fmt.Errorf("failed to decode elevages from mongo: %w", err)
	}

	elevages := make([]*domain.Elevage, len(docs))
	for i := range docs {
		elevages[i] = toElevageEntity(&docs[i])
	}

	total, err := r.db.Collection(elevagesCollectionName).CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count elevages in mongo: %w", err)
	}
	return elevages, total, nil
}

func (r *ElevageRepository) AddDog(ctx context.Context, elevageID string, dog *domain.Dog) error {
	objID, err := primitive.ObjectIDFromHex(elevageID)
	if err != nil {
		return domain.ErrElevageNotFound
	}

	dogID := primitive.NewObjectID()
	doc := dogDocument{
		ID:        dogID,
		Name:      dog.Name,
		Breed:     dog.Breed,
		AgeMonths: dog.AgeMonths,
		Price:     dog.Price,
		Pedigree:  dog.Pedigree,
		Images:    dog.Images,
		CreatedAt: dog.CreatedAt,
	}

	res, err := r.db.Collection(elevagesCollectionName).UpdateOne(ctx,
		bson.M{"_id": objID},
		bson.M{"$push": bson.M{"dogs": doc}, "$set": bson.M{"updated_at": time.Now()}})
	if err != nil {
		return fmt.Errorf("failed to add dog to elevage in mongo: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrElevageNotFound
	}
	dog.ID = dogID.Hex()
	return nil
}

func (r *ElevageRepository) RemoveDog(ctx context.Context, elevageID, dogID string) error {
	objID, err := primitive.ObjectIDFromHex(elevageID)
	if err != nil {
		return domain.ErrElevageNotFound
	}
	dogObjID, err := primitive.ObjectIDFromHex(dogID)
	if err != nil {
		return domain.ErrDogNotFound
	}

	res, err := r.db.Collection(elevagesCollectionName).UpdateOne(ctx,
		bson.M{"_id": objID, "dogs._id": dogObjID},
		bson.M{"$pull": bson.M{"dogs": bson.M{"_id": dogObjID}}, "$set": bson.M{"updated_at": time.Now()}})
	if err != nil {
		return fmt.Errorf("failed to remove dog from elevage in mongo: %w", err)
	}
	if res.MatchedCount == 0 {
		count, countErr := r.db.Collection(elevagesCollectionName).CountDocuments(ctx, bson.M{"_id": objID})
		if countErr == nil && count == 0 {
			return domain.ErrElevageNotFound
		}
		return domain.ErrDogNotFound
	}
	return nil
}

func (r *ElevageRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	count, err := r.db.Collection(elevagesCollectionName).CountDocuments(ctx, bson.M{"slug": slug})
	if err != nil {
		return false, fmt.Errorf("failed to count elevage slugs in mongo: %w", err)
	}
	return count > 0, nil
}
