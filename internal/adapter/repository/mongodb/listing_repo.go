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

	"github.com/mohamed-bella/dresseur-ma/internal/listing/domain"
)

const listingsCollectionName = "listings"

type mediaObjectDocument struct {
	URL string `bson:"url"`
	Key string `bson:"key"`
}

type listingDocument struct {
	ID          primitive.ObjectID    `bson:"_id,omitempty"`
	SellerID    string                `bson:"seller_id"`
	SellerName  string                `bson:"seller_name"`
	SellerEmail string                `bson:"seller_email"`
	Breed       string                `bson:"breed"`
	Description string                `bson:"description"`
	Price       float64               `bson:"price"`
	Location    string                `bson:"location"`
	Phone       string                `bson:"phone"`
	Media       []mediaObjectDocument `bson:"media,omitempty"`
	Status      string                `bson:"status"`
	Views       int64                 `bson:"views"`
	Slug        string                `bson:"slug"`
	CreatedAt   time.Time             `bson:"created_at"`
	UpdatedAt   time.Time             `bson:"updated_at"`
}

func toListingDocument(l *domain.Listing) (*listingDocument, error) {
	media := make([]mediaObjectDocument, 0, len(l.Media))
	for _, m := range l.Media {
		media = append(media, mediaObjectDocument{URL: m.URL, Key: m.Key})
	}
	doc := &listingDocument{
		SellerID:    l.SellerID,
		SellerName:  l.SellerName,
		SellerEmail: l.SellerEmail,
		Breed:       l.Breed,
		Description: l.Description,
		Price:       l.Price,
		Location:    l.Location,
		Phone:       l.Phone,
		Media:       media,
		Status:      string(l.Status),
		Views:       l.Views,
		Slug:        l.Slug,
		CreatedAt:   l.CreatedAt,
		UpdatedAt:   l.UpdatedAt,
	}
	if l.ID != "" {
		objID, err := primitive.ObjectIDFromHex(l.ID)
		if err != nil {
			return nil, fmt.Errorf("invalid listing ID format: %w", err)
		}
		doc.ID = objID
	}
	return doc, nil
}

func toListingEntity(doc *listingDocument) *domain.Listing {
	media := make([]domain.MediaObject, 0, len(doc.Media))
	for _, m := range doc.Media {
		media = append(media, domain.MediaObject{URL: m.URL, Key: m.Key})
	}
	return &domain.Listing{
		ID:          doc.ID.Hex(),
		SellerID:    doc.SellerID,
		SellerName:  doc.SellerName,
		SellerEmail: doc.SellerEmail,
		Breed:       doc.Breed,
		Description: doc.Description,
		Price:       doc.Price,
		Location:    doc.Location,
		Phone:       doc.Phone,
		Media:       media,
		Status:      domain.ListingStatus(doc.Status),
		Views:       doc.Views,
		Slug:        doc.Slug,
		CreatedAt:   doc.CreatedAt,
		UpdatedAt:   doc.UpdatedAt,
	}
}

type ListingRepository struct {
	db     *mongo.Database
	logger *zap.Logger
}

func NewListingRepository(db *mongo.Database, logger *zap.Logger) *ListingRepository {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	collection := db.Collection(listingsCollectionName)
	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "slug", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "seller_id", Value: 1}}},
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "created_at", Value: -1}}},
	}
	if _, err := collection.Indexes().CreateMany(ctx, indexes); err != nil {
		logger.Warn("failed to create indexes for listings collection (may already exist)", zap.Error(err))
	}

	return &ListingRepository{db: db, logger: logger.Named("ListingRepository")}
}

func (r *ListingRepository) Create(ctx context.Context, listing *domain.Listing) error {
	doc, err := toListingDocument(listing)
	if err != nil {
		return err
	}

	res, err := r.db.Collection(listingsCollectionName).InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrDuplicateSlug
		}
		return fmt.Errorf("failed to create listing in mongo: %w", err)
	}

	insertedID, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return fmt.Errorf("failed to convert inserted_id to ObjectID")
	}
	listing.ID = insertedID.Hex()
	return nil
}

func (r *ListingRepository) Update(ctx context.Context, listing *domain.Listing) error {
	doc, err := toListingDocument(listing)
	if err != nil {
		return err
	}
	if doc.ID.IsZero() {
		return fmt.Errorf("listing ID is required for update")
	}

	update := bson.M{
		"$set": bson.M{
			"breed":       doc.Breed,
			"description": doc.Description,
			"price":       doc.Price,
			"location":    doc.Location,
			"phone":       doc.Phone,
			"media":       doc.Media,
			"updated_at":  doc.UpdatedAt,
		},
	}

	res, err := r.db.Collection(listingsCollectionName).UpdateOne(ctx, bson.M{"_id": doc.ID}, update)
	if err != nil {
		return fmt.Errorf("failed to update listing in mongo: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrListingNotFound
	}
	return nil
}

func (r *ListingRepository) UpdateStatus(ctx context.Context, id string, status domain.ListingStatus) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrListingNotFound
	}

	// Only the status field moves; approval must not touch anything else.
	res, err := r.db.Collection(listingsCollectionName).UpdateOne(ctx,
		bson.M{"_id": objID},
		bson.M{"$set": bson.M{"status": string(status)}})
	if err != nil {
		return fmt.Errorf("failed to update listing status in mongo: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrListingNotFound
	}
	return nil
}

func (r *ListingRepository) Delete(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrListingNotFound
	}

	res, err := r.db.Collection(listingsCollectionName).DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		return fmt.Errorf("failed to delete listing from mongo: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrListingNotFound
	}
	return nil
}

func (r *ListingRepository) FindByID(ctx context.Context, id string) (*domain.Listing, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrListingNotFound
	}

	var doc listingDocument
	err = r.db.Collection(listingsCollectionName).FindOne(ctx, bson.M{"_id": objID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrListingNotFound
		}
		return nil, fmt.Errorf("failed to get listing by id from mongo: %w", err)
	}
	return toListingEntity(&doc), nil
}

func (r *ListingRepository) FindBySlug(ctx context.Context, slug string) (*domain.Listing, error) {
	var doc listingDocument
	err := r.db.Collection(listingsCollectionName).FindOne(ctx, bson.M{"slug": slug}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrListingNotFound
		}
		return nil, fmt.Errorf("failed to get listing by slug from mongo: %w", err)
	}
	return toListingEntity(&doc), nil
}

// buildListingQuery translates a domain filter into one Mongo query:
// substring matches are case-insensitive regexes with metacharacters
// escaped, price bounds are inclusive at both ends, status and seller are
// exact matches.
func buildListingQuery(filter domain.Filter) bson.M {
	query := bson.M{}
	if filter.Breed != "" {
		query["breed"] = bson.M{"$regex": primitive.Regex{Pattern: regexp.QuoteMeta(filter.Breed), Options: "i"}}
	}
	if filter.Location != "" {
		query["location"] = bson.M{"$regex": primitive.Regex{Pattern: regexp.QuoteMeta(filter.Location), Options: "i"}}
	}
	price := bson.M{}
	if filter.MinPrice > 0 {
		price["$gte"] = filter.MinPrice
	}
	if filter.MaxPrice > 0 {
		price["$lte"] = filter.MaxPrice
	}
	if len(price) > 0 {
		query["price"] = price
	}
	if filter.Status != "" {
		query["status"] = string(filter.Status)
	}
	if filter.SellerID != "" {
		query["seller_id"] = filter.SellerID
	}
	return query
}

// buildListingFindOptions sorts newest first and applies paging only when a
// limit is given.
func buildListingFindOptions(filter domain.Filter) *options.FindOptions {
	findOptions := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if filter.Limit > 0 {
		findOptions.SetLimit(filter.Limit)
		if filter.Page > 1 {
			findOptions.SetSkip((filter.Page - 1) * filter.Limit)
		}
	}
	return findOptions
}

// FindByFilter pushes the whole filter into one Mongo query.
func (r *ListingRepository) FindByFilter(ctx context.Context, filter domain.Filter) ([]*domain.Listing, int64, error) {
	query := buildListingQuery(filter)

	cursor, err := r.db.Collection(listingsCollectionName).Find(ctx, query, buildListingFindOptions(filter))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list listings from mongo: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []listingDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, 0, fmt.Errorf("failed to decode listings from mongo: %w", err)
	}

	listings := make([]*domain.Listing, len(docs))
	for i := range docs {
		listings[i] = toListingEntity(&docs[i])
	}

	total, err := r.db.Collection(listingsCollectionName).CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count listings in mongo: %w", err)
	}
	return listings, total, nil
}

func (r *ListingRepository) IncrementViews(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrListingNotFound
	}
	_, err = r.db.Collection(listingsCollectionName).UpdateOne(ctx,
		bson.M{"_id": objID},
		bson.M{"$inc": bson.M{"views": 1}})
	if err != nil {
		return fmt.Errorf("failed to increment listing views in mongo: %w", err)
	}
	return nil
}

func (r *ListingRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	count, err := r.db.Collection(listingsCollectionName).CountDocuments(ctx, bson.M{"slug": slug})
	if err != nil {
		return false, fmt.Errorf("failed to count listing slugs in mongo: %w", err)
	}
	return count > 0, nil
}

// StatusCounts aggregates listing counts per moderation status for the
// admin dashboard.
func (r *ListingRepository) StatusCounts(ctx context.Context) (map[string]int64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{"_id": "$status", "count": bson.M{"$sum": 1}}}},
	}
	cursor, err := r.db.Collection(listingsCollectionName).Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate listing status counts: %w", err)
	}
	defer cursor.Close(ctx)

	var rows []struct {
		ID    string `bson:"_id"`
		Count int64  `bson:"count"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("failed to decode listing status counts: %w", err)
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.ID] = row.Count
	}
	return counts, nil
}

// BreedCounts aggregates listing counts per breed, most listed first.
func (r *ListingRepository) BreedCounts(ctx context.Context, limit int64) (map[string]int64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{"_id": "$breed", "count": bson.M{"$sum": 1}}}},
		{{Key: "$sort", Value: bson.M{"count": -1}}},
	}
	if limit > 0 {
		pipeline = append(pipeline, bson.D{{Key: "$limit", Value: limit}})
	}

	cursor, err := r.db.Collection(listingsCollectionName).Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate listing breed counts: %w", err)
	}
	defer cursor.Close(ctx)

	var rows []struct {
		ID    string `bson:"_id"`
		Count int64  `bson:"count"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("failed to decode listing breed counts: %w", err)
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.ID] = row.Count
	}
	return counts, nil
}
