package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/mohamed-bella/dresseur-ma/internal/listing/domain"
)

const favoritesCollectionName = "favorites"

type favoriteDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	UserID    string             `bson:"user_id"`
	ListingID string             `bson:"listing_id"`
	CreatedAt time.Time          `bson:"created_at"`
}

type FavoriteRepository struct {
	db     *mongo.Database
	logger *zap.Logger
}

func NewFavoriteRepository(db *mongo.Database, logger *zap.Logger) *FavoriteRepository {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	collection := db.Collection(favoritesCollectionName)
	index := mongo.IndexModel{
		Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "listing_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	if _, err := collection.Indexes().CreateOne(ctx, index); err != nil {
		logger.Warn("failed to create index for favorites collection (may already exist)", zap.Error(err))
	}

	return &FavoriteRepository{db: db, logger: logger.Named("FavoriteRepository")}
}

func (r *FavoriteRepository) Add(ctx context.Context, favorite *domain.Favorite) error {
	doc := &favoriteDocument{
		ID:        primitive.NewObjectID(),
		UserID:    favorite.UserID,
		ListingID: favorite.ListingID,
		CreatedAt: favorite.CreatedAt,
	}
	_, err := r.db.Collection(favoritesCollectionName).InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrDuplicateFavorite
		}
		return fmt.Errorf("failed to add favorite in mongo: %w", err)
	}
	favorite.ID = doc.ID.Hex()
	return nil
}

func (r *FavoriteRepository) Remove(ctx context.Context, userID, listingID string) error {
	res, err := r.db.Collection(favoritesCollectionName).DeleteOne(ctx,
		bson.M{"user_id": userID, "listing_id": listingID})
	if err != nil {
		return fmt.Errorf("failed to remove favorite from mongo: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrFavoriteNotFound
	}
	return nil
}

func (r *FavoriteRepository) FindByUserID(ctx context.Context, userID string) ([]*domain.Favorite, error) {
	cursor, err := r.db.Collection(favoritesCollectionName).Find(ctx,
		bson.M{"user_id": userID},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to list favorites from mongo: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []favoriteDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode favorites from mongo: %w", err)
	}

	favorites := make([]*domain.Favorite, len(docs))
	for i, doc := range docs {
		favorites[i] = &domain.Favorite{
			ID:        doc.ID.Hex(),
			UserID:    doc.UserID,
			ListingID: doc.ListingID,
			CreatedAt: doc.CreatedAt,
		}
	}
	return favorites, nil
}

func (r *FavoriteRepository) Exists(ctx context.Context, userID, listingID string) (bool, error) {
	count, err := r.db.Collection(favoritesCollectionName).CountDocuments(ctx,
		bson.M{"user_id": userID, "listing_id": listingID})
	if err != nil {
		return false, fmt.Errorf("failed to count favorites in mongo: %w", err)
	}
	return count > 0, nil
}
