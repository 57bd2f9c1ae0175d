package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// StatsRepository answers the admin dashboard's per-collection counts.
type StatsRepository struct {
	db     *mongo.Database
	logger *zap.Logger
}

func NewStatsRepository(db *mongo.Database, logger *zap.Logger) *StatsRepository {
	return &StatsRepository{db: db, logger: logger.Named("StatsRepository")}
}

func (r *StatsRepository) CollectionCounts(ctx context.Context) (map[string]int64, error) {
	collections := []string{
		sellersCollectionName,
		listingsCollectionName,
		elevagesCollectionName,
		breedsCollectionName,
		articlesCollectionName,
		requestsCollectionName,
		contactsCollectionName,
	}

	counts := make(map[string]int64, len(collections))
	for _, name := range collections {
		count, err := r.db.Collection(name).CountDocuments(ctx, bson.M{})
		if err != nil {
			return nil, fmt.Errorf("failed to count %s collection: %w", name, err)
		}
		counts[name] = count
	}
	return counts, nil
}
