package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/mohamed-bella/dresseur-ma/internal/account/domain"
)

const sessionsCollectionName = "sessions"

type sessionDocument struct {
	ID        string    `bson:"_id"`
	AccountID string    `bson:"account_id"`
	Role      string    `bson:"role"`
	CreatedAt time.Time `bson:"created_at"`
	ExpiresAt time.Time `bson:"expires_at"`
}

type SessionRepository struct {
	db     *mongo.Database
	logger *zap.Logger
}

func NewSessionRepository(db *mongo.Database, logger *zap.Logger) *SessionRepository {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// TTL index lets Mongo reap expired sessions on its own.
	collection := db.Collection(sessionsCollectionName)
	index := mongo.IndexModel{
		Keys:    bson.D{{Key: "expires_at", Value: 1}},
		Options: options.Index().SetExpireAfterSeconds(0),
	}
	if _, err := collection.Indexes().CreateOne(ctx, index); err != nil {
		logger.Warn("failed to create TTL index for sessions collection (may already exist)", zap.Error(err))
	}

	return &SessionRepository{db: db, logger: logger.Named("SessionRepository")}
}

func (r *SessionRepository) Create(ctx context.Context, session *domain.Session) error {
	doc := &sessionDocument{
		ID:        session.ID,
		AccountID: session.AccountID,
		Role:      string(session.Role),
		CreatedAt: session.CreatedAt,
		ExpiresAt: session.ExpiresAt,
	}
	if _, err := r.db.Collection(sessionsCollectionName).InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("failed to create session in mongo: %w", err)
	}
	return nil
}

func (r *SessionRepository) Find(ctx context.Context, id string) (*domain.Session, error) {
	var doc sessionDocument
	err := r.db.Collection(sessionsCollectionName).FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to get session from mongo: %w", err)
	}
	return &domain.Session{
		ID:        doc.ID,
		AccountID: doc.AccountID,
		Role:      domain.Role(doc.Role),
		CreatedAt: doc.CreatedAt,
		ExpiresAt: doc.ExpiresAt,
	}, nil
}

func (r *SessionRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.Collection(sessionsCollectionName).DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("failed to delete session from mongo: %w", err)
	}
	return nil
}
