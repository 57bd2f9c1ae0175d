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

	"github.com/mohamed-bella/dresseur-ma/internal/booking/domain"
)

const (
	requestsCollectionName = "requests"
	contactsCollectionName = "contacts"
)

type requestDocument struct {
	ID         primitive.ObjectID `bson:"_id,omitempty"`
	ProviderID string             `bson:"provider_id"`
	Name       string             `bson:"name"`
	Email      string             `bson:"email"`
	Phone      string             `bson:"phone,omitempty"`
	Message    string             `bson:"message"`
	Read       bool               `bson:"read"`
	Status     string             `bson:"status"`
	CreatedAt  time.Time          `bson:"created_at"`
	UpdatedAt  time.Time          `bson:"updated_at"`
}

func toRequestEntity(doc *requestDocument) *domain.Request {
	return &domain.Request{
		ID:         doc.ID.Hex(),
		ProviderID: doc.ProviderID,
		Name:       doc.Name,
		Email:      doc.Email,
		Phone:      doc.Phone,
		Message:    doc.Message,
		Read:       doc.Read,
		Status:     domain.RequestStatus(doc.Status),
		CreatedAt:  doc.CreatedAt,
		UpdatedAt:  doc.UpdatedAt,
	}
}

type RequestRepository struct {
	db     *mongo.Database
	logger *zap.Logger
}

func NewRequestRepository(db *mongo.Database, logger *zap.Logger) *RequestRepository {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	collection := db.Collection(requestsCollectionName)
	index := mongo.IndexModel{Keys: bson.D{{Key: "provider_id", Value: 1}, {Key: "created_at", Value: -1}}}
	if _, err := collection.Indexes().CreateOne(ctx, index); err != nil {
		logger.Warn("failed to create index for requests collection (may already exist)", zap.Error(err))
	}

	return &RequestRepository{db: db, logger: logger.Named("RequestRepository")}
}

func (r *RequestRepository) Create(ctx context.Context, request *domain.Request) error {
	doc := &requestDocument{
		ID:         primitive.NewObjectID(),
		ProviderID: request.ProviderID,
		Name:       request.Name,
		Email:      request.Email,
		Phone:      request.Phone,
		Message:    request.Message,
		Read:       request.Read,
		Status:     string(request.Status),
		CreatedAt:  request.CreatedAt,
		UpdatedAt:  request.UpdatedAt,
	}
	if _, err := r.db.Collection(requestsCollectionName).InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("failed to create booking request in mongo: %w", err)
	}
	request.ID = doc.ID.Hex()
	return nil
}

func (r *RequestRepository) FindByID(ctx context.Context, id string) (*domain.Request, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrRequestNotFound
	}

	var doc requestDocument
	err = r.db.Collection(requestsCollectionName).FindOne(ctx, bson.M{"_id": objID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrRequestNotFound
		}
		return nil, fmt.Errorf("failed to get booking request from mongo: %w", err)
	}
	return toRequestEntity(&doc), nil
}

func (r *RequestRepository) FindByProviderID(ctx context.Context, providerID string) ([]*domain.Request, error) {
	cursor, err := r.db.Collection(requestsCollectionName).Find(ctx,
		bson.M{"provider_id": providerID},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to list booking requests from mongo: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []requestDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode booking requests from mongo: %w", err)
	}

	requests := make([]*domain.Request, len(docs))
	for i := range docs {
		requests[i] = toRequestEntity(&docs[i])
	}
	return requests, nil
}

func (r *RequestRepository) MarkRead(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrRequestNotFound
	}

	res, err := r.db.Collection(requestsCollectionName).UpdateOne(ctx,
		bson.M{"_id": objID},
		bson.M{"$set": bson.M{"read": true, "updated_at": time.Now()}})
	if err != nil {
		return fmt.Errorf("failed to mark booking request read in mongo: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrRequestNotFound
	}
	return nil
}

func (r *RequestRepository) UpdateStatus(ctx context.Context, id string, status domain.RequestStatus) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrRequestNotFound
	}

	res, err := r.db.Collection(requestsCollectionName).UpdateOne(ctx,
		bson.M{"_id": objID},
		bson.M{"$set": bson.M{"status": string(status), "updated_at": time.Now()}})
	if err != nil {
		return fmt.Errorf("failed to update booking request status in mongo: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrRequestNotFound
	}
	return nil
}

func (r *RequestRepository) CountUnread(ctx context.Context, providerID string) (int64, error) {
	count, err := r.db.Collection(requestsCollectionName).CountDocuments(ctx,
		bson.M{"provider_id": providerID, "read": false})
	if err != nil {
		return 0, fmt.Errorf("failed to count unread booking requests in mongo: %w", err)
	}
	return count, nil
}

type contactDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Name      string             `bson:"name"`
	Email     string             `bson:"email"`
	Subject   string             `bson:"subject,omitempty"`
	Message   string             `bson:"message"`
	CreatedAt time.Time          `bson:"created_at"`
}

type ContactRepository struct {
	db     *mongo.Database
	logger *zap.Logger
}

func NewContactRepository(db *mongo.Database, logger *zap.Logger) *ContactRepository {
	return &ContactRepository{db: db, logger: logger.Named("ContactRepository")}
}

func (r *ContactRepository) Create(ctx context.Context, message *domain.ContactMessage) error {
	doc := &contactDocument{
		ID:        primitive.NewObjectID(),
		Name:      message.Name,
		Email:     message.Email,
		Subject:   message.Subject,
		Message:   message.Message,
		CreatedAt: message.CreatedAt,
	}
	if _, err := r.db.Collection(contactsCollectionName).InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("failed to create contact message in mongo: %w", err)
	}
	message.ID = doc.ID.Hex()
	return nil
}

func (r *ContactRepository) List(ctx context.Context, page, limit int64) ([]*domain.ContactMessage, int64, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if limit > 0 {
		findOptions.SetLimit(limit)
		if page > 1 {
			findOptions.SetSkip((page - 1) * limit)
		}
	}

	cursor, err := r.db.Collection(contactsCollectionName).Find(ctx, bson.M{}, findOptions)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list contact messages from mongo: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []contactDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, 0, fmt.Errorf("failed to decode contact messages from mongo: %w", err)
	}

	messages := make([]*domain.ContactMessage, len(docs))
	for i, doc := range docs {
		messages[i] = &domain.ContactMessage{
			ID:        doc.ID.Hex(),
			Name:      doc.Name,
			Email:     doc.Email,
			Subject:   doc.Subject,
			Message:   doc.Message,
			CreatedAt: doc.CreatedAt,
		}
	}

	total, err := r.db.Collection(contactsCollectionName).CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count contact messages in mongo: %w", err)
	}
	return messages, total, nil
}
