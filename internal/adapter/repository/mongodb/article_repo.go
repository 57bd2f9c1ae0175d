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

	"github.com/mohamed-bella/dresseur-ma/internal/article/domain"
)

const (
	articlesCollectionName = "articles"
	commentsCollectionName = "comments"
)

type articleDocument struct {
	ID         primitive.ObjectID `bson:"_id,omitempty"`
	Title      string             `bson:"title"`
	Slug       string             `bson:"slug"`
	Content    string             `bson:"content"`
	ImageURL   string             `bson:"image_url,omitempty"`
	AuthorName string             `bson:"author_name"`
	CommentIDs []string           `bson:"comment_ids,omitempty"`
	CreatedAt  time.Time          `bson:"created_at"`
	UpdatedAt  time.Time          `bson:"updated_at"`
}

func toArticleDocument(a *domain.Article) (*articleDocument, error) {
	doc := &articleDocument{
		Title:      a.Title,
		Slug:       a.Slug,
		Content:    a.Content,
		ImageURL:   a.ImageURL,
		AuthorName: a.AuthorName,
		CommentIDs: a.CommentIDs,
		CreatedAt:  a.CreatedAt,
		UpdatedAt:  a.UpdatedAt,
	}
	if a.ID != "" {
		objID, err := primitive.ObjectIDFromHex(a.ID)
		if err != nil {
			return nil, fmt.Errorf("invalid article ID format: %w", err)
		}
		doc.ID = objID
	}
	return doc, nil
}

func toArticleEntity(doc *articleDocument) *domain.Article {
	return &domain.Article{
		ID:         doc.ID.Hex(),
		Title:      doc.Title,
		Slug:       doc.Slug,
		Content:    doc.Content,
		ImageURL:   doc.ImageURL,
		AuthorName: doc.AuthorName,
		CommentIDs: doc.CommentIDs,
		CreatedAt:  doc.CreatedAt,
		UpdatedAt:  doc.UpdatedAt,
	}
}

type ArticleRepository struct {
	db     *mongo.Database
	logger *zap.Logger
}

func NewArticleRepository(db *mongo.Database, logger *zap.Logger) *ArticleRepository {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	collection := db.Collection(articlesCollectionName)
	index := mongo.IndexModel{
		Keys:    bson.D{{Key: "slug", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	if _, err := collection.Indexes().CreateOne(ctx, index); err != nil {
		logger.Warn("failed to create index for articles collection (may already exist)", zap.Error(err))
	}

	return &ArticleRepository{db: db, logger: logger.Named("ArticleRepository")}
}

func (r *ArticleRepository) Create(ctx context.Context, article *domain.Article) error {
	doc, err := toArticleDocument(article)
	if err != nil {
		return err
	}

	res, err := r.db.Collection(articlesCollectionName).InsertOne(ctx, doc)
	if err != nil {
		return fmt.Errorf("failed to create article in mongo: %w", err)
	}
	insertedID, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return fmt.Errorf("failed to convert inserted_id to ObjectID")
	}
	article.ID = insertedID.Hex()
	return nil
}

func (r *ArticleRepository) Update(ctx context.Context, article *domain.Article) error {
	doc, err := toArticleDocument(article)
	if err != nil {
		return err
	}
	if doc.ID.IsZero() {
		return fmt.Errorf("article ID is required for update")
	}

	update := bson.M{
		"$set": bson.M{
			"title":      doc.Title,
			"slug":       doc.Slug,
			"content":    doc.Content,
			"image_url":  doc.ImageURL,
			"updated_at": doc.UpdatedAt,
		},
	}

	res, err := r.db.Collection(articlesCollectionName).UpdateOne(ctx, bson.M{"_id": doc.ID}, update)
	if err != nil {
		return fmt.Errorf("failed to update article in mongo: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrArticleNotFound
	}
	return nil
}

func (r *ArticleRepository) Delete(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrArticleNotFound
	}

	// Comments are intentionally left in place; their lifecycle is
	// independent once created.
	res, err := r.db.Collection(articlesCollectionName).DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		return fmt.Errorf("failed to delete article from mongo: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrArticleNotFound
	}
	return nil
}

func (r *ArticleRepository) FindByID(ctx context.Context, id string) (*domain.Article, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrArticleNotFound
	}

	var doc articleDocument
	err = r.db.Collection(articlesCollectionName).FindOne(ctx, bson.M{"_id": objID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrArticleNotFound
		}
		return nil, fmt.Errorf("failed to get article by id from mongo: %w", err)
	}
	return toArticleEntity(&doc), nil
}

func (r *ArticleRepository) FindBySlug(ctx context.Context, slug string) (*domain.Article, error) {
	var doc articleDocument
	err := r.db.Collection(articlesCollectionName).FindOne(ctx, bson.M{"slug": slug}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrArticleNotFound
		}
		return nil, fmt.Errorf("failed to get article by slug from mongo: %w", err)
	}
	return toArticleEntity(&doc), nil
}

func (r *ArticleRepository) List(ctx context.Context, page, limit int64) ([]*domain.Article, int64, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if limit > 0 {
		findOptions.SetLimit(limit)
		if page > 1 {
			findOptions.SetSkip((page - 1) * limit)
		}
	}

	cursor, err := r.db.Collection(articlesCollectionName).Find(ctx, bson.M{}, findOptions)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list articles from mongo: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []articleDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, 0, fmt.Errorf("failed to decode articles from mongo: %w", err)
	}

	articles := make([]*domain.Article, len(docs))
	for i := range docs {
		articles[i] = toArticleEntity(&docs[i])
	}

	total, err := r.db.Collection(articlesCollectionName).CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count articles in mongo: %w", err)
	}
	return articles, total, nil
}

func (r *ArticleRepository) AppendCommentID(ctx context.Context, articleID, commentID string) error {
	objID, err := primitive.ObjectIDFromHex(articleID)
	if err != nil {
		return domain.ErrArticleNotFound
	}

	res, err := r.db.Collection(articlesCollectionName).UpdateOne(ctx,
		bson.M{"_id": objID},
		bson.M{"$push": bson.M{"comment_ids": commentID}})
	if err != nil {
		return fmt.Errorf("failed to append comment id in mongo: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrArticleNotFound
	}
	return nil
}

type commentDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	ArticleID string             `bson:"article_id"`
	Name      string             `bson:"name"`
	Email     string             `bson:"email,omitempty"`
	Content   string             `bson:"content"`
	CreatedAt time.Time          `bson:"created_at"`
}

type CommentRepository struct {
	db     *mongo.Database
	logger *zap.Logger
}

func NewCommentRepository(db *mongo.Database, logger *zap.Logger) *CommentRepository {
	return &CommentRepository{db: db, logger: logger.Named("CommentRepository")}
}

func (r *CommentRepository) Create(ctx context.Context, comment *domain.Comment) error {
	doc := &commentDocument{
		ID:        primitive.NewObjectID(),
		ArticleID: comment.ArticleID,
		Name:      comment.Name,
		Email:     comment.Email,
		Content:   comment.Content,
		CreatedAt: comment.CreatedAt,
	}
	if _, err := r.db.Collection(commentsCollectionName).InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("failed to create comment in mongo: %w", err)
	}
	comment.ID = doc.ID.Hex()
	return nil
}

func (r *CommentRepository) Delete(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrCommentNotFound
	}

	res, err := r.db.Collection(commentsCollectionName).DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		return fmt.Errorf("failed to delete comment from mongo: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrCommentNotFound
	}
	return nil
}

func (r *CommentRepository) FindByID(ctx context.Context, id string) (*domain.Comment, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrCommentNotFound
	}

	var doc commentDocument
	err = r.db.Collection(commentsCollectionName).FindOne(ctx, bson.M{"_id": objID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrCommentNotFound
		}
		return nil, fmt.Errorf("failed to get comment by id from mongo: %w", err)
	}
	return toCommentEntity(&doc), nil
}

func (r *CommentRepository) FindByArticleID(ctx context.Context, articleID string) ([]*domain.Comment, error) {
	cursor, err := r.db.Collection(commentsCollectionName).Find(ctx,
		bson.M{"article_id": articleID},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to list comments from mongo: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []commentDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode comments from mongo: %w", err)
	}

	comments := make([]*domain.Comment, len(docs))
	for i := range docs {
		comments[i] = toCommentEntity(&docs[i])
	}
	return comments, nil
}

func toCommentEntity(doc *commentDocument) *domain.Comment {
	return &domain.Comment{
		ID:        doc.ID.Hex(),
		ArticleID: doc.ArticleID,
		Name:      doc.Name,
		Email:     doc.Email,
		Content:   doc.Content,
		CreatedAt: doc.CreatedAt,
	}
}
