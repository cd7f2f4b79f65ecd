package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"go-shopmart/apperrors"
	"go-shopmart/models"
)

// ReviewRepository describes the review collection operations.
type ReviewRepository interface {
	Insert(ctx context.Context, review *models.Review) error
	FindByProduct(ctx context.Context, productID primitive.ObjectID) ([]models.Review, error)
	ExistsByUserAndProduct(ctx context.Context, userID, productID primitive.ObjectID) (bool, error)
	All(ctx context.Context) ([]models.Review, error)
}

type mongoReviewRepository struct {
	collection *mongo.Collection
}

// NewReviewRepository returns a MongoDB-backed ReviewRepository.
func NewReviewRepository(db *mongo.Database) ReviewRepository {
	return &mongoReviewRepository{collection: db.Collection("reviews")}
}

func (r *mongoReviewRepository) Insert(ctx context.Context, review *models.Review) error {
	result, err := r.collection.InsertOne(ctx, review)
	if err != nil {
		return apperrors.Internal("error creating review", err)
	}
	if id, ok := result.InsertedID.(primitive.ObjectID); ok {
		review.ID = id
	}
	return nil
}

func (r *mongoReviewRepository) FindByProduct(ctx context.Context, productID primitive.ObjectID) ([]models.Review, error) {
	return r.find(ctx, bson.M{"product_id": productID})
}

func (r *mongoReviewRepository) ExistsByUserAndProduct(ctx context.Context, userID, productID primitive.ObjectID) (bool, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{"user_id": userID, "product_id": productID})
	if err != nil {
		return false, apperrors.Internal("database error", err)
	}
	return count > 0, nil
}

func (r *mongoReviewRepository) All(ctx context.Context) ([]models.Review, error) {
	return r.find(ctx, bson.M{})
}

func (r *mongoReviewRepository) find(ctx context.Context, filter bson.M) ([]models.Review, error) {
	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, apperrors.Internal("error fetching reviews", err)
	}
	defer cursor.Close(ctx)

	var reviews []models.Review
	for cursor.Next(ctx) {
		var review models.Review
		if err := cursor.Decode(&review); err != nil {
			return nil, apperrors.Internal("error decoding review", err)
		}
		reviews = append(reviews, review)
	}
	if err := cursor.Err(); err != nil {
		return nil, apperrors.Internal("cursor error", err)
	}
	return reviews, nil
}
