package repository

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"go-shopmart/apperrors"
	"go-shopmart/models"
)

// CartRepository describes the cart collection operations.
type CartRepository interface {
	// FindByUser returns the user's cart, or (nil, nil) when there is none.
	FindByUser(ctx context.Context, userID primitive.ObjectID) (*models.Cart, error)
	Insert(ctx context.Context, cart *models.Cart) error
	ReplaceItems(ctx context.Context, cartID primitive.ObjectID, items []models.CartItem) error
	// RemoveItems drops the cart entries whose product is in productIDs.
	RemoveItems(ctx context.Context, userID primitive.ObjectID, productIDs []primitive.ObjectID) error
}

type mongoCartRepository struct {
	collection *mongo.Collection
}

// NewCartRepository returns a MongoDB-backed CartRepository.
func NewCartRepository(db *mongo.Database) CartRepository {
	return &mongoCartRepository{collection: db.Collection("carts")}
}

func (r *mongoCartRepository) FindByUser(ctx context.Context, userID primitive.ObjectID) (*models.Cart, error) {
	var cart models.Cart
	err := r.collection.FindOne(ctx, bson.M{"user_id": userID}).Decode(&cart)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.Internal("failed to load cart", err)
	}
	return &cart, nil
}

func (r *mongoCartRepository) Insert(ctx context.Context, cart *models.Cart) error {
	result, err := r.collection.InsertOne(ctx, cart)
	if err != nil {
		return apperrors.Internal("error creating cart", err)
	}
	if id, ok := result.InsertedID.(primitive.ObjectID); ok {
		cart.ID = id
	}
	return nil
}

func (r *mongoCartRepository) ReplaceItems(ctx context.Context, cartID primitive.ObjectID, items []models.CartItem) error {
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": cartID}, bson.M{"$set": bson.M{"items": items}})
	if err != nil {
		return apperrors.Internal("error updating cart", err)
	}
	return nil
}

func (r *mongoCartRepository) RemoveItems(ctx context.Context, userID primitive.ObjectID, productIDs []primitive.ObjectID) error {
	_, err := r.collection.UpdateOne(ctx,
		bson.M{"user_id": userID},
		bson.M{"$pull": bson.M{"items": bson.M{"product_id": bson.M{"$in": productIDs}}}},
	)
	if err != nil {
		return apperrors.Internal("failed to clear ordered items from cart", err)
	}
	return nil
}
