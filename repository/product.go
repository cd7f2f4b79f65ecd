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

// ProductRepository describes the product collection operations.
type ProductRepository interface {
	Insert(ctx context.Context, product *models.Product) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.Product, error)
	List(ctx context.Context) ([]models.Product, error)
	Update(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	// IncrementStock adjusts product stock by delta (negative to deduct)
	// as a single atomic $inc, never read-modify-write.
	IncrementStock(ctx context.Context, id primitive.ObjectID, delta int) error
}

type mongoProductRepository struct {
	collection *mongo.Collection
}

// NewProductRepository returns a MongoDB-backed ProductRepository.
func NewProductRepository(db *mongo.Database) ProductRepository {
	return &mongoProductRepository{collection: db.Collection("products")}
}

func (r *mongoProductRepository) Insert(ctx context.Context, product *models.Product) error {
	result, err := r.collection.InsertOne(ctx, product)
	if err != nil {
		return apperrors.Internal("error creating product", err)
	}
	if id, ok := result.InsertedID.(primitive.ObjectID); ok {
		product.ID = id
	}
	return nil
}

func (r *mongoProductRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	var product models.Product
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&product)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperrors.NotFound("product %s not found", id.Hex())
	}
	if err != nil {
		return nil, apperrors.Internal("failed to load product", err)
	}
	return &product, nil
}

func (r *mongoProductRepository) FindByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.Product, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, apperrors.Internal("failed to load products", err)
	}
	defer cursor.Close(ctx)

	products := make(map[primitive.ObjectID]models.Product, len(ids))
	for cursor.Next(ctx) {
		var product models.Product
		if err := cursor.Decode(&product); err != nil {
			return nil, apperrors.Internal("error decoding product", err)
		}
		products[product.ID] = product
	}
	if err := cursor.Err(); err != nil {
		return nil, apperrors.Internal("cursor error", err)
	}
	return products, nil
}

func (r *mongoProductRepository) List(ctx context.Context) ([]models.Product, error) {
	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, apperrors.Internal("error fetching products", err)
	}
	defer cursor.Close(ctx)

	var products []models.Product
	for cursor.Next(ctx) {
		var product models.Product
		if err := cursor.Decode(&product); err != nil {
			return nil, apperrors.Internal("error decoding product", err)
		}
		products = append(products, product)
	}
	if err := cursor.Err(); err != nil {
		return nil, apperrors.Internal("cursor error", err)
	}
	return products, nil
}

func (r *mongoProductRepository) Update(ctx context.Context, product *models.Product) error {
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": product.ID}, bson.M{"$set": product})
	if err != nil {
		return apperrors.Internal("error updating product", err)
	}
	if result.MatchedCount == 0 {
		return apperrors.NotFound("product %s not found", product.ID.Hex())
	}
	return nil
}

func (r *mongoProductRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return apperrors.Internal("error deleting product", err)
	}
	if result.DeletedCount == 0 {
		return apperrors.NotFound("product %s not found", id.Hex())
	}
	return nil
}

func (r *mongoProductRepository) IncrementStock(ctx context.Context, id primitive.ObjectID, delta int) error {
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$inc": bson.M{"stock": delta},
	})
	if err != nil {
		return apperrors.Internal("failed to update product stock", err)
	}
	if result.MatchedCount == 0 {
		return apperrors.NotFound("product %s not found", id.Hex())
	}
	return nil
}
