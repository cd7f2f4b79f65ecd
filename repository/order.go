package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"go-shopmart/apperrors"
	"go-shopmart/models"
)

// OrderRepository describes the order collection operations the services need.
type OrderRepository interface {
	Insert(ctx context.Context, order *models.Order) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Order, error)
	// FindByOrderID looks an order up by its caller-supplied identifier.
	FindByOrderID(ctx context.Context, orderID string) (*models.Order, error)
	// FindDraftByUser returns the user's live Draft order, or (nil, nil)
	// when the user has none.
	FindDraftByUser(ctx context.Context, userID primitive.ObjectID) (*models.Order, error)
	FindByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Order, error)
	// Update replaces the stored document, so a status change and its
	// history entry land in one write.
	Update(ctx context.Context, order *models.Order) error
	// FindRevenueOrders returns orders that count towards revenue: paid,
	// not cancelled, refund not completed, with PaidAt in [from, to).
	FindRevenueOrders(ctx context.Context, from, to time.Time) ([]models.Order, error)
	All(ctx context.Context) ([]models.Order, error)
}

type mongoOrderRepository struct {
	collection *mongo.Collection
}

// NewOrderRepository returns a MongoDB-backed OrderRepository.
func NewOrderRepository(db *mongo.Database) OrderRepository {
	return &mongoOrderRepository{collection: db.Collection("orders")}
}

func (r *mongoOrderRepository) Insert(ctx context.Context, order *models.Order) error {
	result, err := r.collection.InsertOne(ctx, order)
	if err != nil {
		return apperrors.Internal("failed to create order", err)
	}
	if id, ok := result.InsertedID.(primitive.ObjectID); ok {
		order.ID = id
	}
	return nil
}

func (r *mongoOrderRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Order, error) {
	var order models.Order
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&order)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperrors.NotFound("order %s not found", id.Hex())
	}
	if err != nil {
		return nil, apperrors.Internal("failed to load order", err)
	}
	return &order, nil
}

func (r *mongoOrderRepository) FindByOrderID(ctx context.Context, orderID string) (*models.Order, error) {
	var order models.Order
	err := r.collection.FindOne(ctx, bson.M{"order_id": orderID}).Decode(&order)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperrors.NotFound("order %s not found", orderID)
	}
	if err != nil {
		return nil, apperrors.Internal("failed to load order", err)
	}
	return &order, nil
}

func (r *mongoOrderRepository) FindDraftByUser(ctx context.Context, userID primitive.ObjectID) (*models.Order, error) {
	var order models.Order
	err := r.collection.FindOne(ctx, bson.M{
		"user_id": userID,
		"status":  models.OrderStatusDraft,
	}).Decode(&order)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.Internal("failed to look up draft order", err)
	}
	return &order, nil
}

func (r *mongoOrderRepository) FindByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Order, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"user_id": userID})
	if err != nil {
		return nil, apperrors.Internal("failed to retrieve orders", err)
	}
	return decodeOrders(ctx, cursor)
}

func (r *mongoOrderRepository) Update(ctx context.Context, order *models.Order) error {
	result, err := r.collection.ReplaceOne(ctx, bson.M{"_id": order.ID}, order)
	if err != nil {
		return apperrors.Internal("failed to save order", err)
	}
	if result.MatchedCount == 0 {
		return apperrors.NotFound("order %s not found", order.ID.Hex())
	}
	return nil
}

func (r *mongoOrderRepository) FindRevenueOrders(ctx context.Context, from, to time.Time) ([]models.Order, error) {
	filter := bson.M{
		"paying_status": models.PayingStatusPaid,
		"status": bson.M{"$nin": bson.A{
			models.OrderStatusCancelled,
			models.OrderStatusCancelledByAdmin,
		}},
		"refund_status": bson.M{"$ne": models.RefundStatusCompleted},
		"paid_at":       bson.M{"$gte": from, "$lt": to},
	}
	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, apperrors.Internal("failed to retrieve revenue orders", err)
	}
	return decodeOrders(ctx, cursor)
}

func (r *mongoOrderRepository) All(ctx context.Context) ([]models.Order, error) {
	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, apperrors.Internal("failed to retrieve orders", err)
	}
	return decodeOrders(ctx, cursor)
}

func decodeOrders(ctx context.Context, cursor *mongo.Cursor) ([]models.Order, error) {
	defer cursor.Close(ctx)

	var orders []models.Order
	for cursor.Next(ctx) {
		var order models.Order
		if err := cursor.Decode(&order); err != nil {
			return nil, apperrors.Internal("error decoding order", err)
		}
		orders = append(orders, order)
	}
	if err := cursor.Err(); err != nil {
		return nil, apperrors.Internal("cursor error", err)
	}
	return orders, nil
}
