package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// OrderStatus is the fulfilment state of an order.
type OrderStatus string

const (
	OrderStatusDraft            OrderStatus = "Draft"
	OrderStatusPending          OrderStatus = "Pending"
	OrderStatusConfirmed        OrderStatus = "Confirmed"
	OrderStatusDelivered        OrderStatus = "Delivered"
	OrderStatusCancelled        OrderStatus = "Cancelled"
	OrderStatusCancelledByAdmin OrderStatus = "CancelledByAdmin"
)

// Valid reports whether s is one of the known order statuses.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusDraft, OrderStatusPending, OrderStatusConfirmed,
		OrderStatusDelivered, OrderStatusCancelled, OrderStatusCancelledByAdmin:
		return true
	}
	return false
}

// IsCancelled reports whether s is one of the two cancelled states.
func (s OrderStatus) IsCancelled() bool {
	return s == OrderStatusCancelled || s == OrderStatusCancelledByAdmin
}

// OrderItem is one line of an order: a product reference and a quantity.
type OrderItem struct {
	ProductID primitive.ObjectID `bson:"product_id" json:"product_id"`
	Quantity  int                `bson:"quantity" json:"quantity"`
}

// HistoryEntry records one lifecycle action on an order. Entries are
// append-only; the Date string is rendered in the business timezone.
type HistoryEntry struct {
	Action string `bson:"action" json:"action"`
	Date   string `bson:"date" json:"date"`
}

// Order represents a user's order
type Order struct {
	ID                 primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	OrderID            string             `bson:"order_id" json:"order_id"`
	UserID             primitive.ObjectID `bson:"user_id" json:"user_id"`
	Items              []OrderItem        `bson:"items" json:"items"`
	Status             OrderStatus        `bson:"status" json:"status"`
	PayingStatus       PayingStatus       `bson:"paying_status" json:"paying_status"`
	RefundStatus       RefundStatus       `bson:"refund_status" json:"refund_status"`
	RefundInfo         *RefundInfo        `bson:"refund_info,omitempty" json:"refund_info,omitempty"`
	TotalPrice         float64            `bson:"total_price" json:"total_price"`
	ShippingAddress    string             `bson:"shipping_address" json:"shipping_address"`
	PhoneNumber        string             `bson:"phone_number" json:"phone_number"`
	PaymentMethod      PaymentMethod      `bson:"payment_method" json:"payment_method"`
	PaymentURL         string             `bson:"payment_url,omitempty" json:"payment_url,omitempty"`
	CancellationReason string             `bson:"cancellation_reason,omitempty" json:"cancellation_reason,omitempty"`
	DeliveryDate       string             `bson:"delivery_date,omitempty" json:"delivery_date,omitempty"` // requested delivery date, e.g. "2026-09-08"
	History            []HistoryEntry     `bson:"history" json:"history"`
	CreatedAt          time.Time          `bson:"created_at" json:"created_at"`
	DeliveredAt        *time.Time         `bson:"delivered_at,omitempty" json:"delivered_at,omitempty"`
	PaidAt             *time.Time         `bson:"paid_at,omitempty" json:"paid_at,omitempty"`
}

// SameItems reports whether the order's line items match items as a set of
// {product, quantity} pairs, ignoring order.
func (o *Order) SameItems(items []OrderItem) bool {
	if len(o.Items) != len(items) {
		return false
	}
	want := make(map[primitive.ObjectID]int, len(items))
	for _, it := range items {
		want[it.ProductID] += it.Quantity
	}
	for _, it := range o.Items {
		want[it.ProductID] -= it.Quantity
	}
	for _, qty := range want {
		if qty != 0 {
			return false
		}
	}
	return true
}

// ProductIDs returns the distinct product references in the order's items.
func (o *Order) ProductIDs() []primitive.ObjectID {
	seen := make(map[primitive.ObjectID]bool, len(o.Items))
	ids := make([]primitive.ObjectID, 0, len(o.Items))
	for _, it := range o.Items {
		if !seen[it.ProductID] {
			seen[it.ProductID] = true
			ids = append(ids, it.ProductID)
		}
	}
	return ids
}
