package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestSameItems(t *testing.T) {
	a := primitive.NewObjectID()
	b := primitive.NewObjectID()

	tests := []struct {
		name  string
		order []OrderItem
		items []OrderItem
		want  bool
	}{
		{
			name:  "identical",
			order: []OrderItem{{a, 2}, {b, 1}},
			items: []OrderItem{{a, 2}, {b, 1}},
			want:  true,
		},
		{
			name:  "reordered",
			order: []OrderItem{{a, 2}, {b, 1}},
			items: []OrderItem{{b, 1}, {a, 2}},
			want:  true,
		},
		{
			name:  "different quantity",
			order: []OrderItem{{a, 2}},
			items: []OrderItem{{a, 3}},
			want:  false,
		},
		{
			name:  "different product",
			order: []OrderItem{{a, 2}},
			items: []OrderItem{{b, 2}},
			want:  false,
		},
		{
			name:  "different length",
			order: []OrderItem{{a, 2}},
			items: []OrderItem{{a, 2}, {b, 1}},
			want:  false,
		},
		{
			name:  "both empty",
			order: nil,
			items: nil,
			want:  true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			order := Order{Items: tt.order}
			assert.Equal(t, tt.want, order.SameItems(tt.items))
		})
	}
}

func TestProductIDsDeduplicates(t *testing.T) {
	a := primitive.NewObjectID()
	b := primitive.NewObjectID()
	order := Order{Items: []OrderItem{{a, 1}, {b, 2}, {a, 3}}}

	assert.Equal(t, []primitive.ObjectID{a, b}, order.ProductIDs())
}

func TestOrderStatusValid(t *testing.T) {
	for _, s := range []OrderStatus{
		OrderStatusDraft, OrderStatusPending, OrderStatusConfirmed,
		OrderStatusDelivered, OrderStatusCancelled, OrderStatusCancelledByAdmin,
	} {
		assert.True(t, s.Valid(), string(s))
	}
	assert.False(t, OrderStatus("Shipped").Valid())
	assert.False(t, OrderStatus("").Valid())
}

func TestIsCancelled(t *testing.T) {
	assert.True(t, OrderStatusCancelled.IsCancelled())
	assert.True(t, OrderStatusCancelledByAdmin.IsCancelled())
	assert.False(t, OrderStatusDelivered.IsCancelled())
}

func TestPaymentMethodValid(t *testing.T) {
	assert.True(t, PaymentMethodCOD.Valid())
	assert.True(t, PaymentMethodMomo.Valid())
	assert.True(t, PaymentMethodBankTransfer.Valid())
	assert.False(t, PaymentMethod("paypal").Valid())

	assert.True(t, PaymentMethodMomo.GatewayBased())
	assert.False(t, PaymentMethodCOD.GatewayBased())
	assert.False(t, PaymentMethodBankTransfer.GatewayBased())
}
