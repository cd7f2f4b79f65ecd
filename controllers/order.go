// controllers/order.go
package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"go-shopmart/models"
	"go-shopmart/repository"
	"go-shopmart/services"
)

// OrderController handles order-related requests
type OrderController struct {
	Orders *services.OrderService
	Users  repository.UserRepository
}

// NewOrderController creates a new OrderController
func NewOrderController(orders *services.OrderService, users repository.UserRepository) *OrderController {
	return &OrderController{Orders: orders, Users: users}
}

func orderIDFromPath(r *http.Request) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	return id, err == nil
}

// CreateOrder stages the user's checkout as their Draft order
func (oc *OrderController) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req struct {
		OrderID         string             `json:"order_id"`
		Items           []models.OrderItem `json:"items"`
		ShippingAddress string             `json:"shipping_address"`
		PaymentMethod   string             `json:"payment_method"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	ctx, cancel := requestContext(r)
	defer cancel()

	user, err := currentUser(ctx, r, oc.Users)
	if err != nil {
		writeError(w, err)
		return
	}

	order, isUpdated, err := oc.Orders.CreateOrder(ctx, user.ID, req.OrderID, req.Items,
		req.ShippingAddress, models.PaymentMethod(req.PaymentMethod))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"order":      order,
		"is_updated": isUpdated,
	})
}

// GetOrders retrieves all orders for the authenticated user
func (oc *OrderController) GetOrders(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := requestContext(r)
	defer cancel()

	user, err := currentUser(ctx, r, oc.Users)
	if err != nil {
		writeError(w, err)
		return
	}

	orders, err := oc.Orders.OrdersForUser(ctx, user.ID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, orders)
}

// PurchaseOrder finalizes a draft order, initiating a gateway payment when required
func (oc *OrderController) PurchaseOrder(w http.ResponseWriter, r *http.Request) {
	orderID, ok := orderIDFromPath(r)
	if !ok {
		http.Error(w, "Invalid order ID", http.StatusBadRequest)
		return
	}

	var req struct {
		ShippingAddress string  `json:"shipping_address"`
		PhoneNumber     string  `json:"phone_number"`
		DeliverAt       string  `json:"deliver_at"`
		PaymentMethod   string  `json:"payment_method"`
		TotalPrice      float64 `json:"total_price"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	ctx, cancel := requestContext(r)
	defer cancel()

	user, err := currentUser(ctx, r, oc.Users)
	if err != nil {
		writeError(w, err)
		return
	}

	order, err := oc.Orders.PurchaseOrder(ctx, user.ID, orderID, req.ShippingAddress,
		req.PhoneNumber, req.DeliverAt, models.PaymentMethod(req.PaymentMethod), req.TotalPrice)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, order)
}

// UpdateOrderStatus applies a status transition (Admin only)
func (oc *OrderController) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	orderID, ok := orderIDFromPath(r)
	if !ok {
		http.Error(w, "Invalid order ID", http.StatusBadRequest)
		return
	}

	var req struct {
		Status             string `json:"status"`
		CancellationReason string `json:"cancellation_reason"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	ctx, cancel := requestContext(r)
	defer cancel()

	order, emailSent, err := oc.Orders.UpdateStatus(ctx, orderID,
		models.OrderStatus(req.Status), req.CancellationReason)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"order":      order,
		"email_sent": emailSent,
	})
}

// CancelOrder is the customer-initiated cancellation path
func (oc *OrderController) CancelOrder(w http.ResponseWriter, r *http.Request) {
	orderID, ok := orderIDFromPath(r)
	if !ok {
		http.Error(w, "Invalid order ID", http.StatusBadRequest)
		return
	}

	var req struct {
		Reason string `json:"reason"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	ctx, cancel := requestContext(r)
	defer cancel()

	user, err := currentUser(ctx, r, oc.Users)
	if err != nil {
		writeError(w, err)
		return
	}

	order, err := oc.Orders.CancelOrder(ctx, orderID, user.ID, req.Reason)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, order)
}

// SubmitRefundDetails stores the bank account a refund should be sent to
func (oc *OrderController) SubmitRefundDetails(w http.ResponseWriter, r *http.Request) {
	orderID, ok := orderIDFromPath(r)
	if !ok {
		http.Error(w, "Invalid order ID", http.StatusBadRequest)
		return
	}

	var info models.RefundInfo
	if err := json.NewDecoder(r.Body).Decode(&info); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	ctx, cancel := requestContext(r)
	defer cancel()

	user, err := currentUser(ctx, r, oc.Users)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := oc.Orders.SubmitRefundBankDetails(ctx, orderID, user.ID, info); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Refund details saved"})
}

// UpdateRefundStatus advances the refund sub-lifecycle (Admin only)
func (oc *OrderController) UpdateRefundStatus(w http.ResponseWriter, r *http.Request) {
	orderID, ok := orderIDFromPath(r)
	if !ok {
		http.Error(w, "Invalid order ID", http.StatusBadRequest)
		return
	}

	var req struct {
		RefundStatus string `json:"refund_status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	ctx, cancel := requestContext(r)
	defer cancel()

	emailSent, err := oc.Orders.UpdateRefundStatus(ctx, orderID, models.RefundStatus(req.RefundStatus))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message":    "Refund status updated",
		"email_sent": emailSent,
	})
}

// UpdatePaymentStatus sets the paying status directly (Admin only)
func (oc *OrderController) UpdatePaymentStatus(w http.ResponseWriter, r *http.Request) {
	orderID, ok := orderIDFromPath(r)
	if !ok {
		http.Error(w, "Invalid order ID", http.StatusBadRequest)
		return
	}

	var req struct {
		PayingStatus string `json:"paying_status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	ctx, cancel := requestContext(r)
	defer cancel()

	order, err := oc.Orders.UpdatePaymentStatus(ctx, orderID, models.PayingStatus(req.PayingStatus))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, order)
}

// PaymentCallback handles the gateway's inbound payment confirmation (IPN)
func (oc *OrderController) PaymentCallback(w http.ResponseWriter, r *http.Request) {
	var req struct {
		OrderID    string `json:"orderId"`
		ResultCode int    `json:"resultCode"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	ctx, cancel := requestContext(r)
	defer cancel()

	if err := oc.Orders.HandlePaymentCallback(ctx, req.OrderID, req.ResultCode); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Payment status recorded"})
}
