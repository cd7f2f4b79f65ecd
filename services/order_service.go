package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"go-shopmart/apperrors"
	"go-shopmart/models"
	"go-shopmart/repository"
)

// businessZone is the fixed business timezone used for history timestamps
// and week-boundary computation.
var businessZone = time.FixedZone("UTC+7", 7*60*60)

// historyTimeLayout renders timestamps as HH:MM:SS,MM/DD/YY.
const historyTimeLayout = "15:04:05,01/02/06"

// Notifier sends best-effort customer notifications.
type Notifier interface {
	SendCancellationEmail(toEmail, orderID, reason string) error
	SendRefundRequestEmail(toEmail, orderID string) error
	SendRefundSuccessEmail(toEmail, orderID string) error
	SendRefundFailedEmail(toEmail, orderID string) error
}

// PaymentGateway initiates a redirect-based payment and returns the pay URL.
type PaymentGateway interface {
	CreatePayment(ctx context.Context, orderID string, amount int64, orderInfo string) (string, error)
}

// allowedTransitions is the order status transition table. A missing pair is
// an invalid transition; terminal states have no targets.
var allowedTransitions = map[models.OrderStatus]map[models.OrderStatus]bool{
	models.OrderStatusDraft: {
		models.OrderStatusPending: true,
	},
	models.OrderStatusPending: {
		models.OrderStatusConfirmed:        true,
		models.OrderStatusCancelled:        true,
		models.OrderStatusCancelledByAdmin: true,
	},
	models.OrderStatusConfirmed: {
		models.OrderStatusDelivered:        true,
		models.OrderStatusCancelled:        true,
		models.OrderStatusCancelledByAdmin: true,
	},
	models.OrderStatusDelivered:        {},
	models.OrderStatusCancelled:        {},
	models.OrderStatusCancelledByAdmin: {},
}

// OrderService owns the order lifecycle: creation, status transitions, stock
// reconciliation, payment and refund tracking.
type OrderService struct {
	orders   repository.OrderRepository
	products repository.ProductRepository
	users    repository.UserRepository
	carts    repository.CartRepository
	gateway  PaymentGateway
	notifier Notifier

	locks  *keyedMutex
	now    func() time.Time
	logger *log.Entry
}

// NewOrderService wires an OrderService.
func NewOrderService(
	orders repository.OrderRepository,
	products repository.ProductRepository,
	users repository.UserRepository,
	carts repository.CartRepository,
	gateway PaymentGateway,
	notifier Notifier,
) *OrderService {
	return &OrderService{
		orders:   orders,
		products: products,
		users:    users,
		carts:    carts,
		gateway:  gateway,
		notifier: notifier,
		locks:    newKeyedMutex(),
		now:      time.Now,
		logger:   log.WithField("component", "order-service"),
	}
}

func (s *OrderService) appendHistory(order *models.Order, action string) {
	order.History = append(order.History, models.HistoryEntry{
		Action: action,
		Date:   s.now().In(businessZone).Format(historyTimeLayout),
	})
}

// CreateOrder stages a checkout as the user's singleton Draft order. If a
// Draft already exists with identical line items it is returned unchanged;
// otherwise the existing Draft is overwritten in place. The second return
// value reports whether an existing Draft was updated.
func (s *OrderService) CreateOrder(ctx context.Context, userID primitive.ObjectID, orderID string, items []models.OrderItem, shippingAddress string, method models.PaymentMethod) (*models.Order, bool, error) {
	if orderID == "" {
		return nil, false, apperrors.Validation("order_id is required")
	}
	if len(items) == 0 {
		return nil, false, apperrors.Validation("order must contain at least one item")
	}
	for _, item := range items {
		if item.Quantity <= 0 {
			return nil, false, apperrors.Validation("item quantity must be greater than zero")
		}
	}
	if !method.Valid() {
		return nil, false, apperrors.Validation("invalid payment method %q", method)
	}

	// Product references must exist at creation time.
	ids := make([]primitive.ObjectID, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ProductID)
	}
	known, err := s.products.FindByIDs(ctx, ids)
	if err != nil {
		return nil, false, err
	}
	for _, item := range items {
		if _, ok := known[item.ProductID]; !ok {
			return nil, false, apperrors.NotFound("product %s not found", item.ProductID.Hex())
		}
	}

	unlock := s.locks.Lock("draft:" + userID.Hex())
	defer unlock()

	draft, err := s.orders.FindDraftByUser(ctx, userID)
	if err != nil {
		return nil, false, err
	}

	if draft != nil {
		if draft.SameItems(items) {
			// Idempotent re-submission.
			return draft, false, nil
		}
		draft.Items = items
		draft.ShippingAddress = shippingAddress
		draft.PaymentMethod = method
		if err := s.orders.Update(ctx, draft); err != nil {
			return nil, false, err
		}
		return draft, true, nil
	}

	order := &models.Order{
		OrderID:         orderID,
		UserID:          userID,
		Items:           items,
		Status:          models.OrderStatusDraft,
		PayingStatus:    models.PayingStatusUnpaid,
		RefundStatus:    models.RefundStatusNotInitiated,
		ShippingAddress: shippingAddress,
		PaymentMethod:   method,
		History:         []models.HistoryEntry{},
		CreatedAt:       s.now(),
	}
	if err := s.orders.Insert(ctx, order); err != nil {
		return nil, false, err
	}
	return order, false, nil
}

// UpdateStatus applies a status transition against the transition table. The
// returned bool reports whether a notification email, if one was due, was
// actually delivered.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID primitive.ObjectID, newStatus models.OrderStatus, reason string) (*models.Order, bool, error) {
	if !newStatus.Valid() {
		return nil, false, apperrors.Validation("invalid order status %q", newStatus)
	}

	unlock := s.locks.Lock("order:" + orderID.Hex())
	defer unlock()

	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, false, err
	}

	if !allowedTransitions[order.Status][newStatus] {
		return nil, false, apperrors.InvalidTransition(string(order.Status), string(newStatus))
	}

	action := fmt.Sprintf("Order status changed to %s", newStatus)
	refundEmailDue := false

	switch newStatus {
	case models.OrderStatusCancelled, models.OrderStatusCancelledByAdmin:
		if reason == "" {
			return nil, false, apperrors.Validation("cancellation reason is required")
		}
		if order.Status == models.OrderStatusConfirmed {
			// Stock was reserved at confirmation; give it back.
			if err := s.restock(ctx, order); err != nil {
				return nil, false, err
			}
		}
		order.CancellationReason = reason
		action = fmt.Sprintf("Order cancelled: %s", reason)
		refundEmailDue = newStatus == models.OrderStatusCancelledByAdmin &&
			order.PayingStatus == models.PayingStatusPaid

	case models.OrderStatusConfirmed:
		if err := s.reserveStock(ctx, order); err != nil {
			return nil, false, err
		}

	case models.OrderStatusDelivered:
		deliveredAt := s.now()
		order.DeliveredAt = &deliveredAt
	}

	order.Status = newStatus
	s.appendHistory(order, action)
	if err := s.orders.Update(ctx, order); err != nil {
		return nil, false, err
	}

	emailSent := true
	if refundEmailDue {
		emailSent = s.sendRefundRequest(ctx, order)
	}
	return order, emailSent, nil
}

// reserveStock checks every line item and decrements stock only when all of
// them can be satisfied. All shortfalls are collected before failing.
func (s *OrderService) reserveStock(ctx context.Context, order *models.Order) error {
	var shortfalls []apperrors.Shortfall
	for _, item := range order.Items {
		product, err := s.products.FindByID(ctx, item.ProductID)
		if err != nil {
			return err
		}
		if product.Stock < item.Quantity {
			shortfalls = append(shortfalls, apperrors.Shortfall{
				ProductID:        product.ID.Hex(),
				ProductName:      product.Name,
				AvailableStock:   product.Stock,
				RequiredQuantity: item.Quantity,
			})
		}
	}
	if len(shortfalls) > 0 {
		return &apperrors.InsufficientStockError{Shortfalls: shortfalls}
	}

	for _, item := range order.Items {
		if err := s.products.IncrementStock(ctx, item.ProductID, -item.Quantity); err != nil {
			return err
		}
	}
	return nil
}

// restock returns reserved stock after a confirmed order is cancelled. Every
// referenced product must exist before any increment is applied.
func (s *OrderService) restock(ctx context.Context, order *models.Order) error {
	for _, item := range order.Items {
		if _, err := s.products.FindByID(ctx, item.ProductID); err != nil {
			return err
		}
	}
	for _, item := range order.Items {
		if err := s.products.IncrementStock(ctx, item.ProductID, item.Quantity); err != nil {
			return err
		}
	}
	return nil
}

func (s *OrderService) sendRefundRequest(ctx context.Context, order *models.Order) bool {
	user, err := s.users.FindByID(ctx, order.UserID)
	if err != nil {
		s.logger.WithError(err).WithField("order_id", order.ID.Hex()).
			Warn("could not resolve user for refund request email")
		return false
	}
	if err := s.notifier.SendRefundRequestEmail(user.Email, order.ID.Hex()); err != nil {
		s.logger.WithError(err).WithField("order_id", order.ID.Hex()).
			Warn("failed to send refund request email")
		return false
	}
	return true
}

// PurchaseOrder finalizes a draft: stamps shipping and payment details and
// either places the order directly (cash on delivery) or initiates a gateway
// payment. For gateway methods nothing is persisted until the gateway call
// succeeds.
func (s *OrderService) PurchaseOrder(ctx context.Context, userID, orderID primitive.ObjectID, shippingAddress, phone, deliverAt string, method models.PaymentMethod, totalPrice float64) (*models.Order, error) {
	if totalPrice <= 0 {
		return nil, apperrors.Validation("total price must be greater than zero")
	}
	if !method.Valid() {
		return nil, apperrors.Validation("invalid payment method %q", method)
	}

	unlock := s.locks.Lock("order:" + orderID.Hex())
	defer unlock()

	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		return nil, apperrors.NotFound("order %s not found", orderID.Hex())
	}

	order.ShippingAddress = shippingAddress
	order.PhoneNumber = phone
	order.DeliveryDate = deliverAt
	order.PaymentMethod = method
	order.TotalPrice = totalPrice
	order.CreatedAt = s.now()

	if method.GatewayBased() {
		order.Status = models.OrderStatusDraft
		order.PayingStatus = models.PayingStatusUnpaid

		payURL, err := s.gateway.CreatePayment(ctx, order.OrderID, int64(totalPrice),
			fmt.Sprintf("Payment for order %s", order.OrderID))
		if err != nil {
			return nil, err
		}
		order.PaymentURL = payURL

		if err := s.orders.Update(ctx, order); err != nil {
			return nil, err
		}
		// Cart clearing waits for the payment confirmation callback.
		return order, nil
	}

	order.Status = models.OrderStatusPending
	order.PayingStatus = models.PayingStatusUnpaid
	s.appendHistory(order, "Order placed, pending processing")

	if err := s.orders.Update(ctx, order); err != nil {
		return nil, err
	}
	if err := s.carts.RemoveItems(ctx, userID, order.ProductIDs()); err != nil {
		return nil, err
	}
	return order, nil
}

// CancelOrder is the user-initiated cancellation path, permitted only before
// stock is reserved. Gateway and bank-transfer orders move into the refund
// sub-lifecycle; cash-on-delivery users get a best-effort notice email.
func (s *OrderService) CancelOrder(ctx context.Context, orderID, userID primitive.ObjectID, reason string) (*models.Order, error) {
	if reason == "" {
		return nil, apperrors.Validation("cancellation reason is required")
	}

	unlock := s.locks.Lock("order:" + orderID.Hex())
	defer unlock()

	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		return nil, apperrors.NotFound("order %s not found", orderID.Hex())
	}
	if order.Status != models.OrderStatusDraft && order.Status != models.OrderStatusPending {
		return nil, apperrors.InvalidState("order in status %s cannot be cancelled by the customer", order.Status)
	}

	order.Status = models.OrderStatusCancelled
	order.CancellationReason = reason
	if order.PaymentMethod == models.PaymentMethodMomo || order.PaymentMethod == models.PaymentMethodBankTransfer {
		// Money was or may have been captured and must be returned.
		order.RefundStatus = models.RefundStatusPending
	}
	s.appendHistory(order, fmt.Sprintf("Order cancelled: %s", reason))

	if err := s.orders.Update(ctx, order); err != nil {
		return nil, err
	}

	if order.PaymentMethod == models.PaymentMethodCOD {
		if user, err := s.users.FindByID(ctx, order.UserID); err != nil {
			s.logger.WithError(err).WithField("order_id", order.ID.Hex()).
				Warn("could not resolve user for cancellation email")
		} else if err := s.notifier.SendCancellationEmail(user.Email, order.ID.Hex(), reason); err != nil {
			s.logger.WithError(err).WithField("order_id", order.ID.Hex()).
				Warn("failed to send cancellation email")
		}
	}
	return order, nil
}

// SubmitRefundBankDetails stores the bank account a refund should go to.
// Only valid while the order is Cancelled with a Pending refund.
func (s *OrderService) SubmitRefundBankDetails(ctx context.Context, orderID, userID primitive.ObjectID, info models.RefundInfo) error {
	if info.BankName == "" || info.AccountNumber == "" || info.AccountName == "" {
		return apperrors.Validation("bank name, account number and account name are required")
	}

	unlock := s.locks.Lock("order:" + orderID.Hex())
	defer unlock()

	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return err
	}
	if order.UserID != userID {
		return apperrors.NotFound("order %s not found", orderID.Hex())
	}
	if order.Status != models.OrderStatusCancelled || order.RefundStatus != models.RefundStatusPending {
		return apperrors.InvalidState("refund details can only be submitted while a refund is pending")
	}

	order.RefundInfo = &info
	return s.orders.Update(ctx, order)
}

// UpdateRefundStatus advances the refund sub-lifecycle of a cancelled, paid
// order. Terminal refund outcomes trigger one notification email; a failed
// send never rolls back the status write. The returned bool reports whether
// a due email was delivered.
func (s *OrderService) UpdateRefundStatus(ctx context.Context, orderID primitive.ObjectID, newStatus models.RefundStatus) (bool, error) {
	if !newStatus.Valid() {
		return false, apperrors.Validation("invalid refund status %q", newStatus)
	}

	unlock := s.locks.Lock("order:" + orderID.Hex())
	defer unlock()

	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return false, err
	}
	if order.Status != models.OrderStatusCancelled || order.PayingStatus != models.PayingStatusPaid {
		return false, apperrors.InvalidState("refund status can only be updated on a cancelled, paid order")
	}

	order.RefundStatus = newStatus
	if err := s.orders.Update(ctx, order); err != nil {
		return false, err
	}

	emailSent := true
	switch newStatus {
	case models.RefundStatusCompleted:
		emailSent = s.sendRefundOutcome(ctx, order, s.notifier.SendRefundSuccessEmail)
	case models.RefundStatusFailed:
		emailSent = s.sendRefundOutcome(ctx, order, s.notifier.SendRefundFailedEmail)
	}
	return emailSent, nil
}

func (s *OrderService) sendRefundOutcome(ctx context.Context, order *models.Order, send func(email, orderID string) error) bool {
	user, err := s.users.FindByID(ctx, order.UserID)
	if err != nil {
		s.logger.WithError(err).WithField("order_id", order.ID.Hex()).
			Warn("could not resolve user for refund outcome email")
		return false
	}
	if err := send(user.Email, order.ID.Hex()); err != nil {
		s.logger.WithError(err).WithField("order_id", order.ID.Hex()).
			Warn("failed to send refund outcome email")
		return false
	}
	return true
}

// UpdatePaymentStatus sets the paying status directly. Payment confirmation
// can race with or precede status transitions, so there is no state gating.
func (s *OrderService) UpdatePaymentStatus(ctx context.Context, orderID primitive.ObjectID, paying models.PayingStatus) (*models.Order, error) {
	if !paying.Valid() {
		return nil, apperrors.Validation("invalid paying status %q", paying)
	}

	unlock := s.locks.Lock("order:" + orderID.Hex())
	defer unlock()

	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	order.PayingStatus = paying
	if paying == models.PayingStatusPaid {
		paidAt := s.now()
		order.PaidAt = &paidAt
	}
	if err := s.orders.Update(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

// HandlePaymentCallback processes the inbound gateway confirmation. The
// gateway echoes the per-attempt order identifier, which carries a
// disambiguating suffix after the last dash.
func (s *OrderService) HandlePaymentCallback(ctx context.Context, gatewayOrderID string, resultCode int) error {
	orderRef := gatewayOrderID
	if i := strings.LastIndex(gatewayOrderID, "-"); i > 0 {
		orderRef = gatewayOrderID[:i]
	}

	found, err := s.orders.FindByOrderID(ctx, orderRef)
	if err != nil {
		return err
	}

	unlock := s.locks.Lock("order:" + found.ID.Hex())
	defer unlock()

	order, err := s.orders.FindByID(ctx, found.ID)
	if err != nil {
		return err
	}

	if resultCode == 0 {
		order.Status = models.OrderStatusPending
		order.PayingStatus = models.PayingStatusPaid
		paidAt := s.now()
		order.PaidAt = &paidAt
		s.appendHistory(order, "Payment confirmed, order pending processing")

		if err := s.orders.Update(ctx, order); err != nil {
			return err
		}
		return s.carts.RemoveItems(ctx, order.UserID, order.ProductIDs())
	}

	order.Status = models.OrderStatusDraft
	order.PayingStatus = models.PayingStatusFailed
	return s.orders.Update(ctx, order)
}

// OrdersForUser lists a user's orders.
func (s *OrderService) OrdersForUser(ctx context.Context, userID primitive.ObjectID) ([]models.Order, error) {
	return s.orders.FindByUser(ctx, userID)
}
