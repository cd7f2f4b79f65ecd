package services

import (
	"context"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"go-shopmart/apperrors"
	"go-shopmart/models"
)

// fakeOrderRepo is an in-memory OrderRepository that stores value copies, so
// un-persisted mutations on loaded orders are not visible to later reads.
type fakeOrderRepo struct {
	mu        sync.Mutex
	orders    map[primitive.ObjectID]models.Order
	updateErr error
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: make(map[primitive.ObjectID]models.Order)}
}

func (r *fakeOrderRepo) Insert(_ context.Context, order *models.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if order.ID.IsZero() {
		order.ID = primitive.NewObjectID()
	}
	r.orders[order.ID] = *order
	return nil
}

func (r *fakeOrderRepo) FindByID(_ context.Context, id primitive.ObjectID) (*models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	order, ok := r.orders[id]
	if !ok {
		return nil, apperrors.NotFound("order %s not found", id.Hex())
	}
	return cloneOrder(order), nil
}

func (r *fakeOrderRepo) FindByOrderID(_ context.Context, orderID string) (*models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, order := range r.orders {
		if order.OrderID == orderID {
			return cloneOrder(order), nil
		}
	}
	return nil, apperrors.NotFound("order %s not found", orderID)
}

func (r *fakeOrderRepo) FindDraftByUser(_ context.Context, userID primitive.ObjectID) (*models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, order := range r.orders {
		if order.UserID == userID && order.Status == models.OrderStatusDraft {
			return cloneOrder(order), nil
		}
	}
	return nil, nil
}

func (r *fakeOrderRepo) FindByUser(_ context.Context, userID primitive.ObjectID) ([]models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Order
	for _, order := range r.orders {
		if order.UserID == userID {
			out = append(out, *cloneOrder(order))
		}
	}
	return out, nil
}

func (r *fakeOrderRepo) Update(_ context.Context, order *models.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.updateErr != nil {
		return r.updateErr
	}
	if _, ok := r.orders[order.ID]; !ok {
		return apperrors.NotFound("order %s not found", order.ID.Hex())
	}
	r.orders[order.ID] = *cloneOrder(*order)
	return nil
}

func (r *fakeOrderRepo) FindRevenueOrders(_ context.Context, from, to time.Time) ([]models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Order
	for _, order := range r.orders {
		if order.PayingStatus != models.PayingStatusPaid ||
			order.Status.IsCancelled() ||
			order.RefundStatus == models.RefundStatusCompleted ||
			order.PaidAt == nil {
			continue
		}
		if order.PaidAt.Before(from) || !order.PaidAt.Before(to) {
			continue
		}
		out = append(out, *cloneOrder(order))
	}
	return out, nil
}

func (r *fakeOrderRepo) All(_ context.Context) ([]models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Order
	for _, order := range r.orders {
		out = append(out, *cloneOrder(order))
	}
	return out, nil
}

func (r *fakeOrderRepo) get(id primitive.ObjectID) models.Order {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.orders[id]
}

func cloneOrder(order models.Order) *models.Order {
	clone := order
	clone.Items = append([]models.OrderItem(nil), order.Items...)
	clone.History = append([]models.HistoryEntry(nil), order.History...)
	if order.RefundInfo != nil {
		info := *order.RefundInfo
		clone.RefundInfo = &info
	}
	if order.PaidAt != nil {
		t := *order.PaidAt
		clone.PaidAt = &t
	}
	if order.DeliveredAt != nil {
		t := *order.DeliveredAt
		clone.DeliveredAt = &t
	}
	return &clone
}

// fakeProductRepo is an in-memory ProductRepository.
type fakeProductRepo struct {
	mu       sync.Mutex
	products map[primitive.ObjectID]models.Product
}

func newFakeProductRepo(products ...models.Product) *fakeProductRepo {
	r := &fakeProductRepo{products: make(map[primitive.ObjectID]models.Product)}
	for _, p := range products {
		r.products[p.ID] = p
	}
	return r
}

func (r *fakeProductRepo) Insert(_ context.Context, product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if product.ID.IsZero() {
		product.ID = primitive.NewObjectID()
	}
	r.products[product.ID] = *product
	return nil
}

func (r *fakeProductRepo) FindByID(_ context.Context, id primitive.ObjectID) (*models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	product, ok := r.products[id]
	if !ok {
		return nil, apperrors.NotFound("product %s not found", id.Hex())
	}
	return &product, nil
}

func (r *fakeProductRepo) FindByIDs(_ context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[primitive.ObjectID]models.Product)
	for _, id := range ids {
		if product, ok := r.products[id]; ok {
			out[id] = product
		}
	}
	return out, nil
}

func (r *fakeProductRepo) List(_ context.Context) ([]models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Product
	for _, product := range r.products {
		out = append(out, product)
	}
	return out, nil
}

func (r *fakeProductRepo) Update(_ context.Context, product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.products[product.ID] = *product
	return nil
}

func (r *fakeProductRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.products, id)
	return nil
}

func (r *fakeProductRepo) IncrementStock(_ context.Context, id primitive.ObjectID, delta int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	product, ok := r.products[id]
	if !ok {
		return apperrors.NotFound("product %s not found", id.Hex())
	}
	product.Stock += delta
	r.products[id] = product
	return nil
}

func (r *fakeProductRepo) stock(id primitive.ObjectID) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.products[id].Stock
}

// fakeUserRepo serves a fixed set of users.
type fakeUserRepo struct {
	users map[primitive.ObjectID]models.User
}

func newFakeUserRepo(users ...models.User) *fakeUserRepo {
	r := &fakeUserRepo{users: make(map[primitive.ObjectID]models.User)}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *fakeUserRepo) Insert(_ context.Context, user *models.User) error {
	r.users[user.ID] = *user
	return nil
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*models.User, error) {
	for _, user := range r.users {
		if user.Email == email {
			u := user
			return &u, nil
		}
	}
	return nil, apperrors.NotFound("user not found")
}

func (r *fakeUserRepo) FindByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, apperrors.NotFound("user not found")
	}
	return &user, nil
}

func (r *fakeUserRepo) EmailExists(_ context.Context, email string) (bool, error) {
	_, err := r.FindByEmail(context.Background(), email)
	return err == nil, nil
}

func (r *fakeUserRepo) MarkVerified(_ context.Context, token string) (bool, error) {
	return false, nil
}

// fakeCartRepo records RemoveItems calls.
type fakeCartRepo struct {
	mu      sync.Mutex
	removed [][]primitive.ObjectID
}

func (r *fakeCartRepo) FindByUser(_ context.Context, _ primitive.ObjectID) (*models.Cart, error) {
	return nil, nil
}

func (r *fakeCartRepo) Insert(_ context.Context, _ *models.Cart) error { return nil }

func (r *fakeCartRepo) ReplaceItems(_ context.Context, _ primitive.ObjectID, _ []models.CartItem) error {
	return nil
}

func (r *fakeCartRepo) RemoveItems(_ context.Context, _ primitive.ObjectID, productIDs []primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.removed = append(r.removed, productIDs)
	return nil
}

func (r *fakeCartRepo) removeCalls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.removed)
}

// fakeNotifier records email sends and can be told to fail.
type fakeNotifier struct {
	mu    sync.Mutex
	sent  []string
	fail  bool
	errOn string
}

func (n *fakeNotifier) record(kind string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, kind)
	if n.fail || n.errOn == kind {
		return errSendFailed
	}
	return nil
}

func (n *fakeNotifier) SendCancellationEmail(_, _, _ string) error {
	return n.record("cancellation")
}

func (n *fakeNotifier) SendRefundRequestEmail(_, _ string) error {
	return n.record("refund-request")
}

func (n *fakeNotifier) SendRefundSuccessEmail(_, _ string) error {
	return n.record("refund-success")
}

func (n *fakeNotifier) SendRefundFailedEmail(_, _ string) error {
	return n.record("refund-failed")
}

func (n *fakeNotifier) calls() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.sent...)
}

// fakeGateway delegates to a func field.
type fakeGateway struct {
	createFunc func(ctx context.Context, orderID string, amount int64, orderInfo string) (string, error)
	calls      int
}

func (g *fakeGateway) CreatePayment(ctx context.Context, orderID string, amount int64, orderInfo string) (string, error) {
	g.calls++
	if g.createFunc != nil {
		return g.createFunc(ctx, orderID, amount, orderInfo)
	}
	return "https://pay.example/" + orderID, nil
}
