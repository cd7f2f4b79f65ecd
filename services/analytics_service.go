package services

import (
	"context"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"go-shopmart/models"
	"go-shopmart/repository"
)

// MonthRevenue is the revenue bucket of one calendar month.
type MonthRevenue struct {
	Month   time.Month `json:"month"`
	Revenue float64    `json:"revenue"`
}

// DayRevenue is the revenue bucket of one day within the current week.
type DayRevenue struct {
	Day     string  `json:"day"`
	Revenue float64 `json:"revenue"`
}

// MonthComparison compares the current calendar month to the previous one.
type MonthComparison struct {
	CurrentRevenue   float64 `json:"current_revenue"`
	PreviousRevenue  float64 `json:"previous_revenue"`
	RevenueChangePct float64 `json:"revenue_change_pct"`
	CurrentOrders    int     `json:"current_orders"`
	PreviousOrders   int     `json:"previous_orders"`
	OrdersChangePct  float64 `json:"orders_change_pct"`
}

// RatedProduct is a catalog product with its aggregated review stats.
type RatedProduct struct {
	Product       models.Product `json:"product"`
	AverageRating float64        `json:"average_rating"`
	ReviewCount   int            `json:"review_count"`
}

// OrderedProduct is a catalog product with its total ordered quantity.
type OrderedProduct struct {
	Product       models.Product `json:"product"`
	TotalQuantity int            `json:"total_quantity"`
}

const topProductsLimit = 5

// AnalyticsService answers the admin dashboard aggregations. It fetches rows
// through the repositories and buckets them with pure functions, so the
// aggregation logic is independent of the storage engine.
type AnalyticsService struct {
	orders   repository.OrderRepository
	products repository.ProductRepository
	reviews  repository.ReviewRepository

	now func() time.Time
}

// NewAnalyticsService wires an AnalyticsService.
func NewAnalyticsService(orders repository.OrderRepository, products repository.ProductRepository, reviews repository.ReviewRepository) *AnalyticsService {
	return &AnalyticsService{
		orders:   orders,
		products: products,
		reviews:  reviews,
		now:      time.Now,
	}
}

// MonthlyRevenue sums paid, non-cancelled, non-refunded revenue per calendar
// month of the current year. Month boundaries are computed in UTC, so an
// order paid at 23:59:59 UTC on the last day of a month stays in that month.
func (s *AnalyticsService) MonthlyRevenue(ctx context.Context) ([]MonthRevenue, error) {
	year := s.now().UTC().Year()
	from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(1, 0, 0)

	orders, err := s.orders.FindRevenueOrders(ctx, from, to)
	if err != nil {
		return nil, err
	}
	return bucketMonthlyRevenue(orders, year), nil
}

func bucketMonthlyRevenue(orders []models.Order, year int) []MonthRevenue {
	buckets := make([]MonthRevenue, 12)
	for i := range buckets {
		buckets[i].Month = time.Month(i + 1)
	}
	for _, order := range orders {
		if order.PaidAt == nil {
			continue
		}
		paid := order.PaidAt.UTC()
		if paid.Year() != year {
			continue
		}
		buckets[int(paid.Month())-1].Revenue += order.TotalPrice
	}
	return buckets
}

// WeeklyRevenue sums revenue per day of the current Monday-Sunday week. Week
// boundaries are computed in the UTC+7 business timezone.
func (s *AnalyticsService) WeeklyRevenue(ctx context.Context) ([]DayRevenue, error) {
	weekStart := startOfBusinessWeek(s.now())
	from := weekStart.UTC()
	to := weekStart.AddDate(0, 0, 7).UTC()

	orders, err := s.orders.FindRevenueOrders(ctx, from, to)
	if err != nil {
		return nil, err
	}
	return bucketWeeklyRevenue(orders, weekStart), nil
}

// startOfBusinessWeek returns midnight of the Monday of now's week in the
// business timezone.
func startOfBusinessWeek(now time.Time) time.Time {
	local := now.In(businessZone)
	offset := (int(local.Weekday()) + 6) % 7 // Monday=0 ... Sunday=6
	monday := local.AddDate(0, 0, -offset)
	return time.Date(monday.Year(), monday.Month(), monday.Day(), 0, 0, 0, 0, businessZone)
}

func bucketWeeklyRevenue(orders []models.Order, weekStart time.Time) []DayRevenue {
	buckets := make([]DayRevenue, 7)
	for i := range buckets {
		buckets[i].Day = weekStart.AddDate(0, 0, i).Weekday().String()
	}
	weekEnd := weekStart.AddDate(0, 0, 7)
	for _, order := range orders {
		if order.PaidAt == nil {
			continue
		}
		paid := order.PaidAt.In(businessZone)
		if paid.Before(weekStart) || !paid.Before(weekEnd) {
			continue
		}
		day := int(paid.Sub(weekStart).Hours()) / 24
		buckets[day].Revenue += order.TotalPrice
	}
	return buckets
}

// MonthOverMonth compares the current calendar month's revenue and order
// count with the immediately preceding month.
func (s *AnalyticsService) MonthOverMonth(ctx context.Context) (MonthComparison, error) {
	now := s.now().UTC()
	currentFrom := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	previousFrom := currentFrom.AddDate(0, -1, 0)
	currentTo := currentFrom.AddDate(0, 1, 0)

	orders, err := s.orders.FindRevenueOrders(ctx, previousFrom, currentTo)
	if err != nil {
		return MonthComparison{}, err
	}
	return compareMonths(orders, currentFrom), nil
}

func compareMonths(orders []models.Order, currentFrom time.Time) MonthComparison {
	var cmp MonthComparison
	for _, order := range orders {
		if order.PaidAt == nil {
			continue
		}
		paid := order.PaidAt.UTC()
		if !paid.Before(currentFrom) {
			cmp.CurrentRevenue += order.TotalPrice
			cmp.CurrentOrders++
		} else {
			cmp.PreviousRevenue += order.TotalPrice
			cmp.PreviousOrders++
		}
	}
	cmp.RevenueChangePct = percentChange(cmp.CurrentRevenue, cmp.PreviousRevenue)
	cmp.OrdersChangePct = percentChange(float64(cmp.CurrentOrders), float64(cmp.PreviousOrders))
	return cmp
}

// percentChange is 100% when there was nothing in the previous period and
// something in the current one, and 0% when both are zero.
func percentChange(current, previous float64) float64 {
	if previous == 0 {
		if current > 0 {
			return 100
		}
		return 0
	}
	return (current - previous) / previous * 100
}

// TopRatedProducts joins review aggregates against the catalog and returns
// the five best products by average rating, review count breaking ties.
func (s *AnalyticsService) TopRatedProducts(ctx context.Context) ([]RatedProduct, error) {
	reviews, err := s.reviews.All(ctx)
	if err != nil {
		return nil, err
	}
	if len(reviews) == 0 {
		return nil, nil
	}

	type agg struct {
		sum   int
		count int
	}
	byProduct := make(map[primitive.ObjectID]*agg)
	ids := make([]primitive.ObjectID, 0)
	for _, review := range reviews {
		a, ok := byProduct[review.ProductID]
		if !ok {
			a = &agg{}
			byProduct[review.ProductID] = a
			ids = append(ids, review.ProductID)
		}
		a.sum += review.Rating
		a.count++
	}

	products, err := s.products.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	rated := make([]RatedProduct, 0, len(byProduct))
	for id, a := range byProduct {
		product, ok := products[id]
		if !ok {
			// Reviews of a since-deleted product.
			continue
		}
		rated = append(rated, RatedProduct{
			Product:       product,
			AverageRating: float64(a.sum) / float64(a.count),
			ReviewCount:   a.count,
		})
	}
	sort.Slice(rated, func(i, j int) bool {
		if rated[i].AverageRating != rated[j].AverageRating {
			return rated[i].AverageRating > rated[j].AverageRating
		}
		return rated[i].ReviewCount > rated[j].ReviewCount
	})
	if len(rated) > topProductsLimit {
		rated = rated[:topProductsLimit]
	}
	return rated, nil
}

// TopOrderedProducts explodes order line items, sums quantities per product
// and returns the five most ordered, optionally restricted to one category.
func (s *AnalyticsService) TopOrderedProducts(ctx context.Context, category string) ([]OrderedProduct, error) {
	orders, err := s.orders.All(ctx)
	if err != nil {
		return nil, err
	}

	quantities := make(map[primitive.ObjectID]int)
	ids := make([]primitive.ObjectID, 0)
	for _, order := range orders {
		for _, item := range order.Items {
			if _, ok := quantities[item.ProductID]; !ok {
				ids = append(ids, item.ProductID)
			}
			quantities[item.ProductID] += item.Quantity
		}
	}
	if len(ids) == 0 {
		return nil, nil
	}

	products, err := s.products.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	ordered := make([]OrderedProduct, 0, len(quantities))
	for id, qty := range quantities {
		product, ok := products[id]
		if !ok {
			continue
		}
		if category != "" && product.Category != category {
			continue
		}
		ordered = append(ordered, OrderedProduct{Product: product, TotalQuantity: qty})
	}
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].TotalQuantity > ordered[j].TotalQuantity
	})
	if len(ordered) > topProductsLimit {
		ordered = ordered[:topProductsLimit]
	}
	return ordered, nil
}
