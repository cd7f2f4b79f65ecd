package controllers

import (
	"net/http"

	"go-shopmart/services"
)

// AnalyticsController exposes the admin dashboard aggregations
type AnalyticsController struct {
	Analytics *services.AnalyticsService
}

// NewAnalyticsController creates a new AnalyticsController
func NewAnalyticsController(analytics *services.AnalyticsService) *AnalyticsController {
	return &AnalyticsController{Analytics: analytics}
}

// MonthlyRevenue returns revenue per calendar month of the current year
func (ac *AnalyticsController) MonthlyRevenue(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := requestContext(r)
	defer cancel()

	buckets, err := ac.Analytics.MonthlyRevenue(ctx)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, buckets)
}

// WeeklyRevenue returns revenue per day of the current Monday-Sunday week
func (ac *AnalyticsController) WeeklyRevenue(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := requestContext(r)
	defer cancel()

	buckets, err := ac.Analytics.WeeklyRevenue(ctx)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, buckets)
}

// MonthComparison returns the month-over-month revenue and order comparison
func (ac *AnalyticsController) MonthComparison(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := requestContext(r)
	defer cancel()

	cmp, err := ac.Analytics.MonthOverMonth(ctx)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cmp)
}

// TopRatedProducts returns the five best-reviewed products
func (ac *AnalyticsController) TopRatedProducts(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := requestContext(r)
	defer cancel()

	products, err := ac.Analytics.TopRatedProducts(ctx)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, products)
}

// TopOrderedProducts returns the five most ordered products, optionally by category
func (ac *AnalyticsController) TopOrderedProducts(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := requestContext(r)
	defer cancel()

	products, err := ac.Analytics.TopOrderedProducts(ctx, r.URL.Query().Get("category"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, products)
}
