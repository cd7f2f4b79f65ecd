// routes/routes.go
package routes

import (
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"go-shopmart/controllers"
	"go-shopmart/middleware"
)

// Controllers bundles everything RegisterRoutes wires up.
type Controllers struct {
	Users     *controllers.UserController
	Products  *controllers.ProductController
	Carts     *controllers.CartController
	Orders    *controllers.OrderController
	Reviews   *controllers.ReviewController
	Analytics *controllers.AnalyticsController
	Events    *controllers.EventController
}

// RegisterRoutes sets up all the routes for the application
func RegisterRoutes(router *mux.Router, c Controllers, metrics *middleware.HTTPMetrics) {
	router.Use(metrics.Middleware)

	// Public routes
	router.HandleFunc("/register", c.Users.Register).Methods("POST")
	router.HandleFunc("/login", c.Users.Login).Methods("POST")
	router.HandleFunc("/verify", c.Users.VerifyEmail).Methods("GET")
	router.Handle("/metrics", promhttp.Handler()).Methods("GET")

	// Product routes
	router.HandleFunc("/products", c.Products.GetProducts).Methods("GET")
	router.HandleFunc("/products/{id}", c.Products.GetProductByID).Methods("GET")
	router.HandleFunc("/products/{id}/reviews", c.Reviews.GetProductReviews).Methods("GET")

	// Payment gateway callback (authenticated by signature, not JWT)
	router.HandleFunc("/payments/momo/ipn", c.Orders.PaymentCallback).Methods("POST")

	// Protected routes
	protected := router.PathPrefix("/").Subrouter()
	protected.Use(middleware.AuthMiddleware)
	protected.HandleFunc("/profile", c.Users.GetProfile).Methods("GET")

	protected.HandleFunc("/cart", c.Carts.AddToCart).Methods("POST")
	protected.HandleFunc("/cart", c.Carts.GetCart).Methods("GET")
	protected.HandleFunc("/cart/{product_id}", c.Carts.RemoveFromCart).Methods("DELETE")

	protected.HandleFunc("/orders", c.Orders.CreateOrder).Methods("POST")
	protected.HandleFunc("/orders", c.Orders.GetOrders).Methods("GET")
	protected.HandleFunc("/orders/{id}/purchase", c.Orders.PurchaseOrder).Methods("POST")
	protected.HandleFunc("/orders/{id}/cancel", c.Orders.CancelOrder).Methods("POST")
	protected.HandleFunc("/orders/{id}/refund-details", c.Orders.SubmitRefundDetails).Methods("POST")

	protected.HandleFunc("/products/{id}/reviews", c.Reviews.CreateReview).Methods("POST")
	protected.HandleFunc("/events", c.Events.TrackEvent).Methods("POST")

	// Admin routes
	admin := router.PathPrefix("/admin").Subrouter()
	admin.Use(middleware.AuthMiddleware)
	admin.Use(middleware.AdminMiddleware)
	admin.HandleFunc("/products", c.Products.CreateProduct).Methods("POST")
	admin.HandleFunc("/products/{id}", c.Products.UpdateProduct).Methods("PUT")
	admin.HandleFunc("/products/{id}", c.Products.DeleteProduct).Methods("DELETE")
	admin.HandleFunc("/orders/{id}/status", c.Orders.UpdateOrderStatus).Methods("PUT")
	admin.HandleFunc("/orders/{id}/refund-status", c.Orders.UpdateRefundStatus).Methods("PUT")
	admin.HandleFunc("/orders/{id}/payment-status", c.Orders.UpdatePaymentStatus).Methods("PUT")
	admin.HandleFunc("/analytics/revenue/monthly", c.Analytics.MonthlyRevenue).Methods("GET")
	admin.HandleFunc("/analytics/revenue/weekly", c.Analytics.WeeklyRevenue).Methods("GET")
	admin.HandleFunc("/analytics/revenue/comparison", c.Analytics.MonthComparison).Methods("GET")
	admin.HandleFunc("/analytics/top-rated", c.Analytics.TopRatedProducts).Methods("GET")
	admin.HandleFunc("/analytics/top-ordered", c.Analytics.TopOrderedProducts).Methods("GET")
}
