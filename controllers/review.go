package controllers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"go-shopmart/models"
	"go-shopmart/repository"
)

// ReviewController handles product review requests
type ReviewController struct {
	Reviews  repository.ReviewRepository
	Products repository.ProductRepository
	Users    repository.UserRepository
}

// NewReviewController creates a new ReviewController
func NewReviewController(reviews repository.ReviewRepository, products repository.ProductRepository, users repository.UserRepository) *ReviewController {
	return &ReviewController{Reviews: reviews, Products: products, Users: users}
}

// CreateReview adds a review for a product, one per user per product
func (rc *ReviewController) CreateReview(w http.ResponseWriter, r *http.Request) {
	productID, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid product ID", http.StatusBadRequest)
		return
	}

	var req struct {
		Rating  int    `json:"rating"`
		Comment string `json:"comment"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Rating < 1 || req.Rating > 5 {
		http.Error(w, "Rating must be between 1 and 5", http.StatusBadRequest)
		return
	}

	ctx, cancel := requestContext(r)
	defer cancel()

	user, err := currentUser(ctx, r, rc.Users)
	if err != nil {
		writeError(w, err)
		return
	}

	if _, err := rc.Products.FindByID(ctx, productID); err != nil {
		writeError(w, err)
		return
	}

	exists, err := rc.Reviews.ExistsByUserAndProduct(ctx, user.ID, productID)
	if err != nil {
		writeError(w, err)
		return
	}
	if exists {
		http.Error(w, "You have already reviewed this product", http.StatusBadRequest)
		return
	}

	review := models.Review{
		ProductID: productID,
		UserID:    user.ID,
		Rating:    req.Rating,
		Comment:   req.Comment,
		CreatedAt: time.Now(),
	}
	if err := rc.Reviews.Insert(ctx, &review); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, review)
}

// GetProductReviews lists all reviews for a product
func (rc *ReviewController) GetProductReviews(w http.ResponseWriter, r *http.Request) {
	productID, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid product ID", http.StatusBadRequest)
		return
	}

	ctx, cancel := requestContext(r)
	defer cancel()

	reviews, err := rc.Reviews.FindByProduct(ctx, productID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, reviews)
}
