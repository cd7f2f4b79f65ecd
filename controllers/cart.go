package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"go-shopmart/models"
	"go-shopmart/repository"
)

// CartController handles cart-related requests
type CartController struct {
	Carts repository.CartRepository
	Users repository.UserRepository
}

// NewCartController creates a new CartController
func NewCartController(carts repository.CartRepository, users repository.UserRepository) *CartController {
	return &CartController{Carts: carts, Users: users}
}

// AddToCart adds a product to the user's cart
func (cc *CartController) AddToCart(w http.ResponseWriter, r *http.Request) {
	var item models.CartItem
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}
	if item.Quantity <= 0 {
		http.Error(w, "Quantity must be greater than zero", http.StatusBadRequest)
		return
	}

	ctx, cancel := requestContext(r)
	defer cancel()

	user, err := currentUser(ctx, r, cc.Users)
	if err != nil {
		writeError(w, err)
		return
	}

	cart, err := cc.Carts.FindByUser(ctx, user.ID)
	if err != nil {
		writeError(w, err)
		return
	}

	if cart == nil {
		// Create new cart
		cart = &models.Cart{
			UserID: user.ID,
			Items:  []models.CartItem{item},
		}
		if err := cc.Carts.Insert(ctx, cart); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, "Item added to cart")
		return
	}

	// Merge quantity when the product is already in the cart
	updated := false
	for i, existingItem := range cart.Items {
		if existingItem.ProductID == item.ProductID {
			cart.Items[i].Quantity += item.Quantity
			updated = true
			break
		}
	}
	if !updated {
		cart.Items = append(cart.Items, item)
	}

	if err := cc.Carts.ReplaceItems(ctx, cart.ID, cart.Items); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, "Item added to cart")
}

// RemoveFromCart removes a product from the user's cart
func (cc *CartController) RemoveFromCart(w http.ResponseWriter, r *http.Request) {
	params := mux.Vars(r)
	productID, err := primitive.ObjectIDFromHex(params["product_id"])
	if err != nil {
		http.Error(w, "Invalid product ID", http.StatusBadRequest)
		return
	}

	ctx, cancel := requestContext(r)
	defer cancel()

	user, err := currentUser(ctx, r, cc.Users)
	if err != nil {
		writeError(w, err)
		return
	}

	cart, err := cc.Carts.FindByUser(ctx, user.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	if cart == nil {
		http.Error(w, "Cart not found", http.StatusNotFound)
		return
	}

	updatedItems := []models.CartItem{}
	for _, item := range cart.Items {
		if item.ProductID != productID {
			updatedItems = append(updatedItems, item)
		}
	}

	if err := cc.Carts.ReplaceItems(ctx, cart.ID, updatedItems); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, "Item removed from cart")
}

// GetCart retrieves the user's cart
func (cc *CartController) GetCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := requestContext(r)
	defer cancel()

	user, err := currentUser(ctx, r, cc.Users)
	if err != nil {
		writeError(w, err)
		return
	}

	cart, err := cc.Carts.FindByUser(ctx, user.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	if cart == nil {
		http.Error(w, "Cart not found", http.StatusNotFound)
		return
	}

	writeJSON(w, http.StatusOK, cart)
}
