package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"go-shopmart/apperrors"
	"go-shopmart/middleware"
	"go-shopmart/models"
	"go-shopmart/repository"
)

const requestTimeout = 10 * time.Second

func requestContext(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), requestTimeout)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

// writeError maps an application error onto the HTTP response. Insufficient
// stock responses carry the full shortfall list.
func writeError(w http.ResponseWriter, err error) {
	status := apperrors.HTTPStatus(err)

	var ise *apperrors.InsufficientStockError
	if errors.As(err, &ise) {
		writeJSON(w, status, map[string]interface{}{
			"error":      ise.Error(),
			"shortfalls": ise.Shortfalls,
		})
		return
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

// currentUser resolves the authenticated user from the request claims.
func currentUser(ctx context.Context, r *http.Request, users repository.UserRepository) (*models.User, error) {
	claims, ok := middleware.ClaimsFrom(r)
	if !ok {
		return nil, apperrors.Validation("missing authentication claims")
	}
	return users.FindByEmail(ctx, claims.Email)
}
