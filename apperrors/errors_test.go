package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"validation", Validation("bad input"), KindValidation},
		{"not found", NotFound("no such order"), KindNotFound},
		{"invalid transition", InvalidTransition("Pending", "Delivered"), KindInvalidTransition},
		{"invalid state", InvalidState("not cancellable"), KindInvalidState},
		{"gateway", Gateway("momo down", errors.New("timeout")), KindGateway},
		{"internal", Internal("oops", errors.New("db")), KindInternal},
		{"insufficient stock", &InsufficientStockError{}, KindInsufficientStock},
		{"untagged", errors.New("plain"), KindInternal},
		{"wrapped", fmt.Errorf("context: %w", NotFound("gone")), KindNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.err))
		})
	}
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{Validation("bad"), http.StatusBadRequest},
		{InvalidTransition("Draft", "Delivered"), http.StatusBadRequest},
		{InvalidState("no"), http.StatusBadRequest},
		{NotFound("gone"), http.StatusNotFound},
		{&InsufficientStockError{Shortfalls: []Shortfall{{}}}, http.StatusConflict},
		{Gateway("down", nil), http.StatusBadGateway},
		{Internal("oops", nil), http.StatusInternalServerError},
		{errors.New("plain"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, HTTPStatus(tt.err), "err=%v", tt.err)
	}
}

func TestInvalidTransitionMessage(t *testing.T) {
	err := InvalidTransition("Delivered", "Pending")
	assert.EqualError(t, err, "cannot transition order from Delivered to Pending")
}

func TestErrorUnwrap(t *testing.T) {
	cause := errors.New("connection reset")
	err := Gateway("gateway call failed", cause)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "connection reset")
}

func TestInsufficientStockErrorMessage(t *testing.T) {
	err := &InsufficientStockError{Shortfalls: []Shortfall{
		{ProductID: "a", AvailableStock: 1, RequiredQuantity: 3},
		{ProductID: "b", AvailableStock: 0, RequiredQuantity: 2},
	}}
	assert.EqualError(t, err, "insufficient stock for 2 product(s)")
}
