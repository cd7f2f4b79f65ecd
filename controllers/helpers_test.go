package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-shopmart/apperrors"
)

func TestWriteErrorMapsStatusCodes(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"validation", apperrors.Validation("missing field"), http.StatusBadRequest},
		{"transition", apperrors.InvalidTransition("Delivered", "Pending"), http.StatusBadRequest},
		{"not found", apperrors.NotFound("order gone"), http.StatusNotFound},
		{"gateway", apperrors.Gateway("momo down", nil), http.StatusBadGateway},
		{"internal", apperrors.Internal("db", nil), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeError(rec, tt.err)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

			var body map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.NotEmpty(t, body["error"])
		})
	}
}

func TestWriteErrorInsufficientStockCarriesShortfalls(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(rec, &apperrors.InsufficientStockError{Shortfalls: []apperrors.Shortfall{
		{ProductID: "p1", ProductName: "Widget", AvailableStock: 1, RequiredQuantity: 3},
		{ProductID: "p2", ProductName: "Gadget", AvailableStock: 0, RequiredQuantity: 2},
	}})

	assert.Equal(t, http.StatusConflict, rec.Code)

	var body struct {
		Error      string                `json:"error"`
		Shortfalls []apperrors.Shortfall `json:"shortfalls"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Shortfalls, 2)
	assert.Equal(t, "Widget", body.Shortfalls[0].ProductName)
	assert.Equal(t, 1, body.Shortfalls[0].AvailableStock)
	assert.Equal(t, 3, body.Shortfalls[0].RequiredQuantity)
}

func TestWriteJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	writeJSON(rec, http.StatusCreated, map[string]string{"message": "ok"})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"message":"ok"}`, rec.Body.String())
}
