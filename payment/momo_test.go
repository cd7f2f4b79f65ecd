package payment

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-shopmart/apperrors"
)

func testClient(endpoint string) *MomoClient {
	return NewMomoClient(endpoint, "PARTNER", "access-key", "secret-key",
		"https://shop.example/payment/return", "https://shop.example/payments/momo/ipn")
}

func expectedSignature(secretKey string, req momoRequest) string {
	raw := fmt.Sprintf(
		"accessKey=access-key&amount=%d&extraData=%s&ipnUrl=%s&orderId=%s&orderInfo=%s&partnerCode=%s&redirectUrl=%s&requestId=%s&requestType=%s",
		req.Amount, req.ExtraData, req.IPNURL, req.OrderID,
		req.OrderInfo, req.PartnerCode, req.RedirectURL, req.RequestID, req.RequestType,
	)
	mac := hmac.New(sha256.New, []byte(secretKey))
	mac.Write([]byte(raw))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestCreatePaymentSignsAndReturnsPayURL(t *testing.T) {
	var received momoRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		json.NewEncoder(w).Encode(momoResponse{ResultCode: 0, PayURL: "https://momo.example/pay/123"})
	}))
	defer server.Close()

	client := testClient(server.URL)
	payURL, err := client.CreatePayment(context.Background(), "order-42", 150000, "Payment for order order-42")
	require.NoError(t, err)
	assert.Equal(t, "https://momo.example/pay/123", payURL)

	assert.Equal(t, "PARTNER", received.PartnerCode)
	assert.Equal(t, int64(150000), received.Amount)
	assert.Equal(t, "captureWallet", received.RequestType)
	assert.Equal(t, expectedSignature("secret-key", received), received.Signature)
}

func TestCreatePaymentAttemptOrderIDIsUnique(t *testing.T) {
	var orderIDs []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req momoRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		orderIDs = append(orderIDs, req.OrderID)
		json.NewEncoder(w).Encode(momoResponse{ResultCode: 0, PayURL: "https://momo.example/pay"})
	}))
	defer server.Close()

	client := testClient(server.URL)
	ctx := context.Background()
	_, err := client.CreatePayment(ctx, "order-42", 1000, "retry 1")
	require.NoError(t, err)
	_, err = client.CreatePayment(ctx, "order-42", 1000, "retry 2")
	require.NoError(t, err)

	require.Len(t, orderIDs, 2)
	// Each attempt carries the order reference plus a fresh suffix.
	assert.True(t, strings.HasPrefix(orderIDs[0], "order-42-"))
	assert.True(t, strings.HasPrefix(orderIDs[1], "order-42-"))
	assert.NotEqual(t, orderIDs[0], orderIDs[1])
}

func TestCreatePaymentRejection(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(momoResponse{ResultCode: 1006, Message: "transaction denied"})
	}))
	defer server.Close()

	client := testClient(server.URL)
	_, err := client.CreatePayment(context.Background(), "order-42", 1000, "info")
	require.Error(t, err)
	assert.Equal(t, apperrors.KindGateway, apperrors.KindOf(err))
	assert.Contains(t, err.Error(), "transaction denied")
}

func TestCreatePaymentUnreachableGateway(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	server.Close() // connection refused from here on

	client := testClient(server.URL)
	_, err := client.CreatePayment(context.Background(), "order-42", 1000, "info")
	require.Error(t, err)
	assert.Equal(t, apperrors.KindGateway, apperrors.KindOf(err))
}

func TestCreatePaymentMalformedResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer server.Close()

	client := testClient(server.URL)
	_, err := client.CreatePayment(context.Background(), "order-42", 1000, "info")
	require.Error(t, err)
	assert.Equal(t, apperrors.KindGateway, apperrors.KindOf(err))
}
