package payment

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"go-shopmart/apperrors"
)

// MomoClient calls the momo payment gateway to create redirect-based payments.
type MomoClient struct {
	Endpoint    string
	PartnerCode string
	AccessKey   string
	SecretKey   string
	RedirectURL string
	IPNURL      string

	httpClient *http.Client
	logger     *log.Entry
}

// NewMomoClient builds a gateway client with an explicit request timeout so a
// hanging gateway cannot block a purchase request indefinitely.
func NewMomoClient(endpoint, partnerCode, accessKey, secretKey, redirectURL, ipnURL string) *MomoClient {
	return &MomoClient{
		Endpoint:    endpoint,
		PartnerCode: partnerCode,
		AccessKey:   accessKey,
		SecretKey:   secretKey,
		RedirectURL: redirectURL,
		IPNURL:      ipnURL,
		httpClient:  &http.Client{Timeout: 15 * time.Second},
		logger:      log.WithField("component", "momo-client"),
	}
}

type momoRequest struct {
	PartnerCode string `json:"partnerCode"`
	RequestID   string `json:"requestId"`
	Amount      int64  `json:"amount"`
	OrderID     string `json:"orderId"`
	OrderInfo   string `json:"orderInfo"`
	RedirectURL string `json:"redirectUrl"`
	IPNURL      string `json:"ipnUrl"`
	RequestType string `json:"requestType"`
	ExtraData   string `json:"extraData"`
	Lang        string `json:"lang"`
	Signature   string `json:"signature"`
}

type momoResponse struct {
	ResultCode int    `json:"resultCode"`
	Message    string `json:"message"`
	PayURL     string `json:"payUrl"`
}

const momoRequestType = "captureWallet"

// CreatePayment submits a payment-creation request and returns the redirect
// URL the shopper must visit. The gateway requires every attempt to carry a
// unique orderId, so the order identifier is suffixed with a fresh request ID.
func (c *MomoClient) CreatePayment(ctx context.Context, orderID string, amount int64, orderInfo string) (string, error) {
	requestID := uuid.NewString()
	attemptOrderID := fmt.Sprintf("%s-%s", orderID, requestID[:8])

	req := momoRequest{
		PartnerCode: c.PartnerCode,
		RequestID:   requestID,
		Amount:      amount,
		OrderID:     attemptOrderID,
		OrderInfo:   orderInfo,
		RedirectURL: c.RedirectURL,
		IPNURL:      c.IPNURL,
		RequestType: momoRequestType,
		ExtraData:   "",
		Lang:        "en",
	}
	req.Signature = c.sign(req)

	body, err := json.Marshal(req)
	if err != nil {
		return "", apperrors.Internal("failed to encode gateway request", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint, bytes.NewReader(body))
	if err != nil {
		return "", apperrors.Internal("failed to build gateway request", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", apperrors.Gateway("payment gateway unreachable", err)
	}
	defer resp.Body.Close()

	var result momoResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", apperrors.Gateway("invalid payment gateway response", err)
	}

	if result.ResultCode != 0 {
		c.logger.WithFields(log.Fields{
			"order_id":    orderID,
			"result_code": result.ResultCode,
		}).Warn("payment initiation rejected")
		return "", apperrors.Gateway(
			fmt.Sprintf("payment initiation failed: %s (code %d)", result.Message, result.ResultCode), nil)
	}

	return result.PayURL, nil
}

// sign computes the HMAC-SHA256 signature over the alphabetically-ordered
// key=value concatenation of the request fields, per the gateway contract.
func (c *MomoClient) sign(req momoRequest) string {
	raw := fmt.Sprintf(
		"accessKey=%s&amount=%d&extraData=%s&ipnUrl=%s&orderId=%s&orderInfo=%s&partnerCode=%s&redirectUrl=%s&requestId=%s&requestType=%s",
		c.AccessKey, req.Amount, req.ExtraData, req.IPNURL, req.OrderID,
		req.OrderInfo, req.PartnerCode, req.RedirectURL, req.RequestID, req.RequestType,
	)
	mac := hmac.New(sha256.New, []byte(c.SecretKey))
	mac.Write([]byte(raw))
	return hex.EncodeToString(mac.Sum(nil))
}
