package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"time"

	domainErrors "github.com/xlpostcards/fulfillment/internal/domain/errors"
	"github.com/xlpostcards/fulfillment/internal/domain/model"
)

// Client exposes charge capture against the payment provider.
type Client interface {
	Charge(ctx context.Context, req model.ChargeRequest) (*model.Purchase, error)
}

// HTTPClient implements Client via the provider's HTTP API.
type HTTPClient struct {
	baseURL    *url.URL
	httpClient *http.Client
	logger     *slog.Logger
}

type chargeBody struct {
	TransactionID   string `json:"transaction_id"`
	PaymentIntentID string `json:"payment_intent_id"`
	AmountCents     int    `json:"amount_cents"`
	Email           string `json:"email,omitempty"`
}

// response mirrors the provider's JSON payload.
type response struct {
	Status    string `json:"status"`
	Reference string `json:"reference"`
	Message   string `json:"message"`
}

const (
	statusSucceeded = "succeeded"
	statusCancelled = "cancelled"
	statusDeclined  = "declined"
)

// NewHTTPClient creates a payment client with default timeout.
func NewHTTPClient(baseURL string, logger *slog.Logger) (*HTTPClient, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse payment url: %w", err)
	}
	if !parsed.IsAbs() {
		return nil, fmt.Errorf("payment url must be absolute")
	}
	return &HTTPClient{
		baseURL: parsed,
		logger:  logger,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}, nil
}

// Charge captures funds for one transaction. A cancelled or declined charge
// is reported through the dedicated sentinel errors so callers can tell a
// user decision from a provider outage.
func (c *HTTPClient) Charge(ctx context.Context, req model.ChargeRequest) (*model.Purchase, error) {
	endpoint := *c.baseURL
	endpoint.Path = path.Join(endpoint.Path, "/v1/charges/capture")

	payload, err := json.Marshal(chargeBody{
		TransactionID:   req.TransactionID,
		PaymentIntentID: req.PaymentIntentID,
		AmountCents:     req.AmountCents,
		Email:           req.Email,
	})
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint.String(), bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	switch resp.StatusCode {
	case http.StatusOK:
		var data response
		if err := json.Unmarshal(body, &data); err != nil {
			return nil, fmt.Errorf("decode payment response: %w", err)
		}
		switch data.Status {
		case statusSucceeded:
			return &model.Purchase{TransactionID: req.TransactionID, PaymentReference: data.Reference}, nil
		case statusCancelled:
			return nil, domainErrors.ErrPaymentCancelled
		case statusDeclined:
			return nil, domainErrors.ErrPaymentDeclined
		default:
			return nil, fmt.Errorf("unexpected payment status %q", data.Status)
		}
	case http.StatusPaymentRequired:
		return nil, domainErrors.ErrPaymentDeclined
	default:
		c.logger.Error("payment request failed", slog.Int("status", resp.StatusCode), slog.String("body", string(body)))
		return nil, fmt.Errorf("payment error: %s", resp.Status)
	}
}
