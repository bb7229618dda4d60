package refund

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/xlpostcards/fulfillment/internal/domain/model"
)

// Client files refund cases with the external intake service.
type Client interface {
	File(ctx context.Context, req model.RefundRequest) error
}

// HTTPClient implements Client via the intake's form endpoint.
type HTTPClient struct {
	baseURL    *url.URL
	httpClient *http.Client
	logger     *slog.Logger
}

// NewHTTPClient creates a refund intake client with default timeout.
func NewHTTPClient(baseURL string, logger *slog.Logger) (*HTTPClient, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse refund intake url: %w", err)
	}
	if !parsed.IsAbs() {
		return nil, fmt.Errorf("refund intake url must be absolute")
	}
	return &HTTPClient{
		baseURL: parsed,
		logger:  logger,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}, nil
}

// File submits one refund case. The intake only acknowledges receipt; the
// actual refund is handled out of band, so any 2xx counts as filed.
func (c *HTTPClient) File(ctx context.Context, r model.RefundRequest) error {
	form := url.Values{}
	form.Set("case_id", r.CaseID)
	form.Set("transaction_id", r.TransactionID)
	form.Set("name", r.Contact.Name)
	form.Set("email", r.Contact.Email)
	form.Set("platform", r.Platform)
	form.Set("last_error", r.LastError)
	form.Set("recipient", formatRecipient(r.Recipient))
	form.Set("message", r.Message)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL.String(), strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		body, _ := io.ReadAll(resp.Body)
		c.logger.Error("refund intake request failed",
			slog.String("case_id", r.CaseID),
			slog.Int("status", resp.StatusCode),
			slog.String("body", string(body)),
		)
		return fmt.Errorf("refund intake error: %s", resp.Status)
	}

	c.logger.Info("refund case filed",
		slog.String("case_id", r.CaseID),
		slog.String("transaction_id", r.TransactionID),
	)
	return nil
}

func formatRecipient(a model.Address) string {
	parts := []string{a.Name, a.AddressLine1}
	if a.AddressLine2 != "" {
		parts = append(parts, a.AddressLine2)
	}
	parts = append(parts, fmt.Sprintf("%s, %s %s", a.City, a.State, a.Zip))
	return strings.Join(parts, "\n")
}
