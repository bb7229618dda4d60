package addresscheck

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/xlpostcards/fulfillment/internal/domain/model"
)

// Verification is the verification service's verdict on a candidate address.
type Verification struct {
	IsValid    bool
	Correction model.AddressCorrection
}

// Client exposes postal address verification.
type Client interface {
	Verify(ctx context.Context, address model.Address) (*Verification, error)
}

// HTTPClient implements Client via the verification service's form API.
type HTTPClient struct {
	baseURL    *url.URL
	httpClient *http.Client
	logger     *slog.Logger
}

// response mirrors the service's JSON payload. The field named "county"
// actually carries the validated state abbreviation; this is a known upstream
// mislabel, remapped here and nowhere else.
type response struct {
	IsValid  bool   `json:"is_valid"`
	Address1 string `json:"address1"`
	Address2 string `json:"address2"`
	City     string `json:"city"`
	County   string `json:"county"`
	Zipcode  string `json:"zipcode"`
}

// NewHTTPClient creates an HTTP verification client with default timeout.
func NewHTTPClient(baseURL string, logger *slog.Logger) (*HTTPClient, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse address check url: %w", err)
	}
	if !parsed.IsAbs() {
		return nil, fmt.Errorf("address check url must be absolute")
	}
	return &HTTPClient{
		baseURL: parsed,
		logger:  logger,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}, nil
}

// Verify submits the candidate address and returns the service's verdict
// with its normalized form.
func (c *HTTPClient) Verify(ctx context.Context, address model.Address) (*Verification, error) {
	form := url.Values{}
	form.Set("address1", address.AddressLine1)
	form.Set("address2", address.AddressLine2)
	form.Set("city", address.City)
	form.Set("state", address.State)
	form.Set("zipcode", address.Zip)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL.String(), strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		c.logger.Error("address check request failed", slog.Int("status", resp.StatusCode), slog.String("body", string(body)))
		return nil, fmt.Errorf("address check error: %s", resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	var data response
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, fmt.Errorf("decode address check response: %w", err)
	}

	return &Verification{
		IsValid: data.IsValid,
		Correction: model.AddressCorrection{
			AddressLine1: data.Address1,
			AddressLine2: data.Address2,
			City:         data.City,
			State:        data.County, // upstream returns the state in "county"
			Zip:          data.Zipcode,
		},
	}, nil
}
