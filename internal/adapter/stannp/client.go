package stannp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"strings"
	"time"

	_ "image/jpeg"
	_ "image/png"

	"github.com/xlpostcards/fulfillment/internal/domain/model"
)

// VendorError carries the vendor's raw response for diagnostics and refund
// correspondence.
type VendorError struct {
	StatusCode int
	Message    string
}

func (e *VendorError) Error() string {
	return fmt.Sprintf("vendor rejected submission (status %d): %s", e.StatusCode, e.Message)
}

// sizeSpec is the vendor-facing size code and the mandated artwork pixel
// dimensions (300dpi with bleed).
type sizeSpec struct {
	code   string
	width  int
	height int
}

var sizeSpecs = map[model.PostcardSize]sizeSpec{
	model.PostcardSizeRegular: {code: "6x4", width: 1871, height: 1271},
	model.PostcardSizeXL:      {code: "9x6", width: 2771, height: 1871},
}

// Client exposes print-and-mail submission.
type Client interface {
	Submit(ctx context.Context, job model.PostcardJob) (*model.VendorReceipt, error)
}

// HTTPClient implements Client via the vendor's HTTP API. It performs no
// retries; retry policy belongs to the orchestrator.
type HTTPClient struct {
	baseURL    *url.URL
	apiKey     string
	testMode   bool
	httpClient *http.Client
	logger     *slog.Logger
}

// response mirrors the vendor's JSON payload.
type response struct {
	Success bool `json:"success"`
	Data    struct {
		ID  json.Number `json:"id"`
		PDF string      `json:"pdf"`
	} `json:"data"`
	Error string `json:"error"`
}

// NewHTTPClient creates the vendor client with a bounded submission timeout.
func NewHTTPClient(baseURL, apiKey string, testMode bool, timeout time.Duration, logger *slog.Logger) (*HTTPClient, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse stannp url: %w", err)
	}
	if !parsed.IsAbs() {
		return nil, fmt.Errorf("stannp url must be absolute")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("stannp api key must not be empty")
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &HTTPClient{
		baseURL:  parsed,
		apiKey:   apiKey,
		testMode: testMode,
		logger:   logger,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

// Submit sends one postcard job to the vendor.
func (c *HTTPClient) Submit(ctx context.Context, job model.PostcardJob) (*model.VendorReceipt, error) {
	spec, ok := sizeSpecs[job.Size]
	if !ok {
		return nil, fmt.Errorf("unsupported postcard size %q", job.Size)
	}
	if err := checkDimensions("front", job.FrontImage, spec); err != nil {
		return nil, err
	}
	if err := checkDimensions("back", job.BackImage, spec); err != nil {
		return nil, err
	}

	body, contentType, err := c.encodeJob(job, spec)
	if err != nil {
		return nil, fmt.Errorf("encode submission: %w", err)
	}

	endpoint := *c.baseURL
	endpoint.Path = path.Join(endpoint.Path, "/api/v1/postcards/create")
	query := endpoint.Query()
	query.Set("api_key", c.apiKey)
	endpoint.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint.String(), body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		c.logger.Error("stannp submission failed",
			slog.Int("status", resp.StatusCode),
			slog.String("body", string(raw)),
		)
		return nil, &VendorError{StatusCode: resp.StatusCode, Message: vendorMessage(raw)}
	}

	var data response
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("decode stannp response: %w", err)
	}
	if !data.Success {
		c.logger.Error("stannp reported failure", slog.String("error", data.Error))
		return nil, &VendorError{StatusCode: resp.StatusCode, Message: data.Error}
	}

	return &model.VendorReceipt{
		VendorJobID:   data.Data.ID.String(),
		PDFPreviewURL: data.Data.PDF,
	}, nil
}

func (c *HTTPClient) encodeJob(job model.PostcardJob, spec sizeSpec) (*bytes.Buffer, string, error) {
	buf := &bytes.Buffer{}
	writer := multipart.NewWriter(buf)

	firstname, lastname := splitName(job.Recipient.Name)
	fields := []struct {
		name  string
		value string
	}{
		{"test", strconv.FormatBool(c.testMode)},
		{"size", spec.code},
		{"message", job.Message},
		{"recipient[firstname]", firstname},
		{"recipient[lastname]", lastname},
		{"recipient[address1]", job.Recipient.AddressLine1},
		{"recipient[city]", job.Recipient.City},
		{"recipient[state]", job.Recipient.State},
		{"recipient[postcode]", job.Recipient.Zip},
		{"recipient[country]", "US"},
	}
	if job.Recipient.AddressLine2 != "" {
		fields = append(fields, struct {
			name  string
			value string
		}{"recipient[address2]", job.Recipient.AddressLine2})
	}
	for _, f := range fields {
		if err := writer.WriteField(f.name, f.value); err != nil {
			return nil, "", err
		}
	}

	for _, part := range []struct {
		name  string
		image []byte
	}{
		{"front", job.FrontImage},
		{"back", job.BackImage},
	} {
		fw, err := writer.CreateFormFile(part.name, part.name+".png")
		if err != nil {
			return nil, "", err
		}
		if _, err := fw.Write(part.image); err != nil {
			return nil, "", err
		}
	}

	if err := writer.Close(); err != nil {
		return nil, "", err
	}
	return buf, writer.FormDataContentType(), nil
}

func checkDimensions(side string, data []byte, spec sizeSpec) error {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("decode %s image: %w", side, err)
	}
	if cfg.Width != spec.width || cfg.Height != spec.height {
		return fmt.Errorf("%s image is %dx%d, vendor requires %dx%d for size %s",
			side, cfg.Width, cfg.Height, spec.width, spec.height, spec.code)
	}
	return nil
}

// splitName divides a free-form recipient name into the vendor's
// firstname/lastname fields. A single token goes into firstname.
func splitName(name string) (string, string) {
	parts := strings.Fields(name)
	if len(parts) == 0 {
		return "", ""
	}
	if len(parts) == 1 {
		return parts[0], ""
	}
	return parts[0], strings.Join(parts[1:], " ")
}

func vendorMessage(raw []byte) string {
	var data response
	if err := json.Unmarshal(raw, &data); err == nil && data.Error != "" {
		return data.Error
	}
	return string(raw)
}
