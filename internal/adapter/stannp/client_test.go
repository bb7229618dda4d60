package stannp

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/xlpostcards/fulfillment/internal/domain/model"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func testImage(t *testing.T, width, height int) []byte {
	t.Helper()
	buf := &bytes.Buffer{}
	if err := png.Encode(buf, image.NewRGBA(image.Rect(0, 0, width, height))); err != nil {
		t.Fatalf("encode test image: %v", err)
	}
	return buf.Bytes()
}

func regularJob(t *testing.T) model.PostcardJob {
	t.Helper()
	return model.PostcardJob{
		FrontImage: testImage(t, 1871, 1271),
		BackImage:  testImage(t, 1871, 1271),
		Recipient: model.Address{
			Name:         "Jane Q Doe",
			AddressLine1: "123 Main St",
			AddressLine2: "Apt 4",
			City:         "Boston",
			State:        "MA",
			Zip:          "02134",
		},
		Size:    model.PostcardSizeRegular,
		Message: "Wish you were here",
	}
}

func TestNewHTTPClientValidation(t *testing.T) {
	if _, err := NewHTTPClient("://bad-url", "key", true, time.Second, testLogger()); err == nil {
		t.Fatal("expected error for invalid url")
	}
	if _, err := NewHTTPClient("/relative", "key", true, time.Second, testLogger()); err == nil {
		t.Fatal("expected error for relative url")
	}
	if _, err := NewHTTPClient("https://api.example.com", "", true, time.Second, testLogger()); err == nil {
		t.Fatal("expected error for empty api key")
	}
}

func TestSubmitSuccess(t *testing.T) {
	var seen map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/postcards/create" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.URL.Query().Get("api_key") != "key-123" {
			t.Errorf("missing api key, query: %s", r.URL.RawQuery)
		}
		if err := r.ParseMultipartForm(32 << 20); err != nil {
			t.Fatalf("parse multipart: %v", err)
		}
		seen = map[string]string{}
		for name, values := range r.MultipartForm.Value {
			seen[name] = values[0]
		}
		if _, ok := r.MultipartForm.File["front"]; !ok {
			t.Error("front image part missing")
		}
		if _, ok := r.MultipartForm.File["back"]; !ok {
			t.Error("back image part missing")
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"data":{"id":31337,"pdf":"https://vendor.example.com/preview.pdf"}}`))
	}))
	defer server.Close()

	client, err := NewHTTPClient(server.URL, "key-123", true, time.Second, testLogger())
	if err != nil {
		t.Fatalf("create client: %v", err)
	}

	receipt, err := client.Submit(context.Background(), regularJob(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if receipt.VendorJobID != "31337" {
		t.Fatalf("unexpected vendor job id %q", receipt.VendorJobID)
	}
	if receipt.PDFPreviewURL != "https://vendor.example.com/preview.pdf" {
		t.Fatalf("unexpected preview url %q", receipt.PDFPreviewURL)
	}

	expected := map[string]string{
		"test":                 "true",
		"size":                 "6x4",
		"recipient[firstname]": "Jane",
		"recipient[lastname]":  "Q Doe",
		"recipient[address1]":  "123 Main St",
		"recipient[address2]":  "Apt 4",
		"recipient[city]":      "Boston",
		"recipient[state]":     "MA",
		"recipient[postcode]":  "02134",
		"recipient[country]":   "US",
		"message":              "Wish you were here",
	}
	for name, want := range expected {
		if got := seen[name]; got != want {
			t.Errorf("field %s: expected %q, got %q", name, want, got)
		}
	}
}

func TestSubmitVendorReportedFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":false,"error":"payment required on account"}`))
	}))
	defer server.Close()

	client, err := NewHTTPClient(server.URL, "key", true, time.Second, testLogger())
	if err != nil {
		t.Fatalf("create client: %v", err)
	}

	_, err = client.Submit(context.Background(), regularJob(t))
	var vendorErr *VendorError
	if !errors.As(err, &vendorErr) {
		t.Fatalf("expected VendorError, got %v", err)
	}
	if vendorErr.Message != "payment required on account" {
		t.Fatalf("raw vendor message not preserved: %q", vendorErr.Message)
	}
}

func TestSubmitNon2xx(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`{"success":false,"error":"upstream print farm offline"}`))
	}))
	defer server.Close()

	client, err := NewHTTPClient(server.URL, "key", true, time.Second, testLogger())
	if err != nil {
		t.Fatalf("create client: %v", err)
	}

	_, err = client.Submit(context.Background(), regularJob(t))
	var vendorErr *VendorError
	if !errors.As(err, &vendorErr) {
		t.Fatalf("expected VendorError, got %v", err)
	}
	if vendorErr.StatusCode != http.StatusBadGateway {
		t.Fatalf("unexpected status %d", vendorErr.StatusCode)
	}
	if vendorErr.Message != "upstream print farm offline" {
		t.Fatalf("unexpected message %q", vendorErr.Message)
	}
}

func TestSubmitRejectsWrongDimensions(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request must reach the vendor for invalid artwork")
	}))
	defer server.Close()

	client, err := NewHTTPClient(server.URL, "key", true, time.Second, testLogger())
	if err != nil {
		t.Fatalf("create client: %v", err)
	}

	job := regularJob(t)
	job.FrontImage = testImage(t, 100, 100)
	if _, err := client.Submit(context.Background(), job); err == nil {
		t.Fatal("expected dimension error")
	}

	job = regularJob(t)
	job.Size = model.PostcardSize("poster")
	if _, err := client.Submit(context.Background(), job); err == nil {
		t.Fatal("expected unsupported size error")
	}
}

func TestSubmitTimeoutSurfacesAsError(t *testing.T) {
	blocked := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-blocked
	}))
	defer server.Close()
	defer close(blocked)

	client, err := NewHTTPClient(server.URL, "key", true, 50*time.Millisecond, testLogger())
	if err != nil {
		t.Fatalf("create client: %v", err)
	}

	if _, err := client.Submit(context.Background(), regularJob(t)); err == nil {
		t.Fatal("expected timeout error")
	}
}

func TestSplitName(t *testing.T) {
	cases := []struct {
		in    string
		first string
		last  string
	}{
		{"Jane Doe", "Jane", "Doe"},
		{"Jane Q Doe", "Jane", "Q Doe"},
		{"Cher", "Cher", ""},
		{"", "", ""},
		{"  Jane   Doe  ", "Jane", "Doe"},
	}
	for _, tc := range cases {
		first, last := splitName(tc.in)
		if first != tc.first || last != tc.last {
			t.Fatalf("splitName(%q) = %q/%q, expected %q/%q", tc.in, first, last, tc.first, tc.last)
		}
	}
}
