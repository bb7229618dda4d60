package refund

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/xlpostcards/fulfillment/internal/domain/model"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func refundReq() model.RefundRequest {
	return model.RefundRequest{
		CaseID:        "case-42",
		TransactionID: "tx-1",
		Contact:       model.RefundContact{Name: "Jane Doe", Email: "jane@example.com"},
		Platform:      "ios",
		LastError:     "vendor rejected submission",
		Recipient: model.Address{
			Name:         "John Recipient",
			AddressLine1: "123 MAIN ST",
			AddressLine2: "APT 4",
			City:         "BOSTON",
			State:        "MA",
			Zip:          "02134",
		},
		Message: "Happy birthday!",
	}
}

func TestNewHTTPClientValidatesURL(t *testing.T) {
	if _, err := NewHTTPClient("://bad-url", testLogger()); err == nil {
		t.Fatal("expected error for invalid url")
	}
	if _, err := NewHTTPClient("/relative", testLogger()); err == nil {
		t.Fatal("expected error for relative url")
	}
}

func TestFileSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Fatalf("parse form: %v", err)
		}
		if r.PostForm.Get("case_id") != "case-42" {
			t.Errorf("unexpected case_id: %q", r.PostForm.Get("case_id"))
		}
		if r.PostForm.Get("transaction_id") != "tx-1" {
			t.Errorf("unexpected transaction_id: %q", r.PostForm.Get("transaction_id"))
		}
		if r.PostForm.Get("email") != "jane@example.com" {
			t.Errorf("unexpected email: %q", r.PostForm.Get("email"))
		}
		recipient := r.PostForm.Get("recipient")
		if !strings.Contains(recipient, "123 MAIN ST") || !strings.Contains(recipient, "BOSTON, MA 02134") {
			t.Errorf("unexpected recipient block: %q", recipient)
		}
		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	client, err := NewHTTPClient(server.URL, testLogger())
	if err != nil {
		t.Fatalf("create client: %v", err)
	}

	if err := client.File(context.Background(), refundReq()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestFileOmitsEmptyAddressLine2(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Fatalf("parse form: %v", err)
		}
		recipient := r.PostForm.Get("recipient")
		if strings.Contains(recipient, "\n\n") {
			t.Errorf("blank line in recipient block: %q", recipient)
		}
	}))
	defer server.Close()

	client, _ := NewHTTPClient(server.URL, testLogger())

	req := refundReq()
	req.Recipient.AddressLine2 = ""
	if err := client.File(context.Background(), req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestFileUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client, _ := NewHTTPClient(server.URL, testLogger())
	if err := client.File(context.Background(), refundReq()); err == nil {
		t.Fatal("expected error")
	}
}
