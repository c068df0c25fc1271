package toss

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lockin-coffee/storefront/internal/checkout/domain"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func request() domain.PaymentRequest {
	return domain.PaymentRequest{
		Amount:       111000,
		OrderID:      "LOCKIN_1756442000000_a1b2c3d4e",
		OrderName:    "Signature 외 1건",
		CustomerName: "Kim",
		SuccessURL:   "https://lockin.coffee/checkout?success=true",
		FailURL:      "https://lockin.coffee/checkout?fail=true",
	}
}

func TestRequestApproved(t *testing.T) {
	var captured struct {
		method, path, auth string
		body               paymentBody
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured.method = r.Method
		captured.path = r.URL.Path
		captured.auth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured.body))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"DONE"}`))
	}))
	defer srv.Close()

	c := New(Config{BaseURL: srv.URL, ClientKey: "test_ck_key"}, discard())
	outcome, err := c.Request(context.Background(), request())

	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeApproved, outcome)

	assert.Equal(t, http.MethodPost, captured.method)
	assert.Equal(t, "/v1/payments", captured.path)
	assert.Equal(t, "Bearer test_ck_key", captured.auth)
	assert.Equal(t, int64(111000), captured.body.Amount)
	assert.Equal(t, "LOCKIN_1756442000000_a1b2c3d4e", captured.body.OrderID)
	assert.Equal(t, "카드", captured.body.Method)
}

func TestRequestDismissedWindow(t *testing.T) {
	for _, providerStatus := range []string{"CANCELED", "ABORTED", "EXPIRED"} {
		t.Run(providerStatus, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(`{"status":"` + providerStatus + `"}`))
			}))
			defer srv.Close()

			c := New(Config{BaseURL: srv.URL, ClientKey: "test_ck_key"}, discard())
			outcome, err := c.Request(context.Background(), request())

			require.NoError(t, err)
			assert.Equal(t, domain.OutcomeCancelled, outcome)
		})
	}
}

func TestRequestProviderRejection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"code":"INVALID_REQUEST"}`))
	}))
	defer srv.Close()

	c := New(Config{BaseURL: srv.URL, ClientKey: "test_ck_key"}, discard())
	outcome, err := c.Request(context.Background(), request())

	// Rejection is an outcome, not an error.
	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeFailed, outcome)
}

func TestRequestUnexpectedStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"IN_PROGRESS"}`))
	}))
	defer srv.Close()

	c := New(Config{BaseURL: srv.URL, ClientKey: "test_ck_key"}, discard())
	outcome, err := c.Request(context.Background(), request())

	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeFailed, outcome)
}

func TestRequestTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	c := New(Config{BaseURL: srv.URL, ClientKey: "test_ck_key"}, discard())
	outcome, err := c.Request(context.Background(), request())

	require.Error(t, err)
	assert.Equal(t, domain.OutcomeFailed, outcome)
}
