// Package toss talks to the hosted Toss Payments checkout API. The flow only
// consumes the outcome of a request; nothing here verifies capture.
package toss

import (
	"context"
	"log/slog"
	"time"

	"resty.dev/v3"

	"github.com/lockin-coffee/storefront/internal/checkout/domain"
)

type Config struct {
	BaseURL   string
	ClientKey string
	Timeout   time.Duration
}

type Client struct {
	http *resty.Client
	cfg  Config
	log  *slog.Logger
}

func New(cfg Config, log *slog.Logger) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}

	httpClient := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetHeader("Content-Type", "application/json").
		SetAuthToken(cfg.ClientKey)

	return &Client{
		http: httpClient,
		cfg:  cfg,
		log:  log,
	}
}

type paymentBody struct {
	Amount       int64  `json:"amount"`
	OrderID      string `json:"orderId"`
	OrderName    string `json:"orderName"`
	CustomerName string `json:"customerName"`
	SuccessURL   string `json:"successUrl"`
	FailURL      string `json:"failUrl"`
	Method       string `json:"method"`
}

type paymentResult struct {
	Status string `json:"status"`
}

// Request submits one payment attempt and maps the provider response onto
// the flow's outcome set. The user dismissing the hosted window surfaces as
// a cancelled status, not an error.
func (c *Client) Request(ctx context.Context, req domain.PaymentRequest) (domain.PaymentOutcome, error) {
	body := paymentBody{
		Amount:       req.Amount,
		OrderID:      req.OrderID,
		OrderName:    req.OrderName,
		CustomerName: req.CustomerName,
		SuccessURL:   req.SuccessURL,
		FailURL:      req.FailURL,
		Method:       "카드",
	}

	var result paymentResult
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(body).
		SetResult(&result).
		Post("/v1/payments")
	if err != nil {
		return domain.OutcomeFailed, err
	}

	if resp.IsError() {
		c.log.Warn("payment provider rejected request",
			slog.String("order_id", req.OrderID),
			slog.Int("status", resp.StatusCode()))
		return domain.OutcomeFailed, nil
	}

	switch result.Status {
	case "DONE":
		return domain.OutcomeApproved, nil
	case "CANCELED", "ABORTED", "EXPIRED":
		c.log.Info("payment not completed",
			slog.String("order_id", req.OrderID),
			slog.String("status", result.Status))
		return domain.OutcomeCancelled, nil
	default:
		c.log.Warn("unexpected payment status",
			slog.String("order_id", req.OrderID),
			slog.String("status", result.Status))
		return domain.OutcomeFailed, nil
	}
}
