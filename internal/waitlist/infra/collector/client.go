// Package collector posts waitlist entries to the external form-collection
// endpoint. The response body is opaque to us; a non-error round trip counts
// as delivered.
package collector

import (
	"context"
	"fmt"
	"time"

	"resty.dev/v3"

	"github.com/lockin-coffee/storefront/internal/waitlist/domain"
)

type Config struct {
	Endpoint string
	Timeout  time.Duration
}

type Client struct {
	http     *resty.Client
	endpoint string
}

func New(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	return &Client{
		http: resty.New().
			SetTimeout(cfg.Timeout).
			SetHeader("Content-Type", "application/json"),
		endpoint: cfg.Endpoint,
	}
}

type payload struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone,omitempty"`
	Source    string `json:"source,omitempty"`
	Product   string `json:"product"`
	Timestamp string `json:"timestamp"`
}

func (c *Client) Send(ctx context.Context, e domain.Entry) error {
	body := payload{
		Name:      e.Name,
		Email:     e.Email,
		Phone:     e.Phone,
		Source:    string(e.Source),
		Product:   e.Product,
		Timestamp: e.Timestamp.Format(time.RFC3339),
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(body).
		Post(c.endpoint)
	if err != nil {
		return err
	}
	if resp.IsError() {
		return fmt.Errorf("collector returned %d", resp.StatusCode())
	}
	return nil
}
