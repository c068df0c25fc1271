package app

import (
	"context"

	"github.com/lockin-coffee/storefront/internal/checkout/domain"
)

// PaymentClient is the hosted payment provider boundary. The flow does not
// verify completion beyond the returned outcome; there is no server-side
// capture in scope.
type PaymentClient interface {
	Request(ctx context.Context, req domain.PaymentRequest) (domain.PaymentOutcome, error)
}
