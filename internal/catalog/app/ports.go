package app

import (
	"context"

	"github.com/lockin-coffee/storefront/internal/catalog/domain"
)

// ProductRepo is the read-only catalog boundary. There is no write path:
// the catalog is a static, versioned list.
type ProductRepo interface {
	Get(ctx context.Context, id string) (domain.Product, error)
	List(ctx context.Context) ([]domain.Product, error)
	Version() string
}
