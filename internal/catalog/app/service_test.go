package app

import (
	"context"
	"testing"

	"github.com/lockin-coffee/storefront/internal/catalog/domain"
)

type fakeRepo struct {
	products []domain.Product
}

func (f fakeRepo) Get(ctx context.Context, id string) (domain.Product, error) {
	for _, p := range f.products {
		if p.ID == id {
			return p, nil
		}
	}
	return domain.Product{}, ErrNotFound
}

func (f fakeRepo) List(ctx context.Context) ([]domain.Product, error) {
	return f.products, nil
}

func (f fakeRepo) Version() string { return "test" }

func TestGetProduct(t *testing.T) {
	svc := NewService(fakeRepo{products: []domain.Product{
		{ID: "house", Name: "House"},
	}})

	t.Run("blank id -> invalid", func(t *testing.T) {
		_, err := svc.GetProduct(context.Background(), "   ")
		if err != ErrInvalidInput {
			t.Fatalf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("unknown id -> not found", func(t *testing.T) {
		_, err := svc.GetProduct(context.Background(), "nope")
		if err != ErrNotFound {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("known id", func(t *testing.T) {
		p, err := svc.GetProduct(context.Background(), "house")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if p.Name != "House" {
			t.Fatalf("expected House, got %q", p.Name)
		}
	})
}

func TestListPreservesCatalogOrder(t *testing.T) {
	svc := NewService(fakeRepo{products: []domain.Product{
		{ID: "decaf"}, {ID: "house"}, {ID: "vibrant"},
	}})

	got, err := svc.ListProducts(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"decaf", "house", "vibrant"}
	for i, id := range want {
		if got[i].ID != id {
			t.Fatalf("position %d: expected %s, got %s", i, id, got[i].ID)
		}
	}
}
