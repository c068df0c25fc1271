// Package static serves the product catalog from an embedded YAML file.
// The catalog is the storefront's only source of truth for price and display
// metadata; it is versioned and has no write path.
package static

import (
	"context"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/lockin-coffee/storefront/internal/catalog/app"
	"github.com/lockin-coffee/storefront/internal/catalog/domain"

	_ "embed"
)

//go:embed catalog.yaml
var catalogYAML []byte

type productEntry struct {
	ID            string   `yaml:"id"`
	Name          string   `yaml:"name"`
	NameKR        string   `yaml:"name_kr"`
	Flavor        string   `yaml:"flavor"`
	Price         int64    `yaml:"price"`
	OriginalPrice int64    `yaml:"original_price"`
	TastingNotes  []string `yaml:"tasting_notes"`
	Description   string   `yaml:"description"`
	DescriptionKR string   `yaml:"description_kr"`
	Color         string   `yaml:"color"`
	Badge         string   `yaml:"badge"`
	Kit           bool     `yaml:"kit"`
	Includes      []string `yaml:"includes"`
}

type catalogFile struct {
	Version  string         `yaml:"version"`
	Products []productEntry `yaml:"products"`
}

type Repo struct {
	version string
	order   []string
	byID    map[string]domain.Product
}

// NewRepo parses and validates the embedded catalog. A broken catalog is a
// build artifact problem, not a runtime condition, so errors here are fatal
// for the caller.
func NewRepo() (*Repo, error) {
	return parse(catalogYAML)
}

func parse(raw []byte) (*Repo, error) {
	var file catalogFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if file.Version == "" {
		return nil, fmt.Errorf("catalog has no version")
	}
	if len(file.Products) == 0 {
		return nil, fmt.Errorf("catalog has no products")
	}

	r := &Repo{
		version: file.Version,
		order:   make([]string, 0, len(file.Products)),
		byID:    make(map[string]domain.Product, len(file.Products)),
	}

	for i, e := range file.Products {
		if e.ID == "" || e.Name == "" {
			return nil, fmt.Errorf("product %d: id and name are required", i)
		}
		if _, dup := r.byID[e.ID]; dup {
			return nil, fmt.Errorf("product %q: duplicate id", e.ID)
		}
		if e.Price < 0 {
			return nil, fmt.Errorf("product %q: negative price %d", e.ID, e.Price)
		}
		if e.Kit && len(e.Includes) == 0 {
			return nil, fmt.Errorf("product %q: kit without includes", e.ID)
		}

		r.order = append(r.order, e.ID)
		r.byID[e.ID] = domain.Product{
			ID:     e.ID,
			Name:   e.Name,
			NameKR: e.NameKR,
			Flavor: e.Flavor,
			Price: domain.Money{
				Currency: domain.Currency,
				Amount:   e.Price,
			},
			OriginalPrice: e.OriginalPrice,
			TastingNotes:  e.TastingNotes,
			Description:   e.Description,
			DescriptionKR: e.DescriptionKR,
			Color:         e.Color,
			Badge:         e.Badge,
			IsKit:         e.Kit,
			Includes:      e.Includes,
		}
	}

	return r, nil
}

func (r *Repo) Get(ctx context.Context, id string) (domain.Product, error) {
	p, ok := r.byID[id]
	if !ok {
		return domain.Product{}, app.ErrNotFound
	}
	return p, nil
}

func (r *Repo) List(ctx context.Context) ([]domain.Product, error) {
	out := make([]domain.Product, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.byID[id])
	}
	return out, nil
}

func (r *Repo) Version() string {
	return r.version
}
