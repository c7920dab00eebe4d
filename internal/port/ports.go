// Package port defines the interfaces (ports) for external dependencies.
// Following hexagonal architecture, these ports decouple the domain/service
// layer from concrete implementations.
package port

import (
	"context"

	"github.com/lpj-studios/shop-assistant-go/internal/domain"
)

// CatalogFetcher issues one upstream catalog query and returns the
// normalized product list. Implemented by the Shopify Storefront client.
type CatalogFetcher interface {
	FetchAll(ctx context.Context) ([]domain.Product, error)
}

// ProductSource hands out the current product snapshot. Implemented by the
// catalog cache; callers never see upstream fetch errors unless no data has
// ever been obtained (*domain.ErrCatalogUnavailable).
type ProductSource interface {
	Products(ctx context.Context) ([]domain.Product, error)
	Loaded() bool
}

// ModelCaller sends an assembled prompt to the language model and returns
// the generated text. Capacity errors surface as *domain.ErrModelOverloaded,
// everything else as *domain.ErrExternalService.
type ModelCaller interface {
	Generate(ctx context.Context, prompt string) (*domain.ModelReply, error)
}
