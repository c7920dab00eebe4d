// Package client contains the HTTP clients for the external collaborators:
// the Shopify Storefront API (catalog) and the Gemini API (language model).
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/lpj-studios/shop-assistant-go/internal/domain"
	"github.com/lpj-studios/shop-assistant-go/internal/infra/resilience"

	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

var tracer = otel.Tracer("infra/client")

// productsQuery pulls one page of products with everything the composer
// needs: prices, variants with availability, tags and the first image.
const productsQuery = `
  query getProducts($first: Int!) {
    products(first: $first) {
      edges {
        node {
          id
          title
          description
          descriptionHtml
          handle
          productType
          tags
          priceRange {
            minVariantPrice {
              amount
              currencyCode
            }
            maxVariantPrice {
              amount
              currencyCode
            }
          }
          variants(first: 5) {
            edges {
              node {
                id
                title
                price {
                  amount
                  currencyCode
                }
                availableForSale
              }
            }
          }
          images(first: 1) {
            edges {
              node {
                url
                altText
              }
            }
          }
        }
      }
    }
  }
`

// ShopifyClient fetches the product catalog via the Storefront GraphQL API.
type ShopifyClient struct {
	httpClient  *http.Client
	baseURL     string
	storeDomain string
	accessToken string
	apiVersion  string
	pageSize    int
	cb          *gobreaker.CircuitBreaker
	cfg         resilience.Config
}

// NewShopifyClient creates a ShopifyClient for the given store.
func NewShopifyClient(httpClient *http.Client, storeDomain, accessToken, apiVersion string, pageSize int, cb *gobreaker.CircuitBreaker, cfg resilience.Config) *ShopifyClient {
	return &ShopifyClient{
		httpClient:  httpClient,
		baseURL:     "https://" + storeDomain,
		storeDomain: storeDomain,
		accessToken: accessToken,
		apiVersion:  apiVersion,
		pageSize:    pageSize,
		cb:          cb,
		cfg:         cfg,
	}
}

// WithBaseURL overrides the API base URL (tests).
func (c *ShopifyClient) WithBaseURL(url string) *ShopifyClient {
	c.baseURL = url
	return c
}

// graphqlRequest is the Storefront API request envelope.
type graphqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

// productsResponse mirrors the edges/node shape of the GraphQL reply.
type productsResponse struct {
	Data struct {
		Products struct {
			Edges []struct {
				Node productNode `json:"node"`
			} `json:"edges"`
		} `json:"products"`
	} `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors,omitempty"`
}

type productNode struct {
	ID              string   `json:"id"`
	Title           string   `json:"title"`
	Description     string   `json:"description"`
	DescriptionHTML string   `json:"descriptionHtml"`
	Handle          string   `json:"handle"`
	ProductType     string   `json:"productType"`
	Tags            []string `json:"tags"`
	PriceRange      struct {
		MinVariantPrice domain.Money `json:"minVariantPrice"`
		MaxVariantPrice domain.Money `json:"maxVariantPrice"`
	} `json:"priceRange"`
	Variants struct {
		Edges []struct {
			Node struct {
				ID               string       `json:"id"`
				Title            string       `json:"title"`
				Price            domain.Money `json:"price"`
				AvailableForSale bool         `json:"availableForSale"`
			} `json:"node"`
		} `json:"edges"`
	} `json:"variants"`
	Images struct {
		Edges []struct {
			Node struct {
				URL     string `json:"url"`
				AltText string `json:"altText"`
			} `json:"node"`
		} `json:"edges"`
	} `json:"images"`
}

// FetchAll issues one catalog query and returns the normalized product list.
func (c *ShopifyClient) FetchAll(ctx context.Context) ([]domain.Product, error) {
	ctx, span := tracer.Start(ctx, "ShopifyClient.FetchAll")
	defer span.End()
	span.SetAttributes(attribute.String("shopify.store", c.storeDomain))

	var gqlResp productsResponse

	_, err := c.cb.Execute(func() (any, error) {
		innerErr := resilience.RetryWithBackoff(ctx, c.cfg, func() error {
			body, err := json.Marshal(graphqlRequest{
				Query:     productsQuery,
				Variables: map[string]any{"first": c.pageSize},
			})
			if err != nil {
				return fmt.Errorf("marshal products query: %w", err)
			}

			url := fmt.Sprintf("%s/api/%s/graphql.json", c.baseURL, c.apiVersion)
			httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
			if err != nil {
				return fmt.Errorf("create http request: %w", err)
			}
			httpReq.Header.Set("Content-Type", "application/json")
			httpReq.Header.Set("X-Shopify-Storefront-Access-Token", c.accessToken)

			resp, err := c.httpClient.Do(httpReq)
			if err != nil {
				return fmt.Errorf("http call to shopify: %w", err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != http.StatusOK {
				return fmt.Errorf("storefront API returned status %d", resp.StatusCode)
			}

			gqlResp = productsResponse{}
			if err := json.NewDecoder(resp.Body).Decode(&gqlResp); err != nil {
				return fmt.Errorf("decode storefront response: %w", err)
			}
			if len(gqlResp.Errors) > 0 {
				return fmt.Errorf("storefront API error: %s", gqlResp.Errors[0].Message)
			}
			return nil
		})
		if innerErr != nil {
			return nil, innerErr
		}
		return nil, nil
	})

	if err != nil {
		return nil, &domain.ErrExternalService{Service: "shopify", Err: err}
	}

	products := make([]domain.Product, 0, len(gqlResp.Data.Products.Edges))
	for _, edge := range gqlResp.Data.Products.Edges {
		products = append(products, flattenProduct(edge.Node))
	}
	span.SetAttributes(attribute.Int("shopify.products", len(products)))
	return products, nil
}

// flattenProduct converts the GraphQL edges/node shape into the flat
// domain.Product the rest of the service works with.
func flattenProduct(n productNode) domain.Product {
	p := domain.Product{
		ID:              n.ID,
		Title:           n.Title,
		Description:     n.Description,
		DescriptionHTML: n.DescriptionHTML,
		Handle:          n.Handle,
		ProductType:     n.ProductType,
		Tags:            n.Tags,
		PriceRange: domain.PriceRange{
			Min: n.PriceRange.MinVariantPrice,
			Max: n.PriceRange.MaxVariantPrice,
		},
	}
	for _, ve := range n.Variants.Edges {
		p.Variants = append(p.Variants, domain.Variant{
			ID:               ve.Node.ID,
			Title:            ve.Node.Title,
			Price:            ve.Node.Price,
			AvailableForSale: ve.Node.AvailableForSale,
		})
	}
	for _, ie := range n.Images.Edges {
		p.Images = append(p.Images, ie.Node.URL)
	}
	return p
}
