package shopify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"symptom-quiz-service/internal/domain"
)

// ProductCatalog resolves storefront products via the theme's
// /products/{handle}.js JSON endpoint.
type ProductCatalog struct {
	baseURL string
	httpc   *http.Client
}

func NewProductCatalog(baseURL string) *ProductCatalog {
	return &ProductCatalog{
		baseURL: baseURL,
		httpc:   &http.Client{Timeout: 10 * time.Second},
	}
}

// ProductByHandle returns the product, or (nil, nil) when the handle does
// not exist.
func (c *ProductCatalog) ProductByHandle(ctx context.Context, handle string) (*domain.Product, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/products/"+handle+".js", nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("product request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("product lookup error: %s", resp.Status)
	}

	var payload struct {
		Title         string `json:"title"`
		Handle        string `json:"handle"`
		Description   string `json:"description"`
		FeaturedImage string `json:"featured_image"`
		Variants      []struct {
			ID    int64 `json:"id"`
			Price int64 `json:"price"`
		} `json:"variants"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode product: %w", err)
	}

	product := &domain.Product{
		Title:       payload.Title,
		Handle:      payload.Handle,
		Description: payload.Description,
		ImageURL:    payload.FeaturedImage,
	}
	if len(payload.Variants) > 0 {
		product.VariantID = payload.Variants[0].ID
		product.PriceCents = payload.Variants[0].Price
	}
	return product, nil
}
