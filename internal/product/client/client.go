// File: internal/product/client/client.go

// Package client is the HTTP client other services use to read the product
// catalog. It speaks the product-service response envelope and collapses
// every "can't sell this" case into apperrors.ErrProductUnavailable.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/Allan-Sanchez/prueba-tecnica-blautech/internal/domain/apperrors"
	"github.com/Allan-Sanchez/prueba-tecnica-blautech/internal/platform/config"
)

// Snapshot is the slice of a product that carts and orders copy at the
// moment of use. Later catalog edits do not rewrite history.
type Snapshot struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	ImageURL    string `json:"imageUrl"`
	PriceCents  int64  `json:"priceCents"`
	Currency    string `json:"currency"`
	IsActive    bool   `json:"isActive"`
}

// Getter is the dependency surface cart and order services consume.
type Getter interface {
	GetProduct(ctx context.Context, id int64) (*Snapshot, error)
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
}

// Client fetches products over HTTP.
type Client struct {
	baseURL string
	http    *http.Client
}

func New(cfg config.ProductsConfig) *Client {
	return &Client{
		baseURL: cfg.BaseURL,
		http:    &http.Client{Timeout: cfg.Timeout},
	}
}

// GetProduct fetches one product by id. A missing or inactive product comes
// back as ErrProductUnavailable; transport failures are returned as-is so
// the caller can tell "gone" from "catalog is down".
func (c *Client) GetProduct(ctx context.Context, id int64) (*Snapshot, error) {
	url := fmt.Sprintf("%s/api/products/%d", c.baseURL, id)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build product request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call product service: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, apperrors.ErrProductUnavailable
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("product service returned status %d", resp.StatusCode)
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("failed to decode product response: %w", err)
	}
	if !env.Success || len(env.Data) == 0 {
		return nil, apperrors.ErrProductUnavailable
	}

	var snap Snapshot
	if err := json.Unmarshal(env.Data, &snap); err != nil {
		return nil, fmt.Errorf("failed to decode product payload: %w", err)
	}
	if !snap.IsActive {
		return nil, apperrors.ErrProductUnavailable
	}
	return &snap, nil
}

var _ Getter = (*Client)(nil)
