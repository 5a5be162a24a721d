package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"posdash/internal/domain"
)

// Client talks to the inventory backend REST API. One instance is shared by
// the catalog, transaction and business-settings calls; all requests carry
// the caller's context.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// ListProducts fetches the full current catalog.
func (c *Client) ListProducts(ctx context.Context) ([]domain.Product, error) {
	var products []domain.Product
	if err := c.getJSON(ctx, "/products", &products); err != nil {
		return nil, err
	}
	return products, nil
}

// GetSettings fetches the business settings, including the tax rate.
func (c *Client) GetSettings(ctx context.Context) (*domain.Business, error) {
	var b domain.Business
	if err := c.getJSON(ctx, "/business", &b); err != nil {
		return nil, err
	}
	return &b, nil
}

// CreateTransaction submits the sale as a single atomic unit. A 409 from
// the backend means a server-observed stock conflict and surfaces as
// domain.ErrInsufficientStock; anything else non-2xx is a generic failure.
func (c *Client) CreateTransaction(ctx context.Context, sale domain.SaleRequest) ([]domain.SalesTransaction, error) {
	body, err := json.Marshal(sale)
	if err != nil {
		return nil, fmt.Errorf("marshal sale request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/transactions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if sale.IdempotencyKey != "" {
		req.Header.Set("Idempotency-Key", sale.IdempotencyKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call transaction service: %w", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated:
		var lines []domain.SalesTransaction
		if err := json.Unmarshal(payload, &lines); err != nil {
			return nil, fmt.Errorf("unmarshal transaction response: %w", err)
		}
		return lines, nil
	case http.StatusConflict:
		return nil, fmt.Errorf("sale declined: %w", domain.ErrInsufficientStock)
	default:
		return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(payload))
	}
}

// ListTransactions fetches the recorded sales history, newest first.
func (c *Client) ListTransactions(ctx context.Context) ([]domain.SalesTransaction, error) {
	var history []domain.SalesTransaction
	if err := c.getJSON(ctx, "/transactions", &history); err != nil {
		return nil, err
	}
	return history, nil
}

func (c *Client) getJSON(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("call backend: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return domain.ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(payload))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("unmarshal %s response: %w", path, err)
	}
	return nil
}
