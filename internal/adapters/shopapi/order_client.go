// Package shopapi drives the shop platform's order API. Invoice creation
// and capture belong to the platform; this adapter only calls them.
package shopapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/commercekit/paymill-bridge/internal/domain/ports"
)

// Config contains the shop platform API connection settings.
type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// OrderClient implements ports.OrderStateMutator over the platform's
// JSON order API.
type OrderClient struct {
	cfg        Config
	httpClient ports.HTTPClient
	logger     ports.Logger
}

// NewOrderClient creates an order client with dependency injection
func NewOrderClient(cfg Config, httpClient ports.HTTPClient, logger ports.Logger) *OrderClient {
	return &OrderClient{
		cfg:        cfg,
		httpClient: httpClient,
		logger:     logger,
	}
}

// NewOrderClientWithDefaults creates an order client with a default HTTP client
func NewOrderClientWithDefaults(cfg Config, logger ports.Logger) *OrderClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &OrderClient{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// CanInvoice reports whether the order is still invoiceable.
func (c *OrderClient) CanInvoice(ctx context.Context, orderID string) (bool, error) {
	var out struct {
		CanInvoice bool `json:"can_invoice"`
	}
	if err := c.do(ctx, http.MethodGet, "/orders/"+orderID+"/invoiceable", nil, &out); err != nil {
		return false, fmt.Errorf("check invoiceable: %w", err)
	}
	return out.CanInvoice, nil
}

// CreateInvoice creates an invoice for the order and returns its id.
func (c *OrderClient) CreateInvoice(ctx context.Context, orderID string) (string, error) {
	var out struct {
		InvoiceID string `json:"invoice_id"`
	}
	if err := c.do(ctx, http.MethodPost, "/orders/"+orderID+"/invoices", nil, &out); err != nil {
		return "", fmt.Errorf("create invoice: %w", err)
	}
	return out.InvoiceID, nil
}

// CaptureInvoice captures payment against a created invoice.
func (c *OrderClient) CaptureInvoice(ctx context.Context, invoiceID string) error {
	if err := c.do(ctx, http.MethodPost, "/invoices/"+invoiceID+"/capture", nil, nil); err != nil {
		return fmt.Errorf("capture invoice: %w", err)
	}
	return nil
}

func (c *OrderClient) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.cfg.BaseURL+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("shop api %s %s: status %d", method, path, resp.StatusCode)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
