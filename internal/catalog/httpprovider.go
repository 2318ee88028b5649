package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// HTTPProvider fetches products from an upstream catalog service exposing
// GET {base}/products and GET {base}/products/{id}. Any non-success
// response maps to ErrFetch, except a 404 on the detail path which maps to
// ErrNotFound.
type HTTPProvider struct {
	baseURL string
	client  *http.Client
}

// NewHTTPProvider constructs a provider for the given base URL. The
// transport is instrumented for tracing.
func NewHTTPProvider(baseURL string, client *http.Client) *HTTPProvider {
	if client == nil {
		client = &http.Client{
			Timeout:   10 * time.Second,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}
	return &HTTPProvider{baseURL: strings.TrimRight(baseURL, "/"), client: client}
}

type listEnvelope struct {
	Data []Product `json:"data"`
}

type detailEnvelope struct {
	Data Product `json:"data"`
}

// List fetches all products.
func (p *HTTPProvider) List(ctx context.Context) ([]Product, error) {
	var env listEnvelope
	if err := p.getJSON(ctx, p.baseURL+"/products", &env); err != nil {
		return nil, err
	}
	return env.Data, nil
}

// Get fetches one product by identifier.
func (p *HTTPProvider) Get(ctx context.Context, id string) (Product, error) {
	target := p.baseURL + "/products/" + url.PathEscape(id)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return Product{}, fmt.Errorf("build request: %w", err)
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return Product{}, fmt.Errorf("get %s: %v: %w", target, err, ErrFetch)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode == http.StatusNotFound {
		return Product{}, fmt.Errorf("product %q: %w", id, ErrNotFound)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Product{}, fmt.Errorf("get %s: status %d: %w", target, resp.StatusCode, ErrFetch)
	}
	var env detailEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return Product{}, fmt.Errorf("decode product: %v: %w", err, ErrFetch)
	}
	return env.Data, nil
}

func (p *HTTPProvider) getJSON(ctx context.Context, target string, dst any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("get %s: %v: %w", target, err, ErrFetch)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("get %s: status %d: %w", target, resp.StatusCode, ErrFetch)
	}
	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("decode response: %v: %w", err, ErrFetch)
	}
	return nil
}
