package catalog

import (
	"context"
	"errors"
	"strings"
)

// Service fronts the catalog for the HTTP layer: the product list comes
// from the loader's snapshot, single-product lookups go through the
// provider with an optional Redis cache in between.
type Service struct {
	loader   *Loader
	provider Provider
	cache    *Cache
}

// ServiceConfig groups Service dependencies.
type ServiceConfig struct {
	Loader   *Loader
	Provider Provider
	Cache    *Cache
}

// NewService constructs a Service instance.
func NewService(cfg ServiceConfig) (*Service, error) {
	if cfg.Loader == nil {
		return nil, errors.New("catalog: loader is required")
	}
	if cfg.Provider == nil {
		return nil, errors.New("catalog: provider is required")
	}
	return &Service{loader: cfg.Loader, provider: cfg.Provider, cache: cfg.Cache}, nil
}

// Products returns the loader's current snapshot. No fetch is triggered;
// the list reflects the last activation.
func (s *Service) Products() Snapshot {
	return s.loader.Snapshot()
}

// Product returns a single product by identifier, consulting the cache
// before the provider.
func (s *Service) Product(ctx context.Context, id string) (Product, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Product{}, errors.New("catalog: product id is required")
	}
	key := productCacheKey(id)
	if s.cache != nil {
		var cached Product
		if ok, err := s.cache.GetJSON(ctx, key, &cached); err == nil && ok {
			return cached, nil
		}
	}
	p, err := s.provider.Get(ctx, id)
	if err != nil {
		return Product{}, err
	}
	_ = s.cache.SetJSON(ctx, key, p)
	return p, nil
}

// Reload re-activates the loader, restarting from the loading state. The
// fetch is detached from the caller's cancellation so a request-scoped
// reload keeps running after the response is written.
func (s *Service) Reload(ctx context.Context) {
	s.loader.Load(context.WithoutCancel(ctx))
}
