package catalog

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// ErrNilProduct is returned when AddProduct is called without a product.
var ErrNilProduct = errors.New("product required")

// Service adds products to a Store and searches them by substring.
type Service struct {
	store   Store
	log     *zap.Logger
	metrics *ServiceMetrics
}

type ServiceOption func(*Service)

func WithLogger(log *zap.Logger) ServiceOption {
	return func(s *Service) {
		if log != nil {
			s.log = log
		}
	}
}

func WithMetrics(m *ServiceMetrics) ServiceOption {
	return func(s *Service) { s.metrics = m }
}

func NewService(store Store, opts ...ServiceOption) *Service {
	s := &Service{
		store: store,
		log:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

// AddProduct stores p and reports whether it was new. A nil p is a caller
// error and never reaches the store.
func (s *Service) AddProduct(ctx context.Context, p *Product) (bool, error) {
	if p == nil {
		s.metrics.observeAdd(resultRejected)
		return false, ErrNilProduct
	}

	added := s.store.Add(ctx, *p)
	if added {
		s.metrics.observeAdd(resultInserted)
	} else {
		s.metrics.observeAdd(resultSkipped)
	}

	s.log.Debug("add product",
		zap.String("name", p.Name),
		zap.Bool("added", added),
	)
	return added, nil
}

// SearchProducts returns the products whose name or description contains
// query. An empty query returns everything. The result is never nil.
func (s *Service) SearchProducts(ctx context.Context, query string) ([]Product, error) {
	all, err := s.store.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("find all products: %w", err)
	}

	if query == "" {
		if all == nil {
			all = []Product{}
		}
		s.metrics.observeSearch(searchAll, len(all))
		return all, nil
	}

	out := make([]Product, 0, len(all))
	for _, p := range all {
		if p.Matches(query) {
			out = append(out, p)
		}
	}

	s.metrics.observeSearch(searchFiltered, len(out))
	s.log.Debug("search products",
		zap.String("query", query),
		zap.Int("total", len(all)),
		zap.Int("matched", len(out)),
	)
	return out, nil
}
