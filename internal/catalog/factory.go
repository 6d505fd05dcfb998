package catalog

import "go.uber.org/zap"

// Factory wires a Service to a fresh MemStore. The zero value builds an
// unlimited store with no logging and no metrics.
type Factory struct {
	Capacity int
	Log      *zap.Logger
	Metrics  *ServiceMetrics
}

// CreateProductService builds a new store and service on every call. Nothing
// is cached, so two services never share storage.
func (f Factory) CreateProductService() *Service {
	store := NewMemStore(
		WithCapacity(f.Capacity),
		WithStoreLogger(f.Log),
	)
	return NewService(store,
		WithLogger(f.Log),
		WithMetrics(f.Metrics),
	)
}

func NewProductService() *Service {
	return Factory{}.CreateProductService()
}
