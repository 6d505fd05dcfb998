package catalog

import (
	"context"
	"sort"
	"sync"

	"go.uber.org/zap"
)

type MemStore struct {
	mu       sync.RWMutex
	m        map[Product]struct{}
	capacity int
	log      *zap.Logger
}

type MemStoreOption func(*MemStore)

// WithCapacity caps the number of distinct products. Zero or less means no cap.
func WithCapacity(n int) MemStoreOption {
	return func(s *MemStore) { s.capacity = n }
}

func WithStoreLogger(log *zap.Logger) MemStoreOption {
	return func(s *MemStore) {
		if log != nil {
			s.log = log
		}
	}
}

func NewMemStore(opts ...MemStoreOption) *MemStore {
	s := &MemStore{
		m:   map[Product]struct{}{},
		log: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *MemStore) Ping(ctx context.Context) error { return nil }

func (s *MemStore) Add(ctx context.Context, p Product) bool {
	inserted, err := s.insert(p)
	if err != nil {
		s.log.Warn("product not stored",
			zap.Error(err),
			zap.String("name", p.Name),
			zap.Int("capacity", s.capacity),
		)
		return false
	}
	return inserted
}

func (s *MemStore) insert(p Product) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.m[p]; ok {
		return false, nil
	}
	if s.capacity > 0 && len(s.m) >= s.capacity {
		return false, ErrStoreFull
	}

	s.m[p] = struct{}{}
	return true, nil
}

func (s *MemStore) FindAll(ctx context.Context) ([]Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Product, 0, len(s.m))
	for p := range s.m {
		out = append(out, p)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].less(out[j]) })
	return out, nil
}

func (s *MemStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.m)
}
