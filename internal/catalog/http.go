package catalog

import (
	"context"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"ProductCatalog/pkg/kit"
)

const (
	readyTimeout = 1 * time.Second
	maxBodyBytes = 1 << 16

	sortByPrice = "price"
)

type Server struct {
	Catalog *Service
	Log     *zap.Logger
}

type addResp struct {
	Added bool `json:"added"`
}

func (s *Server) healthz(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func (s *Server) readyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
	defer cancel()

	if err := s.Catalog.Ping(ctx); err != nil {
		if s.Log != nil {
			s.Log.Warn("readyz failed", zap.Error(err))
		}
		kit.WriteError(w, r, http.StatusServiceUnavailable, "not ready", nil)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (s *Server) search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	order := r.URL.Query().Get("sort")
	if order != "" && order != sortByPrice {
		kit.WriteError(w, r, http.StatusBadRequest, "unknown sort", map[string]any{"allowed": []string{sortByPrice}})
		return
	}

	products, err := s.Catalog.SearchProducts(r.Context(), q)
	if err != nil {
		if s.Log != nil {
			s.Log.Error("search products failed", zap.Error(err), zap.String("q", q))
		}
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
		return
	}
	if order == sortByPrice {
		products = SortByPrice(products)
	}
	kit.WriteJSON(w, http.StatusOK, products)
}

func (s *Server) add(w http.ResponseWriter, r *http.Request) {
	var p *Product
	err := kit.DecodeJSON(w, r, maxBodyBytes, &p)
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		kit.WriteError(w, r, http.StatusRequestEntityTooLarge, "body too large", map[string]any{"limit_bytes": tooLarge.Limit})
		return
	}
	if err != nil && !errors.Is(err, kit.ErrEmptyBody) {
		kit.WriteError(w, r, http.StatusBadRequest, "bad json", map[string]any{"cause": err.Error()})
		return
	}

	// An empty body and a JSON null both leave p nil.
	added, err := s.Catalog.AddProduct(r.Context(), p)
	if err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, err.Error(), nil)
		return
	}

	status := http.StatusOK
	if added {
		status = http.StatusCreated
	}
	kit.WriteJSON(w, status, addResp{Added: added})
}
