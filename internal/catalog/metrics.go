package catalog

import "github.com/prometheus/client_golang/prometheus"

const (
	resultInserted = "inserted"
	resultSkipped  = "not_inserted"
	resultRejected = "rejected"

	searchAll      = "all"
	searchFiltered = "filtered"
)

// ServiceMetrics holds the catalog's domain counters. A nil *ServiceMetrics
// records nothing.
type ServiceMetrics struct {
	Added         *prometheus.CounterVec
	Searches      *prometheus.CounterVec
	SearchResults prometheus.Histogram
}

func NewServiceMetrics(reg prometheus.Registerer) *ServiceMetrics {
	m := &ServiceMetrics{
		Added: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "catalog_products_added_total",
				Help: "Add attempts by outcome",
			},
			[]string{"result"},
		),
		Searches: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "catalog_searches_total",
				Help: "Searches by kind",
			},
			[]string{"kind"},
		),
		SearchResults: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "catalog_search_results",
				Help:    "Number of products returned per search",
				Buckets: prometheus.ExponentialBuckets(1, 4, 6),
			},
		),
	}

	reg.MustRegister(m.Added, m.Searches, m.SearchResults)
	return m
}

func (m *ServiceMetrics) observeAdd(result string) {
	if m == nil {
		return
	}
	m.Added.WithLabelValues(result).Inc()
}

func (m *ServiceMetrics) observeSearch(kind string, n int) {
	if m == nil {
		return
	}
	m.Searches.WithLabelValues(kind).Inc()
	m.SearchResults.Observe(float64(n))
}
