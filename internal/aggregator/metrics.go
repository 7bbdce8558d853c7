package aggregator

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	cacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "novafetch_cache_hits_total",
		Help: "Searches answered from the persisted review cache",
	})
	cacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "novafetch_cache_misses_total",
		Help: "Searches that had to fan out to the content providers",
	})
	providerErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "novafetch_provider_errors_total",
		Help: "Provider call failures by provider",
	}, []string{"provider"})
	reviewsPersisted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "novafetch_reviews_persisted_total",
		Help: "Composite reviews written to the store",
	})
)
