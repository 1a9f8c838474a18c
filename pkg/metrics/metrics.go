// Package metrics exposes the catalog's performance counters as Prometheus
// collectors. The Recorder is an explicitly constructed component handed to
// the repositories and the search engine at wiring time; there is no
// process-wide singleton.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Recorder counts cache outcomes, store round-trips and search retry
// activity. A nil Recorder is safe to call.
type Recorder struct {
	cacheHits      *prometheus.CounterVec
	cacheMisses    *prometheus.CounterVec
	storeRequests  *prometheus.CounterVec
	searchRetries  *prometheus.CounterVec
	searchDegraded *prometheus.CounterVec
}

// NewRecorder builds a Recorder and registers its collectors with the given
// registry.
func NewRecorder(reg prometheus.Registerer) *Recorder {
	r := &Recorder{
		cacheHits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "library_cache_hits_total",
			Help: "Entity cache hits by cache name.",
		}, []string{"cache"}),
		cacheMisses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "library_cache_misses_total",
			Help: "Entity cache misses (absent or stale) by cache name.",
		}, []string{"cache"}),
		storeRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "library_store_requests_total",
			Help: "Document store round-trips by collection and operation.",
		}, []string{"collection", "op"}),
		searchRetries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "library_search_retries_total",
			Help: "Search engine retry attempts by operation.",
		}, []string{"op"}),
		searchDegraded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "library_search_degraded_total",
			Help: "Search operations degraded to an empty result.",
		}, []string{"op"}),
	}

	if reg != nil {
		reg.MustRegister(r.cacheHits, r.cacheMisses, r.storeRequests, r.searchRetries, r.searchDegraded)
	}
	return r
}

// CacheHit implements cache.Recorder.
func (r *Recorder) CacheHit(name string) {
	if r != nil {
		r.cacheHits.WithLabelValues(name).Inc()
	}
}

// CacheMiss implements cache.Recorder.
func (r *Recorder) CacheMiss(name string) {
	if r != nil {
		r.cacheMisses.WithLabelValues(name).Inc()
	}
}

// StoreRoundTrip implements repository.Observer.
func (r *Recorder) StoreRoundTrip(collection, op string) {
	if r != nil {
		r.storeRequests.WithLabelValues(collection, op).Inc()
	}
}

// SearchRetry implements search.Observer.
func (r *Recorder) SearchRetry(op string) {
	if r != nil {
		r.searchRetries.WithLabelValues(op).Inc()
	}
}

// SearchDegraded implements search.Observer.
func (r *Recorder) SearchDegraded(op string) {
	if r != nil {
		r.searchDegraded.WithLabelValues(op).Inc()
	}
}
