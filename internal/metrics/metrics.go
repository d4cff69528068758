package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics groups the Prometheus collectors used across the service.
type Metrics struct {
	RankRequests        *prometheus.CounterVec
	RankSeconds         prometheus.Histogram
	ProviderSeconds     *prometheus.HistogramVec
	ProviderErrors      *prometheus.CounterVec
	VenueCacheLookups   *prometheus.CounterVec
	VenueCacheEvictions prometheus.Counter
	CandidatesEvaluated prometheus.Histogram
	ActiveLegs          prometheus.Gauge
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		RankRequests: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "fairmeet_rank_requests_total",
			Help: "Total number of ranking requests by outcome.",
		}, []string{"outcome"}),
		RankSeconds: promauto.With(reg).NewHistogram(prometheus.HistogramOpts{
			Name:    "fairmeet_rank_duration_seconds",
			Help:    "Duration of complete ranking requests.",
			Buckets: prometheus.DefBuckets,
		}),
		ProviderSeconds: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "fairmeet_provider_request_duration_seconds",
			Help:    "Duration of requests to external providers.",
			Buckets: prometheus.DefBuckets,
		}, []string{"provider", "operation"}),
		ProviderErrors: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "fairmeet_provider_errors_total",
			Help: "Total number of failed or timed out provider calls.",
		}, []string{"provider", "operation"}),
		VenueCacheLookups: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "fairmeet_venue_cache_lookups_total",
			Help: "Venue cache lookups by result (hit or miss).",
		}, []string{"result"}),
		VenueCacheEvictions: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "fairmeet_venue_cache_evictions_total",
			Help: "Expired venue cache entries removed by the periodic sweep.",
		}),
		CandidatesEvaluated: promauto.With(reg).NewHistogram(prometheus.HistogramOpts{
			Name:    "fairmeet_candidates_evaluated",
			Help:    "Number of candidate stations evaluated per request.",
			Buckets: prometheus.LinearBuckets(0, 5, 5),
		}),
		ActiveLegs: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Name: "fairmeet_active_journey_lookups",
			Help: "Current number of in-flight journey time lookups.",
		}),
	}
}
