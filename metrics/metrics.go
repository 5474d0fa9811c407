// Package metrics exposes the library's prometheus counters and a /metrics
// HTTP endpoint, the same shape the teacher's Stat type and Httpd function
// used for connection and packet counts.
package metrics

import (
	"context"
	"log"
	"net/http"

	"github.com/golang-io/requests"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Store holds the counters and gauges this module publishes.
type Store struct {
	SubscriptionsRegistered prometheus.Counter
	SubscriptionsReleased   prometheus.Counter
	FiltersInterned         prometheus.Gauge
	ParseFailures           prometheus.Counter
	BytesSerialized         prometheus.Counter
}

// Default is the process-wide Store, registered lazily by Register.
var Default = Store{
	SubscriptionsRegistered: prometheus.NewCounter(prometheus.CounterOpts{
		Name: "corestore_subscriptions_registered_total",
		Help: "Total number of subscriptions constructed and registered.",
	}),
	SubscriptionsReleased: prometheus.NewCounter(prometheus.CounterOpts{
		Name: "corestore_subscriptions_released_total",
		Help: "Total number of subscriptions released from the registry.",
	}),
	FiltersInterned: prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "corestore_filters_interned",
		Help: "Current number of distinct filter texts held by the filter registry.",
	}),
	ParseFailures: prometheus.NewCounter(prometheus.CounterOpts{
		Name: "corestore_parse_failures_total",
		Help: "Total number of lines the parser could not interpret.",
	}),
	BytesSerialized: prometheus.NewCounter(prometheus.CounterOpts{
		Name: "corestore_bytes_serialized_total",
		Help: "Total number of bytes produced by Serializer.GetData across all calls.",
	}),
}

// Register registers every counter in Default with the default prometheus
// registry. Calling it more than once panics, matching prometheus.MustRegister.
func (s *Store) Register() {
	prometheus.MustRegister(s.SubscriptionsRegistered)
	prometheus.MustRegister(s.SubscriptionsReleased)
	prometheus.MustRegister(s.FiltersInterned)
	prometheus.MustRegister(s.ParseFailures)
	prometheus.MustRegister(s.BytesSerialized)
}

// AccessLog is passed to requests.Logf to record each /metrics scrape.
func AccessLog(ctx context.Context, stat *requests.Stat) {
	log.Printf("metrics: %s", stat.Print())
}

// Httpd registers Default's counters and serves /metrics on addr until the
// server stops or fails. It is meant to run in its own goroutine.
func Httpd(addr string) error {
	Default.Register()
	mux := requests.NewServeMux(requests.URL(addr), requests.Logf(AccessLog))
	mux.Route("/metrics", promhttp.Handler())
	s := requests.NewServer(context.Background(), mux, requests.OnStart(func(s *http.Server) {
		log.Printf("metrics: serving on %s", s.Addr)
	}))
	return s.ListenAndServe()
}
