// Package notifier provides concrete subscription.Notifier implementations:
// a no-op default and a prometheus-backed one that counts events per topic.
package notifier

import (
	"github.com/adblock-go/corestore/filter"
	"github.com/adblock-go/corestore/subscription"
	"github.com/prometheus/client_golang/prometheus"
)

// Nop is a subscription.Notifier whose methods do nothing. Its zero value is
// ready to use.
type Nop struct{}

func (Nop) SubscriptionChange(subscription.Topic, *subscription.Subscription) {}
func (Nop) FilterChange(subscription.Topic, *filter.Filter, *subscription.Subscription, int) {}

// topicName renders a Topic the way prometheus label values are conventionally
// written: lower_snake_case.
func topicName(t subscription.Topic) string {
	switch t {
	case subscription.SubscriptionTitle:
		return "subscription_title"
	case subscription.SubscriptionDisabled:
		return "subscription_disabled"
	case subscription.FilterAdded:
		return "filter_added"
	case subscription.FilterRemoved:
		return "filter_removed"
	default:
		return "unknown"
	}
}

// Prometheus counts SubscriptionChange/FilterChange events by topic, the same
// shape Stat used for packet counters.
type Prometheus struct {
	events *prometheus.CounterVec
}

// NewPrometheus builds a Prometheus notifier. The caller is responsible for
// registering the returned notifier's collector (via Collector) with a
// prometheus registry.
func NewPrometheus() *Prometheus {
	return &Prometheus{
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "corestore_notifier_events_total",
			Help: "Total number of subscription/filter change events by topic.",
		}, []string{"topic"}),
	}
}

// Collector exposes the underlying CounterVec for registration.
func (p *Prometheus) Collector() prometheus.Collector {
	return p.events
}

func (p *Prometheus) SubscriptionChange(topic subscription.Topic, s *subscription.Subscription) {
	p.events.WithLabelValues(topicName(topic)).Inc()
}

func (p *Prometheus) FilterChange(topic subscription.Topic, f *filter.Filter, s *subscription.Subscription, position int) {
	p.events.WithLabelValues(topicName(topic)).Inc()
}
