// Package corestore ties together text, filter, subscription and store into
// the library's public entry points: configuration, and the Engine that
// wires a Parser, a filter/subscription registry pair and a Notifier
// together for an application.
package corestore

import (
	"github.com/golang-io/requests"

	"github.com/adblock-go/corestore/domain"
	"github.com/adblock-go/corestore/filter"
	"github.com/adblock-go/corestore/notifier"
	"github.com/adblock-go/corestore/store"
	"github.com/adblock-go/corestore/subscription"
)

// Listen describes one HTTP listener, matching the teacher's Listen shape.
type Listen struct {
	URL string `json:"url"`
}

type config struct {
	HTTP Listen `json:"HTTP"`
}

// CONFIG is the process-wide configuration, overwritten by unmarshaling a
// config file on startup (see cmd/filterlint).
var CONFIG = &config{
	HTTP: Listen{URL: "127.0.0.1:9090"},
}

// Options configures an Engine at construction.
type Options struct {
	Notifier subscription.Notifier
	IDGen    func() string
}

// Option mutates Options.
type Option func(*Options)

// WithNotifier installs the Notifier every subscription constructed through
// the Engine will be given.
func WithNotifier(n subscription.Notifier) Option {
	return func(o *Options) { o.Notifier = n }
}

// WithRequestsIDGen switches the anonymous-subscription id generator to one
// backed by requests.GenId() instead of the package's default counter-seeded
// scheme.
func WithRequestsIDGen() Option {
	return func(o *Options) {
		o.IDGen = func() string { return "~user~" + requests.GenId() }
	}
}

func newOptions(opts ...Option) Options {
	options := Options{
		Notifier: notifier.Nop{},
	}
	for _, o := range opts {
		o(&options)
	}
	return options
}

// Engine bundles the registries, notifier and parser an application needs to
// load and maintain a set of filter-list subscriptions.
type Engine struct {
	Subscriptions *subscription.Registry
	Filters       *filter.Registry
	notifier      subscription.Notifier
	idGen         func() string
}

// NewEngine constructs an Engine with fresh, empty registries.
func NewEngine(opts ...Option) *Engine {
	options := newOptions(opts...)
	return &Engine{
		Subscriptions: subscription.NewRegistry(),
		Filters:       filter.NewRegistry(),
		notifier:      options.Notifier,
		idGen:         options.IDGen,
	}
}

// BuildDomainIndex scans every filter across every subscription p has
// finalized so far and returns a domain.Index ready for Lookup-by-hostname
// queries.
func (e *Engine) BuildDomainIndex(p *store.Parser) *domain.Index {
	idx := domain.NewIndex()
	for i := 0; i < p.SubscriptionCount(); i++ {
		s := p.SubscriptionAt(i)
		for _, f := range s.Filters {
			idx.Add(f)
		}
	}
	return idx
}

// NewParser returns a store.Parser sharing this Engine's registries.
func (e *Engine) NewParser(opts ...store.Option) *store.Parser {
	return store.NewParser(e.Subscriptions, e.Filters, opts...)
}

// AddSubscription constructs or looks up a subscription for id, attaches
// this Engine's notifier, and returns it. An empty id generates an anonymous
// one, using the Engine's configured generator when set.
func (e *Engine) AddSubscription(id string, props []subscription.KV) *subscription.Subscription {
	var s *subscription.Subscription
	if e.idGen != nil {
		s = subscription.FromPropertiesWithIDGen(e.Subscriptions, id, props, e.idGen)
	} else {
		s = subscription.FromProperties(e.Subscriptions, id, props)
	}
	s.SetNotifier(e.notifier)
	return s
}
