// Package subscription implements the subscription object model shared by
// the parser and serializer: an ordered list of filters keyed by a unique
// id, the process-wide registry enforcing single-live-instance-per-id, and
// the downloadable/user-defined variant behavior.
package subscription

import (
	"strconv"
	"strings"

	"github.com/adblock-go/corestore/filter"
)

// Type distinguishes the two concrete subscription kinds from the
// placeholder zero value.
type Type int

const (
	Unknown Type = iota
	Downloadable
	UserDefinedType
)

// Topic names the kind of change a property setter announces through a
// Notifier. NoTopic suppresses emission entirely.
type Topic int

const (
	NoTopic Topic = iota
	SubscriptionTitle
	SubscriptionDisabled
	FilterAdded
	FilterRemoved
)

// Notifier is the outbound interface the model uses to announce changes.
// It is declared here, not in a separate package, so that package
// subscription never has to import its own implementations.
type Notifier interface {
	SubscriptionChange(topic Topic, s *Subscription)
	FilterChange(topic Topic, f *filter.Filter, s *Subscription, position int)
}

// KV is an ordered key-value property pair, as produced by the parser.
type KV struct {
	Key   string
	Value string
}

// Subscription is a named, ordered list of filters.
type Subscription struct {
	ID       string
	Type     Type
	Title    string
	Disabled bool
	Listed   bool
	Filters  []*filter.Filter

	// UserDefined holds the category-defaults extension, non-nil only when
	// Type == UserDefinedType.
	UserDefined *UserDefined

	notifier Notifier
}

// SetNotifier installs the Notifier used by this subscription's property
// setters. A nil notifier (the zero value) suppresses all emission.
func (s *Subscription) SetNotifier(n Notifier) {
	s.notifier = n
}

// SetTitle assigns Title, emitting SubscriptionTitle on change.
func (s *Subscription) SetTitle(title string) {
	if s.Title == title {
		return
	}
	s.Title = title
	s.notify(SubscriptionTitle)
}

// SetDisabled assigns Disabled, emitting SubscriptionDisabled on change.
func (s *Subscription) SetDisabled(disabled bool) {
	if s.Disabled == disabled {
		return
	}
	s.Disabled = disabled
	s.notify(SubscriptionDisabled)
}

// SetListed assigns Listed. Listed has no associated topic and never
// notifies, matching the source.
func (s *Subscription) SetListed(listed bool) {
	s.Listed = listed
}

func (s *Subscription) notify(topic Topic) {
	if s.notifier != nil {
		s.notifier.SubscriptionChange(topic, s)
	}
}

// AddFilter appends f to the filter list without emitting any notification.
// This is what the parser uses while ingesting a filter list.
func (s *Subscription) AddFilter(f *filter.Filter) {
	s.Filters = append(s.Filters, f)
}

// FilterAt returns the filter at index, or nil if index is out of range.
func (s *Subscription) FilterAt(index int) *filter.Filter {
	if index < 0 || index >= len(s.Filters) {
		return nil
	}
	return s.Filters[index]
}

// IndexOfFilter returns the index of f in s's filter list, or -1.
func (s *Subscription) IndexOfFilter(f *filter.Filter) int {
	for i, existing := range s.Filters {
		if existing == f {
			return i
		}
	}
	return -1
}

// SerializeProperties dispatches to the variant-specific serialization.
// Plain Subscriptions (Type == Unknown, used only in tests) fall back to
// doSerializeProperties.
func (s *Subscription) SerializeProperties() string {
	if s.Type == UserDefinedType && s.UserDefined != nil {
		return SerializeUserDefinedProperties(s, s.UserDefined)
	}
	return s.doSerializeProperties()
}

func (s *Subscription) doSerializeProperties() string {
	var b strings.Builder
	b.WriteString("url=")
	b.WriteString(s.ID)
	b.WriteByte('\n')
	if s.Title != "" {
		b.WriteString("title=")
		b.WriteString(s.Title)
		b.WriteByte('\n')
	}
	if s.Disabled {
		b.WriteString("disabled=true\n")
	}
	return b.String()
}

func findProperty(props []KV, key string) (string, bool) {
	for _, kv := range props {
		if kv.Key == key {
			return kv.Value, true
		}
	}
	return "", false
}

func parseStringProperty(props []KV, key string, out *string) {
	if v, ok := findProperty(props, key); ok {
		*out = v
	}
}

func parseBoolProperty(props []KV, key string, out *bool) {
	if v, ok := findProperty(props, key); ok {
		*out = v == "true"
	}
}

// FromPropertiesList looks up the "url" key in props and delegates to
// FromProperties. It returns nil if the key is absent or empty, matching
// the source's null-handle behavior (S2).
func FromPropertiesList(reg *Registry, props []KV) *Subscription {
	id, ok := findProperty(props, "url")
	if !ok || id == "" {
		return nil
	}
	return FromProperties(reg, id, props)
}

// FromProperties constructs or looks up the subscription for id.
//
//   - If id is empty, a random id of the form "~user~dddddd" is generated
//     (seeded from the registry's current size, per the source's
//     deterministic-but-collision-prone scheme) and the call recurses.
//   - If the registry already holds id, the existing subscription is
//     returned and props is ignored.
//   - Otherwise a new UserDefinedSubscription (id starts with "~") or
//     DownloadableSubscription is constructed, registered, and returned.
func FromProperties(reg *Registry, id string, props []KV) *Subscription {
	return fromProperties(reg, id, props, defaultIDGenerator(reg))
}

// FromPropertiesWithIDGen is like FromProperties but lets the caller supply
// an alternate id generator for the anonymous-subscription path (for
// example one backed by requests.GenId(), see the corestore package's
// options for a ready-made adapter) instead of the default counter-seeded
// scheme.
func FromPropertiesWithIDGen(reg *Registry, id string, props []KV, gen func() string) *Subscription {
	return fromProperties(reg, id, props, gen)
}

func fromProperties(reg *Registry, id string, props []KV, gen func() string) *Subscription {
	if id == "" {
		for {
			candidate := gen()
			if !reg.has(candidate) {
				return fromProperties(reg, candidate, props, gen)
			}
		}
	}

	if existing := reg.lookup(id); existing != nil {
		return existing
	}

	var s *Subscription
	if strings.HasPrefix(id, "~") {
		s = newUserDefined(id, props)
	} else {
		s = newDownloadable(id, props)
	}
	reg.store(s)
	return s
}

func defaultIDGenerator(reg *Registry) func() string {
	gen := newCounterSeededGenerator(reg.Len())
	return func() string {
		return "~user~" + fmtSixDigits(gen())
	}
}

func fmtSixDigits(n int) string {
	s := strconv.Itoa(n % 1000000)
	for len(s) < 6 {
		s = "0" + s
	}
	return s
}

// Release unregisters s from reg. Mirrors the source's destructor, which
// always removed the subscription's id from the known-subscriptions map.
func Release(reg *Registry, s *Subscription) {
	if reg == nil || s == nil {
		return
	}
	reg.forget(s.ID)
}
