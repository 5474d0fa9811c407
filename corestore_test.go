package corestore

import (
	"strings"
	"testing"

	"github.com/adblock-go/corestore/filter"
	"github.com/adblock-go/corestore/subscription"
)

func TestEngineParsesAndSharesRegistries(t *testing.T) {
	e := NewEngine()
	p := e.NewParser()
	input := "[Subscription]\nurl=https://example.invalid/list.txt\n[Subscription filters]\n||ads.example^\n"
	if err := p.Process(strings.NewReader(input)); err != nil {
		t.Fatalf("Process: %v", err)
	}
	if e.Subscriptions.Len() != 1 {
		t.Fatalf("Subscriptions.Len() = %d, want 1", e.Subscriptions.Len())
	}
	if e.Filters.Len() != 1 {
		t.Fatalf("Filters.Len() = %d, want 1", e.Filters.Len())
	}
}

func TestEngineAddSubscriptionSetsNotifier(t *testing.T) {
	n := &countingNotifier{}
	e := NewEngine(WithNotifier(n))
	s := e.AddSubscription("https://example.invalid/list.txt", nil)
	s.SetTitle("changed")
	if n.count != 1 {
		t.Fatalf("expected the engine's notifier to receive the SetTitle event, got %d", n.count)
	}
}

func TestEngineBuildDomainIndex(t *testing.T) {
	e := NewEngine()
	p := e.NewParser()
	input := "[Subscription]\nurl=~user~idx\n[Subscription filters]\nexample.com##.banner\n##.generic\n"
	if err := p.Process(strings.NewReader(input)); err != nil {
		t.Fatalf("Process: %v", err)
	}
	idx := e.BuildDomainIndex(p)
	got := idx.Lookup("sub.example.com")
	if len(got) != 2 {
		t.Fatalf("Lookup(sub.example.com) = %d filters, want 2", len(got))
	}
}

type countingNotifier struct{ count int }

func (c *countingNotifier) SubscriptionChange(subscription.Topic, *subscription.Subscription) {
	c.count++
}
func (c *countingNotifier) FilterChange(subscription.Topic, *filter.Filter, *subscription.Subscription, int) {
}
