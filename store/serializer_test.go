package store

import (
	"strings"
	"testing"

	"github.com/adblock-go/corestore/filter"
	"github.com/adblock-go/corestore/subscription"
)

func TestSerializerPreamble(t *testing.T) {
	sr := NewSerializer()
	defer sr.Close()
	if got := sr.GetData(); got != preamble {
		t.Fatalf("GetData() before any Serialize = %q, want %q", got, preamble)
	}
}

func TestSerializerMultipleSubscriptionsAppend(t *testing.T) {
	reg := NewSerializerTestRegistry(t)
	a := subscription.FromProperties(reg, "https://a.invalid/list.txt", nil)
	b := subscription.FromProperties(reg, "https://b.invalid/list.txt", nil)

	sr := NewSerializer()
	defer sr.Close()
	sr.Serialize(a)
	sr.Serialize(b)

	want := preamble +
		"[Subscription]\nurl=https://a.invalid/list.txt\n" +
		"[Subscription]\nurl=https://b.invalid/list.txt\n"
	if got := sr.GetData(); got != want {
		t.Fatalf("GetData() = %q, want %q", got, want)
	}
}

func TestSerializerOmitsEmptyFiltersSection(t *testing.T) {
	reg := NewSerializerTestRegistry(t)
	s := subscription.FromProperties(reg, "https://empty.invalid/list.txt", nil)

	sr := NewSerializer()
	defer sr.Close()
	sr.Serialize(s)

	if got := sr.GetData(); got != preamble+"[Subscription]\nurl=https://empty.invalid/list.txt\n" {
		t.Fatalf("empty subscription should not emit a [Subscription filters] section, got %q", got)
	}
}

func TestEscapeOpeningBracketNoCopyFastPath(t *testing.T) {
	plain := "||ads.example^"
	if got := escapeOpeningBracket(plain); got != plain {
		t.Fatalf("escapeOpeningBracket(%q) = %q, want unchanged", plain, got)
	}
}

func TestEscapeOpeningBracketEscapesEveryBracket(t *testing.T) {
	in := "[a[b[c"
	want := `\[a\[b\[c`
	if got := escapeOpeningBracket(in); got != want {
		t.Fatalf("escapeOpeningBracket(%q) = %q, want %q", in, got, want)
	}
}

func TestSerializeParseRoundTripPreservesFilterText(t *testing.T) {
	filterReg := filter.NewRegistry()
	f := filter.FromText(filterReg, "[weird]++filter")

	subReg := NewSerializerTestRegistry(t)
	s := subscription.FromProperties(subReg, "https://weird.invalid/list.txt", nil)
	s.AddFilter(f)

	sr := NewSerializer()
	serialized := func() string {
		defer sr.Close()
		sr.Serialize(s)
		return sr.GetData()
	}()

	p := NewParser(nil, nil)
	if err := p.Process(strings.NewReader(serialized)); err != nil {
		t.Fatalf("Process: %v", err)
	}
	got := p.SubscriptionAt(0)
	if got == nil || len(got.Filters) != 1 {
		t.Fatalf("expected exactly one round-tripped filter")
	}
	if got.Filters[0].Text != f.Text {
		t.Fatalf("round-tripped filter text = %q, want %q", got.Filters[0].Text, f.Text)
	}
}

func TestSerializeParseRoundTripPreservesRequestOptions(t *testing.T) {
	filterReg := filter.NewRegistry()
	f := filter.FromText(filterReg, "||ads.example^$third-party,domain=example.com")

	subReg := NewSerializerTestRegistry(t)
	s := subscription.FromProperties(subReg, "https://opts.invalid/list.txt", nil)
	s.AddFilter(f)

	sr := NewSerializer()
	sr.Serialize(s)
	serialized := sr.GetData()
	sr.Close()

	p := NewParser(nil, nil)
	if err := p.Process(strings.NewReader(serialized)); err != nil {
		t.Fatalf("Process: %v", err)
	}
	got := p.SubscriptionAt(0)
	if got == nil || len(got.Filters) != 1 {
		t.Fatalf("expected exactly one round-tripped filter")
	}
	if got.Filters[0].Text != "||ads.example^$third-party,domain=example.com" {
		t.Fatalf("round-tripped filter text = %q, want the full line with options preserved", got.Filters[0].Text)
	}
}

func NewSerializerTestRegistry(t *testing.T) *subscription.Registry {
	t.Helper()
	return subscription.NewRegistry()
}
