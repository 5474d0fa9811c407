package subscription

import (
	"testing"

	"github.com/adblock-go/corestore/filter"
)

func TestFromPropertiesListNilOrEmpty(t *testing.T) {
	reg := NewRegistry()
	if s := FromPropertiesList(reg, nil); s != nil {
		t.Fatalf("FromPropertiesList(nil) = %v, want nil", s)
	}
	if s := FromPropertiesList(reg, []KV{{"url", ""}}); s != nil {
		t.Fatalf("FromPropertiesList with empty url = %v, want nil", s)
	}
}

func TestFromPropertiesExplicitUserDefinedID(t *testing.T) {
	reg := NewRegistry()
	s := FromPropertiesList(reg, []KV{{"url", "~user~"}})
	if s == nil {
		t.Fatalf("FromPropertiesList should succeed with explicit id")
	}
	if s.ID != "~user~" {
		t.Fatalf("ID = %q, want %q", s.ID, "~user~")
	}
	if s.Type != UserDefinedType {
		t.Fatalf("Type = %v, want UserDefinedType", s.Type)
	}
}

func TestFromPropertiesRegistryUniqueness(t *testing.T) {
	reg := NewRegistry()
	a := FromProperties(reg, "https://example.invalid/list.txt", []KV{{"title", "A"}})
	b := FromProperties(reg, "https://example.invalid/list.txt", []KV{{"title", "B"}})
	if a != b {
		t.Fatalf("FromProperties with known id should return the same instance")
	}
	if a.Title != "A" {
		t.Fatalf("second FromProperties call should not overwrite properties, got title %q", a.Title)
	}
}

func TestFromPropertiesDownloadableDefaults(t *testing.T) {
	reg := NewRegistry()
	s := FromProperties(reg, "https://example.invalid/list.txt", []KV{
		{"title", "Example"},
	})
	if s.Type != Downloadable {
		t.Fatalf("Type = %v, want Downloadable", s.Type)
	}
	if s.Title != "Example" || s.Disabled {
		t.Fatalf("unexpected properties: title=%q disabled=%v", s.Title, s.Disabled)
	}
}

func TestFromPropertiesAnonymousIDGeneration(t *testing.T) {
	reg := NewRegistry()
	s := FromProperties(reg, "", nil)
	if s == nil {
		t.Fatalf("anonymous FromProperties should succeed")
	}
	if len(s.ID) != len("~user~000000") {
		t.Fatalf("generated id %q has unexpected length", s.ID)
	}
	if s.Type != UserDefinedType {
		t.Fatalf("Type = %v, want UserDefinedType", s.Type)
	}
}

func TestDoSerializeProperties(t *testing.T) {
	reg := NewRegistry()
	s := FromProperties(reg, "https://example.invalid/list.txt", []KV{
		{"title", "Example"},
		{"disabled", "true"},
	})
	want := "url=https://example.invalid/list.txt\ntitle=Example\ndisabled=true\n"
	if got := s.SerializeProperties(); got != want {
		t.Fatalf("SerializeProperties() = %q, want %q", got, want)
	}
}

func TestUserDefinedDefaultsParsing(t *testing.T) {
	reg := NewRegistry()
	s := FromProperties(reg, "~user~1", []KV{
		{"defaults", " blocking elemhide  bogus whitelist"},
	})
	ud := s.UserDefined
	if ud == nil {
		t.Fatalf("UserDefined should be set")
	}
	want := DefaultBlocking | DefaultWhitelist | DefaultElemHide
	if ud.Defaults != want {
		t.Fatalf("Defaults = %v, want %v", ud.Defaults, want)
	}
	wantSerialized := "url=~user~1\ndefaults= blocking whitelist elemhide\n"
	if got := s.SerializeProperties(); got != wantSerialized {
		t.Fatalf("SerializeProperties() = %q, want %q", got, wantSerialized)
	}
}

func TestIsDefaultFor(t *testing.T) {
	ud := &UserDefined{Defaults: DefaultBlocking | DefaultElemHide}
	blocking := filter.FromText(nil, "||ads.example^")
	whitelist := filter.FromText(nil, "@@||ads.example^")
	elemhide := filter.FromText(nil, "##.banner")

	if !ud.IsDefaultFor(blocking) {
		t.Fatalf("blocking should be default")
	}
	if ud.IsDefaultFor(whitelist) {
		t.Fatalf("whitelist should not be default")
	}
	if !ud.IsDefaultFor(elemhide) {
		t.Fatalf("elemhide should be default")
	}
}

type collectingNotifier struct {
	subEvents    []Topic
	filterEvents []Topic
}

func (c *collectingNotifier) SubscriptionChange(topic Topic, s *Subscription) {
	c.subEvents = append(c.subEvents, topic)
}

func (c *collectingNotifier) FilterChange(topic Topic, f *filter.Filter, s *Subscription, position int) {
	c.filterEvents = append(c.filterEvents, topic)
}

func TestSettersNotifyOnlyOnChange(t *testing.T) {
	n := &collectingNotifier{}
	s := &Subscription{ID: "x"}
	s.SetNotifier(n)

	s.SetTitle("same")
	s.SetTitle("same")
	s.SetTitle("different")

	if len(n.subEvents) != 2 {
		t.Fatalf("expected 2 title-change events, got %d", len(n.subEvents))
	}

	s.SetDisabled(true)
	s.SetDisabled(true)
	if len(n.subEvents) != 3 {
		t.Fatalf("expected 1 disabled-change event on top of 2 title events, got %d total", len(n.subEvents))
	}

	s.SetListed(true)
	if len(n.subEvents) != 3 {
		t.Fatalf("SetListed must never notify, got %d events", len(n.subEvents))
	}
}

func TestInsertAndRemoveFilterAtNotifyOnlyWhenListed(t *testing.T) {
	n := &collectingNotifier{}
	s := &Subscription{ID: "~user~x", Type: UserDefinedType, UserDefined: &UserDefined{}}
	s.SetNotifier(n)

	f1 := filter.FromText(nil, "||a.example^")
	f2 := filter.FromText(nil, "||b.example^")

	InsertFilterAt(s, f1, 0)
	if len(n.filterEvents) != 0 {
		t.Fatalf("unlisted subscription should not notify on insert")
	}

	s.Listed = true
	InsertFilterAt(s, f2, 0)
	if len(n.filterEvents) != 1 || n.filterEvents[0] != FilterAdded {
		t.Fatalf("expected one FilterAdded event, got %v", n.filterEvents)
	}
	if s.Filters[0] != f2 || s.Filters[1] != f1 {
		t.Fatalf("InsertFilterAt(0) should place f2 before f1")
	}

	if ok := RemoveFilterAt(s, 5); ok {
		t.Fatalf("RemoveFilterAt out of range should return false")
	}
	if ok := RemoveFilterAt(s, 0); !ok {
		t.Fatalf("RemoveFilterAt(0) should succeed")
	}
	if len(n.filterEvents) != 2 || n.filterEvents[1] != FilterRemoved {
		t.Fatalf("expected FilterRemoved after FilterAdded, got %v", n.filterEvents)
	}
}

func TestReleaseUnregisters(t *testing.T) {
	reg := NewRegistry()
	s := FromProperties(reg, "https://example.invalid/list.txt", nil)
	Release(reg, s)
	if reg.Len() != 0 {
		t.Fatalf("Release should remove the subscription from the registry")
	}
	again := FromProperties(reg, "https://example.invalid/list.txt", []KV{{"title", "fresh"}})
	if again == s {
		t.Fatalf("a released id should allow constructing a fresh subscription")
	}
}
