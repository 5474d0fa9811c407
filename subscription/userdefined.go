package subscription

import (
	"strings"

	"github.com/adblock-go/corestore/filter"
)

// DefaultCategory is a bitmask over the filter kinds a user-defined
// subscription accepts by default when a filter is added without an
// explicit target.
type DefaultCategory int

const (
	DefaultBlocking DefaultCategory = 1 << iota
	DefaultWhitelist
	DefaultElemHide
)

// UserDefined holds the fields specific to a user-defined subscription.
// Only meaningful when the enclosing Subscription's Type is UserDefinedType.
type UserDefined struct {
	Defaults DefaultCategory
}

func newUserDefined(id string, props []KV) *Subscription {
	s := &Subscription{ID: id, Type: UserDefinedType}
	parseStringProperty(props, "title", &s.Title)
	parseBoolProperty(props, "disabled", &s.Disabled)

	ud := &UserDefined{}
	parseDefaultsProperty(props, ud)
	s.UserDefined = ud
	return s
}

func parseDefaultsProperty(props []KV, ud *UserDefined) {
	raw, ok := findProperty(props, "defaults")
	if !ok {
		return
	}
	for _, token := range strings.Fields(raw) {
		switch token {
		case "blocking":
			ud.Defaults |= DefaultBlocking
		case "whitelist":
			ud.Defaults |= DefaultWhitelist
		case "elemhide":
			ud.Defaults |= DefaultElemHide
		}
	}
}

// IsDefaultFor reports whether f's type falls under a category s currently
// defaults to.
func (ud *UserDefined) IsDefaultFor(f *filter.Filter) bool {
	switch {
	case f.Type == filter.BlockingType:
		return ud.Defaults&DefaultBlocking != 0
	case f.Type == filter.WhitelistType:
		return ud.Defaults&DefaultWhitelist != 0
	case f.Type.IsElemHideBase():
		return ud.Defaults&DefaultElemHide != 0
	default:
		return false
	}
}

// MakeDefaultFor sets the bit matching f's category.
func (ud *UserDefined) MakeDefaultFor(f *filter.Filter) {
	switch {
	case f.Type == filter.BlockingType:
		ud.Defaults |= DefaultBlocking
	case f.Type == filter.WhitelistType:
		ud.Defaults |= DefaultWhitelist
	case f.Type.IsElemHideBase():
		ud.Defaults |= DefaultElemHide
	}
}

// InsertFilterAt clamps pos to len(s.Filters), inserts f there, and emits
// FilterAdded if s is Listed.
func InsertFilterAt(s *Subscription, f *filter.Filter, pos int) {
	if pos < 0 || pos > len(s.Filters) {
		pos = len(s.Filters)
	}
	s.Filters = append(s.Filters, nil)
	copy(s.Filters[pos+1:], s.Filters[pos:])
	s.Filters[pos] = f

	if s.Listed && s.notifier != nil {
		s.notifier.FilterChange(FilterAdded, f, s, pos)
	}
}

// RemoveFilterAt removes the filter at pos, returning false if pos is out
// of range. Emits FilterRemoved if s is Listed.
func RemoveFilterAt(s *Subscription, pos int) bool {
	if pos < 0 || pos >= len(s.Filters) {
		return false
	}
	removed := s.Filters[pos]
	s.Filters = append(s.Filters[:pos], s.Filters[pos+1:]...)
	if s.Listed && s.notifier != nil {
		s.notifier.FilterChange(FilterRemoved, removed, s, pos)
	}
	return true
}

// IsGeneric reports whether ud has no default category set.
func (ud *UserDefined) IsGeneric() bool {
	return ud.Defaults == 0
}

// SerializeUserDefinedProperties extends the common property serialization
// with a fixed-order defaults= line, emitted only when ud is not generic.
func SerializeUserDefinedProperties(s *Subscription, ud *UserDefined) string {
	result := s.doSerializeProperties()
	if ud.IsGeneric() {
		return result
	}
	var b strings.Builder
	b.WriteString(result)
	b.WriteString("defaults=")
	if ud.Defaults&DefaultBlocking != 0 {
		b.WriteString(" blocking")
	}
	if ud.Defaults&DefaultWhitelist != 0 {
		b.WriteString(" whitelist")
	}
	if ud.Defaults&DefaultElemHide != 0 {
		b.WriteString(" elemhide")
	}
	b.WriteByte('\n')
	return b.String()
}
