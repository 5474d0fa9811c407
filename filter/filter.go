// Package filter implements the typed filter hierarchy: classification of a
// filter-list line into one of the filter kinds, and the text-interning
// registry that ensures at most one live Filter exists per canonical text.
package filter

import (
	"strings"
)

// Type tags the kind of a Filter. The values are sequential, not bit flags;
// IsElemHideBase groups the element-hiding variants.
type Type int

const (
	InvalidType Type = iota
	CommentType
	BlockingType
	WhitelistType
	ElemHideType
	ElemHideExceptionType
	ElemHideEmulationType
	CSSPropertyType
)

// IsElemHideBase reports whether t is one of the element-hiding filter
// types: ElemHide, ElemHideException, ElemHideEmulation or CSSProperty.
func (t Type) IsElemHideBase() bool {
	switch t {
	case ElemHideType, ElemHideExceptionType, ElemHideEmulationType, CSSPropertyType:
		return true
	default:
		return false
	}
}

func (t Type) String() string {
	switch t {
	case InvalidType:
		return "invalid"
	case CommentType:
		return "comment"
	case BlockingType:
		return "blocking"
	case WhitelistType:
		return "whitelist"
	case ElemHideType:
		return "elemhide"
	case ElemHideExceptionType:
		return "elemhideexception"
	case ElemHideEmulationType:
		return "elemhideemulation"
	case CSSPropertyType:
		return "cssproperty"
	default:
		return "unknown"
	}
}

// elemHideSeparators lists the element-hiding separators in the order
// classification checks them: exception, emulation, property, plain hide.
var elemHideSeparators = []struct {
	sep string
	typ Type
}{
	{"#@#", ElemHideExceptionType},
	{"#?#", ElemHideEmulationType},
	{"#$#", CSSPropertyType},
	{"##", ElemHideType},
}

// Filter is a single entry from a subscription's filter list. It carries its
// original (normalized) text plus variant-specific fields that are only
// meaningful for the matching Type.
type Filter struct {
	Type Type
	Text string

	// Reason is set only on InvalidType filters.
	Reason string

	// Options and PatternID are set only on BlockingType/WhitelistType
	// filters (request filters). PatternID is the handle returned by the
	// external regex registry; zero means no pattern was registered.
	Options   []string
	PatternID int

	// Selector holds the element-hiding selector text for ElemHideBase
	// variants (everything after the separator).
	Selector string
	// Domains holds the (possibly empty) comma-separated domain list that
	// precedes an element-hiding separator.
	Domains string

	refs int
}

// FromText classifies and constructs a Filter for the given raw line text,
// interning it in registry so repeated calls with equal canonical text
// return the same instance. Use a nil registry to always construct fresh
// (mainly useful in tests).
func FromText(reg *Registry, rawText string) *Filter {
	normalized := normalize(rawText)
	if reg != nil {
		if f := reg.lookup(normalized); f != nil {
			f.refs++
			return f
		}
	}

	f := classify(normalized)
	if reg != nil {
		reg.store(normalized, f)
	}
	f.refs = 1
	return f
}

func normalize(rawText string) string {
	return strings.TrimSpace(rawText)
}

func classify(text string) *Filter {
	if text == "" || strings.HasPrefix(text, "!") {
		return &Filter{Type: CommentType, Text: text}
	}

	if f := classifyElemHide(text); f != nil {
		return f
	}

	return classifyRequest(text)
}

func classifyElemHide(text string) *Filter {
	for _, cand := range elemHideSeparators {
		pos := strings.Index(text, cand.sep)
		if pos < 0 {
			continue
		}
		domains := text[:pos]
		selector := text[pos+len(cand.sep):]
		if selector == "" {
			return &Filter{
				Type:   InvalidType,
				Text:   text,
				Reason: "element hiding selector is empty",
			}
		}
		if cand.typ == CSSPropertyType && !strings.Contains(selector, "{") {
			return &Filter{
				Type:   InvalidType,
				Text:   text,
				Reason: "CSS property filter missing declaration block",
			}
		}
		return &Filter{
			Type:     cand.typ,
			Text:     text,
			Domains:  domains,
			Selector: selector,
		}
	}
	return nil
}

func classifyRequest(text string) *Filter {
	typ := BlockingType
	body := text
	if strings.HasPrefix(body, "@@") {
		typ = WhitelistType
		body = body[2:]
	}

	// Text keeps the full normalized line, options and all, so the
	// serializer round-trips it byte-for-byte; only Options is split out
	// of body for separate inspection.
	var options []string
	if pos := strings.LastIndexByte(body, '$'); pos >= 0 && pos < len(body)-1 {
		options = strings.Split(body[pos+1:], ",")
	}

	return &Filter{
		Type:    typ,
		Text:    text,
		Options: options,
	}
}

// Release drops one reference to f in reg. Once the reference count reaches
// zero the filter is forgotten by the registry, so a later FromText with the
// same text constructs (and interns) a fresh Filter.
func Release(reg *Registry, f *Filter) {
	if reg == nil || f == nil {
		return
	}
	f.refs--
	if f.refs <= 0 {
		reg.forget(f.Text)
	}
}
