// Package domain indexes element-hiding filters by the domains named in
// their restriction list, so looking up the filters applicable to a page is
// proportional to the hostname's label count rather than to the total
// number of registered filters.
package domain

import (
	"strings"

	"github.com/adblock-go/corestore/filter"
)

// node is one label of a registered domain, keyed top-level label first
// (the reverse of how a hostname reads), mirroring topic.MemoryTrie's
// per-segment nodes but without its locking: Index is not safe for
// concurrent use, matching this module's single-threaded contract.
type node struct {
	children map[string]*node
	included []*filter.Filter
	excluded []*filter.Filter
}

func newNode() *node {
	return &node{children: make(map[string]*node)}
}

// Index groups ElemHideBase filters by domain restriction for fast lookup.
type Index struct {
	root    *node
	generic []*filter.Filter
}

// NewIndex returns an empty Index.
func NewIndex() *Index {
	return &Index{root: newNode()}
}

// Add registers f under every domain token in its Domains field. Filters
// with no Domains restriction are kept generic and returned by every
// Lookup. Add is a no-op for filters that are not ElemHideBase.
func (idx *Index) Add(f *filter.Filter) {
	if f == nil || !f.Type.IsElemHideBase() {
		return
	}
	tokens := splitDomains(f.Domains)
	if len(tokens) == 0 {
		idx.generic = append(idx.generic, f)
		return
	}
	for _, tok := range tokens {
		excluded := strings.HasPrefix(tok, "~")
		name := strings.TrimPrefix(tok, "~")
		if name == "" {
			continue
		}
		n := idx.nodeFor(name, true)
		if excluded {
			n.excluded = append(n.excluded, f)
		} else {
			n.included = append(n.included, f)
		}
	}
}

// Lookup returns every filter applicable to hostname: the generic bucket
// plus every filter registered at a label hostname matches, excluding any
// filter whose Domains negates that label for hostname.
func (idx *Index) Lookup(hostname string) []*filter.Filter {
	result := append([]*filter.Filter(nil), idx.generic...)
	excludedSet := make(map[*filter.Filter]bool)
	labels := suffixes(hostname)

	for _, label := range labels {
		n := idx.nodeFor(label, false)
		if n == nil {
			continue
		}
		for _, f := range n.excluded {
			excludedSet[f] = true
		}
	}
	for _, label := range labels {
		n := idx.nodeFor(label, false)
		if n == nil {
			continue
		}
		for _, f := range n.included {
			if !excludedSet[f] {
				result = append(result, f)
			}
		}
	}
	return result
}

// nodeFor walks idx.root through name's labels, most-significant label
// first (reversing name's own left-to-right reading), creating intermediate
// nodes when create is true.
func (idx *Index) nodeFor(name string, create bool) *node {
	labels := reversedLabels(name)
	current := idx.root
	for _, label := range labels {
		next, ok := current.children[label]
		if !ok {
			if !create {
				return nil
			}
			next = newNode()
			current.children[label] = next
		}
		current = next
	}
	return current
}

// suffixes returns every dot-suffix of hostname, least specific first:
// "a.b.example.com" yields "com", "example.com", "b.example.com",
// "a.b.example.com" so every ancestor domain restriction is visited.
func suffixes(hostname string) []string {
	labels := strings.Split(hostname, ".")
	var out []string
	for i := len(labels) - 1; i >= 0; i-- {
		out = append(out, strings.Join(labels[i:], "."))
	}
	return out
}

func reversedLabels(name string) []string {
	labels := strings.Split(name, ".")
	out := make([]string, len(labels))
	for i, l := range labels {
		out[len(labels)-1-i] = l
	}
	return out
}

func splitDomains(domains string) []string {
	if domains == "" {
		return nil
	}
	parts := strings.Split(domains, ",")
	out := parts[:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
