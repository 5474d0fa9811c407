// Package store implements the filter-list state machine: Parser turns a
// line stream into subscriptions populated with filters, and Serializer
// turns a subscription back into the canonical textual form.
package store

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/adblock-go/corestore/filter"
	"github.com/adblock-go/corestore/subscription"
)

// State is the parser's current position in the filter-list grammar.
type State int

const (
	Initial State = iota
	SubscriptionSection
	SubscriptionFiltersSection
)

// FailFunc reports a non-fatal parse failure for one input line. The
// default implementation logs via log.Printf; tests typically substitute a
// collecting stub.
type FailFunc func(line, reason string)

// Parser is a plain state enum plus accumulators — no generators, no
// callbacks beyond onFail.
type Parser struct {
	state State

	subRegistry    *subscription.Registry
	filterRegistry *filter.Registry

	fileProperties         []subscription.KV
	subscriptionProperties []subscription.KV
	current                *subscription.Subscription
	subscriptions          []*subscription.Subscription

	onFail FailFunc
}

// Option configures a Parser at construction.
type Option func(*Parser)

// WithOnFail overrides the default log.Printf-based failure callback.
func WithOnFail(f FailFunc) Option {
	return func(p *Parser) { p.onFail = f }
}

// NewParser returns a Parser in its Initial state. subReg and filterReg may
// be nil, in which case a fresh private registry is used for each.
func NewParser(subReg *subscription.Registry, filterReg *filter.Registry, opts ...Option) *Parser {
	if subReg == nil {
		subReg = subscription.NewRegistry()
	}
	if filterReg == nil {
		filterReg = filter.NewRegistry()
	}
	p := &Parser{
		state:          Initial,
		subRegistry:    subReg,
		filterRegistry: filterReg,
		onFail:         defaultOnFail,
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

func defaultOnFail(line, reason string) {
	log.Printf("store: parse failure: %s: %q", reason, line)
}

// State reports the parser's current state.
func (p *Parser) State() State { return p.state }

// SubscriptionCount reports how many subscriptions have been finalized so
// far.
func (p *Parser) SubscriptionCount() int { return len(p.subscriptions) }

// SubscriptionAt returns the finalized subscription at index, or nil if
// index is out of range.
func (p *Parser) SubscriptionAt(index int) *subscription.Subscription {
	if index < 0 || index >= len(p.subscriptions) {
		return nil
	}
	return p.subscriptions[index]
}

// Process reads r line by line, feeding each to ProcessLine, then calls
// Finalize. r's own errors are wrapped and returned; per-line failures are
// reported through onFail and never stop the scan.
func (p *Parser) Process(r io.Reader) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		p.ProcessLine(scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("store: read line: %w", err)
	}
	p.Finalize()
	return nil
}

// ProcessLine feeds a single untrimmed line through the state machine.
func (p *Parser) ProcessLine(untrimmedLine string) {
	line := strings.TrimRight(strings.TrimLeft(untrimmedLine, " "), " ")
	if line == "" {
		return
	}

	if isSection(line, "subscription") {
		p.Finalize()
		p.state = SubscriptionSection
		return
	}

	switch p.state {
	case Initial:
		p.processInitial(line)
	case SubscriptionSection:
		p.processSubscriptionSection(line)
	case SubscriptionFiltersSection:
		p.processSubscriptionFiltersSection(line)
	}
}

// Finalize emits any pending subscription for the current state. It must be
// called after the last line has been processed.
func (p *Parser) Finalize() {
	switch p.state {
	case Initial:
		// File properties stay around; nothing to emit.
	case SubscriptionSection:
		p.onSubscription(p.subscriptionFromProperties())
		p.subscriptionProperties = nil
	case SubscriptionFiltersSection:
		p.onSubscription(p.current)
		p.current = nil
	}
}

func (p *Parser) subscriptionFromProperties() *subscription.Subscription {
	return subscription.FromPropertiesList(p.subRegistry, p.subscriptionProperties)
}

func (p *Parser) onSubscription(s *subscription.Subscription) {
	if s == nil {
		return
	}
	p.subscriptions = append(p.subscriptions, s)
}

func (p *Parser) processInitial(line string) {
	if line[0] == '#' {
		return
	}
	if pos := strings.IndexByte(line, '='); pos >= 0 {
		p.fileProperties = append(p.fileProperties, keyValueFromLine(line, pos))
		return
	}
	p.onFail(line, "Unexpected line value, it should be either a file property or the [Subscription] section")
}

func (p *Parser) processSubscriptionSection(line string) {
	if pos := strings.IndexByte(line, '='); pos >= 0 {
		p.subscriptionProperties = append(p.subscriptionProperties, keyValueFromLine(line, pos))
		return
	}
	if isSection(line, "subscription filters") {
		p.current = p.subscriptionFromProperties()
		p.subscriptionProperties = nil
		p.state = SubscriptionFiltersSection
		return
	}
	p.onFail(line, "Unexpected line value, it should be either a subscription property, the [Subscription filters] section or the [Subscription] section")
}

func (p *Parser) processSubscriptionFiltersSection(line string) {
	decoded := decodeOpeningBracket(line)
	f := filter.FromText(p.filterRegistry, decoded)
	if p.current != nil {
		p.current.AddFilter(f)
	}
	// Any line is considered a filter line; there is no error path here.
}

func keyValueFromLine(line string, assignPos int) subscription.KV {
	key := strings.Trim(line[:assignPos], " ")
	value := strings.Trim(line[assignPos+1:], " ")
	return subscription.KV{Key: key, Value: value}
}

// isSection reports whether value is a bracketed section header matching
// name exactly: length must equal len(name)+2, the first and last bytes
// must be '[' and ']', and the inner substring must equal name after
// lower-casing. Trailing whitespace inside the brackets is NOT tolerated.
func isSection(value, name string) bool {
	if len(value) != len(name)+2 || value[0] != '[' || value[len(value)-1] != ']' {
		return false
	}
	return strings.ToLower(value[1:len(value)-1]) == name
}

// decodeOpeningBracket performs a single left-to-right pass dropping the
// backslash preceding every occurrence of '['. Nothing else is unescaped.
// The input is not mutated; the result is a fresh string.
func decodeOpeningBracket(line string) string {
	if !strings.Contains(line, `\[`) {
		return line
	}
	var b strings.Builder
	b.Grow(len(line))
	for i := 0; i < len(line); i++ {
		if line[i] == '\\' && i+1 < len(line) && line[i+1] == '[' {
			continue
		}
		b.WriteByte(line[i])
	}
	return b.String()
}
