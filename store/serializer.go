package store

import (
	"bytes"
	"strings"
	"sync"

	"github.com/adblock-go/corestore/subscription"
)

// serializerBufferPool reuses the *bytes.Buffer backing each Serializer's
// accumulated output, the same shape packet.GetBuffer/PutBuffer use for
// short-lived scratch buffers.
var serializerBufferPool = sync.Pool{
	New: func() any { return new(bytes.Buffer) },
}

const preamble = "# Adblock Plus preferences\nversion=5\n"

// Serializer accumulates the canonical textual form of a sequence of
// subscriptions. It is single-use-append: successive Serialize calls
// concatenate, preserving order.
type Serializer struct {
	buf *bytes.Buffer
}

// NewSerializer returns a Serializer whose buffer already holds the fixed
// preamble.
func NewSerializer() *Serializer {
	buf := serializerBufferPool.Get().(*bytes.Buffer)
	buf.Reset()
	buf.WriteString(preamble)
	return &Serializer{buf: buf}
}

// Serialize appends s's canonical text: a [Subscription] block with its
// properties, then (if s has filters) a [Subscription filters] block with
// one escaped filter line per filter.
func (sr *Serializer) Serialize(s *subscription.Subscription) {
	sr.buf.WriteString("[Subscription]\n")
	sr.buf.WriteString(s.SerializeProperties())

	if len(s.Filters) == 0 {
		return
	}
	sr.buf.WriteString("[Subscription filters]\n")
	for _, f := range s.Filters {
		sr.buf.WriteString(escapeOpeningBracket(f.Text))
		sr.buf.WriteByte('\n')
	}
}

// GetData returns the accumulated text.
func (sr *Serializer) GetData() string {
	return sr.buf.String()
}

// Close returns the underlying buffer to the pool. The Serializer must not
// be used after Close.
func (sr *Serializer) Close() {
	serializerBufferPool.Put(sr.buf)
	sr.buf = nil
}

// escapeOpeningBracket inserts a '\' immediately before every '[' in value.
// If value has no '[' the original string is returned unchanged, avoiding a
// copy on the common case.
func escapeOpeningBracket(value string) string {
	if strings.IndexByte(value, '[') < 0 {
		return value
	}
	var b strings.Builder
	b.Grow(len(value) + 4)
	for i := 0; i < len(value); i++ {
		if value[i] == '[' {
			b.WriteByte('\\')
		}
		b.WriteByte(value[i])
	}
	return b.String()
}
