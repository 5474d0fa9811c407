// Package text implements the dual-mode string primitive the rest of this
// module builds on: a value that is either borrowed from someone else's
// buffer (read-only or mutable) or owned outright, plus the trim/split/
// case-fold/numeric-parse helpers the filter-list format needs.
package text

import (
	"bytes"
	"errors"
)

// Kind tags the storage class of a Text value.
type Kind int

const (
	// Owned means the value exclusively holds its backing buffer.
	Owned Kind = iota
	// BorrowedMut points into a buffer owned elsewhere, but may mutate it.
	BorrowedMut
	// BorrowedRO points into a buffer owned elsewhere and may not mutate it.
	BorrowedRO
	// Invalid is a tombstone for a value that was never constructed with data.
	Invalid
	// Deleted is a tombstone for a value that has been explicitly erased.
	Deleted
)

// Npos is returned by the search functions when no match is found.
const Npos = -1

// ErrReadOnly is returned when a caller attempts to mutate a read-only Text.
var ErrReadOnly = errors.New("text: write to read-only value")

// Text is a view over a byte buffer plus the storage class that governs
// whether it may be mutated or must be copied before it is kept around.
type Text struct {
	kind Kind
	buf  []byte
}

// NewBorrowedRO returns a read-only view over buf. No copy is made.
func NewBorrowedRO(buf []byte) Text {
	return Text{kind: BorrowedRO, buf: buf}
}

// NewBorrowedMut returns a mutable view over buf. No copy is made.
func NewBorrowedMut(buf []byte) Text {
	return Text{kind: BorrowedMut, buf: buf}
}

// NewOwned copies s into a freshly allocated, exclusively-owned buffer.
// An empty s yields Invalid, matching the source's "allocation of length 0
// yields invalid" behavior; use Own to instead preserve an empty-but-valid
// text copied from a valid source.
func NewOwned(s string) Text {
	if len(s) == 0 {
		return Text{kind: Invalid}
	}
	buf := make([]byte, len(s))
	copy(buf, s)
	return Text{kind: Owned, buf: buf}
}

// Own copies t into a new owned value. Unlike NewOwned, an empty-but-valid
// source yields an empty-but-valid owned text rather than Invalid.
func Own(t Text) Text {
	if t.kind == Invalid {
		return Text{kind: Invalid}
	}
	buf := make([]byte, len(t.buf))
	copy(buf, t.buf)
	return Text{kind: Owned, buf: buf}
}

// View returns a substring of t starting at offset with the given length,
// both clamped to t's bounds. The returned Text keeps t's mutability.
func View(t Text, offset, length int) Text {
	if offset < 0 {
		offset = 0
	}
	if offset > len(t.buf) {
		offset = len(t.buf)
	}
	remaining := len(t.buf) - offset
	if length < 0 || length > remaining {
		length = remaining
	}
	kind := BorrowedRO
	if t.kind == Owned || t.kind == BorrowedMut {
		kind = BorrowedMut
	}
	return Text{kind: kind, buf: t.buf[offset : offset+length]}
}

// Kind reports the storage class of t.
func (t Text) Kind() Kind { return t.kind }

// Len returns the number of bytes in t. Tombstones have length zero.
func (t Text) Len() int { return len(t.buf) }

// IsEmpty reports whether t has zero length.
func (t Text) IsEmpty() bool { return len(t.buf) == 0 }

// IsInvalid reports whether t is the Invalid tombstone.
func (t Text) IsInvalid() bool { return t.kind == Invalid }

// IsDeleted reports whether t is the Deleted tombstone.
func (t Text) IsDeleted() bool { return t.kind == Deleted }

// IsWritable reports whether t may be mutated in place.
func (t Text) IsWritable() bool { return t.kind == Owned || t.kind == BorrowedMut }

// Bytes returns the underlying bytes of t. Callers must not retain the
// slice past a mutation of t's backing buffer.
func (t Text) Bytes() []byte { return t.buf }

// String returns a copy of t's bytes as a string.
func (t Text) String() string { return string(t.buf) }

// At returns the byte at index i.
func (t Text) At(i int) (byte, error) {
	if i < 0 || i >= len(t.buf) {
		return 0, errors.New("text: index out of range")
	}
	return t.buf[i], nil
}

// SetAt assigns the byte at index i. It fails with ErrReadOnly unless t is
// writable.
func (t Text) SetAt(i int, b byte) error {
	if !t.IsWritable() {
		return ErrReadOnly
	}
	if i < 0 || i >= len(t.buf) {
		return errors.New("text: index out of range")
	}
	t.buf[i] = b
	return nil
}

// Equal compares a and b by length then by byte content.
func Equal(a, b Text) bool {
	return bytes.Equal(a.buf, b.buf)
}

// Find returns the position of the first occurrence of b in t at or after
// pos, or Npos if not found.
func Find(t Text, b byte, pos int) int {
	for i := pos; i < len(t.buf); i++ {
		if t.buf[i] == b {
			return i
		}
	}
	return Npos
}

// FindSub returns the position of the first occurrence of sub in t at or
// after pos, or Npos if not found. An empty sub matches at pos itself,
// provided pos <= Len(t).
func FindSub(t Text, sub Text, pos int) int {
	count := len(sub.buf)
	if pos < 0 || pos+count > len(t.buf) {
		return Npos
	}
	if count == 0 {
		return pos
	}
	for ; pos+count <= len(t.buf); pos++ {
		if t.buf[pos] == sub.buf[0] && bytes.Equal(t.buf[pos:pos+count], sub.buf) {
			return pos
		}
	}
	return Npos
}

// RFind returns the position of the last occurrence of b in t at or before
// pos (Npos meaning "search from the end"), or Npos if not found.
func RFind(t Text, b byte, pos int) int {
	if len(t.buf) == 0 {
		return Npos
	}
	if pos < 0 || pos >= len(t.buf) {
		pos = len(t.buf) - 1
	}
	for i := pos; i >= 0; i-- {
		if t.buf[i] == b {
			return i
		}
	}
	return Npos
}

// CharFolder performs case-folding for bytes outside the ASCII range,
// standing in for the external case-folding collaborator.
type CharFolder func(b byte) byte

// ToLower lowercases t in place. ASCII 'A'-'Z' are shifted by 32; bytes
// >= 128 are passed through fold. It fails with ErrReadOnly unless t is
// writable.
func ToLower(t Text, fold CharFolder) error {
	if !t.IsWritable() {
		return ErrReadOnly
	}
	for i, c := range t.buf {
		switch {
		case c >= 'A' && c <= 'Z':
			t.buf[i] = c - 'A' + 'a'
		case c >= 128 && fold != nil:
			t.buf[i] = fold(c)
		}
	}
	return nil
}

// Append appends more's bytes to t, which must be Owned. Unlike the mutators
// above this grows the backing buffer, so it takes a pointer receiver.
func Append(t *Text, more Text) error {
	if t.kind != Owned && t.kind != Invalid {
		return ErrReadOnly
	}
	if more.Len() == 0 {
		return nil
	}
	t.buf = append(t.buf, more.buf...)
	t.kind = Owned
	return nil
}

// AppendByte appends a single byte to an Owned text.
func AppendByte(t *Text, b byte) error {
	if t.kind != Owned && t.kind != Invalid {
		return ErrReadOnly
	}
	t.buf = append(t.buf, b)
	t.kind = Owned
	return nil
}

// AppendInt appends the base-10 representation of v, with a leading '-' for
// negative values, to an Owned text.
func AppendInt(t *Text, v int64) error {
	if t.kind != Owned && t.kind != Invalid {
		return ErrReadOnly
	}
	negative := v < 0
	var digits []byte
	if v == 0 {
		digits = []byte{'0'}
	}
	// Peel digits off v without negating it first: negating math.MinInt64
	// overflows back to itself, so work with the (possibly negative)
	// remainder directly and drop its sign instead.
	for v != 0 {
		digit := v % 10
		if digit < 0 {
			digit = -digit
		}
		digits = append([]byte{byte('0' + digit)}, digits...)
		v /= 10
	}
	if negative {
		t.buf = append(t.buf, '-')
	}
	t.buf = append(t.buf, digits...)
	t.kind = Owned
	return nil
}

// Erase marks t as the Deleted tombstone, dropping its reference to the
// backing buffer.
func Erase(t *Text) {
	t.buf = nil
	t.kind = Deleted
}

// TrimSpaces returns a read-only view of v with leading and trailing ASCII
// space (0x20) removed. Tab, newline and carriage return are deliberately
// not trimmed — this is narrower than strings.TrimSpace.
func TrimSpaces(v Text) Text {
	start, end := 0, len(v.buf)
	for start < end && v.buf[start] == ' ' {
		start++
	}
	for end > start && v.buf[end-1] == ' ' {
		end--
	}
	return Text{kind: BorrowedRO, buf: v.buf[start:end]}
}

// SplitString splits v into two views around the byte at separatorPos,
// which is dropped. When separatorPos is Npos, the first half is all of v
// and the second half is empty.
func SplitString(v Text, separatorPos int) (Text, Text) {
	if separatorPos == Npos {
		return v, View(v, len(v.buf), 0)
	}
	first := View(v, 0, separatorPos)
	second := View(v, separatorPos+1, len(v.buf))
	return first, second
}
