// Package sevenbit provides the byte-level invariant the rest of this
// module builds on: every byte written into a MIME message, header or
// body, has its top bit clear.
package sevenbit

import "fmt"

// Byte is a byte known to be in [0x00, 0x7F].
type Byte byte

// Max is the largest representable Byte.
const Max Byte = 0x7F

// New validates b and returns it as a Byte.
func New(b byte) (Byte, bool) {
	if b > byte(Max) {
		return 0, false
	}
	return Byte(b), true
}

// Add returns a+b, wrapping within the 7-bit range.
func (a Byte) Add(b Byte) Byte {
	return Byte((byte(a) + byte(b)) & byte(Max))
}

// Sub returns a-b, wrapping within the 7-bit range.
//
// This is ordinary subtraction. (An earlier ancestor of this design
// defined the '-' operator on the underlying type to perform addition;
// that was a bug, not a feature, and is not reproduced here.)
func (a Byte) Sub(b Byte) Byte {
	return Byte((byte(a) - byte(b)) & byte(Max))
}

// Buffer is an append-only, randomly-addressable sequence of Byte.
//
// Its invariant is maintained at construction: a Buffer grows only
// through Append (which takes an already-typed Byte), AppendBytes and
// AppendString (which validate their input), and Concat (which copies
// from another Buffer).
type Buffer struct {
	b []byte
}

// NewBuffer returns an empty Buffer with room for at least capacity bytes.
func NewBuffer(capacity int) *Buffer {
	return &Buffer{b: make([]byte, 0, capacity)}
}

// FromValidated wraps already-7-bit bytes without copying or checking them.
// Callers must guarantee the invariant.
func FromValidated(b []byte) *Buffer {
	return &Buffer{b: b}
}

// FromBytes copies b into a new Buffer, validating every byte.
// It reports false if any byte has its top bit set.
func FromBytes(b []byte) (*Buffer, bool) {
	for _, c := range b {
		if c > byte(Max) {
			return nil, false
		}
	}
	cp := make([]byte, len(b))
	copy(cp, b)
	return &Buffer{b: cp}, true
}

// Append adds a single validated byte.
func (buf *Buffer) Append(b Byte) {
	buf.b = append(buf.b, byte(b))
}

// AppendBytes validates and appends each byte in b, returning false
// (and appending nothing) if any byte is out of range.
func (buf *Buffer) AppendBytes(b []byte) bool {
	for _, c := range b {
		if c > byte(Max) {
			return false
		}
	}
	buf.b = append(buf.b, b...)
	return true
}

// AppendString is AppendBytes over the ASCII bytes of s.
func (buf *Buffer) AppendString(s string) bool {
	return buf.AppendBytes([]byte(s))
}

// Concat appends the contents of other to buf and returns buf.
func (buf *Buffer) Concat(other *Buffer) *Buffer {
	buf.b = append(buf.b, other.b...)
	return buf
}

// Len returns the number of bytes held.
func (buf *Buffer) Len() int { return len(buf.b) }

// At returns the byte at index i.
func (buf *Buffer) At(i int) Byte { return Byte(buf.b[i]) }

// Bytes returns the underlying byte slice. Callers must not mutate it.
func (buf *Buffer) Bytes() []byte { return buf.b }

// String renders the buffer as a string (always valid ASCII).
func (buf *Buffer) String() string { return string(buf.b) }

func (buf *Buffer) GoString() string {
	return fmt.Sprintf("sevenbit.Buffer(%q)", buf.b)
}
