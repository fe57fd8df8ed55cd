// Package body implements the recursive body tree and lazy
// fragment-stream assembly pipeline of spec.md §3 and §4.5: the
// PlainText / RichText / HtmlContent / FileAttached / File variants,
// each exposing its MIME header fields and a FragmentIterator over its
// encoded content.
//
// Grounded on the teacher's email/msgbuilder package (tree.go's
// recursive TreeNode construction, msgbuilder.go's boundary/streaming
// writers), restructured from "build a tree then walk it with an
// io.Writer" into the spec's "each body is itself a lazy fragment
// stream" shape (spec.md §9's design note): a tagged Body variant plus
// a uniform FragmentIterator with ConstBuf/Lazy/Concat implementations.
package body

import (
	"io"

	"postcraft.dev/mail/sevenbit"
)

// FragmentIterator yields successive SafeByteBuffer fragments of a
// body's encoded form. Next returns (nil, io.EOF) once exhausted.
// Close releases any held resource (e.g. an open attachment stream);
// it is always safe to call, including after EOF or an error.
type FragmentIterator interface {
	Next() (*sevenbit.Buffer, error)
	Close() error
}

// ConstBuf is a FragmentIterator over a single, already-built buffer.
type ConstBuf struct {
	buf  *sevenbit.Buffer
	done bool
}

// NewConstBuf wraps buf as a one-shot FragmentIterator.
func NewConstBuf(buf *sevenbit.Buffer) *ConstBuf {
	return &ConstBuf{buf: buf}
}

func (c *ConstBuf) Next() (*sevenbit.Buffer, error) {
	if c.done {
		return nil, io.EOF
	}
	c.done = true
	return c.buf, nil
}

func (c *ConstBuf) Close() error { return nil }

// Lazy defers calling factory until the first Next call, then
// delegates to the iterator it returns.
type Lazy struct {
	factory func() (FragmentIterator, error)
	inner   FragmentIterator
	err     error
}

// NewLazy wraps factory as a deferred FragmentIterator.
func NewLazy(factory func() (FragmentIterator, error)) *Lazy {
	return &Lazy{factory: factory}
}

func (l *Lazy) Next() (*sevenbit.Buffer, error) {
	if l.err != nil {
		return nil, l.err
	}
	if l.inner == nil {
		inner, err := l.factory()
		if err != nil {
			l.err = err
			return nil, err
		}
		l.inner = inner
	}
	return l.inner.Next()
}

func (l *Lazy) Close() error {
	if l.inner == nil {
		return nil
	}
	return l.inner.Close()
}

// Concat drains an ordered sequence of child iterators, one fully
// before the next, presenting them as a single stream.
type Concat struct {
	kids []FragmentIterator
	i    int
}

// NewConcat sequences kids in order.
func NewConcat(kids ...FragmentIterator) *Concat {
	return &Concat{kids: kids}
}

func (c *Concat) Next() (*sevenbit.Buffer, error) {
	for c.i < len(c.kids) {
		buf, err := c.kids[c.i].Next()
		if err == io.EOF {
			c.i++
			continue
		}
		if err != nil {
			return nil, err
		}
		return buf, nil
	}
	return nil, io.EOF
}

func (c *Concat) Close() error {
	var first error
	for _, k := range c.kids {
		if err := k.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// literal is a FragmentIterator over a fixed ASCII string, used for
// boundary delimiter lines and other constant framing text.
func literal(s string) FragmentIterator {
	buf := sevenbit.NewBuffer(len(s))
	buf.AppendString(s)
	return NewConstBuf(buf)
}

// drainAll pulls every fragment from it and writes it to w, closing it
// on the way out regardless of outcome.
func drainAll(w io.Writer, it FragmentIterator) error {
	defer it.Close()
	for {
		buf, err := it.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if _, err := w.Write(buf.Bytes()); err != nil {
			return err
		}
	}
}
