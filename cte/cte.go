// Package cte implements the Content-Transfer-Encoding engine: 7bit,
// base64 and quoted-printable, in one-shot and streaming form, per
// spec.md §4.3.
//
// The one-shot base64/quoted-printable paths are grounded on the
// teacher's msgbuilder.EncodeContent (spilled-ink-spilld
// email/msgbuilder/msgbuilder.go), which reaches for the same stdlib
// packages (encoding/base64, mime/quotedprintable) this package uses.
package cte

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"io"
	"mime/quotedprintable"

	"postcraft.dev/mail/sevenbit"
)

// Encoding is a Content-Transfer-Encoding label.
type Encoding string

const (
	SevenBit        Encoding = "7bit"
	Base64          Encoding = "base64"
	QuotedPrintable Encoding = "quoted-printable"
)

// Kind distinguishes the CTE engine's fatal error cases (spec.md §7).
type Kind int

const (
	// InvalidContentTransferEncoding: the requested label is unsupported.
	InvalidContentTransferEncoding Kind = iota
	// CannotEncode: 7bit encoding saw a byte with its top bit set.
	CannotEncode
	// Non7bitRepresentation: fallback for an unrecognized CTE label on read.
	Non7bitRepresentation
	// UnexpectedError: underlying I/O error with no further detail.
	UnexpectedError
)

func (k Kind) String() string {
	switch k {
	case InvalidContentTransferEncoding:
		return "InvalidContentTransferEncoding"
	case CannotEncode:
		return "CannotEncode"
	case Non7bitRepresentation:
		return "Non7bitRepresentation"
	case UnexpectedError:
		return "UnexpectedError"
	}
	return "Unknown"
}

// Error reports a CTE engine failure, tagged by Kind.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("cte: %s: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("cte: %s", e.Kind)
}

func (e *Error) Unwrap() error { return e.Err }

const base64LineChars = 76

// EncodeAll runs the one-shot form of enc over data.
func EncodeAll(enc Encoding, data []byte) ([]byte, error) {
	switch enc {
	case SevenBit, "":
		for _, b := range data {
			if b > 0x7F {
				return nil, &Error{Kind: CannotEncode, Err: fmt.Errorf("byte 0x%02x has its top bit set", b)}
			}
		}
		out := make([]byte, len(data))
		copy(out, data)
		return out, nil

	case Base64:
		return encodeBase64All(data), nil

	case QuotedPrintable:
		var buf bytes.Buffer
		w := quotedprintable.NewWriter(&buf)
		if _, err := w.Write(data); err != nil {
			return nil, &Error{Kind: UnexpectedError, Err: err}
		}
		if err := w.Close(); err != nil {
			return nil, &Error{Kind: UnexpectedError, Err: err}
		}
		return buf.Bytes(), nil

	default:
		return nil, &Error{Kind: InvalidContentTransferEncoding, Err: fmt.Errorf("unsupported encoding %q", enc)}
	}
}

func encodeBase64All(data []byte) []byte {
	full := base64.StdEncoding.EncodeToString(data)
	var out bytes.Buffer
	for len(full) > 0 {
		n := base64LineChars
		if n > len(full) {
			n = len(full)
		}
		out.WriteString(full[:n])
		out.WriteString("\r\n")
		full = full[n:]
	}
	return out.Bytes()
}

// State is a CteStream's lifecycle stage (spec.md §4.3).
type State int

const (
	Idle State = iota
	Reading
	Drained
	Failed
)

// readBufSize is the internal read-buffer size for quoted-printable
// and 7bit streaming; base64 instead reads an exact multiple of 3
// bytes per fragment (spec.md §4.3).
const readBufSize = 4096

// base64ChunkBytes is (76/4)*3 source bytes: exactly the input that
// produces one 76-character base64 output line with no padding.
const base64ChunkBytes = (base64LineChars / 4) * 3

// Stream wraps an io.Reader and yields sevenbit.Buffer fragments
// encoded under enc, one read-sized chunk at a time.
type Stream struct {
	enc   Encoding
	r     io.Reader
	state State
	err   error

	qpw    *quotedprintable.Writer
	qpBuf  bytes.Buffer
	rawBuf []byte
}

// NewStream constructs a streaming encoder over r.
func NewStream(enc Encoding, r io.Reader) (*Stream, error) {
	switch enc {
	case SevenBit, "", Base64, QuotedPrintable:
	default:
		return nil, &Error{Kind: InvalidContentTransferEncoding, Err: fmt.Errorf("unsupported encoding %q", enc)}
	}
	s := &Stream{enc: enc, r: r, state: Idle}
	if enc == QuotedPrintable {
		s.qpw = quotedprintable.NewWriter(&s.qpBuf)
	}
	switch enc {
	case Base64:
		s.rawBuf = make([]byte, base64ChunkBytes)
	default:
		s.rawBuf = make([]byte, readBufSize)
	}
	return s, nil
}

// State reports the stream's current lifecycle stage.
func (s *Stream) State() State { return s.state }

// Next returns the next encoded fragment, or io.EOF once drained.
// After a Failed transition, Next always returns the same error.
func (s *Stream) Next() (*sevenbit.Buffer, error) {
	if s.state == Failed {
		return nil, s.err
	}
	if s.state == Drained {
		return nil, io.EOF
	}
	s.state = Reading

	switch s.enc {
	case SevenBit, "":
		return s.nextSevenBit()
	case Base64:
		return s.nextBase64()
	case QuotedPrintable:
		return s.nextQP()
	}
	return nil, s.fail(&Error{Kind: InvalidContentTransferEncoding})
}

func (s *Stream) fail(err error) error {
	s.state = Failed
	s.err = err
	return err
}

func (s *Stream) readChunk() (int, bool, error) {
	n, err := io.ReadFull(s.r, s.rawBuf)
	if err == nil {
		return n, false, nil
	}
	if err == io.ErrUnexpectedEOF || err == io.EOF {
		return n, true, nil
	}
	return n, false, err
}

func (s *Stream) nextSevenBit() (*sevenbit.Buffer, error) {
	n, eof, err := s.readChunk()
	if err != nil {
		return nil, s.fail(&Error{Kind: UnexpectedError, Err: err})
	}
	if n == 0 && eof {
		s.state = Drained
		return nil, io.EOF
	}
	chunk := s.rawBuf[:n]
	for _, b := range chunk {
		if b > 0x7F {
			return nil, s.fail(&Error{Kind: CannotEncode, Err: fmt.Errorf("byte 0x%02x has its top bit set", b)})
		}
	}
	if eof {
		s.state = Drained
	}
	out, _ := sevenbit.FromBytes(chunk)
	return out, nil
}

func (s *Stream) nextBase64() (*sevenbit.Buffer, error) {
	n, eof, err := s.readChunk()
	if err != nil {
		return nil, s.fail(&Error{Kind: UnexpectedError, Err: err})
	}
	if n == 0 && eof {
		s.state = Drained
		return nil, io.EOF
	}
	if eof {
		s.state = Drained
	}
	encoded := base64.StdEncoding.EncodeToString(s.rawBuf[:n])
	out := sevenbit.NewBuffer(len(encoded) + 2)
	out.AppendString(encoded)
	out.AppendString("\r\n")
	return out, nil
}

func (s *Stream) nextQP() (*sevenbit.Buffer, error) {
	n, eof, err := s.readChunk()
	if err != nil {
		return nil, s.fail(&Error{Kind: UnexpectedError, Err: err})
	}
	if n > 0 {
		if _, err := s.qpw.Write(s.rawBuf[:n]); err != nil {
			return nil, s.fail(&Error{Kind: UnexpectedError, Err: err})
		}
	}
	if eof {
		if err := s.qpw.Close(); err != nil {
			return nil, s.fail(&Error{Kind: UnexpectedError, Err: err})
		}
		s.state = Drained
	}
	if s.qpBuf.Len() == 0 {
		if eof {
			return nil, io.EOF
		}
		// Nothing buffered yet (writer is holding a partial line);
		// pull more input before yielding a fragment.
		return s.nextQP()
	}
	out, ok := sevenbit.FromBytes(s.qpBuf.Bytes())
	if !ok {
		return nil, s.fail(&Error{Kind: UnexpectedError, Err: fmt.Errorf("quoted-printable encoder emitted a non-7bit byte")})
	}
	s.qpBuf.Reset()
	if eof {
		return out, nil
	}
	return out, nil
}
