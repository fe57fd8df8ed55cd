package cte

import (
	"bytes"
	"encoding/base64"
	"io"
	"mime/quotedprintable"
	"strings"
	"testing"
)

func TestEncodeAllSevenBitPassesThrough(t *testing.T) {
	out, err := EncodeAll(SevenBit, []byte("hello"))
	if err != nil {
		t.Fatalf("EncodeAll error: %v", err)
	}
	if string(out) != "hello" {
		t.Errorf("EncodeAll() = %q", out)
	}
}

func TestEncodeAllSevenBitRejectsHighBit(t *testing.T) {
	_, err := EncodeAll(SevenBit, []byte{0x80})
	if err == nil {
		t.Fatal("expected error encoding a high-bit byte as 7bit")
	}
	var cerr *Error
	if !errorsAs(err, &cerr) || cerr.Kind != CannotEncode {
		t.Errorf("expected CannotEncode, got %v", err)
	}
}

func errorsAs(err error, target **Error) bool {
	if e, ok := err.(*Error); ok {
		*target = e
		return true
	}
	return false
}

func TestEncodeAllBase64RoundTrips(t *testing.T) {
	data := []byte("the quick brown fox jumps over the lazy dog, repeatedly, many times over")
	out, err := EncodeAll(Base64, data)
	if err != nil {
		t.Fatalf("EncodeAll error: %v", err)
	}
	joined := strings.ReplaceAll(string(out), "\r\n", "")
	decoded, err := base64.StdEncoding.DecodeString(joined)
	if err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if !bytes.Equal(decoded, data) {
		t.Errorf("round trip mismatch: got %q, want %q", decoded, data)
	}
	for _, line := range strings.Split(strings.TrimSuffix(string(out), "\r\n"), "\r\n") {
		if len(line) > 76 {
			t.Errorf("base64 line exceeds 76 chars: %d", len(line))
		}
	}
}

func TestEncodeAllQuotedPrintableRoundTrips(t *testing.T) {
	data := []byte("caf\xc3\xa9 \x00 high-bit: \xff end")
	out, err := EncodeAll(QuotedPrintable, data)
	if err != nil {
		t.Fatalf("EncodeAll error: %v", err)
	}
	decoded, err := io.ReadAll(quotedprintable.NewReader(bytes.NewReader(out)))
	if err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if !bytes.Equal(decoded, data) {
		t.Errorf("round trip mismatch: got %q, want %q", decoded, data)
	}
}

func TestEncodeAllInvalidEncoding(t *testing.T) {
	_, err := EncodeAll(Encoding("bogus"), []byte("x"))
	if err == nil {
		t.Fatal("expected error for an unsupported encoding")
	}
}

func TestStreamBase64ChunksAt57Bytes(t *testing.T) {
	payload := bytes.Repeat([]byte{'A'}, 57+5)
	s, err := NewStream(Base64, bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("NewStream error: %v", err)
	}
	var lines []string
	for {
		buf, err := s.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("Next error: %v", err)
		}
		lines = append(lines, strings.TrimSuffix(buf.String(), "\r\n"))
	}
	if len(lines) != 2 {
		t.Fatalf("expected exactly 2 base64 lines from a 57+5 byte payload, got %d: %v", len(lines), lines)
	}
	if s.State() != Drained {
		t.Errorf("State() = %v, want Drained", s.State())
	}
	var joined strings.Builder
	for _, l := range lines {
		joined.WriteString(l)
	}
	decoded, err := base64.StdEncoding.DecodeString(joined.String())
	if err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if !bytes.Equal(decoded, payload) {
		t.Error("decoded stream output does not match input payload")
	}
}

func TestStreamSevenBitRejectsHighBit(t *testing.T) {
	s, err := NewStream(SevenBit, bytes.NewReader([]byte{0x41, 0x80}))
	if err != nil {
		t.Fatalf("NewStream error: %v", err)
	}
	_, err = s.Next()
	if err == nil {
		t.Fatal("expected an error on a high-bit byte")
	}
	if s.State() != Failed {
		t.Errorf("State() = %v, want Failed", s.State())
	}
	_, err2 := s.Next()
	if err2 != err {
		t.Errorf("Next() after Failed should return the same error consistently")
	}
}

func TestStreamQuotedPrintableRoundTrips(t *testing.T) {
	data := bytes.Repeat([]byte("héllo wôrld, \x00binary\xff byte. "), 20)
	s, err := NewStream(QuotedPrintable, bytes.NewReader(data))
	if err != nil {
		t.Fatalf("NewStream error: %v", err)
	}
	var out bytes.Buffer
	for {
		buf, err := s.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("Next error: %v", err)
		}
		out.WriteString(buf.String())
	}
	decoded, err := io.ReadAll(quotedprintable.NewReader(&out))
	if err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if !bytes.Equal(decoded, data) {
		t.Errorf("round trip mismatch: got %q, want %q", decoded, data)
	}
}

func TestStreamIdleBeforeFirstNext(t *testing.T) {
	s, err := NewStream(SevenBit, bytes.NewReader([]byte("x")))
	if err != nil {
		t.Fatalf("NewStream error: %v", err)
	}
	if s.State() != Idle {
		t.Errorf("State() before Next() = %v, want Idle", s.State())
	}
}
