// Package message implements the top-level MailMessage assembler of
// spec.md §4.5: deterministic header-field ordering, then the derived
// Content-Type/Content-Transfer-Encoding headers, then a blank line,
// then the body's fragment stream.
//
// Grounded on the teacher's email/msgbuilder.Builder.write (the
// rewrite-headers-then-stream-body shape), adapted from "mutate an
// email.Msg's stored Header in place" to a one-shot, caller-owned
// value assembled straight to an io.Writer.
package message

import (
	"fmt"
	"io"
	"sort"

	"github.com/sirupsen/logrus"

	"postcraft.dev/mail/addr"
	"postcraft.dev/mail/body"
	"postcraft.dev/mail/charset"
	"postcraft.dev/mail/header"
)

// MailMessage is a complete, ready-to-assemble email.
type MailMessage struct {
	From      addr.Person
	To        []addr.Person
	Cc        []addr.Person
	Bcc       []addr.Person
	Subject   string
	XMailer   string
	InReplyTo string
	MessageID string

	// Extra carries any other storable header field (spec.md §3's
	// list minus the fixed fields above); unknown fields are sorted
	// alphabetically after X-Mailer per spec.md §4.5.
	Extra []header.Entry

	// HeaderCharset encodes Subject/From/To/etc. when they contain
	// non-ASCII scalars (RFC 2047, via the header package).
	HeaderCharset charset.Charset

	Body body.Body

	// Log receives structured diagnostics during assembly (a nil Log
	// is replaced with logrus's standard logger).
	Log logrus.FieldLogger
}

// Assemble writes msg's RFC 5322/2045/2046 byte form to w.
func (m *MailMessage) Assemble(w io.Writer) error {
	log := m.Log
	if log == nil {
		log = logrus.StandardLogger()
	}

	if len(m.To)+len(m.Cc)+len(m.Bcc) == 0 {
		return &Error{Kind: NoRecipients}
	}
	if m.Body == nil {
		return &Error{Kind: NoDataWrittenToStream, Err: fmt.Errorf("message has no body")}
	}

	h := &header.Header{}
	if err := m.addFixedFields(h); err != nil {
		return err
	}

	var others []header.Entry
	if m.InReplyTo != "" {
		others = append(others, header.Entry{Key: "In-Reply-To", Value: m.InReplyTo})
	}
	if m.MessageID != "" {
		others = append(others, header.Entry{Key: "Message-ID", Value: m.MessageID})
	}
	others = append(others, m.Extra...)
	sort.Slice(others, func(i, j int) bool { return others[i].Key < others[j].Key })
	for _, e := range others {
		if err := h.Add(e.Key, e.Value); err != nil {
			return fmt.Errorf("message: %w", err)
		}
	}

	contentFields, err := m.Body.ContentHeaders()
	if err != nil {
		log.WithError(err).Error("message: body content headers failed")
		return err
	}

	n, err := h.EncodeFields(w, m.HeaderCharset)
	if err != nil {
		return err
	}
	for _, f := range contentFields {
		if f.Value == "" {
			continue
		}
		nn, err := fmt.Fprintf(w, "%s: %s\r\n", f.Name, f.Value)
		n += int64(nn)
		if err != nil {
			return err
		}
	}
	if _, err := io.WriteString(w, "\r\n"); err != nil {
		return err
	}

	content, err := m.Body.Content()
	if err != nil {
		return err
	}
	defer content.Close()
	wrote := false
	for {
		buf, err := content.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			log.WithError(err).Error("message: body streaming failed")
			return err
		}
		if buf.Len() > 0 {
			wrote = true
		}
		if _, err := w.Write(buf.Bytes()); err != nil {
			return err
		}
	}
	if !wrote {
		log.Warn("message: assembled with an empty body stream")
	}
	log.WithFields(logrus.Fields{"subject": m.Subject}).Debug("message: assembled")
	return nil
}

func (m *MailMessage) addFixedFields(h *header.Header) error {
	add := func(key header.Key, value string) error {
		if value == "" {
			return nil
		}
		return h.Add(key, value)
	}
	if err := add("From", m.From.String()); err != nil {
		return err
	}
	if err := add("To", addr.Group{Persons: m.To}.String()); err != nil {
		return err
	}
	if err := add("Cc", addr.Group{Persons: m.Cc}.String()); err != nil {
		return err
	}
	if err := add("Bcc", addr.Group{Persons: m.Bcc}.String()); err != nil {
		return err
	}
	if err := add("Subject", m.Subject); err != nil {
		return err
	}
	if err := add("MIME-Version", "1.0"); err != nil {
		return err
	}
	if err := add("X-Mailer", m.XMailer); err != nil {
		return err
	}
	return nil
}
