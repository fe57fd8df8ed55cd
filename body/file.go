package body

import (
	"fmt"
	"io"

	"postcraft.dev/mail/charset"
	"postcraft.dev/mail/cte"
	"postcraft.dev/mail/internal/mimetype"
	"postcraft.dev/mail/param"
	"postcraft.dev/mail/sevenbit"
)

// File is a binary attachment or embedded resource (spec.md §3): an
// attachment when ContentID is empty, an inline multipart/related
// resource (referenced from HTML via "cid:") otherwise.
type File struct {
	Filename    string
	ContentType mimetype.ContentType
	ContentID   ContentID
	Stream      io.Reader

	// ParamCharset/ParamLanguage are used only if Filename needs RFC
	// 2231 continuation encoding (non-ASCII or over-length names).
	ParamCharset  charset.Charset
	ParamLanguage string
}

func (f File) ContentHeaders() ([]HeaderField, error) {
	paramEnc := &param.Encoder{Charset: f.ParamCharset, Language: f.ParamLanguage}
	filenameParam, err := paramEnc.EncodeParam("filename", f.Filename)
	if err != nil {
		return nil, fmt.Errorf("body: file %q: %w", f.Filename, err)
	}

	ct := f.ContentType
	if ct.Params == nil {
		ct.Params = map[string]string{}
	}
	contentType := ct.Full()
	if nameParam, err := paramEnc.EncodeParam("name", f.Filename); err == nil {
		contentType += nameParam
	}

	disposition := "attachment"
	if f.ContentID != "" {
		disposition = "inline"
	}

	fields := []HeaderField{
		{Name: "Content-Type", Value: contentType},
		{Name: "Content-Disposition", Value: disposition + filenameParam},
	}
	if f.ContentID != "" {
		fields = append(fields, HeaderField{Name: "Content-ID", Value: f.ContentID.String()})
	}
	fields = append(fields, HeaderField{Name: "Content-Transfer-Encoding", Value: string(cte.Base64)})
	return fields, nil
}

func (f File) Content() (FragmentIterator, error) {
	return NewLazy(func() (FragmentIterator, error) {
		s, err := cte.NewStream(cte.Base64, f.Stream)
		if err != nil {
			return nil, err
		}
		return &cteStreamIterator{s: s, src: f.Stream}, nil
	}), nil
}

// cteStreamIterator adapts a *cte.Stream to FragmentIterator. Close
// closes the underlying source (if it is an io.Closer); Next does not
// close it on exhaustion.
type cteStreamIterator struct {
	s   *cte.Stream
	src io.Reader
}

func (c *cteStreamIterator) Next() (*sevenbit.Buffer, error) {
	return c.s.Next()
}

func (c *cteStreamIterator) Close() error {
	if closer, ok := c.src.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
