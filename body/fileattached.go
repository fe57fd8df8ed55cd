package body

import "fmt"

const mimePreamble = "This is a multi-part message in MIME format.\r\n\r\n"

// FileAttached is a multipart/mixed body: a main body plus a list of
// file attachments (spec.md §3).
type FileAttached struct {
	MainBody Body
	Files    []File
	Boundary string
}

func (f FileAttached) ContentHeaders() ([]HeaderField, error) {
	return []HeaderField{
		{Name: "Content-Type", Value: fmt.Sprintf("multipart/mixed; boundary=%s", f.Boundary)},
	}, nil
}

func (f FileAttached) Content() (FragmentIterator, error) {
	kids := make([]Body, 0, len(f.Files)+1)
	kids = append(kids, f.MainBody)
	for _, file := range f.Files {
		kids = append(kids, file)
	}
	frame, err := boundaryFrame(f.Boundary, kids)
	if err != nil {
		return nil, err
	}
	return NewConcat(literal(mimePreamble), frame), nil
}
