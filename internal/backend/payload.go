package backend

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/textproto"
	"strings"
)

// Field is a single text part of a submission.
type Field struct {
	Name  string
	Value string
}

// FilePart is a single file part of a submission.
type FilePart struct {
	Field       string
	Name        string
	ContentType string
	Data        []byte
}

// Payload is an ordered multipart submission body.
type Payload struct {
	Fields []Field
	Files  []FilePart
}

// AddField appends a text part.
func (p *Payload) AddField(name, value string) {
	p.Fields = append(p.Fields, Field{Name: name, Value: value})
}

// AddFile appends a file part under field.
func (p *Payload) AddFile(field, name, contentType string, data []byte) {
	p.Files = append(p.Files, FilePart{
		Field:       field,
		Name:        name,
		ContentType: contentType,
		Data:        data,
	})
}

// Value returns the first text value stored under name.
func (p Payload) Value(name string) (string, bool) {
	for _, f := range p.Fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return "", false
}

// FileCount reports how many file parts are stored under field.
func (p Payload) FileCount(field string) int {
	n := 0
	for _, f := range p.Files {
		if f.Field == field {
			n++
		}
	}
	return n
}

// Has reports whether name appears as either a text or a file part.
func (p Payload) Has(name string) bool {
	_, ok := p.Value(name)
	return ok || p.FileCount(name) > 0
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// Encode renders the payload as multipart/form-data and returns the body and
// its content type.
func (p Payload) Encode() (*bytes.Buffer, string, error) {
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)

	for _, f := range p.Fields {
		if err := w.WriteField(f.Name, f.Value); err != nil {
			return nil, "", fmt.Errorf("writing field %s: %w", f.Name, err)
		}
	}

	for _, f := range p.Files {
		contentType := f.ContentType
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
			quoteEscaper.Replace(f.Field), quoteEscaper.Replace(f.Name)))
		h.Set("Content-Type", contentType)
		part, err := w.CreatePart(h)
		if err != nil {
			return nil, "", fmt.Errorf("creating part %s: %w", f.Field, err)
		}
		if _, err := part.Write(f.Data); err != nil {
			return nil, "", fmt.Errorf("writing part %s: %w", f.Field, err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("closing multipart writer: %w", err)
	}
	return body, w.FormDataContentType(), nil
}
