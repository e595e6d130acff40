// Package header provides the parsed representation of an email message
// header: an ordered, duplicate-preserving, case-insensitive collection of
// fields, with convenience getters for the structured fields the rest of the
// module needs.
package header

import (
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/araddon/dateparse"

	"github.com/mailsift/mailsift/header/field"
	"github.com/mailsift/mailsift/header/param"
)

// Standard field names used throughout this module.
const (
	ContentDisposition      = "Content-Disposition"
	ContentID               = "Content-ID"
	ContentTransferEncoding = "Content-Transfer-Encoding"
	ContentType             = "Content-Type"
	Date                    = "Date"
	From                    = "From"
	Subject                 = "Subject"
	To                      = "To"
)

// Defaults applied when a field is absent, per MIME.
const (
	DefaultMediaType        = "text/plain"
	DefaultTransferEncoding = "7bit"
)

// A weird date format seen in the wild that the usual parsers have trouble
// with.
const unixDateWithEarlyYear = "Mon Jan 02 15:04:05 2006 MST"

// Header is an ordered list of header fields. Field names are matched
// case-insensitively, repeated fields are all retained in encounter order,
// and insertion order is preserved across distinct names as well.
//
// The zero value is an empty header ready to use.
type Header struct {
	fields []*field.Field
}

// Add appends a field to the header. Existing fields with the same name are
// kept; the new value lands after them in encounter order.
func (h *Header) Add(name, body string) {
	h.fields = append(h.fields, field.New(name, body))
}

// Len returns the number of fields, counting repeats.
func (h *Header) Len() int {
	return len(h.fields)
}

// Fields returns the fields in encounter order.
func (h *Header) Fields() []*field.Field {
	return h.fields
}

// Names returns the distinct lower-cased field names in order of first
// appearance.
func (h *Header) Names() []string {
	seen := make(map[string]struct{}, len(h.fields))
	names := make([]string, 0, len(h.fields))
	for _, f := range h.fields {
		k := f.Key()
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		names = append(names, k)
	}
	return names
}

// Get returns the first value of the named field. The second return is false
// when the field is not set at all.
func (h *Header) Get(name string) (string, bool) {
	for _, f := range h.fields {
		if strings.EqualFold(f.Name(), name) {
			return f.Body(), true
		}
	}
	return "", false
}

// GetAll returns every value of the named field in encounter order, or nil
// when the field is absent. A present field always has at least one value.
func (h *Header) GetAll(name string) []string {
	var vs []string
	for _, f := range h.fields {
		if strings.EqualFold(f.Name(), name) {
			vs = append(vs, f.Body())
		}
	}
	return vs
}

// Map renders the header as a mapping from lower-cased field name to the
// ordered list of values for that name. Keys appear only for fields that are
// set, and no value list is ever empty.
func (h *Header) Map() map[string][]string {
	m := make(map[string][]string, len(h.fields))
	for _, f := range h.fields {
		m[f.Key()] = append(m[f.Key()], f.Body())
	}
	return m
}

// GetContentType returns the parsed Content-Type value. A missing or
// malformed field yields the text/plain default.
func (h *Header) GetContentType() *param.Value {
	ct, ok := h.Get(ContentType)
	if !ok || strings.TrimSpace(ct) == "" {
		ct = DefaultMediaType
	}
	return param.Parse(ct)
}

// GetContentDisposition returns the parsed Content-Disposition value. A
// missing field yields an empty disposition.
func (h *Header) GetContentDisposition() *param.Value {
	cd, _ := h.Get(ContentDisposition)
	return param.Parse(cd)
}

// GetTransferEncoding returns the normalized Content-Transfer-Encoding
// token, defaulting to 7bit.
func (h *Header) GetTransferEncoding() string {
	cte, ok := h.Get(ContentTransferEncoding)
	if !ok || strings.TrimSpace(cte) == "" {
		return DefaultTransferEncoding
	}
	return strings.ToLower(strings.TrimSpace(cte))
}

// GetContentID returns the Content-ID value as-is, angle brackets included,
// or an empty string.
func (h *Header) GetContentID() string {
	cid, _ := h.Get(ContentID)
	return cid
}

// ParseTime parses a date field body. It tries the RFC 5322 format first and
// falls back to parsing it in many other formats.
func ParseTime(body string) (time.Time, error) {
	t, err := mail.ParseDate(body)
	if err == nil {
		return t, nil
	}

	t, err = dateparse.ParseAny(body)
	if err == nil {
		return t, nil
	}

	t, err = time.Parse(unixDateWithEarlyYear, body)
	if err == nil {
		return t, nil
	}

	return t, fmt.Errorf("time string %q cannot be parsed", body)
}

// GetTime parses the named field as a date. It returns an error when the
// field is absent or no known format matches.
func (h *Header) GetTime(name string) (time.Time, error) {
	body, ok := h.Get(name)
	if !ok {
		return time.Time{}, fmt.Errorf("no %s field in header", name)
	}
	return ParseTime(body)
}

// GetDate parses the Date field.
func (h *Header) GetDate() (time.Time, error) {
	return h.GetTime(Date)
}
