// Package field handles individual header fields: unfolding the physical
// lines of a header block into logical field lines, splitting each line into
// a name and body, and decoding RFC 2047 encoded-words found in field bodies.
package field

import "strings"

// Field is a single parsed header field. The name keeps its original
// capitalization; matching is the caller's concern and is case-insensitive
// throughout this module. The body has been unfolded and has had its
// encoded-words decoded.
type Field struct {
	name string
	body string
}

// New constructs a field from a name and a decoded body.
func New(name, body string) *Field {
	return &Field{name, body}
}

// Name returns the name of the header field.
func (f *Field) Name() string {
	return f.name
}

// Key returns the lower-cased name, the form used for case-insensitive
// lookup.
func (f *Field) Key() string {
	return strings.ToLower(f.name)
}

// Body returns the decoded body of the header field.
func (f *Field) Body() string {
	return f.body
}

// String returns the field in "Name: body" form.
func (f *Field) String() string {
	return f.name + ": " + f.body
}
