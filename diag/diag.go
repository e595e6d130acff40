// Package diag defines the diagnostic records collected while parsing a
// message. The parser in this module never aborts on malformed input. Instead,
// every recoverable failure is degraded to a best-effort substitute and
// described by a Diagnostic appended to the result. Callers inspect the
// accumulated diagnostics to decide whether to trust a parsed message; the
// parser itself makes no pass/fail judgment.
package diag

import "fmt"

// Kind classifies a Diagnostic.
type Kind string

// The four kinds of recoverable parse failure.
const (
	// InvalidHeader marks structural header problems: a missing blank line
	// between header and body, a header line without a colon, or a
	// continuation line before any header field has started.
	InvalidHeader Kind = "INVALID_HEADER"

	// DecodeError marks a Content-transfer-encoding or RFC 2047 encoded-word
	// that could not be decoded. The original text is kept in place of the
	// decoded form.
	DecodeError Kind = "DECODE_ERROR"

	// BoundaryError marks a multipart region whose Content-type carries no
	// usable boundary parameter. The region yields no parts.
	BoundaryError Kind = "BOUNDARY_ERROR"

	// CharsetError marks content for which neither the declared charset nor
	// any fallback decoded cleanly. The content is decoded with replacement
	// characters instead.
	CharsetError Kind = "CHARSET_ERROR"
)

// Diagnostic describes a single recoverable failure encountered during a
// parse. It is pure data, not an error: nothing in this module returns or
// panics with one.
type Diagnostic struct {
	Kind    Kind
	Message string
}

// New builds a Diagnostic with a formatted message.
func New(kind Kind, format string, args ...any) Diagnostic {
	return Diagnostic{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// String renders the diagnostic in KIND: message form.
func (d Diagnostic) String() string {
	return string(d.Kind) + ": " + d.Message
}

// List accumulates diagnostics in discovery order. The zero value is ready to
// use.
type List struct {
	ds []Diagnostic
}

// Add appends a diagnostic built from the given kind and format arguments.
func (l *List) Add(kind Kind, format string, args ...any) {
	l.ds = append(l.ds, New(kind, format, args...))
}

// Append appends already-built diagnostics, typically to merge the list
// collected by a lower layer.
func (l *List) Append(ds ...Diagnostic) {
	l.ds = append(l.ds, ds...)
}

// All returns the accumulated diagnostics in discovery order.
func (l *List) All() []Diagnostic {
	return l.ds
}

// Len returns the number of accumulated diagnostics.
func (l *List) Len() int {
	return len(l.ds)
}

// Has reports whether any accumulated diagnostic is of the given kind.
func (l *List) Has(kind Kind) bool {
	for _, d := range l.ds {
		if d.Kind == kind {
			return true
		}
	}
	return false
}
