package header

import (
	"github.com/mailsift/mailsift/diag"
	"github.com/mailsift/mailsift/header/field"
)

// Parse parses a header block into a Header. The block is everything before
// the blank line separating the header from the body; both CRLF and LF line
// endings are accepted, folded lines are unfolded, and RFC 2047
// encoded-words are decoded.
//
// Parse never fails. Structural problems and word-decoding failures degrade
// to best-effort values and are returned as diagnostics in discovery order.
func Parse(block string) (*Header, []diag.Diagnostic) {
	lines, ds := field.ParseLines(block)

	h := &Header{}
	for _, line := range lines {
		f, fds := field.Parse(line)
		ds = append(ds, fds...)
		h.fields = append(h.fields, f)
	}

	return h, ds
}
