package field

import (
	"strings"

	"github.com/mailsift/mailsift/diag"
)

// ParseLines splits a header block into logical field lines according to the
// rules this module uses for unfolding. Line endings are normalized first, so
// the block may mix CRLF and LF. A line beginning with a space or tab is a
// folded continuation of the field above it: it is trimmed and joined to the
// pending line with a single space.
//
// This does not follow RFC 5322 precisely. It accepts input the specification
// would reject as part of the effort this library makes to be liberal in what
// it accepts. A continuation or colon-less line appearing before any field
// has started cannot belong to anything; such lines are skipped, and the
// colon-less ones are reported as an InvalidHeader diagnostic.
func ParseLines(block string) ([]string, []diag.Diagnostic) {
	block = strings.ReplaceAll(block, "\r\n", "\n")

	var (
		logical []string
		ds      []diag.Diagnostic
	)
	for _, line := range strings.Split(block, "\n") {
		if line == "" {
			continue
		}

		if line[0] == ' ' || line[0] == '\t' {
			if len(logical) == 0 {
				// Start with a continuation? Weird, uh...
				continue
			}
			pending := strings.TrimRight(logical[len(logical)-1], " \t")
			logical[len(logical)-1] = pending + " " + strings.TrimSpace(line)
			continue
		}

		if !strings.Contains(line, ":") {
			if len(logical) == 0 {
				ds = append(ds, diag.New(diag.InvalidHeader,
					"line before any header field: %q", line))
			}
			// A colon-less line after a field has started carries no name to
			// file it under; it is dropped.
			continue
		}

		logical = append(logical, strings.TrimRight(line, "\r"))
	}

	return logical, ds
}

// Parse splits one logical field line into a Field, decoding any RFC 2047
// encoded-words in the body. Decoding failures leave the affected word as-is
// and are reported as diagnostics.
func Parse(line string) (*Field, []diag.Diagnostic) {
	ix := strings.Index(line, ":")
	if ix < 0 {
		ix = len(line)
	}

	name := strings.TrimSpace(line[:ix])
	var body string
	if ix < len(line) {
		body = strings.TrimSpace(line[ix+1:])
	}

	decoded, ds := DecodeWords(body)
	return New(name, decoded), ds
}
