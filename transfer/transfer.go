// Package transfer decodes Content-transfer-encodings. Only base64 and
// quoted-printable actually transform bytes; 7bit, 8bit, binary, a missing
// header, and any unrecognized token all leave the content as-is.
//
// Decoding never fails: malformed input degrades to the original text plus a
// diagnostic, because downstream layers must always have something to show.
package transfer

import (
	"io"
	"mime/quotedprintable"
	"strings"

	"github.com/mailsift/mailsift/diag"
)

// Tokens recognized in the Content-transfer-encoding field.
const (
	None            = ""                 // bytes are left as-is
	Bit7            = "7bit"             // bytes are left as-is
	Bit8            = "8bit"             // bytes are left as-is
	Binary          = "binary"           // bytes are left as-is
	QuotedPrintable = "quoted-printable" // hex escapes and soft line breaks
	Base64          = "base64"           // base64, possibly wrapped across lines
)

// Decode applies the named Content-transfer-encoding to a part body and
// returns the decoded bytes. Unrecognized tokens pass the body through
// unchanged. The diagnostic is non-nil when the body claimed an encoding it
// does not conform to; the returned bytes are then the best effort described
// on each case below.
func Decode(body, encoding string) ([]byte, *diag.Diagnostic) {
	switch strings.ToLower(strings.TrimSpace(encoding)) {
	case Base64:
		return decodeBase64(body)
	case QuotedPrintable:
		return decodeQuotedPrintable(body)
	default:
		// None, Bit7, Bit8, Binary, or anything unrecognized.
		return []byte(body), nil
	}
}

// decodeBase64 strips all whitespace, including the line breaks base64
// bodies are wrapped with, then decodes. Invalid input keeps the original
// encoded text so the content is not lost.
func decodeBase64(body string) ([]byte, *diag.Diagnostic) {
	clean := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '\r', '\n':
			return -1
		}
		return r
	}, body)

	if clean == "" {
		return []byte{}, nil
	}

	out, err := base64Decode(clean)
	if err != nil {
		d := diag.New(diag.DecodeError, "body decode failed: %v", err)
		return []byte(body), &d
	}
	return out, nil
}

// decodeQuotedPrintable removes soft line breaks and resolves =XX escapes.
// The reader stops at the first malformed escape; whatever decoded up to
// that point is kept and the failure is diagnosed.
func decodeQuotedPrintable(body string) ([]byte, *diag.Diagnostic) {
	out, err := io.ReadAll(quotedprintable.NewReader(strings.NewReader(body)))
	if err != nil {
		d := diag.New(diag.DecodeError, "body decode failed: %v", err)
		if len(out) == 0 {
			return []byte(body), &d
		}
		return out, &d
	}
	return out, nil
}
