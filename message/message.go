// Package message is the heart of this library. It turns a raw email byte
// buffer into a structured Message: decoded headers, the primary plain-text
// and HTML bodies, attachments from every nesting level of the MIME part
// tree, and the list of everything that went wrong along the way.
//
// The parser survives adversarial, truncated, and non-conformant input. It
// has no failure mode: Parse always returns a Message, and every recoverable
// problem is degraded to a best-effort substitute and recorded as a
// diag.Diagnostic in discovery order. A corrupt attachment still yields a
// Message with correct headers and whatever other parts did decode, plus an
// honest diagnostic trail.
package message

import (
	"github.com/mailsift/mailsift/diag"
	"github.com/mailsift/mailsift/header"
)

// Message is the structured result of parsing one raw email message. It is
// constructed fresh by each Parse call and never mutated afterwards.
type Message struct {
	// Header holds the ordered, duplicate-preserving message header.
	Header *header.Header

	// TextBody is the decoded content of the first text/plain leaf part
	// found in a pre-order walk of the part tree, or the decoded body of a
	// non-multipart message. Empty when the message has neither.
	TextBody string

	// HTMLBody is the decoded content of the first text/html leaf part, or
	// empty when the message has none.
	HTMLBody string

	// Attachments lists every part classified as an attachment or inline
	// content, from all nesting levels, in discovery order.
	Attachments []Attachment

	// Diagnostics records every recoverable failure encountered, in the
	// order the single parsing pass discovered them.
	Diagnostics []diag.Diagnostic
}

// Headers renders the header as a map from lower-cased field name to the
// ordered values for that name. See header.Header.Map.
func (m *Message) Headers() map[string][]string {
	return m.Header.Map()
}

// Attachment is one non-body leaf part of a parsed message.
type Attachment struct {
	// Filename is the best-effort resolved name: the Content-Disposition
	// filename parameter, its RFC 2231 extended form, or the Content-Type
	// name parameter, in that order. "unknown" when none resolve.
	Filename string

	// ContentType is the part's media type, e.g. "application/pdf".
	ContentType string

	// Data is the transfer-decoded payload. It is binary-safe and may be
	// non-UTF-8; for a base64 image this is the raw image bytes.
	Data []byte

	// Text is the charset-decoded string view of Data. For genuinely binary
	// payloads this view is lossy; Data is authoritative.
	Text string

	// ContentID is the part's Content-ID field value, angle brackets
	// included, or empty.
	ContentID string

	// Inline is true when the part was declared inline or carried a
	// Content-ID without an explicit attachment disposition.
	Inline bool
}
