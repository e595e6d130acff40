package message

import (
	"strings"

	"github.com/mailsift/mailsift/charset"
	"github.com/mailsift/mailsift/diag"
	"github.com/mailsift/mailsift/header"
	"github.com/mailsift/mailsift/header/param"
	"github.com/mailsift/mailsift/transfer"
)

// Parse parses a raw email message. The input is an arbitrary byte sequence
// with no assumption of well-formedness; zero-length input is valid and
// yields an empty header, an empty body, and an InvalidHeader diagnostic.
//
// Parsing proceeds in a single top-to-bottom pass. The raw bytes are decoded
// to text (UTF-8 first, then ISO-8859-1), the header block is split off at
// the first blank line and parsed, and then the body is either decoded
// directly or, for multipart/* messages, walked with a boundary-driven state
// machine that recurses into nested multipart parts. Each leaf part has its
// Content-transfer-encoding and charset resolved and is classified as the
// primary text body, the primary HTML body, inline content, or an
// attachment.
//
// Parse is pure: it holds no state between calls, so parsing the same input
// twice produces identical results, and concurrent callers need no
// coordination.
func Parse(raw []byte) *Message {
	b := &builder{}

	text := charset.DecodeRaw(raw)
	head, body := b.splitHeadFromBody(text)

	hdr, ds := header.Parse(head)
	b.diags.Append(ds...)

	ct := hdr.GetContentType()
	if ct.Type() == "multipart" {
		b.walkMultipart(body, ct)
	} else {
		// A single-part message is its own text body, whatever its subtype.
		b.text = b.decodeLeaf(body, hdr.GetTransferEncoding(), ct.Charset()).text
	}

	return &Message{
		Header:      hdr,
		TextBody:    b.text,
		HTMLBody:    b.html,
		Attachments: b.atts,
		Diagnostics: b.diags.All(),
	}
}

// builder accumulates the outcome of one parsing pass: the first text and
// HTML bodies found, attachments from every nesting level, and diagnostics
// in discovery order.
type builder struct {
	diags diag.List
	text  string
	html  string
	atts  []Attachment
}

// rawPart is a transient node produced while walking a multipart body: the
// part's parsed header and its still-encoded body text. A rawPart whose
// Content-type is multipart/* triggers recursive expansion.
type rawPart struct {
	hdr  *header.Header
	body string
}

// decoded is the result of resolving a leaf part's transfer encoding and
// charset.
type decoded struct {
	data []byte
	text string
}

// splitHeadFromBody finds the first blank line separating the header block
// from the body, preferring CRLF CRLF and accepting LF LF. When neither is
// present the entire input is treated as header with an empty body and an
// InvalidHeader diagnostic is recorded; parsing continues rather than
// aborting.
func (b *builder) splitHeadFromBody(text string) (head, body string) {
	if ix := strings.Index(text, "\r\n\r\n"); ix >= 0 {
		return text[:ix], text[ix+4:]
	}
	if ix := strings.Index(text, "\n\n"); ix >= 0 {
		return text[:ix], text[ix+2:]
	}
	b.diags.Add(diag.InvalidHeader, "no blank line between headers and body")
	return text, ""
}

// walkMultipart splits a multipart body into parts using the boundary from
// the given Content-type and classifies each one. A multipart region whose
// Content-type carries no boundary parameter yields no parts and a
// BoundaryError; it never aborts the overall parse.
func (b *builder) walkMultipart(body string, ct *param.Value) {
	boundary := ct.Boundary()
	if boundary == "" {
		b.diags.Add(diag.BoundaryError, "no boundary found in %q", ct.MediaType())
		return
	}

	b.classify(b.splitParts(body, boundary))
}

// Multipart walker states.
const (
	seekingBoundary = iota
	inHeaders
	inBody
)

// splitParts runs the boundary state machine over a multipart body and
// returns the parts it delimits. Comparison against the boundary markers is
// exact on whitespace-trimmed lines, so a boundary string embedded mid-line
// in part content does not end the part. Lines after the closing marker are
// ignored.
func (b *builder) splitParts(body, boundary string) []rawPart {
	body = strings.ReplaceAll(body, "\r\n", "\n")

	open := "--" + boundary
	closing := "--" + boundary + "--"

	var (
		parts     []rawPart
		hdrLines  []string
		bodyLines []string
	)

	finalize := func(partBody string) {
		hdr, ds := header.Parse(strings.Join(hdrLines, "\n"))
		b.diags.Append(ds...)
		parts = append(parts, rawPart{hdr, partBody})
	}

	state := seekingBoundary
walk:
	for _, line := range strings.Split(body, "\n") {
		t := strings.TrimSpace(line)

		switch state {
		case seekingBoundary:
			switch t {
			case open:
				state = inHeaders
				hdrLines, bodyLines = nil, nil
			case closing:
				break walk
			}

		case inHeaders:
			switch t {
			case "":
				state = inBody
			case open, closing:
				// A boundary while still in headers means an empty-bodied
				// part.
				if len(hdrLines) > 0 {
					finalize("")
				}
				hdrLines, bodyLines = nil, nil
				if t == closing {
					state = seekingBoundary
				}
			default:
				hdrLines = append(hdrLines, line)
			}

		case inBody:
			switch t {
			case open:
				finalize(strings.Join(bodyLines, "\n"))
				hdrLines, bodyLines = nil, nil
				state = inHeaders
			case closing:
				finalize(strings.Join(bodyLines, "\n"))
				break walk
			default:
				bodyLines = append(bodyLines, line)
			}
		}
	}

	return parts
}

// classify assigns each part to one of: nested multipart (recursed into),
// attachment, inline content, primary text body, or primary HTML body. The
// first text/plain and text/html leaves win at the outermost level;
// attachments from all nesting levels are concatenated in discovery order. A
// leaf of unrecognized type with no disposition is kept as an attachment
// rather than silently dropped.
func (b *builder) classify(parts []rawPart) {
	for _, p := range parts {
		ct := p.hdr.GetContentType()

		if ct.Type() == "multipart" {
			b.walkMultipart(p.body, ct)
			continue
		}

		dispRaw, _ := p.hdr.Get(header.ContentDisposition)
		disp := strings.ToLower(dispRaw)
		cid := p.hdr.GetContentID()
		dec := b.decodeLeaf(p.body, p.hdr.GetTransferEncoding(), ct.Charset())

		switch {
		case strings.Contains(disp, "attachment"):
			b.addAttachment(p, ct, dec, cid, false)
		case strings.Contains(disp, "inline") || cid != "":
			b.addAttachment(p, ct, dec, cid, true)
		case ct.MediaType() == "text/plain":
			if b.text == "" {
				b.text = dec.text
			}
		case ct.MediaType() == "text/html":
			if b.html == "" {
				b.html = dec.text
			}
		default:
			b.addAttachment(p, ct, dec, cid, false)
		}
	}
}

// decodeLeaf resolves a leaf part's transfer encoding and charset, recording
// any diagnostics either step produced.
func (b *builder) decodeLeaf(body, encoding, cs string) decoded {
	data, td := transfer.Decode(body, encoding)
	if td != nil {
		b.diags.Append(*td)
	}

	text, cd := charset.Decode(data, cs)
	if cd != nil {
		b.diags.Append(*cd)
	}

	return decoded{data, text}
}

// addAttachment records a classified part with its best-effort filename.
func (b *builder) addAttachment(p rawPart, ct *param.Value, dec decoded, cid string, inline bool) {
	b.atts = append(b.atts, Attachment{
		Filename:    resolveFilename(p.hdr.GetContentDisposition(), ct),
		ContentType: ct.MediaType(),
		Data:        dec.data,
		Text:        dec.text,
		ContentID:   cid,
		Inline:      inline,
	})
}

// resolveFilename applies the filename resolution priority: the
// Content-disposition filename parameter (including its RFC 2231 extended
// form), then the Content-type name parameter, then "unknown".
func resolveFilename(cd, ct *param.Value) string {
	if fn := cd.Filename(); fn != "" {
		return fn
	}
	if fn := ct.Filename(); fn != "" {
		return fn
	}
	if fn := ct.Name(); fn != "" {
		return fn
	}
	return "unknown"
}
