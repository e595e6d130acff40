package message

import "github.com/mailsift/mailsift/diag"

// Parser is a stateful convenience wrapper around Parse. It retains the most
// recent parse result so the accessor methods can answer without the caller
// holding on to the returned Message. The Message returned by Parse is the
// single source of truth; the accessors return exactly its values, never
// defaults.
//
// A Parser owns only its cached last-result reference. It is not safe for
// concurrent use; concurrent callers should use separate Parsers, or call
// the package-level Parse directly, which is pure.
type Parser struct {
	last *Message
}

// NewParser returns a Parser with no parse performed yet.
func NewParser() *Parser {
	return &Parser{}
}

// Parse parses the raw message and caches the result for the accessors.
func (p *Parser) Parse(raw []byte) *Message {
	p.last = Parse(raw)
	return p.last
}

// Headers returns the last result's header map. Before any parse it returns
// an empty map.
func (p *Parser) Headers() map[string][]string {
	if p.last == nil {
		return map[string][]string{}
	}
	return p.last.Headers()
}

// Body returns the last result's primary plain-text body.
func (p *Parser) Body() string {
	if p.last == nil {
		return ""
	}
	return p.last.TextBody
}

// HTMLBody returns the last result's primary HTML body.
func (p *Parser) HTMLBody() string {
	if p.last == nil {
		return ""
	}
	return p.last.HTMLBody
}

// Attachments returns the last result's attachments.
func (p *Parser) Attachments() []Attachment {
	if p.last == nil {
		return nil
	}
	return p.last.Attachments
}

// Diagnostics returns the last result's diagnostics.
func (p *Parser) Diagnostics() []diag.Diagnostic {
	if p.last == nil {
		return nil
	}
	return p.last.Diagnostics
}
