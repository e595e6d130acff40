// Package param parses parameterized header field bodies, the form used by
// Content-type and Content-disposition. Parsing never fails: when the strict
// parser rejects a malformed body, a lenient scan recovers the primary value
// and the parameters the rest of the module needs.
package param

import (
	"mime"
	"regexp"
	"strings"

	"github.com/mailsift/mailsift/charset"
)

// Names of the parameters this module cares about.
const (
	// Charset is the charset parameter of the Content-type header.
	Charset = "charset"

	// Boundary is the boundary parameter of the Content-type header.
	Boundary = "boundary"

	// Filename is the filename parameter of the Content-disposition header.
	Filename = "filename"

	// Name is the name parameter some mailers set on the Content-type header
	// in place of a proper Content-disposition filename.
	Name = "name"
)

// Value is a parsed parameterized header field body: a primary value plus
// zero or more name=value parameters. Values are immutable once parsed.
type Value struct {
	v  string
	ps map[string]string
}

// lenient fallback patterns, applied only when mime.ParseMediaType rejects
// the input. Quoted forms are tried before unquoted ones.
var (
	quotedParam   = regexp.MustCompile(`(?i)\b(boundary|charset|filename\*|filename|name)\s*=\s*"([^"]*)"`)
	unquotedParam = regexp.MustCompile(`(?i)\b(boundary|charset|filename\*|filename|name)\s*=\s*([^\s;]+)`)
)

// Parse parses a parameterized header field body. It tries the strict
// mime.ParseMediaType first and falls back to a lenient pattern scan when
// that fails, so it always returns a usable Value.
func Parse(body string) *Value {
	mt, ps, err := mime.ParseMediaType(body)
	if err == nil {
		// mime.ParseMediaType silently drops RFC 2231 extended parameters in
		// charsets it cannot decode itself. Recover the raw form so that
		// Filename() can decode it with the full charset table.
		if _, ok := ps[Filename]; !ok && strings.Contains(strings.ToLower(body), Filename+"*") {
			for _, re := range []*regexp.Regexp{quotedParam, unquotedParam} {
				for _, m := range re.FindAllStringSubmatch(body, -1) {
					if strings.EqualFold(m[1], Filename+"*") {
						ps[Filename+"*"] = m[2]
					}
				}
			}
		}
		return &Value{strings.ToLower(strings.TrimSpace(mt)), ps}
	}

	v := body
	if ix := strings.Index(body, ";"); ix >= 0 {
		v = body[:ix]
	}

	ps = map[string]string{}
	for _, m := range quotedParam.FindAllStringSubmatch(body, -1) {
		ps[strings.ToLower(m[1])] = m[2]
	}
	for _, m := range unquotedParam.FindAllStringSubmatch(body, -1) {
		k := strings.ToLower(m[1])
		if _, ok := ps[k]; !ok {
			// Unterminated quotes land here; strip them.
			ps[k] = strings.Trim(m[2], `"`)
		}
	}

	return &Value{strings.ToLower(strings.TrimSpace(v)), ps}
}

// Value returns the primary value, the part before the first semi-colon,
// lower-cased.
func (pv *Value) Value() string {
	return pv.v
}

// MediaType is a synonym for Value() for use with the Content-type header,
// e.g. "text/html" or "multipart/mixed".
func (pv *Value) MediaType() string {
	return pv.v
}

// Disposition is a synonym for Value() for use with the Content-disposition
// header, either "inline" or "attachment".
func (pv *Value) Disposition() string {
	return pv.v
}

// Type returns the part of the media type before the slash, or an empty
// string when there is no slash.
func (pv *Value) Type() string {
	if ix := strings.IndexRune(pv.v, '/'); ix >= 0 {
		return pv.v[:ix]
	}
	return ""
}

// Subtype returns the part of the media type after the slash, or an empty
// string when there is no slash.
func (pv *Value) Subtype() string {
	if ix := strings.IndexRune(pv.v, '/'); ix >= 0 {
		return pv.v[ix+1:]
	}
	return ""
}

// Parameter returns the value of the named parameter or an empty string.
func (pv *Value) Parameter(k string) string {
	return pv.ps[k]
}

// Charset returns the charset parameter.
func (pv *Value) Charset() string {
	return pv.ps[Charset]
}

// Boundary returns the boundary parameter.
func (pv *Value) Boundary() string {
	return pv.ps[Boundary]
}

// Filename resolves the filename parameter, decoding the RFC 2231 extended
// form (filename*=charset'lang'percent-escapes) when the plain form is
// absent. It returns an empty string when no filename can be resolved.
func (pv *Value) Filename() string {
	if fn := pv.ps[Filename]; fn != "" {
		return fn
	}
	if ext := pv.ps[Filename+"*"]; ext != "" {
		return decodeExtended(ext)
	}
	return ""
}

// Name returns the name parameter, the Content-type fallback some mailers
// use for attachment filenames.
func (pv *Value) Name() string {
	return pv.ps[Name]
}

// decodeExtended decodes an RFC 2231 extended parameter value of the form
// charset'language'percent-escapes. If the value does not have that shape or
// the charset cannot decode it, the raw value is returned as a best effort.
func decodeExtended(v string) string {
	first := strings.Index(v, "'")
	if first < 0 {
		return v
	}
	second := strings.Index(v[first+1:], "'")
	if second < 0 {
		return v
	}

	cs := v[:first]
	data := v[first+1+second+1:]

	raw := percentDecode(data)
	s, _ := charset.Decode(raw, cs)
	return s
}

// percentDecode resolves %XX escapes into bytes, leaving malformed escapes
// as literal text.
func percentDecode(s string) []byte {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '%' && i+2 < len(s) {
			hi, okHi := unhex(s[i+1])
			lo, okLo := unhex(s[i+2])
			if okHi && okLo {
				out = append(out, hi<<4|lo)
				i += 2
				continue
			}
		}
		out = append(out, s[i])
	}
	return out
}

func unhex(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}
