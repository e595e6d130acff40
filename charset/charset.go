// Package charset converts raw message bytes into text. Email does not
// reliably declare its character encoding, and when it does, the declaration
// is not always honest, so every function here is total: worst case the
// result is a lossy decode with replacement characters, never a failure.
//
// Charset lookup is backed by the IANA registry provided with:
//
//   - golang.org/x/text/encoding/ianaindex
//
// which gives this module the ability to decode pretty much any character set
// it might encounter in the wild wild world of email.
package charset

import (
	"bytes"
	"io"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/ianaindex"

	"github.com/mailsift/mailsift/diag"
)

// Fallbacks is the chain of charsets tried, in order, when the declared
// charset of some content does not decode cleanly.
var Fallbacks = []string{"utf-8", "iso-8859-1", "windows-1252", "latin-1"}

// DecodeRaw converts a raw message buffer into text before any header has
// been parsed, so no declared charset is available yet. It tries strict UTF-8
// first and falls back to ISO-8859-1, which accepts any byte sequence. It
// never fails.
func DecodeRaw(b []byte) string {
	if utf8.Valid(b) {
		return string(b)
	}

	out, err := charmap.ISO8859_1.NewDecoder().Bytes(b)
	if err != nil {
		// ISO-8859-1 maps every byte, so this is unreachable in practice,
		// but the contract is "never fail".
		return strings.ToValidUTF8(string(b), string(utf8.RuneError))
	}
	return string(out)
}

// Decode decodes content bytes using the charset declared for them. The
// declared charset is tried strictly first. If it is unknown or does not
// decode cleanly, the Fallbacks chain is tried in order. If nothing decodes
// cleanly, the bytes are decoded as UTF-8 with replacement characters.
//
// The returned diagnostic is non-nil when the declared charset could not be
// honored: either it named an unknown encoding, or no charset in the chain
// produced a clean decode. The returned string is always usable.
func Decode(b []byte, declared string) (string, *diag.Diagnostic) {
	name := Normalize(declared)
	if name == "" {
		name = "utf-8"
	}

	if s, ok := decodeStrict(b, name); ok {
		return s, nil
	}

	var d *diag.Diagnostic
	if _, err := lookup(name); err != nil {
		nd := diag.New(diag.CharsetError, "unknown charset %q, trying fallbacks", declared)
		d = &nd
	}

	for _, fb := range Fallbacks {
		if fb == name {
			continue
		}
		if s, ok := decodeStrict(b, fb); ok {
			return s, d
		}
	}

	nd := diag.New(diag.CharsetError, "failed to decode with charset %q", name)
	return strings.ToValidUTF8(string(b), string(utf8.RuneError)), &nd
}

// Reader adapts charset decoding to the CharsetReader interface used by
// mime.WordDecoder. Unlike Decode, it reports unknown charsets as errors so
// that the word decoder can leave the original encoded-word in place.
// Known charsets decode with replacement rather than failing.
func Reader(name string, r io.Reader) (io.Reader, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	e, err := lookup(Normalize(name))
	if err != nil {
		return nil, err
	}

	if e == encoding.Nop {
		return strings.NewReader(strings.ToValidUTF8(string(b), string(utf8.RuneError))), nil
	}

	out, err := e.NewDecoder().Bytes(b)
	if err != nil {
		return nil, err
	}
	return bytes.NewReader(out), nil
}

// Normalize canonicalizes a declared charset name for lookup.
func Normalize(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	return strings.Trim(name, `"'`)
}

// lookup resolves a normalized charset name to an encoding. It returns an
// error for names the IANA index does not know.
func lookup(name string) (encoding.Encoding, error) {
	// Aliases seen in real mail that the MIME index does not resolve.
	switch name {
	case "", "utf-8", "utf8":
		return encoding.Nop, nil
	case "latin-1", "latin1":
		return charmap.ISO8859_1, nil
	case "cp1252", "windows-1252":
		return charmap.Windows1252, nil
	}

	e, err := ianaindex.MIME.Encoding(name)
	if err != nil {
		return nil, err
	}
	if e == nil {
		// ianaindex returns a nil encoding without error for names it
		// recognizes but cannot provide.
		return nil, errUnsupported(name)
	}
	return e, nil
}

type errUnsupported string

func (e errUnsupported) Error() string {
	return "no encoding available for charset " + string(e)
}

// decodeStrict decodes b in the named charset and reports whether the result
// is clean, meaning the decoder introduced no replacement characters.
func decodeStrict(b []byte, name string) (string, bool) {
	e, err := lookup(name)
	if err != nil {
		return "", false
	}

	var s string
	if e == encoding.Nop {
		if !utf8.Valid(b) {
			return "", false
		}
		s = string(b)
	} else {
		out, err := e.NewDecoder().Bytes(b)
		if err != nil {
			return "", false
		}
		s = string(out)
	}

	// x/text decoders substitute U+FFFD rather than failing, so treat its
	// presence as a dirty decode.
	if strings.ContainsRune(s, utf8.RuneError) {
		return "", false
	}
	return s, true
}
