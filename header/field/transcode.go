package field

import (
	"mime"
	"regexp"
	"strings"

	"github.com/mailsift/mailsift/charset"
	"github.com/mailsift/mailsift/diag"
)

// encodedWord matches a single RFC 2047 encoded-word of the form
// =?charset?B|Q?encoded-text?=.
var encodedWord = regexp.MustCompile(`=\?[^?]+\?[BQbq]\?[^?]*\?=`)

// DecodeWords decodes every RFC 2047 encoded-word found in a field body,
// substituting each in place. Words are decoded independently: one malformed
// word is left as-is and reported as a DecodeError without affecting the rest
// of the body.
func DecodeWords(body string) (string, []diag.Diagnostic) {
	if !strings.Contains(body, "=?") {
		return body, nil
	}

	dec := &mime.WordDecoder{CharsetReader: charset.Reader}

	var ds []diag.Diagnostic
	decoded := encodedWord.ReplaceAllStringFunc(body, func(word string) string {
		s, err := dec.Decode(word)
		if err != nil {
			ds = append(ds, diag.New(diag.DecodeError,
				"header decode failed: %v", err))
			return word
		}
		return s
	})

	return decoded, ds
}
