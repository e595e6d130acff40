package message_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mailsift/mailsift/diag"
	"github.com/mailsift/mailsift/message"
)

func hasKind(ds []diag.Diagnostic, k diag.Kind) bool {
	for _, d := range ds {
		if d.Kind == k {
			return true
		}
	}
	return false
}

const simpleEmail = "From: sender@example.com\r\n" +
	"To: recipient@example.com\r\n" +
	"Subject: Simple Test\r\n" +
	"\r\n" +
	"This is a simple plain text email.\r\n"

func TestParse_SimplePlaintext(t *testing.T) {
	t.Parallel()

	m := message.Parse([]byte(simpleEmail))

	assert.Contains(t, strings.ToLower(m.TextBody), "simple plain text email")
	assert.Empty(t, m.HTMLBody)
	assert.Empty(t, m.Attachments)
	assert.Empty(t, m.Diagnostics)

	hs := m.Headers()
	require.Contains(t, hs, "from")
	assert.Contains(t, hs["from"][0], "sender@example.com")
}

const alternativeEmail = "From: sender@example.com\n" +
	"Subject: Multipart Test\n" +
	"Content-Type: multipart/alternative; boundary=\"BOUND\"\n" +
	"\n" +
	"--BOUND\n" +
	"Content-Type: text/plain; charset=utf-8\n" +
	"\n" +
	"This is the plain text version.\n" +
	"--BOUND\n" +
	"Content-Type: text/html; charset=utf-8\n" +
	"\n" +
	"<html><body>This is the <b>HTML</b> version.</body></html>\n" +
	"--BOUND--\n"

func TestParse_MultipartAlternative(t *testing.T) {
	t.Parallel()

	m := message.Parse([]byte(alternativeEmail))

	assert.Contains(t, strings.ToLower(m.TextBody), "plain text version")
	require.NotEmpty(t, m.HTMLBody)
	assert.Contains(t, strings.ToLower(m.HTMLBody), "<html>")
	assert.Contains(t, m.HTMLBody, "<b>HTML</b>")
	assert.Empty(t, m.Attachments)
}

const attachmentsEmail = "From: sender@example.com\n" +
	"Subject: Three Attachments\n" +
	"Content-Type: multipart/mixed; boundary=\"MIXED\"\n" +
	"\n" +
	"--MIXED\n" +
	"Content-Type: text/plain\n" +
	"\n" +
	"See attached files.\n" +
	"--MIXED\n" +
	"Content-Type: text/plain; charset=utf-8\n" +
	"Content-Disposition: attachment; filename=\"file1.txt\"\n" +
	"\n" +
	"Contents of file one.\n" +
	"--MIXED\n" +
	"Content-Type: application/pdf; name=\"document.pdf\"\n" +
	"Content-Disposition: attachment\n" +
	"Content-Transfer-Encoding: base64\n" +
	"\n" +
	"JVBERi0xLjQ=\n" +
	"--MIXED\n" +
	"Content-Type: image/png\n" +
	"Content-Disposition: attachment; filename*=UTF-8''image.png\n" +
	"Content-Transfer-Encoding: base64\n" +
	"\n" +
	"UE5HREFUQS1ub3QtcmVhbGx5\n" +
	"--MIXED--\n"

func TestParse_AttachmentCountAndFilenames(t *testing.T) {
	t.Parallel()

	m := message.Parse([]byte(attachmentsEmail))

	assert.Contains(t, m.TextBody, "See attached files.")
	require.Len(t, m.Attachments, 3)

	names := make([]string, len(m.Attachments))
	for i, a := range m.Attachments {
		names[i] = a.Filename
		assert.NotEmpty(t, a.Data)
	}
	assert.Contains(t, names, "file1.txt")
	assert.Contains(t, names, "document.pdf")
	assert.Contains(t, names, "image.png")
}

func TestParse_Base64AttachmentDecoded(t *testing.T) {
	t.Parallel()

	m := message.Parse([]byte(attachmentsEmail))
	require.Len(t, m.Attachments, 3)

	var pdf *message.Attachment
	for i := range m.Attachments {
		if m.Attachments[i].Filename == "document.pdf" {
			pdf = &m.Attachments[i]
		}
	}
	require.NotNil(t, pdf)
	assert.Equal(t, "application/pdf", pdf.ContentType)
	assert.Equal(t, []byte("%PDF-1.4"), pdf.Data)
	assert.False(t, pdf.Inline)
}

const encodedEmail = "From: sender@example.com\n" +
	"Subject: =?UTF-8?B?SGVsbG8gV29ybGQ=?=\n" +
	"Content-Type: text/plain; charset=utf-8\n" +
	"Content-Transfer-Encoding: quoted-printable\n" +
	"\n" +
	"This is a soft break that=\n" +
	" continues here, and caf=C3=A9 is encoded.\n"

func TestParse_EncodedSubjectAndQuotedPrintableBody(t *testing.T) {
	t.Parallel()

	m := message.Parse([]byte(encodedEmail))

	require.Contains(t, m.Headers(), "subject")
	assert.Equal(t, "Hello World", m.Headers()["subject"][0])

	assert.Contains(t, m.TextBody, "soft break that continues here")
	assert.Contains(t, m.TextBody, "café")
}

const nestedEmail = "From: sender@example.com\n" +
	"Subject: Nested\n" +
	"Content-Type: multipart/mixed; boundary=\"OUTER\"\n" +
	"\n" +
	"--OUTER\n" +
	"Content-Type: multipart/alternative; boundary=\"INNER\"\n" +
	"\n" +
	"--INNER\n" +
	"Content-Type: text/plain\n" +
	"\n" +
	"Plain text version of the message.\n" +
	"--INNER\n" +
	"Content-Type: text/html\n" +
	"\n" +
	"<html><body>HTML version</body></html>\n" +
	"--INNER--\n" +
	"--OUTER\n" +
	"Content-Type: application/pdf\n" +
	"Content-Disposition: attachment; filename=\"doc.pdf\"\n" +
	"Content-Transfer-Encoding: base64\n" +
	"\n" +
	"JVBERi0xLjQ=\n" +
	"--OUTER--\n"

func TestParse_NestedMultipart(t *testing.T) {
	t.Parallel()

	m := message.Parse([]byte(nestedEmail))

	assert.Contains(t, m.TextBody, "Plain text version")
	require.NotEmpty(t, m.HTMLBody)
	assert.Contains(t, strings.ToLower(m.HTMLBody), "<html>")

	require.Len(t, m.Attachments, 1)
	assert.True(t, strings.HasSuffix(m.Attachments[0].Filename, ".pdf"))
}

func TestParse_MultipleReceivedHeaders(t *testing.T) {
	t.Parallel()

	raw := "Received: from server1\n" +
		"Received: from server2\n" +
		"Received: from server3\n" +
		"Subject: Test\n" +
		"Content-Type: text/plain\n" +
		"\n" +
		"Body"
	m := message.Parse([]byte(raw))

	recv := m.Headers()["received"]
	require.Len(t, recv, 3)
	assert.Contains(t, recv[0], "server1")
	assert.Contains(t, recv[1], "server2")
	assert.Contains(t, recv[2], "server3")
}

func TestParse_HeaderFolding(t *testing.T) {
	t.Parallel()

	raw := "Subject: This is a very long subject\n" +
		" that continues on the next line\n" +
		"\tand a third line here\n" +
		"\n" +
		"Body"
	m := message.Parse([]byte(raw))

	subj := m.Headers()["subject"][0]
	assert.Contains(t, strings.ToLower(subj), "very long subject")
	assert.Contains(t, strings.ToLower(subj), "continues")
	assert.Contains(t, strings.ToLower(subj), "third line")
	assert.NotContains(t, subj, "\n")
	assert.NotContains(t, subj, "\r")
}

func TestParse_BoundaryInBodyContent(t *testing.T) {
	t.Parallel()

	raw := "Content-Type: multipart/mixed; boundary=\"TEST\"\n" +
		"\n" +
		"--TEST\n" +
		"Content-Type: text/plain\n" +
		"\n" +
		"This body contains --TEST which looks like a boundary\n" +
		"but it's not alone on a line.\n" +
		"--TEST\n" +
		"Content-Type: text/plain\n" +
		"\n" +
		"Second part.\n" +
		"--TEST--\n"
	m := message.Parse([]byte(raw))

	assert.False(t, hasKind(m.Diagnostics, diag.BoundaryError))
	assert.Contains(t, m.TextBody, "contains --TEST which")
	assert.Contains(t, m.TextBody, "not alone on a line")
}

func TestParse_MissingBoundary(t *testing.T) {
	t.Parallel()

	raw := "Content-Type: multipart/mixed\n" +
		"\n" +
		"--someboundary\n" +
		"Content-Type: text/plain\n" +
		"\n" +
		"Part\n" +
		"--someboundary--\n"
	m := message.Parse([]byte(raw))

	assert.True(t, hasKind(m.Diagnostics, diag.BoundaryError))
	assert.Empty(t, m.Attachments)
	assert.Empty(t, m.TextBody)
}

func TestParse_MissingContentType(t *testing.T) {
	t.Parallel()

	raw := "From: test@example.com\n" +
		"Subject: Test\n" +
		"\n" +
		"Plain body text"
	m := message.Parse([]byte(raw))

	assert.Equal(t, "Plain body text", m.TextBody)
}

func TestParse_MixedLineEndings(t *testing.T) {
	t.Parallel()

	m := message.Parse([]byte("From: test@example.com\r\nSubject: Test\n\nBody"))

	assert.Contains(t, m.Headers(), "from")
	assert.Equal(t, "Body", m.TextBody)
}

func TestParse_RFC2231Filename(t *testing.T) {
	t.Parallel()

	raw := "Content-Type: multipart/mixed; boundary=\"B\"\n" +
		"\n" +
		"--B\n" +
		"Content-Type: text/plain\n" +
		"Content-Disposition: attachment; filename*=UTF-8''test%20file.txt\n" +
		"\n" +
		"Content\n" +
		"--B--\n"
	m := message.Parse([]byte(raw))

	require.Len(t, m.Attachments, 1)
	assert.Equal(t, "test file.txt", m.Attachments[0].Filename)
}

func TestParse_InlineContentID(t *testing.T) {
	t.Parallel()

	raw := "Content-Type: multipart/related; boundary=\"B\"\n" +
		"\n" +
		"--B\n" +
		"Content-Type: text/html\n" +
		"\n" +
		"<img src=\"cid:image1\">\n" +
		"--B\n" +
		"Content-Type: image/png\n" +
		"Content-ID: <image1>\n" +
		"Content-Disposition: inline; filename=\"logo.png\"\n" +
		"\n" +
		"ImageData\n" +
		"--B--\n"
	m := message.Parse([]byte(raw))

	assert.NotEmpty(t, m.HTMLBody)
	require.Len(t, m.Attachments, 1)
	a := m.Attachments[0]
	assert.True(t, a.Inline)
	assert.Equal(t, "logo.png", a.Filename)
	assert.Contains(t, a.ContentID, "image1")
}

func TestParse_ContentIDWithoutDisposition(t *testing.T) {
	t.Parallel()

	// a Content-ID alone makes the part inline content
	raw := "Content-Type: multipart/related; boundary=\"B\"\n" +
		"\n" +
		"--B\n" +
		"Content-Type: image/gif\n" +
		"Content-ID: <pixel@example.com>\n" +
		"\n" +
		"GIFDATA\n" +
		"--B--\n"
	m := message.Parse([]byte(raw))

	require.Len(t, m.Attachments, 1)
	assert.True(t, m.Attachments[0].Inline)
	assert.Equal(t, "unknown", m.Attachments[0].Filename)
}

func TestParse_UnknownLeafIsKept(t *testing.T) {
	t.Parallel()

	// a leaf of unrecognized type with no disposition must not vanish
	raw := "Content-Type: multipart/mixed; boundary=\"B\"\n" +
		"\n" +
		"--B\n" +
		"Content-Type: application/x-mystery\n" +
		"\n" +
		"opaque bytes\n" +
		"--B--\n"
	m := message.Parse([]byte(raw))

	require.Len(t, m.Attachments, 1)
	assert.Equal(t, "application/x-mystery", m.Attachments[0].ContentType)
	assert.Equal(t, "unknown", m.Attachments[0].Filename)
	assert.False(t, m.Attachments[0].Inline)
}

func TestParse_FirstBodyWins(t *testing.T) {
	t.Parallel()

	raw := "Content-Type: multipart/mixed; boundary=\"B\"\n" +
		"\n" +
		"--B\n" +
		"Content-Type: text/plain\n" +
		"\n" +
		"first text\n" +
		"--B\n" +
		"Content-Type: text/plain\n" +
		"\n" +
		"second text\n" +
		"--B--\n"
	m := message.Parse([]byte(raw))

	assert.Equal(t, "first text", m.TextBody)
	assert.Empty(t, m.Attachments)
}

func TestParse_InvalidBase64Body(t *testing.T) {
	t.Parallel()

	raw := "Content-Transfer-Encoding: base64\n" +
		"Content-Type: text/plain\n" +
		"\n" +
		"Not valid base64!!!"
	m := message.Parse([]byte(raw))

	assert.True(t, hasKind(m.Diagnostics, diag.DecodeError))
	assert.Equal(t, "Not valid base64!!!", m.TextBody)
}

func TestParse_GarbageCharset(t *testing.T) {
	t.Parallel()

	raw := "Content-Type: text/plain; charset=\"x-garbage-enc\"\n" +
		"\n" +
		"still readable"
	m := message.Parse([]byte(raw))

	assert.True(t, hasKind(m.Diagnostics, diag.CharsetError))
	assert.Equal(t, "still readable", m.TextBody)
}

func TestParse_NoBlankLine(t *testing.T) {
	t.Parallel()

	m := message.Parse([]byte("From: a@example.com\nSubject: All header no body"))

	assert.True(t, hasKind(m.Diagnostics, diag.InvalidHeader))
	assert.Contains(t, m.Headers(), "subject")
	assert.Empty(t, m.TextBody)
}

func TestParse_EmptyInput(t *testing.T) {
	t.Parallel()

	m := message.Parse(nil)

	assert.True(t, hasKind(m.Diagnostics, diag.InvalidHeader))
	assert.Empty(t, m.Headers())
	assert.Empty(t, m.TextBody)
	assert.Empty(t, m.Attachments)
}

func TestParse_Idempotent(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{simpleEmail, attachmentsEmail, nestedEmail, "garbage\x00input"} {
		m1 := message.Parse([]byte(raw))
		m2 := message.Parse([]byte(raw))
		assert.Equal(t, m1, m2)
	}
}

func TestParse_EmptyPart(t *testing.T) {
	t.Parallel()

	// a boundary arriving while still in headers finalizes an empty-bodied
	// part instead of losing it
	raw := "Content-Type: multipart/mixed; boundary=\"B\"\n" +
		"\n" +
		"--B\n" +
		"Content-Type: application/octet-stream\n" +
		"Content-Disposition: attachment; filename=\"empty.bin\"\n" +
		"--B\n" +
		"Content-Type: text/plain\n" +
		"\n" +
		"real body\n" +
		"--B--\n"
	m := message.Parse([]byte(raw))

	require.Len(t, m.Attachments, 1)
	assert.Equal(t, "empty.bin", m.Attachments[0].Filename)
	assert.Empty(t, m.Attachments[0].Data)
	assert.Equal(t, "real body", m.TextBody)
}

func TestParse_TrailingContentAfterClosingBoundaryIgnored(t *testing.T) {
	t.Parallel()

	raw := "Content-Type: multipart/mixed; boundary=\"B\"\n" +
		"\n" +
		"--B\n" +
		"Content-Type: text/plain\n" +
		"\n" +
		"the body\n" +
		"--B--\n" +
		"This trailer is outside the MIME structure.\n"
	m := message.Parse([]byte(raw))

	assert.Equal(t, "the body", m.TextBody)
	assert.Empty(t, m.Attachments)
}
