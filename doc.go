// Package mailsift is a tolerant parser for electronic mail. It turns a raw
// message byte buffer into a structured result conforming to RFC 5322 for
// headers and RFC 2045/2046/2047/2231 for MIME bodies, multipart structure,
// encoded header words, and extended parameter encoding.
//
// Inbound mail is hostile territory: truncated messages, dishonest charset
// declarations, boundaries that never close, encoded-words that do not
// decode. The design principle throughout this module is best-effort
// degradation. No input crashes the parser and no failure aborts a parse;
// every recoverable problem is replaced with the closest usable substitute
// and recorded as a diagnostic on the result, so callers get correct headers
// and whatever parts did decode along with an honest account of the rest.
//
// The code is split according to the layer of the problem each package
// solves. The charset package converts bytes to text without ever failing.
// The header packages unfold, split, and decode message headers, preserving
// duplicate fields in order. The transfer package resolves
// Content-transfer-encodings. The message package ties these together: it
// splits header from body, walks multipart trees with a boundary-driven
// state machine, classifies each leaf part as primary text, primary HTML,
// inline content, or attachment, and returns the assembled message.Message.
// The diag package defines the diagnostic records all layers accumulate. The
// mbox package is a small convenience for running the parser over mbox
// mailbox files.
//
// Parsing is the entire scope. This module does not speak SMTP, IMAP, or
// POP, does not validate address grammar, and does not compose or serialize
// messages.
package mailsift
