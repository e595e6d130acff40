// Package mbox loads messages from mbox mailbox streams and feeds them
// through the parser. The mbox format is a plain concatenation of messages,
// so this is file-format plumbing only; no mail transport is involved.
package mbox

import (
	"context"
	"fmt"
	"io"

	"github.com/emersion/go-mbox"
	"golang.org/x/sync/errgroup"

	"github.com/mailsift/mailsift/message"
)

// DefaultConcurrency is the number of messages ParseAll decodes at once when
// the caller passes a non-positive limit.
const DefaultConcurrency = 4

// ReadMessages splits an mbox stream into raw messages in mailbox order.
func ReadMessages(r io.Reader) ([][]byte, error) {
	mr := mbox.NewReader(r)

	var msgs [][]byte
	for {
		next, err := mr.NextMessage()
		if err == io.EOF {
			break
		}
		if err != nil {
			return msgs, fmt.Errorf("reading mbox message %d: %w", len(msgs), err)
		}

		raw, err := io.ReadAll(next)
		if err != nil {
			return msgs, fmt.Errorf("reading mbox message %d: %w", len(msgs), err)
		}
		msgs = append(msgs, raw)
	}

	return msgs, nil
}

// ParseAll reads every message from an mbox stream and parses them,
// returning the results in mailbox order. Parsing itself never fails, so
// malformed messages come back as partial results carrying diagnostics; an
// error here means the stream could not be read or the context was
// canceled.
//
// The parser is pure, so messages are parsed concurrently, at most
// concurrency at a time (DefaultConcurrency when non-positive).
func ParseAll(ctx context.Context, r io.Reader, concurrency int) ([]*message.Message, error) {
	raws, err := ReadMessages(r)
	if err != nil {
		return nil, err
	}

	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	out := make([]*message.Message, len(raws))
	for i, raw := range raws {
		i, raw := i, raw
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			out[i] = message.Parse(raw)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
