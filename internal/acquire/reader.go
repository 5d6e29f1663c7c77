package acquire

import (
	"bufio"
	"context"
	"io"

	"ttc/internal/domain"
)

// Reader consumes a line-oriented measurement source. Every line lands in
// the raw log; lines that parse as samples additionally go to the sample
// callback. The source's wire format does not matter to the caller.
type Reader struct {
	src      io.Reader
	raw      *RawLog
	onSample func(domain.Sample)
	onError  func(error)
}

// NewReader wires a source to a raw log and a sample callback. onError may
// be nil; raw may be nil when no raw-line view is wanted.
func NewReader(src io.Reader, raw *RawLog, onSample func(domain.Sample), onError func(error)) *Reader {
	return &Reader{src: src, raw: raw, onSample: onSample, onError: onError}
}

// Run reads lines until EOF or context cancellation. Cancelling mid-test
// stops cleanly and leaves any session buffer the callback fed intact.
// Returns nil on EOF, ctx.Err() on cancellation.
func (r *Reader) Run(ctx context.Context) error {
	lines := make(chan string)
	errs := make(chan error, 1)

	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(r.src)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		if err := scanner.Err(); err != nil {
			errs <- err
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-errs:
			if r.onError != nil {
				r.onError(err)
			}
			return err
		case line, ok := <-lines:
			if !ok {
				select {
				case err := <-errs:
					if r.onError != nil {
						r.onError(err)
					}
					return err
				default:
					return nil
				}
			}
			if r.raw != nil {
				r.raw.Add(line)
			}
			if sample, ok := ParseLine(line); ok && r.onSample != nil {
				r.onSample(sample)
			}
		}
	}
}
