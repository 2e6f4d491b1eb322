package seqio

import (
	"context"
	"fmt"
	"io"
	"strings"

	"golang.org/x/sync/errgroup"
)

// multiReader reads several inputs back to back as one stream. Each file
// is opened when the previous one is exhausted.
type multiReader struct {
	ctx   context.Context
	paths []string
	mode  Mode
	cur   Reader
	next  int
	err   error
	done  bool
}

// OpenMulti returns a Reader over the concatenation of paths. The first
// file is opened immediately so obvious problems surface at once.
func OpenMulti(ctx context.Context, paths []string, mode Mode) (Reader, error) {
	if len(paths) == 1 {
		return Open(ctx, paths[0], mode)
	}
	m := &multiReader{ctx: ctx, paths: paths, mode: mode}
	if err := m.advance(); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *multiReader) advance() error {
	if m.cur != nil {
		err := m.cur.Close()
		m.cur = nil
		if err != nil {
			return err
		}
	}
	if m.next >= len(m.paths) {
		m.done = true
		return nil
	}
	r, err := Open(m.ctx, m.paths[m.next], m.mode)
	if err != nil {
		return err
	}
	m.cur = r
	m.next++
	return nil
}

func (m *multiReader) Next() (*Record, error) {
	for !m.done {
		rec, err := m.cur.Next()
		if err == nil {
			return rec, nil
		}
		if err != io.EOF {
			m.done = true
			return nil, err
		}
		// A malformed record ends the whole logical stream, not just
		// the file it was found in.
		if merr := m.cur.Err(); merr != nil {
			m.err = merr
			m.done = true
			break
		}
		if err := m.advance(); err != nil {
			m.done = true
			return nil, err
		}
	}
	return nil, io.EOF
}

func (m *multiReader) Err() error { return m.err }

func (m *multiReader) Source() string { return strings.Join(m.paths, ",") }

func (m *multiReader) Close() error {
	m.done = true
	if m.cur == nil {
		return nil
	}
	err := m.cur.Close()
	m.cur = nil
	return err
}

// CheckReadable opens and closes every path concurrently and returns the
// first failure. Stdin is skipped since it cannot be reopened.
func CheckReadable(ctx context.Context, paths []string) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(8)
	for _, p := range paths {
		if p == "-" {
			continue
		}
		g.Go(func() error {
			r, err := Open(gctx, p, SkipName|SkipQual)
			if err != nil {
				return fmt.Errorf("open %s: %w", p, err)
			}
			return r.Close()
		})
	}
	return g.Wait()
}
