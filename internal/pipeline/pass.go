package pipeline

import (
	"context"
	"io"
	"sync"

	"golang.org/x/sync/errgroup"

	"novokmer/internal/cmdutil"
	"novokmer/internal/kmer"
	"novokmer/internal/seqio"
)

// tally accumulates per-pass counters.
type tally struct {
	reads, windows, skipped, hits uint64
	malformed                     int
}

func (t *tally) add(o tally) {
	t.reads += o.reads
	t.windows += o.windows
	t.skipped += o.skipped
	t.hits += o.hits
	t.malformed += o.malformed
}

// Batches handed to workers are capped by bases and by reads.
const (
	batchBases = 1 << 20
	batchReads = 1 << 12
)

// batch is a run of sequences copied out of a reader.
type batch struct {
	buf  []byte
	ends []int
}

func (b *batch) each(fn func([]byte)) {
	start := 0
	for _, end := range b.ends {
		fn(b.buf[start:end])
		start = end
	}
}

// pass applies fn to every canonical window of every read of streams and
// sums what fn returns. All streams are closed before it returns.
func (p *Pipeline) pass(ctx context.Context, phase string, streams []seqio.Reader, fn func(uint64) uint64) (tally, error) {
	defer closeAll(streams)
	prog := cmdutil.NewProgress(p.log, phase, "reads", p.cfg.ProgressEvery)
	if p.cfg.Threads <= 1 {
		var t tally
		for _, r := range streams {
			err := p.drain(ctx, r, &t, prog, func(seq []byte) error {
				p.scan(seq, fn, &t)
				return nil
			})
			if err != nil {
				return t, err
			}
		}
		return t, nil
	}
	return p.parallel(ctx, streams, prog, fn)
}

// parallel reads the streams on one goroutine and fans batches of reads
// out to Threads workers.
func (p *Pipeline) parallel(ctx context.Context, streams []seqio.Reader, prog *cmdutil.Progress, fn func(uint64) uint64) (tally, error) {
	g, gctx := errgroup.WithContext(ctx)
	jobs := make(chan *batch, p.cfg.Threads*2)

	var (
		mu    sync.Mutex
		total tally
	)
	for w := 0; w < p.cfg.Threads; w++ {
		g.Go(func() error {
			var t tally
			for b := range jobs {
				b.each(func(seq []byte) { p.scan(seq, fn, &t) })
			}
			mu.Lock()
			total.add(t)
			mu.Unlock()
			return nil
		})
	}

	var fed tally
	g.Go(func() error {
		defer close(jobs)
		b := &batch{}
		send := func() error {
			if len(b.ends) == 0 {
				return nil
			}
			select {
			case jobs <- b:
			case <-gctx.Done():
				return gctx.Err()
			}
			b = &batch{}
			return nil
		}
		for _, r := range streams {
			err := p.drain(gctx, r, &fed, prog, func(seq []byte) error {
				b.buf = append(b.buf, seq...)
				b.ends = append(b.ends, len(b.buf))
				if len(b.buf) >= batchBases || len(b.ends) >= batchReads {
					return send()
				}
				return nil
			})
			if err != nil {
				return err
			}
		}
		return send()
	})

	err := g.Wait()
	total.add(fed)
	if err != nil && ctx.Err() != nil {
		return total, ctx.Err()
	}
	return total, err
}

// scan feeds the canonical windows of seq to fn.
func (p *Pipeline) scan(seq []byte, fn func(uint64) uint64, t *tally) {
	n := 0
	for _, key := range kmer.Windows(seq, p.cfg.K, p.cfg.Policy) {
		t.hits += fn(key)
		n++
	}
	t.windows += uint64(n)
	t.skipped += uint64(kmer.Positions(len(seq), p.cfg.K) - n)
}

// drain pulls every record from r, checking ctx every few hundred reads.
// A malformed tail is logged and counted, not returned. pass closes r.
func (p *Pipeline) drain(ctx context.Context, r seqio.Reader, t *tally, prog *cmdutil.Progress, visit func(seq []byte) error) error {
	for {
		if t.reads&0xff == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		rec, err := r.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		t.reads++
		prog.Tick(t.reads)
		if err := visit(rec.Seq); err != nil {
			return err
		}
	}
	if err := r.Err(); err != nil {
		t.malformed++
		p.log.Warn("input ended early", "source", r.Source(), "err", err)
	}
	return nil
}

func closeAll(streams []seqio.Reader) {
	for _, r := range streams {
		if r != nil {
			_ = r.Close()
		}
	}
}
