// Package extract pulls the treatment read pairs that carry at least one
// novel k-mer.
package extract

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/RoaringBitmap/roaring/v2/roaring64"
	"github.com/dustin/go-humanize"

	"novokmer/internal/cmdutil"
	"novokmer/internal/kmer"
	"novokmer/internal/kmerset"
	"novokmer/internal/seqio"
)

// Lookup is the read side of the filtered set.
type Lookup interface {
	Get(key uint64) (kmerset.Entry, bool)
}

// PairSource yields mate pairs; seqio.PairReader implements it.
type PairSource interface {
	Next() (*seqio.Record, *seqio.Record, error)
	Truncated() bool
	Err() error
	Close() error
}

// Pair is an accepted read pair. R1 and R2 own their memory.
type Pair struct {
	Ordinal uint64 // 0-based position in the treatment pair stream
	R1, R2  seqio.Record
}

type Config struct {
	K        int
	MinCount int
	Policy   kmer.Policy
	Logger   *slog.Logger
	// ProgressEvery throttles progress lines; 0 disables them.
	ProgressEvery time.Duration
}

// Result holds the accepted pairs in input order.
type Result struct {
	Pairs   []Pair
	Scanned uint64
	// Hits has the ordinal of every accepted pair.
	Hits *roaring64.Bitmap
	// Truncated is set when one mate stream ran out before the other.
	Truncated bool
}

// Hit locates the window that qualified a pair.
type Hit struct {
	Mate  int // 0 for mate 1, 1 for mate 2
	Pos   int
	Key   uint64
	Count uint16
}

// Matcher tests sequences against the filtered set.
type Matcher struct {
	set      Lookup
	k        int
	minCount int
	policy   kmer.Policy
}

func NewMatcher(set Lookup, cfg Config) *Matcher {
	return &Matcher{set: set, k: cfg.K, minCount: max(cfg.MinCount, 1), policy: cfg.Policy}
}

// FirstHit returns the first window, scanning the mates in order, whose
// entry has at least MinCount occurrences. It stops at that window.
func (m *Matcher) FirstHit(mates ...[]byte) (Hit, bool) {
	for i, seq := range mates {
		for pos, key := range kmer.Windows(seq, m.k, m.policy) {
			if e, ok := m.set.Get(key); ok && int(e.Count) >= m.minCount {
				return Hit{Mate: i, Pos: pos, Key: key, Count: e.Count}, true
			}
		}
	}
	return Hit{}, false
}

// Extract scans every pair of src and keeps those with a hit. src is
// closed on return. A mate count mismatch ends the scan without error.
func Extract(ctx context.Context, src PairSource, set Lookup, cfg Config) (Result, error) {
	defer src.Close()
	if err := kmer.ValidK(cfg.K); err != nil {
		return Result{}, err
	}
	log := cmdutil.OrDiscard(cfg.Logger)
	prog := cmdutil.NewProgress(log, "extract", "pairs", cfg.ProgressEvery)
	m := NewMatcher(set, cfg)
	res := Result{Hits: roaring64.New()}
	start := time.Now()

	for {
		if res.Scanned&0xff == 0 {
			if err := ctx.Err(); err != nil {
				return res, err
			}
		}
		r1, r2, err := src.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return res, err
		}
		ord := res.Scanned
		res.Scanned++
		prog.Tick(res.Scanned)
		if _, ok := m.FirstHit(r1.Seq, r2.Seq); !ok {
			continue
		}
		res.Pairs = append(res.Pairs, Pair{Ordinal: ord, R1: r1.Clone(), R2: r2.Clone()})
		res.Hits.Add(ord)
	}

	res.Truncated = src.Truncated()
	if res.Truncated {
		log.Warn("mate streams differ in length; pair scan stopped early", "pairs", res.Scanned)
	}
	if err := src.Err(); err != nil {
		log.Warn("treatment input ended early", "err", err)
	}
	log.Info("extract done",
		"pairs", humanize.Comma(int64(res.Scanned)),
		"candidates", humanize.Comma(int64(len(res.Pairs))),
		"elapsed", time.Since(start).Round(time.Millisecond),
	)
	return res, nil
}
