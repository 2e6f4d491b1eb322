package writers

import (
	"cmp"
	"context"
	"io"
	"iter"
	"slices"

	"novokmer/internal/kmerset"
)

type EmitOptions struct {
	K        int
	MinCount int    // entries below this are skipped
	Format   string // "tsv" (default) or "jsonl"
	Sort     bool   // count descending, then key ascending
}

type EmitReport struct {
	Considered     uint64
	Written        uint64
	BelowThreshold uint64
}

// EmitKmers writes every entry with at least MinCount occurrences to out.
// Without Sort the order is the set's iteration order.
func EmitKmers(ctx context.Context, out io.Writer, entries iter.Seq[kmerset.Entry], o EmitOptions) (EmitReport, error) {
	if o.Format == "" {
		o.Format = FormatTSV
	}
	write, err := lookupKmer(o.Format)
	if err != nil {
		return EmitReport{}, err
	}

	var (
		rep    EmitReport
		ctxErr error
	)
	kept := func(yield func(kmerset.Entry) bool) {
		for e := range entries {
			rep.Considered++
			if rep.Considered&0xfff == 0 {
				if ctxErr = ctx.Err(); ctxErr != nil {
					return
				}
			}
			if int(e.Count) < o.MinCount {
				rep.BelowThreshold++
				continue
			}
			rep.Written++
			if !yield(e) {
				return
			}
		}
	}

	seq := iter.Seq[kmerset.Entry](kept)
	if o.Sort {
		all := slices.Collect(seq)
		slices.SortFunc(all, func(a, b kmerset.Entry) int {
			if c := cmp.Compare(b.Count, a.Count); c != 0 {
				return c
			}
			return cmp.Compare(a.Key, b.Key)
		})
		if ctxErr != nil {
			return rep, ctxErr
		}
		seq = slices.Values(all)
	}
	err = write(out, o.K, seq)
	if ctxErr != nil {
		return rep, ctxErr
	}
	return rep, err
}
