// Package dedup collapses read pairs whose two mate sequences are both
// identical.
package dedup

import (
	"bytes"
	"slices"

	"github.com/RoaringBitmap/roaring/v2/roaring64"

	"novokmer/internal/extract"
)

// Result holds the surviving pairs in mate-1 sequence order.
type Result struct {
	Kept       []extract.Pair
	Duplicates int
	// Dropped has the ordinals of the discarded pairs.
	Dropped *roaring64.Bitmap
}

// compare orders by mate 1 sequence, then mate 2 sequence.
func compare(a, b extract.Pair) int {
	if c := bytes.Compare(a.R1.Seq, b.R1.Seq); c != 0 {
		return c
	}
	return bytes.Compare(a.R2.Seq, b.R2.Seq)
}

// Dedup sorts pairs in place and keeps the first of each run of equal
// pairs. The sort is stable, so the survivor is the earliest in input
// order. Quality and names play no part.
func Dedup(pairs []extract.Pair) Result {
	slices.SortStableFunc(pairs, compare)
	res := Result{Dropped: roaring64.New()}
	if len(pairs) == 0 {
		return res
	}
	kept := pairs[:1]
	for _, p := range pairs[1:] {
		if compare(p, kept[len(kept)-1]) == 0 {
			res.Duplicates++
			res.Dropped.Add(p.Ordinal)
			continue
		}
		kept = append(kept, p)
	}
	res.Kept = kept
	return res
}
