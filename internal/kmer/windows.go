package kmer

import "iter"

// Policy selects what happens to windows that cover a symbol outside
// A/C/G/T (N and other IUPAC codes, gaps, garbage).
type Policy uint8

const (
	// SkipAmbiguous drops every window overlapping such a symbol.
	SkipAmbiguous Policy = iota
	// MaskAsA encodes such symbols as A and keeps the window.
	MaskAsA
)

func (p Policy) String() string {
	switch p {
	case SkipAmbiguous:
		return "skip"
	case MaskAsA:
		return "mask-as-A"
	default:
		return "unknown"
	}
}

// Windows yields (start, canonical code) for every length-k window of seq,
// left to right. The forward and reverse-complement codes are rolled one
// symbol at a time, so each step is O(1). Iteration stops early when the
// consumer returns false. An invalid k or a sequence shorter than k
// yields nothing.
func Windows(seq []byte, k int, p Policy) iter.Seq2[int, uint64] {
	return func(yield func(int, uint64) bool) {
		if k < 1 || k > MaxK || len(seq) < k {
			return
		}
		mask := Mask(k)
		shift := 2 * uint(k-1)
		var fwd, rev uint64
		run := 0
		for i, b := range seq {
			c := codes[b]
			if c == invalid {
				if p == SkipAmbiguous {
					run = 0
					continue
				}
				c = 0
			}
			fwd = ((fwd << 2) | uint64(c)) & mask
			rev = (rev >> 2) | uint64(3-c)<<shift
			if run++; run < k {
				continue
			}
			key := fwd
			if rev < key {
				key = rev
			}
			if !yield(i-k+1, key) {
				return
			}
		}
	}
}

// Positions returns the number of length-k windows in a sequence of
// length n.
func Positions(n, k int) int {
	if k < 1 || n < k {
		return 0
	}
	return n - k + 1
}
