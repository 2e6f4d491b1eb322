// Package kmer packs nucleotide windows into 2-bit integer codes and
// computes their strand-canonical form.
//
// A k-mer of length k (1 <= k <= MaxK) occupies the low 2k bits of a
// uint64, first base in the most significant pair. A=0, C=1, G=2, T=3, so
// the bitwise complement of a pair is the complementary base.
package kmer

import (
	"errors"
	"fmt"
)

// MaxK is the longest k-mer that fits in 62 bits.
const MaxK = 31

// ErrInvalidK is returned for k outside [1, MaxK].
var ErrInvalidK = errors.New("invalid k-mer size")

const invalid = 0xFF

var (
	codes [256]byte
	bases = [4]byte{'A', 'C', 'G', 'T'}
)

func init() {
	for i := range codes {
		codes[i] = invalid
	}
	codes['A'], codes['a'] = 0, 0
	codes['C'], codes['c'] = 1, 1
	codes['G'], codes['g'] = 2, 2
	codes['T'], codes['t'] = 3, 3
}

// ValidK reports whether k is a usable k-mer size.
func ValidK(k int) error {
	if k < 1 || k > MaxK {
		return fmt.Errorf("%w: %d (must be 1..%d)", ErrInvalidK, k, MaxK)
	}
	return nil
}

// Mask returns a word with the low 2k bits set.
func Mask(k int) uint64 {
	return ^uint64(0) >> (64 - 2*uint(k))
}

// Code returns the 2-bit code of b. ok is false for anything outside
// A/C/G/T (either case).
func Code(b byte) (code uint64, ok bool) {
	c := codes[b]
	if c == invalid {
		return 0, false
	}
	return uint64(c), true
}

// Roll shifts one symbol into key. Symbols outside A/C/G/T shift in as A;
// callers that care must filter them first (see Windows).
func Roll(key uint64, b byte, mask uint64) uint64 {
	c := codes[b]
	if c == invalid {
		c = 0
	}
	return ((key << 2) | uint64(c)) & mask
}

// EncodeWindow packs seq[start:start+k]. The window must lie inside seq.
func EncodeWindow(seq []byte, start, k int) uint64 {
	mask := Mask(k)
	var key uint64
	for _, b := range seq[start : start+k] {
		key = Roll(key, b, mask)
	}
	return key
}

// RevComp returns the code of the reverse complement of key.
func RevComp(key uint64, k int) uint64 {
	x := ^key
	// reverse the order of the 32 two-bit groups
	x = (x>>2)&0x3333333333333333 | (x&0x3333333333333333)<<2
	x = (x>>4)&0x0F0F0F0F0F0F0F0F | (x&0x0F0F0F0F0F0F0F0F)<<4
	x = (x>>8)&0x00FF00FF00FF00FF | (x&0x00FF00FF00FF00FF)<<8
	x = (x>>16)&0x0000FFFF0000FFFF | (x&0x0000FFFF0000FFFF)<<16
	x = x>>32 | x<<32
	return x >> (64 - 2*uint(k))
}

// Canonical returns the smaller of key and its reverse complement.
func Canonical(key uint64, k int) uint64 {
	if r := RevComp(key, k); r < key {
		return r
	}
	return key
}

// Decode renders key as k uppercase bases.
func Decode(key uint64, k int) []byte {
	return AppendDecoded(make([]byte, 0, k), key, k)
}

// AppendDecoded appends the k bases of key to dst.
func AppendDecoded(dst []byte, key uint64, k int) []byte {
	for i := k - 1; i >= 0; i-- {
		dst = append(dst, bases[(key>>(2*uint(i)))&3])
	}
	return dst
}

// RevCompSeq returns the reverse complement of an A/C/G/T sequence.
// Other symbols become N.
func RevCompSeq(seq []byte) []byte {
	n := len(seq)
	if n == 0 {
		return nil
	}
	out := make([]byte, n)
	for i, b := range seq {
		c := codes[b]
		if c == invalid {
			out[n-1-i] = 'N'
			continue
		}
		out[n-1-i] = bases[3-c]
	}
	return out
}
