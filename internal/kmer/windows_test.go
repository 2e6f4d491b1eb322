package kmer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func collect(seq string, k int, p Policy) (pos []int, keys []uint64) {
	for i, key := range Windows([]byte(seq), k, p) {
		pos = append(pos, i)
		keys = append(keys, key)
	}
	return pos, keys
}

func TestWindowsMatchesEncode(t *testing.T) {
	seq := "GATTACAGATTACACCGGTTacgtAC"
	k := 5
	pos, keys := collect(seq, k, SkipAmbiguous)
	assert.Len(t, pos, len(seq)-k+1)
	for j, i := range pos {
		assert.Equal(t, Canonical(EncodeWindow([]byte(seq), i, k), k), keys[j], "pos %d", i)
	}
}

func TestWindowsShortOrInvalid(t *testing.T) {
	pos, _ := collect("ACG", 4, SkipAmbiguous)
	assert.Empty(t, pos)
	pos, _ = collect("ACGT", 0, SkipAmbiguous)
	assert.Empty(t, pos)
	pos, _ = collect("ACGT", 32, SkipAmbiguous)
	assert.Empty(t, pos)
}

func TestWindowsSkipAmbiguous(t *testing.T) {
	//         0123456789
	seq := "ACGTNACGTA"
	pos, keys := collect(seq, 3, SkipAmbiguous)
	assert.Equal(t, []int{0, 1, 5, 6, 7}, pos)
	assert.Equal(t, Canonical(EncodeWindow([]byte("ACG"), 0, 3), 3), keys[0])
	assert.Equal(t, Canonical(EncodeWindow([]byte("GTA"), 0, 3), 3), keys[4])
}

func TestWindowsMaskAsA(t *testing.T) {
	seq := "ACNTA"
	pos, keys := collect(seq, 3, MaskAsA)
	assert.Equal(t, []int{0, 1, 2}, pos)
	assert.Equal(t, Canonical(EncodeWindow([]byte("ACA"), 0, 3), 3), keys[0])
	assert.Equal(t, Canonical(EncodeWindow([]byte("CAT"), 0, 3), 3), keys[1])
}

func TestWindowsEarlyStop(t *testing.T) {
	n := 0
	for range Windows([]byte("AAAAAAAAAA"), 2, SkipAmbiguous) {
		n++
		if n == 3 {
			break
		}
	}
	assert.Equal(t, 3, n)
}

func TestPositions(t *testing.T) {
	assert.Equal(t, 7, Positions(10, 4))
	assert.Equal(t, 0, Positions(3, 4))
	assert.Equal(t, 0, Positions(3, 0))
}

func TestPolicyString(t *testing.T) {
	assert.Equal(t, "skip", SkipAmbiguous.String())
	assert.Equal(t, "mask-as-A", MaskAsA.String())
}
