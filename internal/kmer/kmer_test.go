package kmer

import (
	"math/rand/v2"
	"testing"

	"github.com/shenwei356/kmers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func randSeq(r *rand.Rand, n int) []byte {
	s := make([]byte, n)
	for i := range s {
		s[i] = bases[r.IntN(4)]
	}
	return s
}

func TestValidK(t *testing.T) {
	for _, k := range []int{1, 27, MaxK} {
		assert.NoError(t, ValidK(k), "k=%d", k)
	}
	for _, k := range []int{0, -1, 32, 64} {
		assert.ErrorIs(t, ValidK(k), ErrInvalidK, "k=%d", k)
	}
}

func TestEncodeKnownValues(t *testing.T) {
	assert.Equal(t, uint64(0), EncodeWindow([]byte("AAAA"), 0, 4))
	assert.Equal(t, uint64(0xFF), EncodeWindow([]byte("TTTT"), 0, 4))
	// A C G T -> 00 01 10 11
	assert.Equal(t, uint64(0b00011011), EncodeWindow([]byte("ACGT"), 0, 4))
	assert.Equal(t, uint64(0b011011), EncodeWindow([]byte("xACGT"), 2, 3))
	assert.Equal(t, EncodeWindow([]byte("ACGT"), 0, 4), EncodeWindow([]byte("acgt"), 0, 4))
}

func TestRollMatchesEncode(t *testing.T) {
	seq := []byte("GATTACAGATTACACCGGTT")
	k := 7
	mask := Mask(k)
	key := EncodeWindow(seq, 0, k)
	for i := 1; i+k <= len(seq); i++ {
		key = Roll(key, seq[i+k-1], mask)
		require.Equal(t, EncodeWindow(seq, i, k), key, "pos %d", i)
	}
}

func TestAgainstReferenceLibrary(t *testing.T) {
	r := rand.New(rand.NewPCG(7, 11))
	for k := 1; k <= MaxK; k++ {
		for n := 0; n < 20; n++ {
			mer := randSeq(r, k)
			want, err := kmers.Encode(mer)
			require.NoError(t, err)

			got := EncodeWindow(mer, 0, k)
			require.Equal(t, want, got, "encode %s", mer)
			require.Equal(t, kmers.RevComp(want, k), RevComp(got, k), "revcomp %s", mer)
			require.Equal(t, kmers.Canonical(want, k), Canonical(got, k), "canonical %s", mer)
			require.Equal(t, string(kmers.MustDecode(want, k)), string(Decode(got, k)))
		}
	}
}

func TestCanonicalStrandInvariant(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	for k := 1; k <= MaxK; k++ {
		s := randSeq(r, k+r.IntN(10))
		rc := RevCompSeq(s)
		// the first window of s is the reverse complement of the last window of rc
		a := Canonical(EncodeWindow(s, 0, k), k)
		b := Canonical(EncodeWindow(rc, len(rc)-k, k), k)
		require.Equal(t, a, b, "k=%d s=%s", k, s)
	}
}

func TestCanonicalIdempotent(t *testing.T) {
	r := rand.New(rand.NewPCG(3, 4))
	for i := 0; i < 1000; i++ {
		k := 1 + r.IntN(MaxK)
		key := r.Uint64() & Mask(k)
		c := Canonical(key, k)
		require.Equal(t, c, Canonical(c, k))
		require.LessOrEqual(t, c, key)
		require.Equal(t, key, RevComp(RevComp(key, k), k))
	}
}

func TestDecodeRoundTrip(t *testing.T) {
	r := rand.New(rand.NewPCG(5, 6))
	for k := 1; k <= MaxK; k++ {
		s := randSeq(r, k)
		assert.Equal(t, string(s), string(Decode(EncodeWindow(s, 0, k), k)))
	}
	assert.Equal(t, "xxGT", string(AppendDecoded([]byte("xx"), 0b1011, 2)))
}

func TestRevCompSeq(t *testing.T) {
	assert.Equal(t, "ACGT", string(RevCompSeq([]byte("ACGT"))))
	assert.Equal(t, "GACT", string(RevCompSeq([]byte("AGTC"))))
	assert.Equal(t, "NA", string(RevCompSeq([]byte("TN"))))
	assert.Nil(t, RevCompSeq(nil))
}

func TestMask(t *testing.T) {
	assert.Equal(t, uint64(0b11), Mask(1))
	assert.Equal(t, uint64(1)<<62-1, Mask(31))
}
