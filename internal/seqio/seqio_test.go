package seqio

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readAll(t *testing.T, r Reader) []Record {
	t.Helper()
	var out []Record
	for {
		rec, err := r.Next()
		if err == io.EOF {
			return out
		}
		require.NoError(t, err)
		out = append(out, rec.Clone())
	}
}

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

func TestFASTAMultiLine(t *testing.T) {
	in := "\n>chr1 first one\nACGT\nacgt\n\n>chr2\nTT\r\nGG\n"
	r, err := NewReader("mem", strings.NewReader(in), Full)
	require.NoError(t, err)
	recs := readAll(t, r)
	require.Len(t, recs, 2)
	assert.Equal(t, "chr1", string(recs[0].Name))
	assert.Equal(t, "chr1 first one", string(recs[0].Header))
	assert.Equal(t, "ACGTacgt", string(recs[0].Seq))
	assert.Equal(t, "chr2", string(recs[1].Name))
	assert.Equal(t, "TTGG", string(recs[1].Seq))
	assert.NoError(t, r.Err())
}

func TestFASTQ(t *testing.T) {
	in := "@r1 x\nACGT\n+\nIIII\n@r2\nGG\n+r2\n!!\n"
	r, err := NewReader("mem", strings.NewReader(in), Full)
	require.NoError(t, err)
	recs := readAll(t, r)
	require.Len(t, recs, 2)
	assert.Equal(t, "r1", string(recs[0].Name))
	assert.Equal(t, "IIII", string(recs[0].Qual))
	assert.Equal(t, "GG", string(recs[1].Seq))
	assert.Equal(t, "!!", string(recs[1].Qual))
}

func TestFASTQSkipModes(t *testing.T) {
	r, err := NewReader("mem", strings.NewReader("@r1\nACGT\n+\nIIII\n"), SkipName|SkipQual)
	require.NoError(t, err)
	rec, err := r.Next()
	require.NoError(t, err)
	assert.Empty(t, rec.Name)
	assert.Empty(t, rec.Qual)
	assert.Equal(t, "ACGT", string(rec.Seq))
}

func TestMalformedEndsStream(t *testing.T) {
	cases := map[string]string{
		"truncated quality": "@r1\nACGT\n+\nIIII\n@r2\nACGT\n+\nII",
		"missing plus":      "@r1\nACGT\n+\nIIII\n@r2\nACGT\n",
		"long quality":      "@r1\nACGT\n+\nIIII\n@r2\nAC\n+\nIIII\n",
		"bad start":         "@r1\nACGT\n+\nIIII\nACGT\n",
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			r, err := NewReader("mem", strings.NewReader(in), Full)
			require.NoError(t, err)
			recs := readAll(t, r)
			assert.Len(t, recs, 1, "the good record before the damage is kept")
			assert.ErrorIs(t, r.Err(), ErrMalformed)
		})
	}
}

func TestUnknownFormat(t *testing.T) {
	_, err := NewReader("mem", strings.NewReader("ACGT\n"), Full)
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestEmptyInput(t *testing.T) {
	r, err := NewReader("mem", strings.NewReader(" \n\n"), Full)
	require.NoError(t, err)
	_, err = r.Next()
	assert.Equal(t, io.EOF, err)
}

func TestLongLines(t *testing.T) {
	seq := strings.Repeat("ACGT", 50000)
	r, err := NewReader("mem", strings.NewReader(">x\n"+seq+"\n"), Full)
	require.NoError(t, err)
	recs := readAll(t, r)
	require.Len(t, recs, 1)
	assert.Equal(t, seq, string(recs[0].Seq))
}

func TestRecordReuseAndClone(t *testing.T) {
	r, err := NewReader("mem", strings.NewReader(">a\nAAAA\n>b\nCC\n"), Full)
	require.NoError(t, err)
	first, err := r.Next()
	require.NoError(t, err)
	kept := first.Clone()
	_, err = r.Next()
	require.NoError(t, err)
	assert.Equal(t, "a", string(kept.Name))
	assert.Equal(t, "AAAA", string(kept.Seq))
}

func TestCompressedRoundTrip(t *testing.T) {
	dir := t.TempDir()
	for _, ext := range []string{"", ".gz", ".zst", ".lz4"} {
		t.Run("fq"+ext, func(t *testing.T) {
			p := filepath.Join(dir, "reads.fq"+ext)
			w, err := Create(p)
			require.NoError(t, err)
			require.NoError(t, WriteFASTQ(w, &Record{Header: []byte("r1 desc"), Seq: []byte("ACGT"), Qual: []byte("ABCD")}))
			require.NoError(t, WriteFASTQ(w, &Record{Header: []byte("r2"), Seq: []byte("GGG")}))
			require.NoError(t, w.Close())

			r, err := Open(context.Background(), p, Full)
			require.NoError(t, err)
			defer r.Close()
			recs := readAll(t, r)
			require.Len(t, recs, 2)
			assert.Equal(t, "r1 desc", string(recs[0].Header))
			assert.Equal(t, "ABCD", string(recs[0].Qual))
			assert.Equal(t, "III", string(recs[1].Qual), "missing quality is filled")
		})
	}
}

func TestOpenMissing(t *testing.T) {
	_, err := Open(context.Background(), filepath.Join(t.TempDir(), "nope.fa"), Full)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestOpenMulti(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.fa", ">a\nAC\n")
	b := writeFile(t, dir, "b.fq", "@b\nGT\n+\nII\n")
	r, err := OpenMulti(context.Background(), []string{a, b}, Full)
	require.NoError(t, err)
	defer r.Close()
	recs := readAll(t, r)
	require.Len(t, recs, 2)
	assert.Equal(t, "a", string(recs[0].Name))
	assert.Equal(t, "b", string(recs[1].Name))
	assert.Contains(t, r.Source(), "a.fa")
}

func TestOpenMultiMalformedStopsEverything(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.fq", "@a\nAC\n+\nI\n")
	b := writeFile(t, dir, "b.fq", "@b\nGT\n+\nII\n")
	r, err := OpenMulti(context.Background(), []string{a, b}, Full)
	require.NoError(t, err)
	defer r.Close()
	assert.Empty(t, readAll(t, r))
	assert.ErrorIs(t, r.Err(), ErrMalformed)
}

func TestCheckReadable(t *testing.T) {
	dir := t.TempDir()
	ok := writeFile(t, dir, "ok.fa", ">a\nAC\n")
	require.NoError(t, CheckReadable(context.Background(), []string{ok, "-"}))

	bad := writeFile(t, dir, "bad.txt", "hello\n")
	err := CheckReadable(context.Background(), []string{ok, bad})
	assert.ErrorIs(t, err, ErrUnknownFormat)

	err = CheckReadable(context.Background(), []string{filepath.Join(dir, "missing")})
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestPairReaderTruncation(t *testing.T) {
	r1, err := NewReader("r1", strings.NewReader(">a\nA\n>b\nC\n>c\nG\n"), Full)
	require.NoError(t, err)
	r2, err := NewReader("r2", strings.NewReader(">a\nT\n>b\nG\n"), Full)
	require.NoError(t, err)
	p := NewPairReader(r1, r2)
	n := 0
	for {
		_, _, err := p.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		n++
	}
	assert.Equal(t, 2, n)
	assert.True(t, p.Truncated())

	r1, _ = NewReader("r1", strings.NewReader(">a\nA\n"), Full)
	r2, _ = NewReader("r2", strings.NewReader(">a\nT\n"), Full)
	p = NewPairReader(r1, r2)
	_, _, err = p.Next()
	require.NoError(t, err)
	_, _, err = p.Next()
	assert.Equal(t, io.EOF, err)
	assert.False(t, p.Truncated())
	assert.NoError(t, p.Err())
}

func TestSplitS3(t *testing.T) {
	b, k, ok := splitS3("s3://bucket/dir/reads.fq.gz")
	require.True(t, ok)
	assert.Equal(t, "bucket", b)
	assert.Equal(t, "dir/reads.fq.gz", k)
	for _, p := range []string{"reads.fq", "s3://bucket", "s3:///key", "s3://bucket/"} {
		_, _, ok := splitS3(p)
		assert.False(t, ok, p)
	}
}
