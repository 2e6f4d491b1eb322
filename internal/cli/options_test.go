// internal/cli/options_test.go
package cli

import (
	"bytes"
	"errors"
	"flag"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"novokmer/internal/kmer"
)

func newFS() *flag.FlagSet {
	fs := NewFlagSet("test")
	fs.SetOutput(io.Discard)
	return fs
}

var required = []string{
	"-1", "t1.fq", "-2", "t2.fq",
	"-3", "c1.fq", "-4", "c2.fq",
	"-r", "ref.fa", "-o", "out.kmer",
}

func args(extra ...string) []string {
	return append(append([]string{}, required...), extra...)
}

func mustParse(t *testing.T, argv ...string) Options {
	t.Helper()
	o, err := ParseArgs(newFS(), argv)
	require.NoError(t, err)
	return o
}

func TestDefaults(t *testing.T) {
	o := mustParse(t, required...)
	assert.Equal(t, []string{"t1.fq"}, o.Treat1)
	assert.Equal(t, "ref.fa", o.Reference)
	assert.Equal(t, 27, o.K)
	assert.Equal(t, 4, o.MinCount)
	assert.Equal(t, "novo_kmer_read1.fq", o.Out1)
	assert.Equal(t, "novo_kmer_read2.fq", o.Out2)
	assert.Equal(t, "tsv", o.Format)
	assert.Equal(t, 1, o.Threads)
	assert.Equal(t, 10*time.Second, o.Progress)
	assert.Equal(t, kmer.SkipAmbiguous, o.Policy())
}

func TestLongAndShortFlagsShareLists(t *testing.T) {
	o := mustParse(t, args("--treat1", "t1b.fq", "--treat2", "t2b.fq", "-k", "21", "--min-count", "2", "--keep-ambiguous")...)
	assert.Equal(t, []string{"t1.fq", "t1b.fq"}, o.Treat1)
	assert.Equal(t, []string{"t2.fq", "t2b.fq"}, o.Treat2)
	assert.Equal(t, 21, o.K)
	assert.Equal(t, 2, o.MinCount)
	assert.Equal(t, kmer.MaskAsA, o.Policy())
}

func TestGlobExpansion(t *testing.T) {
	dir := t.TempDir()
	for _, n := range []string{"a_1.fq", "b_1.fq"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, n), nil, 0o644))
	}
	o := mustParse(t,
		"-1", filepath.Join(dir, "*_1.fq"), "-2", "x.fq", "-2", "y.fq",
		"-3", "c1.fq", "-4", "c2.fq", "-r", "ref.fa", "-o", "o")
	assert.Equal(t, []string{filepath.Join(dir, "a_1.fq"), filepath.Join(dir, "b_1.fq")}, o.Treat1)

	_, err := ParseArgs(newFS(), args("-1", filepath.Join(dir, "*.none"), "-2", "z.fq"))
	assert.Error(t, err)
}

func TestUsageErrors(t *testing.T) {
	cases := map[string][]string{
		"missing control":      {"-1", "a", "-2", "b", "-r", "ref", "-o", "o"},
		"missing reference":    {"-1", "a", "-2", "b", "-3", "c", "-4", "d", "-o", "o"},
		"missing output":       {"-1", "a", "-2", "b", "-3", "c", "-4", "d", "-r", "ref"},
		"treat mate mismatch":  args("-1", "extra.fq"),
		"ctrl mate mismatch":   args("-4", "extra.fq"),
		"k too big":            args("-k", "32"),
		"k zero":               args("-k", "0"),
		"min count zero":       args("-m", "0"),
		"negative threads":     args("-t", "-1"),
		"bad format":           args("--format", "csv"),
		"bad log format":       args("--log-format", "xml"),
		"stdin treatment":      {"-1", "-", "-2", "b", "-3", "c", "-4", "d", "-r", "ref", "-o", "o"},
		"stdin twice":          {"-1", "a", "-2", "b", "-3", "-", "-4", "d", "-r", "-", "-o", "o"},
		"stdout twice":         args("--out1", "-", "-o", "-"),
		"same mate outputs":    args("--out1", "x.fq", "--out2", "x.fq"),
		"stray positional":     args("extra.fa"),
		"unknown flag":         args("--bogus"),
	}
	for name, argv := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseArgs(newFS(), argv)
			assert.Error(t, err)
		})
	}
}

func TestHelpAndVersion(t *testing.T) {
	_, err := ParseArgs(newFS(), []string{"-h"})
	assert.True(t, errors.Is(err, flag.ErrHelp))

	o, err := ParseArgs(newFS(), []string{"--version"})
	require.NoError(t, err)
	assert.True(t, o.Version)

	_, err = ParseArgs(newFS(), []string{"--examples"})
	assert.ErrorIs(t, err, ErrExamples)

	var buf bytes.Buffer
	PrintExamples(&buf, "novokmer")
	assert.Contains(t, buf.String(), "novokmer — quickstart")
}

func TestUsageText(t *testing.T) {
	var buf bytes.Buffer
	fs := NewFlagSet("novokmer")
	_, _ = ParseArgs(fs, []string{"-h"})
	fs.SetOutput(&buf)
	fs.Usage()
	out := buf.String()
	assert.Contains(t, out, "-1, --treat1")
	assert.Contains(t, out, "K-mer size, <=31 [27]")
	assert.Contains(t, out, "[novo_kmer_read1.fq]")
}
