// internal/cli/options.go
package cli

import (
	"errors"
	"flag"
	"fmt"
	"slices"
	"strings"
	"time"

	"novokmer/internal/cliutil"
	"novokmer/internal/cmdutil"
	"novokmer/internal/kmer"
	"novokmer/internal/writers"
)

// Defaults.
const (
	DefaultK        = 27
	DefaultMinCount = 4
	DefaultOut1     = "novo_kmer_read1.fq"
	DefaultOut2     = "novo_kmer_read2.fq"
)

// Options holds all CLI flags.
type Options struct {
	// Inputs
	Treat1, Treat2 []string
	Ctrl1, Ctrl2   []string
	Reference      string

	// Filtering
	K             int
	MinCount      int
	KeepAmbiguous bool

	// Outputs
	Output string
	Out1   string
	Out2   string
	Format string
	Sort   bool
	Report string

	// Runtime
	Threads  int
	Progress time.Duration

	// Logging
	Quiet     bool
	Verbose   bool
	LogFormat string

	Version  bool
	Examples bool
}

// ErrExamples is returned by ParseArgs when --examples was given; the
// caller prints them with PrintExamples.
var ErrExamples = errors.New("examples requested")

// NewFlagSet returns a FlagSet with ContinueOnError and the tool's usage.
func NewFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	installUsage(fs, name)
	return fs
}

// sliceValue appends each value to a *[]string so -1 and --treat1 share one list.
type sliceValue struct{ dst *[]string }

func (s *sliceValue) String() string {
	if s.dst == nil {
		return ""
	}
	return strings.Join(*s.dst, ",")
}

func (s *sliceValue) Set(v string) error {
	*s.dst = append(*s.dst, v)
	return nil
}

func register(fs *flag.FlagSet, o *Options) {
	list := func(dst *[]string, long, short, usage string) {
		v := &sliceValue{dst: dst}
		fs.Var(v, long, usage)
		fs.Var(v, short, "alias of --"+long)
	}
	list(&o.Treat1, "treat1", "1", "treatment mate-1 file (repeatable)")
	list(&o.Treat2, "treat2", "2", "treatment mate-2 file (repeatable)")
	list(&o.Ctrl1, "ctrl1", "3", "control mate-1 file (repeatable)")
	list(&o.Ctrl2, "ctrl2", "4", "control mate-2 file (repeatable)")
	fs.StringVar(&o.Reference, "reference", "", "reference FASTA")
	fs.StringVar(&o.Reference, "r", "", "alias of --reference")

	fs.IntVar(&o.K, "kmer-size", DefaultK, "k-mer size (<=31)")
	fs.IntVar(&o.K, "k", DefaultK, "alias of --kmer-size")
	fs.IntVar(&o.MinCount, "min-count", DefaultMinCount, "minimum count of a novel k-mer")
	fs.IntVar(&o.MinCount, "m", DefaultMinCount, "alias of --min-count")
	fs.BoolVar(&o.KeepAmbiguous, "keep-ambiguous", false, "read non-ACGT bases as A instead of skipping their windows")

	fs.StringVar(&o.Output, "output", "", "novel k-mer table ('-' for STDOUT)")
	fs.StringVar(&o.Output, "o", "", "alias of --output")
	fs.StringVar(&o.Out1, "out1", DefaultOut1, "deduplicated mate-1 FASTQ")
	fs.StringVar(&o.Out2, "out2", DefaultOut2, "deduplicated mate-2 FASTQ")
	fs.StringVar(&o.Format, "format", writers.FormatTSV, "table format: "+strings.Join(writers.KmerFormats(), " | "))
	fs.BoolVar(&o.Sort, "sort", false, "sort the table by count, then k-mer")
	fs.StringVar(&o.Report, "report", "", "write a JSON run report to this file")

	fs.IntVar(&o.Threads, "threads", 1, "worker threads (0 = all CPUs)")
	fs.IntVar(&o.Threads, "t", 1, "alias of --threads")
	fs.DurationVar(&o.Progress, "progress", 10*time.Second, "progress log interval (0 = off)")

	fs.BoolVar(&o.Quiet, "quiet", false, "only log warnings and errors")
	fs.BoolVar(&o.Quiet, "q", false, "alias of --quiet")
	fs.BoolVar(&o.Verbose, "verbose", false, "log debug detail")
	fs.StringVar(&o.LogFormat, "log-format", cmdutil.LogText, "log format: text | json")

	fs.BoolVar(&o.Version, "v", false, "print version and exit")
	fs.BoolVar(&o.Version, "version", false, "print version and exit")
	fs.BoolVar(&o.Examples, "examples", false, "print usage examples and exit")
}

// ParseArgs registers and parses all flags and validates the result.
func ParseArgs(fs *flag.FlagSet, argv []string) (Options, error) {
	var opt Options
	var help bool
	register(fs, &opt)
	fs.BoolVar(&help, "h", false, "show this help message")
	fs.BoolVar(&help, "help", false, "show this help message")

	flagArgs, posArgs := cliutil.SplitFlagsAndPositionals(fs, argv)
	if err := fs.Parse(flagArgs); err != nil {
		return opt, err
	}
	if help {
		return opt, flag.ErrHelp
	}
	if opt.Version {
		return opt, nil
	}
	if opt.Examples {
		return opt, ErrExamples
	}
	if len(posArgs) > 0 || fs.NArg() > 0 {
		return opt, fmt.Errorf("unexpected argument %q (inputs go through -1/-2/-3/-4/-r)", append(posArgs, fs.Args()...)[0])
	}

	for _, l := range []*[]string{&opt.Treat1, &opt.Treat2, &opt.Ctrl1, &opt.Ctrl2} {
		exp, err := cliutil.ExpandInputs(*l)
		if err != nil {
			return opt, err
		}
		*l = exp
	}
	return opt, Validate(&opt)
}

// Validate applies the CLI invariants.
func Validate(o *Options) error {
	switch {
	case len(o.Treat1) == 0 || len(o.Treat2) == 0:
		return errors.New("treatment reads are required: -1 <mate1> -2 <mate2>")
	case len(o.Ctrl1) == 0 || len(o.Ctrl2) == 0:
		return errors.New("control reads are required: -3 <mate1> -4 <mate2>")
	case o.Reference == "":
		return errors.New("a reference is required: -r <reference>")
	case o.Output == "":
		return errors.New("an output file is required: -o <output>")
	}
	if len(o.Treat1) != len(o.Treat2) {
		return fmt.Errorf("-1 and -2 must list the same number of files (%d vs %d)", len(o.Treat1), len(o.Treat2))
	}
	if len(o.Ctrl1) != len(o.Ctrl2) {
		return fmt.Errorf("-3 and -4 must list the same number of files (%d vs %d)", len(o.Ctrl1), len(o.Ctrl2))
	}
	if err := kmer.ValidK(o.K); err != nil {
		return fmt.Errorf("--kmer-size: %w", err)
	}
	if o.MinCount < 1 {
		return errors.New("--min-count must be ≥ 1")
	}
	if o.Threads < 0 {
		return errors.New("--threads must be ≥ 0")
	}
	if o.Progress < 0 {
		return errors.New("--progress must be ≥ 0")
	}
	if !slices.Contains(writers.KmerFormats(), o.Format) {
		return fmt.Errorf("invalid --format %q", o.Format)
	}
	if o.LogFormat != cmdutil.LogText && o.LogFormat != cmdutil.LogJSON {
		return fmt.Errorf("invalid --log-format %q", o.LogFormat)
	}

	// Treatment reads are scanned twice, so they must be reopenable.
	if slices.Contains(o.Treat1, "-") || slices.Contains(o.Treat2, "-") {
		return errors.New("treatment reads cannot come from STDIN")
	}
	stdin := 0
	for _, p := range append(append([]string{o.Reference}, o.Ctrl1...), o.Ctrl2...) {
		if p == "-" {
			stdin++
		}
	}
	if stdin > 1 {
		return errors.New("STDIN ('-') can feed at most one input")
	}
	stdout := 0
	for _, p := range []string{o.Output, o.Out1, o.Out2} {
		if p == "-" {
			stdout++
		}
	}
	if stdout > 1 {
		return errors.New("STDOUT ('-') can receive at most one output")
	}
	if o.Out1 == o.Out2 {
		return errors.New("--out1 and --out2 must differ")
	}
	return nil
}

// Policy maps --keep-ambiguous onto the codec policy.
func (o Options) Policy() kmer.Policy {
	if o.KeepAmbiguous {
		return kmer.MaskAsA
	}
	return kmer.SkipAmbiguous
}
