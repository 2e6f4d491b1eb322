package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dustin/go-humanize"

	"novokmer/internal/cmdutil"
	"novokmer/internal/kmer"
	"novokmer/internal/kmerset"
	"novokmer/internal/seqio"
)

// ErrPhaseOrder is returned when a phase is called out of order or twice.
var ErrPhaseOrder = errors.New("pipeline: phase out of order")

// Config controls the filtering pipeline.
type Config struct {
	K       int         // k-mer length, 1..31
	Threads int         // worker goroutines; <=1 runs everything on the caller's goroutine
	Policy  kmer.Policy // handling of non-ACGT symbols
	Logger  *slog.Logger
	// ProgressEvery throttles progress lines; 0 disables them.
	ProgressEvery time.Duration
}

// initialCapacity sizes the set for a small run; it grows as needed.
const initialCapacity = 1 << 16

// Pipeline owns the k-mer set through its three phases.
type Pipeline struct {
	cfg Config
	log *slog.Logger
	set kmerset.Counter

	built, ctrlDone, refDone, frozen bool
}

// New returns an empty pipeline. K is checked by the first phase.
func New(cfg Config) *Pipeline {
	p := &Pipeline{cfg: cfg, log: cmdutil.OrDiscard(cfg.Logger)}
	if cfg.Threads > 1 {
		p.set = kmerset.NewSharded(cfg.Threads*4, initialCapacity)
	} else {
		p.set = kmerset.NewTable(initialCapacity)
	}
	return p
}

// BuildReport summarizes the build phase.
type BuildReport struct {
	Streams   int
	Reads     uint64
	Windows   uint64 // windows counted
	Skipped   uint64 // windows dropped for ambiguous symbols
	Malformed int    // streams that ended on a malformed record
	Distinct  int    // set size afterwards
	Elapsed   time.Duration
}

// SubtractReport summarizes one subtraction phase.
type SubtractReport struct {
	Source    string // "control" or "reference"
	Reads     uint64
	Windows   uint64
	Skipped   uint64
	Malformed int
	Removed   uint64 // distinct keys removed by this phase
	Remaining int
	Elapsed   time.Duration
}

// Build counts every canonical window of streams. Streams are closed on
// return.
func (p *Pipeline) Build(ctx context.Context, streams ...seqio.Reader) (BuildReport, error) {
	if p.built || p.frozen {
		closeAll(streams)
		return BuildReport{}, fmt.Errorf("%w: build already ran", ErrPhaseOrder)
	}
	if err := kmer.ValidK(p.cfg.K); err != nil {
		closeAll(streams)
		return BuildReport{}, err
	}
	p.built = true

	start := time.Now()
	t, err := p.pass(ctx, "build", streams, func(key uint64) uint64 {
		p.set.Incr(key)
		return 0
	})
	rep := BuildReport{
		Streams:   len(streams),
		Reads:     t.reads,
		Windows:   t.windows,
		Skipped:   t.skipped,
		Malformed: t.malformed,
		Distinct:  p.set.Len(),
		Elapsed:   time.Since(start),
	}
	if err != nil {
		return rep, err
	}
	p.log.Info("build done",
		"reads", humanize.Comma(int64(rep.Reads)),
		"kmers", humanize.Comma(int64(rep.Windows)),
		"distinct", humanize.Comma(int64(rep.Distinct)),
		"elapsed", rep.Elapsed.Round(time.Millisecond),
	)
	return rep, nil
}

// SubtractControl removes every canonical window of the control streams
// from the set.
func (p *Pipeline) SubtractControl(ctx context.Context, streams ...seqio.Reader) (SubtractReport, error) {
	if err := p.beginSubtract(&p.ctrlDone, "control"); err != nil {
		closeAll(streams)
		return SubtractReport{Source: "control"}, err
	}
	return p.subtract(ctx, "control", streams)
}

// SubtractReference removes every canonical window of the reference.
func (p *Pipeline) SubtractReference(ctx context.Context, ref seqio.Reader) (SubtractReport, error) {
	if err := p.beginSubtract(&p.refDone, "reference"); err != nil {
		closeAll([]seqio.Reader{ref})
		return SubtractReport{Source: "reference"}, err
	}
	return p.subtract(ctx, "reference", []seqio.Reader{ref})
}

func (p *Pipeline) beginSubtract(done *bool, what string) error {
	switch {
	case p.frozen:
		return fmt.Errorf("%w: %s subtraction after freeze", ErrPhaseOrder, what)
	case !p.built:
		return fmt.Errorf("%w: %s subtraction before build", ErrPhaseOrder, what)
	case *done:
		return fmt.Errorf("%w: %s subtraction already ran", ErrPhaseOrder, what)
	}
	*done = true
	return nil
}

func (p *Pipeline) subtract(ctx context.Context, what string, streams []seqio.Reader) (SubtractReport, error) {
	start := time.Now()
	t, err := p.pass(ctx, what, streams, func(key uint64) uint64 {
		return uint64(p.set.Remove(key))
	})
	rep := SubtractReport{
		Source:    what,
		Reads:     t.reads,
		Windows:   t.windows,
		Skipped:   t.skipped,
		Malformed: t.malformed,
		Removed:   t.hits,
		Remaining: p.set.Len(),
		Elapsed:   time.Since(start),
	}
	if err != nil {
		return rep, err
	}
	p.log.Info(what+" subtraction done",
		"reads", humanize.Comma(int64(rep.Reads)),
		"removed", humanize.Comma(int64(rep.Removed)),
		"remaining", humanize.Comma(int64(rep.Remaining)),
		"elapsed", rep.Elapsed.Round(time.Millisecond),
	)
	return rep, nil
}

// Set is the filtered set. Do not mutate it outside the phases.
func (p *Pipeline) Set() kmerset.Counter { return p.set }

// Freeze ends the mutation phases; every later phase call fails.
func (p *Pipeline) Freeze() { p.frozen = true }

// K is the configured k-mer length.
func (p *Pipeline) K() int { return p.cfg.K }
