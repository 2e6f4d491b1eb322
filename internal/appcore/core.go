// internal/appcore/core.go
package appcore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"time"

	"github.com/dustin/go-humanize"

	"novokmer/internal/cmdutil"
	"novokmer/internal/dedup"
	"novokmer/internal/extract"
	"novokmer/internal/jsonutil"
	"novokmer/internal/kmer"
	"novokmer/internal/pipeline"
	"novokmer/internal/seqio"
	"novokmer/internal/version"
	"novokmer/internal/writers"
	"novokmer/pkg/api"
)

// Exit codes.
const (
	ExitOK        = 0
	ExitUsage     = 2 // bad flags, unopenable input or output
	ExitRuntime   = 3
	ExitCancelled = 130
)

type Options struct {
	Treat1, Treat2 []string
	Ctrl1, Ctrl2   []string
	Reference      string

	K        int
	MinCount int
	Policy   kmer.Policy

	Output string
	Out1   string
	Out2   string
	Format string
	Sort   bool
	Report string

	Threads  int // 0 = all CPUs
	Progress time.Duration
}

// setupError marks an unopenable input or output.
type setupError struct{ err error }

func (e setupError) Error() string { return e.err.Error() }
func (e setupError) Unwrap() error { return e.err }

// Run executes build, both subtractions, extraction, deduplication and
// emission, and returns the process exit code.
func Run(ctx context.Context, stdout io.Writer, log *slog.Logger, o Options) int {
	log = cmdutil.OrDiscard(log)
	if o.Threads <= 0 {
		o.Threads = runtime.NumCPU()
	}
	rep, err := run(ctx, stdout, log, o)
	switch {
	case err == nil:
	case errors.Is(err, context.Canceled):
		log.Warn("cancelled")
		return ExitCancelled
	case writers.IsBrokenPipe(err):
		return ExitOK
	case errors.As(err, new(setupError)):
		log.Error(err.Error())
		return ExitUsage
	default:
		log.Error(err.Error())
		return ExitRuntime
	}

	if o.Report != "" {
		if err := jsonutil.WriteFile(o.Report, rep); err != nil {
			log.Error("write report", "path", o.Report, "err", err)
			return ExitRuntime
		}
	}
	return ExitOK
}

func setupErr(err error) error { return setupError{err} }

func run(ctx context.Context, stdout io.Writer, log *slog.Logger, o Options) (api.ReportV1, error) {
	start := time.Now()
	rep := api.ReportV1{
		Version:   version.Version,
		K:         o.K,
		MinCount:  o.MinCount,
		Ambiguous: o.Policy.String(),
		Threads:   o.Threads,
	}

	inputs := make([]string, 0, len(o.Treat1)*2+len(o.Ctrl1)*2+1)
	inputs = append(inputs, o.Treat1...)
	inputs = append(inputs, o.Treat2...)
	inputs = append(inputs, o.Ctrl1...)
	inputs = append(inputs, o.Ctrl2...)
	inputs = append(inputs, o.Reference)
	if err := seqio.CheckReadable(ctx, inputs); err != nil {
		return rep, setupErr(err)
	}
	out, err := openOutputs(stdout, o.Output, o.Out1, o.Out2)
	if err != nil {
		return rep, setupErr(err)
	}
	defer out.Close()

	open := func(paths []string, mode seqio.Mode) (seqio.Reader, error) {
		r, err := seqio.OpenMulti(ctx, paths, mode)
		if err != nil {
			return nil, setupErr(err)
		}
		return r, nil
	}
	counting := seqio.SkipName | seqio.SkipQual

	p := pipeline.New(pipeline.Config{
		K:             o.K,
		Threads:       o.Threads,
		Policy:        o.Policy,
		Logger:        log,
		ProgressEvery: o.Progress,
	})

	log.Info("building k-mer set", "k", o.K, "threads", o.Threads, "ambiguous", o.Policy.String())
	t1, err := open(o.Treat1, counting)
	if err != nil {
		return rep, err
	}
	t2, err := open(o.Treat2, counting)
	if err != nil {
		_ = t1.Close()
		return rep, err
	}
	brep, err := p.Build(ctx, t1, t2)
	rep.Build = api.BuildV1{
		Streams: brep.Streams, Reads: brep.Reads, Windows: brep.Windows,
		Skipped: brep.Skipped, Malformed: brep.Malformed, Distinct: brep.Distinct,
	}
	if err != nil {
		return rep, err
	}

	c1, err := open(o.Ctrl1, counting)
	if err != nil {
		return rep, err
	}
	c2, err := open(o.Ctrl2, counting)
	if err != nil {
		_ = c1.Close()
		return rep, err
	}
	crep, err := p.SubtractControl(ctx, c1, c2)
	rep.Control = subtractV1(crep)
	if err != nil {
		return rep, err
	}

	ref, err := open([]string{o.Reference}, counting)
	if err != nil {
		return rep, err
	}
	rrep, err := p.SubtractReference(ctx, ref)
	rep.Reference = subtractV1(rrep)
	if err != nil {
		return rep, err
	}
	p.Freeze()

	m1, err := open(o.Treat1, seqio.Full)
	if err != nil {
		return rep, err
	}
	m2, err := open(o.Treat2, seqio.Full)
	if err != nil {
		_ = m1.Close()
		return rep, err
	}
	xres, err := extract.Extract(ctx, seqio.NewPairReader(m1, m2), p.Set(), extract.Config{
		K:             o.K,
		MinCount:      o.MinCount,
		Policy:        o.Policy,
		Logger:        log,
		ProgressEvery: o.Progress,
	})
	rep.Extract = api.ExtractV1{Pairs: xres.Scanned, Candidates: len(xres.Pairs), Truncated: xres.Truncated}
	if xres.Hits != nil {
		rep.Extract.HitOrdinals = xres.Hits.ToArray()
	}
	if err != nil {
		return rep, err
	}

	dres := dedup.Dedup(xres.Pairs)
	rep.Dedup = api.DedupV1{Kept: len(dres.Kept), Duplicates: dres.Duplicates, DroppedOrdinals: dres.Dropped.ToArray()}
	log.Info("dedup done",
		"kept", humanize.Comma(int64(len(dres.Kept))),
		"duplicates", humanize.Comma(int64(dres.Duplicates)),
	)
	if err := writers.WritePairs(out.mate1, out.mate2, dres.Kept); err != nil {
		return rep, fmt.Errorf("write pairs: %w", err)
	}

	erep, err := writers.EmitKmers(ctx, out.table, p.Set().All(), writers.EmitOptions{
		K:        o.K,
		MinCount: o.MinCount,
		Format:   o.Format,
		Sort:     o.Sort,
	})
	rep.Emit = api.EmitV1{Considered: erep.Considered, Written: erep.Written, BelowThreshold: erep.BelowThreshold}
	if err != nil {
		return rep, fmt.Errorf("write table: %w", err)
	}
	if err := out.Close(); err != nil {
		return rep, fmt.Errorf("close outputs: %w", err)
	}

	rep.ElapsedSec = time.Since(start).Seconds()
	log.Info("done",
		"novel_kmers", humanize.Comma(int64(erep.Written)),
		"min_count", o.MinCount,
		"pairs", humanize.Comma(int64(len(dres.Kept))),
		"elapsed", time.Since(start).Round(time.Millisecond),
	)
	return rep, nil
}

func subtractV1(r pipeline.SubtractReport) api.SubtractV1 {
	return api.SubtractV1{
		Reads: r.Reads, Windows: r.Windows, Skipped: r.Skipped,
		Malformed: r.Malformed, Removed: r.Removed, Remaining: r.Remaining,
	}
}
