// internal/app/app.go
package app

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"

	"novokmer/internal/appcore"
	"novokmer/internal/cli"
	"novokmer/internal/cmdutil"
	"novokmer/internal/kmerset"
	"novokmer/internal/version"
	"novokmer/internal/writers"
)

// flushed flushes w and maps the outcome to an exit code.
func flushed(w *bufio.Writer, stderr io.Writer, code int) int {
	if err := w.Flush(); writers.IsBrokenPipe(err) {
		return code
	} else if err != nil {
		_, _ = fmt.Fprintln(stderr, err)
		return appcore.ExitRuntime
	}
	return code
}

func RunContext(parent context.Context, argv []string, stdout, stderr io.Writer) int {
	outw := bufio.NewWriter(stdout)

	fs := cli.NewFlagSet("novokmer")
	fs.SetOutput(io.Discard)

	if len(argv) == 0 {
		argv = []string{"-h"}
	}

	opts, err := cli.ParseArgs(fs, argv)
	if err != nil {
		switch {
		case errors.Is(err, flag.ErrHelp):
			fs.SetOutput(outw)
			fs.Usage()
			return flushed(outw, stderr, appcore.ExitOK)
		case errors.Is(err, cli.ErrExamples):
			cli.PrintExamples(outw, fs.Name())
			return flushed(outw, stderr, appcore.ExitOK)
		}
		_, _ = fmt.Fprintln(stderr, "error:", err)
		fs.SetOutput(stderr)
		fs.Usage()
		return appcore.ExitUsage
	}

	if opts.Version {
		_, _ = fmt.Fprintf(outw, "novokmer version %s\n", version.Version)
		return flushed(outw, stderr, appcore.ExitOK)
	}

	log, err := cmdutil.NewLogger(stderr, opts.Quiet, opts.Verbose, opts.LogFormat)
	if err != nil {
		_, _ = fmt.Fprintln(stderr, "error:", err)
		return appcore.ExitUsage
	}
	if opts.MinCount > kmerset.MaxCount {
		cmdutil.Warnf(stderr, opts.Quiet, "counts saturate at %d; --min-count %d keeps no k-mers", kmerset.MaxCount, opts.MinCount)
	}

	code := appcore.Run(parent, outw, log, appcore.Options{
		Treat1:    opts.Treat1,
		Treat2:    opts.Treat2,
		Ctrl1:     opts.Ctrl1,
		Ctrl2:     opts.Ctrl2,
		Reference: opts.Reference,
		K:         opts.K,
		MinCount:  opts.MinCount,
		Policy:    opts.Policy(),
		Output:    opts.Output,
		Out1:      opts.Out1,
		Out2:      opts.Out2,
		Format:    opts.Format,
		Sort:      opts.Sort,
		Report:    opts.Report,
		Threads:   opts.Threads,
		Progress:  opts.Progress,
	})
	return flushed(outw, stderr, code)
}

func Run(argv []string, stdout, stderr io.Writer) int {
	return RunContext(context.Background(), argv, stdout, stderr)
}
