package appcore

import (
	"bufio"
	"errors"
	"fmt"
	"io"

	"novokmer/internal/seqio"
)

// stdoutSink buffers writes to the caller's stdout; Close only flushes.
type stdoutSink struct{ *bufio.Writer }

func (s stdoutSink) Close() error { return s.Flush() }

// outputs are the three result files, all created before any input is
// read so an unwritable path fails fast.
type outputs struct {
	table, mate1, mate2 io.WriteCloser
	closed              bool
}

func createOutput(path string, stdout io.Writer) (io.WriteCloser, error) {
	if path == "-" {
		return stdoutSink{bufio.NewWriterSize(stdout, 64<<10)}, nil
	}
	w, err := seqio.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", path, err)
	}
	return w, nil
}

func openOutputs(stdout io.Writer, table, out1, out2 string) (*outputs, error) {
	o := &outputs{}
	var err error
	if o.table, err = createOutput(table, stdout); err != nil {
		return nil, err
	}
	if o.mate1, err = createOutput(out1, stdout); err != nil {
		_ = o.table.Close()
		return nil, err
	}
	if o.mate2, err = createOutput(out2, stdout); err != nil {
		_ = o.table.Close()
		_ = o.mate1.Close()
		return nil, err
	}
	return o, nil
}

// Close flushes and closes every output once and joins the failures.
func (o *outputs) Close() error {
	if o == nil || o.closed {
		return nil
	}
	o.closed = true
	return errors.Join(o.table.Close(), o.mate1.Close(), o.mate2.Close())
}
