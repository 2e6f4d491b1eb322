package seqio

import (
	"bufio"
	"bytes"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// writeStack flushes and closes its layers innermost first.
type writeStack struct {
	io.Writer
	closers []io.Closer
}

func (w *writeStack) Close() error {
	var err error
	for _, c := range w.closers {
		if cerr := c.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}

type flushCloser struct{ bw *bufio.Writer }

func (f flushCloser) Close() error { return f.bw.Flush() }

// Create opens path for writing. "-" is stdout (never closed). A .gz,
// .zst or .lz4 suffix selects the matching compressor.
func Create(path string) (io.WriteCloser, error) {
	var base io.Writer
	var closers []io.Closer
	if path == "-" {
		base = os.Stdout
	} else {
		fh, err := os.Create(path)
		if err != nil {
			return nil, err
		}
		base = fh
		closers = append(closers, fh)
	}

	var w io.Writer = base
	switch {
	case strings.HasSuffix(path, ".gz"):
		gw := gzip.NewWriter(w)
		w = gw
		closers = append([]io.Closer{gw}, closers...)
	case strings.HasSuffix(path, ".zst"):
		zw, err := zstd.NewWriter(w)
		if err != nil {
			for _, c := range closers {
				_ = c.Close()
			}
			return nil, err
		}
		w = zw
		closers = append([]io.Closer{zw}, closers...)
	case strings.HasSuffix(path, ".lz4"):
		lw := lz4.NewWriter(w)
		w = lw
		closers = append([]io.Closer{lw}, closers...)
	}

	bw := bufio.NewWriterSize(w, 1<<16)
	closers = append([]io.Closer{flushCloser{bw}}, closers...)
	return &writeStack{Writer: bw, closers: closers}, nil
}

// WriteFASTQ writes rec as a four-line FASTQ record. Records without
// quality (FASTA input) get 'I' for every base.
func WriteFASTQ(w io.Writer, rec *Record) error {
	qual := rec.Qual
	if len(qual) != len(rec.Seq) {
		qual = bytes.Repeat([]byte{'I'}, len(rec.Seq))
	}
	n := len(rec.Header) + 2*len(rec.Seq) + 6
	buf := make([]byte, 0, n)
	buf = append(buf, '@')
	buf = append(buf, rec.Header...)
	buf = append(buf, '\n')
	buf = append(buf, rec.Seq...)
	buf = append(buf, "\n+\n"...)
	buf = append(buf, qual...)
	buf = append(buf, '\n')
	_, err := w.Write(buf)
	return err
}
