package seqio

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
)

// Reader is a single pass over a record stream. The record returned by
// Next is reused by the following call; Clone it to keep it.
type Reader interface {
	Next() (*Record, error)
	// Err is the malformed-record condition that ended the stream, or nil.
	Err() error
	// Source names the stream for logs and reports.
	Source() string
	Close() error
}

// lineReader hands out lines of any length without the line terminator.
// The returned slice is valid until the next call.
type lineReader struct {
	br   *bufio.Reader
	buf  []byte
	line int
}

func (l *lineReader) next() ([]byte, error) {
	l.buf = l.buf[:0]
	for {
		chunk, err := l.br.ReadSlice('\n')
		l.buf = append(l.buf, chunk...)
		if errors.Is(err, bufio.ErrBufferFull) {
			continue
		}
		if err != nil {
			if err == io.EOF && len(l.buf) > 0 {
				break
			}
			return nil, err
		}
		break
	}
	l.line++
	return bytes.TrimRight(l.buf, "\r\n"), nil
}

// stream holds what FASTA and FASTQ readers share.
type stream struct {
	src    string
	lr     lineReader
	closer io.Closer
	mode   Mode
	rec    Record
	done   bool
	err    error
}

func (s *stream) Err() error     { return s.err }
func (s *stream) Source() string { return s.src }

func (s *stream) Close() error {
	s.done = true
	if s.closer == nil {
		return nil
	}
	c := s.closer
	s.closer = nil
	return c.Close()
}

// finish ends the stream on a read error. EOF is passed through as is;
// anything else is an I/O failure and is returned wrapped.
func (s *stream) finish(err error) (*Record, error) {
	s.done = true
	if err == io.EOF {
		return nil, io.EOF
	}
	return nil, fmt.Errorf("%s: %w", s.src, err)
}

func (s *stream) malformed(format string, a ...any) (*Record, error) {
	s.done = true
	s.err = fmt.Errorf("%w: %s line %d: %s", ErrMalformed, s.src, s.lr.line, fmt.Sprintf(format, a...))
	return nil, io.EOF
}

type fastaReader struct {
	stream
	pending    []byte
	hasPending bool
}

func (r *fastaReader) Next() (*Record, error) {
	if r.done {
		return nil, io.EOF
	}
	for !r.hasPending {
		line, err := r.lr.next()
		if err != nil {
			return r.finish(err)
		}
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}
		if line[0] != '>' {
			return r.malformed("sequence data before the first header")
		}
		r.pending = append(r.pending[:0], line[1:]...)
		r.hasPending = true
	}

	r.rec.reset()
	r.rec.setHeader(r.pending, r.mode)
	r.hasPending = false
	for {
		line, err := r.lr.next()
		if err == io.EOF {
			r.done = true
			break
		}
		if err != nil {
			return r.finish(err)
		}
		if len(line) > 0 && line[0] == '>' {
			r.pending = append(r.pending[:0], line[1:]...)
			r.hasPending = true
			break
		}
		r.rec.Seq = append(r.rec.Seq, bytes.TrimSpace(line)...)
	}
	return &r.rec, nil
}

type fastqReader struct {
	stream
	qual []byte
}

func (r *fastqReader) Next() (*Record, error) {
	if r.done {
		return nil, io.EOF
	}
	var line []byte
	var err error
	for {
		if line, err = r.lr.next(); err != nil {
			return r.finish(err)
		}
		if len(bytes.TrimSpace(line)) > 0 {
			break
		}
	}
	if line[0] != '@' {
		return r.malformed("expected '@' at record start")
	}
	r.rec.reset()
	r.rec.setHeader(line[1:], r.mode)

	for {
		line, err = r.lr.next()
		if err == io.EOF {
			return r.malformed("record truncated before '+' line")
		}
		if err != nil {
			return r.finish(err)
		}
		if len(line) > 0 && line[0] == '+' {
			break
		}
		r.rec.Seq = append(r.rec.Seq, bytes.TrimSpace(line)...)
	}

	r.qual = r.qual[:0]
	for len(r.qual) < len(r.rec.Seq) {
		line, err = r.lr.next()
		if err == io.EOF {
			return r.malformed("quality truncated (%d of %d)", len(r.qual), len(r.rec.Seq))
		}
		if err != nil {
			return r.finish(err)
		}
		r.qual = append(r.qual, bytes.TrimSpace(line)...)
	}
	if len(r.qual) != len(r.rec.Seq) {
		return r.malformed("quality length %d != sequence length %d", len(r.qual), len(r.rec.Seq))
	}
	if r.mode&SkipQual == 0 {
		r.rec.Qual = append(r.rec.Qual[:0], r.qual...)
	}
	return &r.rec, nil
}

// emptyReader stands in for inputs with no content at all.
type emptyReader struct{ stream }

func (r *emptyReader) Next() (*Record, error) { return nil, io.EOF }

// newReader sniffs the first non-blank byte of br and returns the
// matching parser.
func newReader(src string, br *bufio.Reader, closer io.Closer, mode Mode) (Reader, error) {
	s := stream{src: src, lr: lineReader{br: br}, closer: closer, mode: mode}
	for {
		b, err := br.ReadByte()
		if err == io.EOF {
			return &emptyReader{stream: s}, nil
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w", src, err)
		}
		if b == ' ' || b == '\t' || b == '\r' || b == '\n' {
			continue
		}
		_ = br.UnreadByte()
		switch b {
		case '>':
			return &fastaReader{stream: s}, nil
		case '@':
			return &fastqReader{stream: s}, nil
		default:
			return nil, fmt.Errorf("%w: %s starts with %q", ErrUnknownFormat, src, b)
		}
	}
}

// NewReader parses FASTA or FASTQ from r, which is not closed.
func NewReader(name string, r io.Reader, mode Mode) (Reader, error) {
	return newReader(name, bufio.NewReaderSize(r, 1<<16), nil, mode)
}
