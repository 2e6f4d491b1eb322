// Package seqio reads FASTA/FASTQ records from local files, stdin or S3
// objects (optionally gzip, zstd or lz4 compressed) and writes FASTQ.
//
// Readers are pull iterators: Next returns the next record or io.EOF.
// A malformed record ends the stream like EOF would; the reason is kept
// in Err so callers can report it.
package seqio

import (
	"bytes"
	"errors"
)

var (
	// ErrUnknownFormat is returned by Open when a stream is neither FASTA
	// nor FASTQ.
	ErrUnknownFormat = errors.New("unknown sequence format")
	// ErrMalformed wraps the reason a stream ended early.
	ErrMalformed = errors.New("malformed record")
)

// Mode selects which fields a reader fills in.
type Mode uint8

const (
	// SkipName leaves Name and Header empty.
	SkipName Mode = 1 << iota
	// SkipQual leaves Qual empty.
	SkipQual
)

// Full parses every field.
const Full Mode = 0

// Record is one sequence. Header is the description line without its
// leading '>' or '@'; Name is its first word.
type Record struct {
	Name   []byte
	Header []byte
	Seq    []byte
	Qual   []byte
}

// Clone returns a deep copy that does not share memory with r.
func (r *Record) Clone() Record {
	c := Record{
		Header: bytes.Clone(r.Header),
		Seq:    bytes.Clone(r.Seq),
		Qual:   bytes.Clone(r.Qual),
	}
	if bytes.HasPrefix(r.Header, r.Name) {
		c.Name = c.Header[:len(r.Name)]
	} else {
		c.Name = bytes.Clone(r.Name)
	}
	return c
}

func (r *Record) reset() {
	r.Name = r.Name[:0]
	r.Header = r.Header[:0]
	r.Seq = r.Seq[:0]
	r.Qual = r.Qual[:0]
}

func (r *Record) setHeader(h []byte, mode Mode) {
	if mode&SkipName != 0 {
		return
	}
	r.Header = append(r.Header[:0], bytes.TrimSpace(h)...)
	name := r.Header
	if i := bytes.IndexAny(name, " \t"); i >= 0 {
		name = name[:i]
	}
	r.Name = name
}
