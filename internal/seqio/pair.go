package seqio

import (
	"errors"
	"io"
)

// PairReader walks two mate streams in lockstep.
type PairReader struct {
	r1, r2    Reader
	truncated bool
	done      bool
}

func NewPairReader(r1, r2 Reader) *PairReader {
	return &PairReader{r1: r1, r2: r2}
}

// Next returns the next pair of mates. It stops at the end of the
// shorter stream; Truncated reports whether the other one had records
// left.
func (p *PairReader) Next() (*Record, *Record, error) {
	if p.done {
		return nil, nil, io.EOF
	}
	a, err := p.r1.Next()
	if err == io.EOF {
		p.done = true
		if _, err2 := p.r2.Next(); err2 == nil {
			p.truncated = true
		} else if err2 != io.EOF {
			return nil, nil, err2
		}
		return nil, nil, io.EOF
	}
	if err != nil {
		p.done = true
		return nil, nil, err
	}
	b, err := p.r2.Next()
	if err == io.EOF {
		p.done = true
		p.truncated = true
		return nil, nil, io.EOF
	}
	if err != nil {
		p.done = true
		return nil, nil, err
	}
	return a, b, nil
}

// Truncated reports that the mate streams had different lengths.
func (p *PairReader) Truncated() bool { return p.truncated }

// Err joins the malformed-record conditions of both sides.
func (p *PairReader) Err() error { return errors.Join(p.r1.Err(), p.r2.Err()) }

func (p *PairReader) Close() error { return errors.Join(p.r1.Close(), p.r2.Close()) }
