// internal/jsonlutil/jsonlutil.go
package jsonlutil

import (
	"bufio"
	"encoding/json"
	"io"
	"sync"
)

// Reuse a 64 KiB buffered writer across JSONL writers to avoid per-writer mallocs.
var bwPool = sync.Pool{
	New: func() any {
		return bufio.NewWriterSize(io.Discard, 64<<10)
	},
}

// Stream feeds values of type T to an encoder goroutine, one JSON value
// per line.
type Stream[T any] struct {
	in   chan T
	done chan error
	err  error // set once the goroutine has reported
	fin  bool
}

// Start spins up a JSONL encoder goroutine for values of type T.
//   - encode: fn to encode one value (convert to wire type & enc.Encode)
//   - isBroken: recognizer for broken/closed pipe errors to suppress them
func Start[T any](out io.Writer, bufSize int, encode func(*json.Encoder, T) error, isBroken func(error) bool) *Stream[T] {
	if bufSize <= 0 {
		bufSize = 64
	}
	s := &Stream[T]{in: make(chan T, bufSize), done: make(chan error, 1)}

	go func() {
		bw := bwPool.Get().(*bufio.Writer)
		bw.Reset(out)
		defer func() {
			bw.Reset(io.Discard)
			bwPool.Put(bw)
		}()

		enc := json.NewEncoder(bw)
		for v := range s.in {
			if err := encode(enc, v); err != nil {
				s.done <- err
				// Keep draining so Send never blocks on a dead encoder.
				for range s.in {
				}
				return
			}
		}
		if err := bw.Flush(); err != nil && !isBroken(err) {
			s.done <- err
			return
		}
		s.done <- nil
	}()
	return s
}

// Send queues v. After the encoder has failed it returns that error.
func (s *Stream[T]) Send(v T) error {
	if s.fin {
		return s.err
	}
	select {
	case err := <-s.done:
		s.fin, s.err = true, err
		return err
	default:
	}
	s.in <- v
	return nil
}

// Close flushes and waits for the encoder.
func (s *Stream[T]) Close() error {
	close(s.in)
	if !s.fin {
		s.fin, s.err = true, <-s.done
	}
	return s.err
}
