package seqio

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// multiReadCloser closes multiple io.Closers when Close() is called.
type multiReadCloser struct {
	io.Reader
	closers []io.Closer
}

func (m *multiReadCloser) Close() error {
	var err error
	for _, c := range m.closers {
		if cerr := c.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}

var (
	magicGzip = []byte{0x1f, 0x8b}
	magicZstd = []byte{0x28, 0xb5, 0x2f, 0xfd}
	magicLZ4  = []byte{0x04, 0x22, 0x4d, 0x18}
)

// Open opens path for reading records. "-" is stdin and s3://bucket/key
// is fetched through the S3 client. Compression is detected from the
// leading magic bytes, so misnamed files still work.
func Open(ctx context.Context, path string, mode Mode) (Reader, error) {
	raw, err := openRaw(ctx, path)
	if err != nil {
		return nil, err
	}
	rc, err := decompress(raw)
	if err != nil {
		_ = raw.Close()
		return nil, err
	}
	r, err := newReader(path, bufio.NewReaderSize(rc, 1<<16), rc, mode)
	if err != nil {
		_ = rc.Close()
		return nil, err
	}
	return r, nil
}

func openRaw(ctx context.Context, path string) (io.ReadCloser, error) {
	if path == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	if bucket, key, ok := splitS3(path); ok {
		return openS3(ctx, bucket, key)
	}
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	adviseSequential(fh)
	return fh, nil
}

// decompress wraps raw in the decoder its magic number asks for. The
// returned closer releases both the decoder and raw.
func decompress(raw io.ReadCloser) (io.ReadCloser, error) {
	br := bufio.NewReaderSize(raw, 1<<20)
	sig, _ := br.Peek(4)
	switch {
	case bytes.HasPrefix(sig, magicGzip):
		gr, err := gzip.NewReader(br)
		if err != nil {
			return nil, err
		}
		return &multiReadCloser{Reader: gr, closers: []io.Closer{gr, raw}}, nil
	case bytes.HasPrefix(sig, magicZstd):
		zr, err := zstd.NewReader(br)
		if err != nil {
			return nil, err
		}
		zrc := zr.IOReadCloser()
		return &multiReadCloser{Reader: zrc, closers: []io.Closer{zrc, raw}}, nil
	case bytes.HasPrefix(sig, magicLZ4):
		return &multiReadCloser{Reader: lz4.NewReader(br), closers: []io.Closer{raw}}, nil
	}
	return &multiReadCloser{Reader: br, closers: []io.Closer{raw}}, nil
}

func splitS3(path string) (bucket, key string, ok bool) {
	rest, ok := strings.CutPrefix(path, "s3://")
	if !ok {
		return "", "", false
	}
	bucket, key, ok = strings.Cut(rest, "/")
	if !ok || bucket == "" || key == "" {
		return "", "", false
	}
	return bucket, key, true
}
