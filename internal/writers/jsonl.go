// internal/writers/jsonl.go
package writers

import (
	"encoding/json"
	"io"
	"iter"

	"novokmer/internal/jsonlutil"
	"novokmer/internal/kmer"
	"novokmer/internal/kmerset"
	"novokmer/pkg/api"
)

const FormatJSONL = "jsonl"

func init() { RegisterKmer(FormatJSONL, writeJSONL) }

// writeJSONL streams each entry as one api.KmerV1 line.
func writeJSONL(out io.Writer, k int, entries iter.Seq[kmerset.Entry]) error {
	s := jsonlutil.Start[api.KmerV1](out, 256,
		func(enc *json.Encoder, v api.KmerV1) error { return enc.Encode(v) },
		IsBrokenPipe,
	)
	buf := make([]byte, 0, k)
	for e := range entries {
		buf = kmer.AppendDecoded(buf[:0], e.Key, k)
		if err := s.Send(api.KmerV1{Kmer: string(buf), Count: e.Count}); err != nil {
			_ = s.Close()
			return err
		}
	}
	return s.Close()
}
