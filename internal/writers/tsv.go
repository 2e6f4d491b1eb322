package writers

import (
	"bufio"
	"io"
	"iter"
	"strconv"

	"novokmer/internal/kmer"
	"novokmer/internal/kmerset"
)

const FormatTSV = "tsv"

func init() { RegisterKmer(FormatTSV, writeTSV) }

// writeTSV writes "<kmer>\t<count>\n" per entry.
func writeTSV(out io.Writer, k int, entries iter.Seq[kmerset.Entry]) error {
	bw := bufio.NewWriterSize(out, 64<<10)
	line := make([]byte, 0, k+8)
	for e := range entries {
		line = kmer.AppendDecoded(line[:0], e.Key, k)
		line = append(line, '\t')
		line = strconv.AppendUint(line, uint64(e.Count), 10)
		line = append(line, '\n')
		if _, err := bw.Write(line); err != nil {
			return err
		}
	}
	return bw.Flush()
}
