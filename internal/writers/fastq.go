package writers

import (
	"fmt"
	"io"

	"novokmer/internal/extract"
	"novokmer/internal/seqio"
)

// WritePairs writes mate 1 of every pair to w1 and mate 2 to w2, as FASTQ,
// in slice order.
func WritePairs(w1, w2 io.Writer, pairs []extract.Pair) error {
	for i := range pairs {
		if err := seqio.WriteFASTQ(w1, &pairs[i].R1); err != nil {
			return fmt.Errorf("mate 1: %w", err)
		}
		if err := seqio.WriteFASTQ(w2, &pairs[i].R2); err != nil {
			return fmt.Errorf("mate 2: %w", err)
		}
	}
	return nil
}
