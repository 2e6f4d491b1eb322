// internal/writers/registry.go
package writers

import (
	"fmt"
	"io"
	"iter"
	"maps"
	"slices"

	"novokmer/internal/kmerset"
)

// KmerWriter renders entries as k-mers of length k. It sees only entries
// that already passed the count threshold.
type KmerWriter func(out io.Writer, k int, entries iter.Seq[kmerset.Entry]) error

// Table formats (format → handler). Register in init() blocks.
var kmerWriters = map[string]KmerWriter{}

// RegisterKmer adds or replaces a table format.
func RegisterKmer(format string, fn KmerWriter) { kmerWriters[format] = fn }

// KmerFormats lists the registered table formats, sorted.
func KmerFormats() []string {
	return slices.Sorted(maps.Keys(kmerWriters))
}

func lookupKmer(format string) (KmerWriter, error) {
	fn, ok := kmerWriters[format]
	if !ok {
		return nil, fmt.Errorf("unknown table format %q (no writer registered)", format)
	}
	return fn, nil
}
