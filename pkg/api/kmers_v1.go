// pkg/api/kmers_v1.go
package api

// KmerV1 is the stable JSONL schema for one novel k-mer.
// Keep fields, names, and types stable. Add new fields only with ",omitempty".
type KmerV1 struct {
	Kmer  string `json:"kmer"`
	Count uint16 `json:"count"`
}
