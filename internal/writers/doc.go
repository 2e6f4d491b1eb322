// Package writers renders run results: the novel k-mer table (TSV or
// JSONL) and the deduplicated read pairs as FASTQ.
//
// JSONL goes through pkg/api (v1) for a stable wire format.
package writers
