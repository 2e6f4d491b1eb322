package api

// ReportV1 is the run summary written by --report.
type ReportV1 struct {
	Version    string  `json:"version"`
	K          int     `json:"k"`
	MinCount   int     `json:"min_count"`
	Ambiguous  string  `json:"ambiguous"` // "skip" | "mask-as-A"
	Threads    int     `json:"threads"`
	ElapsedSec float64 `json:"elapsed_sec"`

	Build     BuildV1    `json:"build"`
	Control   SubtractV1 `json:"control"`
	Reference SubtractV1 `json:"reference"`
	Extract   ExtractV1  `json:"extract"`
	Dedup     DedupV1    `json:"dedup"`
	Emit      EmitV1     `json:"emit"`
}

type BuildV1 struct {
	Streams   int    `json:"streams"`
	Reads     uint64 `json:"reads"`
	Windows   uint64 `json:"windows"`
	Skipped   uint64 `json:"skipped_windows"`
	Malformed int    `json:"malformed_streams,omitempty"`
	Distinct  int    `json:"distinct"`
}

type SubtractV1 struct {
	Reads     uint64 `json:"reads"`
	Windows   uint64 `json:"windows"`
	Skipped   uint64 `json:"skipped_windows"`
	Malformed int    `json:"malformed_streams,omitempty"`
	Removed   uint64 `json:"removed"`
	Remaining int    `json:"remaining"`
}

type ExtractV1 struct {
	Pairs      uint64 `json:"pairs"`
	Candidates int    `json:"candidates"`
	Truncated  bool   `json:"truncated,omitempty"`
	// HitOrdinals are the 0-based positions of the candidate pairs in
	// the treatment pair stream.
	HitOrdinals []uint64 `json:"hit_ordinals,omitempty"`
}

type DedupV1 struct {
	Kept       int `json:"kept"`
	Duplicates int `json:"duplicates"`
	// DroppedOrdinals are the treatment pair positions discarded as
	// duplicates.
	DroppedOrdinals []uint64 `json:"dropped_ordinals,omitempty"`
}

type EmitV1 struct {
	Considered     uint64 `json:"considered"`
	Written        uint64 `json:"written"`
	BelowThreshold uint64 `json:"below_threshold"`
}
