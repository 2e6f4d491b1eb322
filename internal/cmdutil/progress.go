package cmdutil

import (
	"log/slog"
	"time"

	"github.com/dustin/go-humanize"
	"golang.org/x/time/rate"
)

// progressStride is how many items pass between rate checks.
const progressStride = 1 << 12

// Progress logs a running count at most once per interval.
type Progress struct {
	log   *slog.Logger
	phase string
	unit  string
	start time.Time
	s     *rate.Sometimes
}

// NewProgress returns a reporter for phase. every <= 0 disables it.
func NewProgress(log *slog.Logger, phase, unit string, every time.Duration) *Progress {
	p := &Progress{log: OrDiscard(log), phase: phase, unit: unit, start: time.Now()}
	if every > 0 {
		p.s = &rate.Sometimes{Interval: every}
	}
	return p
}

// Tick reports n items processed so far. Cheap enough to call per item.
func (p *Progress) Tick(n uint64) {
	if p == nil || p.s == nil || n%progressStride != 0 {
		return
	}
	p.s.Do(func() {
		secs := time.Since(p.start).Seconds()
		perSec := 0.0
		if secs > 0 {
			perSec = float64(n) / secs
		}
		p.log.Info(p.phase+" progress",
			p.unit, humanize.Comma(int64(n)),
			"per_sec", humanize.CommafWithDigits(perSec, 0),
		)
	})
}
