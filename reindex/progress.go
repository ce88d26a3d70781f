package reindex

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// progress writes a single self-overwriting status line.
type progress struct {
	mu       sync.Mutex
	w        io.Writer
	total    int
	done     int
	every    int
	reported int
	started  time.Time
}

func newProgress(w io.Writer, total, every int) *progress {
	if w == nil {
		w = io.Discard
	}
	if every <= 0 {
		every = 1
	}
	return &progress{w: w, total: total, every: every, started: time.Now()}
}

// add records n more finished properties and reports when another
// interval has been crossed.
func (p *progress) add(n int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.done = min(p.done+n, p.total)
	if p.done-p.reported >= p.every {
		p.report()
		p.reported = p.done
	}
}

func (p *progress) finish() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.report()
	fmt.Fprintln(p.w)
	return time.Since(p.started)
}

func (p *progress) report() {
	pct := 0.0
	if p.total > 0 {
		pct = float64(p.done) / float64(p.total) * 100
	}
	rate := float64(p.done) / max(time.Since(p.started).Seconds(), 1e-9)
	fmt.Fprintf(p.w, "\rReindexed %d/%d properties (%.1f%%) - %.1f/s", p.done, p.total, pct, rate)
}
