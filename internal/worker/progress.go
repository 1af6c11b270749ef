package worker

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

const barWidth = 30

// Progress draws a single-line progress bar for a frame sequence.
type Progress struct {
	mu      sync.Mutex
	out     io.Writer
	enabled bool
	started time.Time
	snap    snapshot
}

type snapshot struct {
	completed, total, failed int
}

// NewProgress creates a tracker for total frames. A disabled tracker only
// counts; it never writes.
func NewProgress(total int, enabled bool) *Progress {
	return &Progress{
		out:     os.Stderr,
		enabled: enabled,
		started: time.Now(),
		snap:    snapshot{total: total},
	}
}

// Update records the counts reported by the pool.
func (p *Progress) Update(completed, total, failed int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.snap = snapshot{completed: completed, total: total, failed: failed}
	if p.enabled {
		fmt.Fprint(p.out, "\r"+p.lineLocked()+"\x1b[K")
	}
}

// Callback adapts the tracker to Config.OnProgress.
func (p *Progress) Callback() ProgressFunc { return p.Update }

// Done redraws the final state and ends the line.
func (p *Progress) Done() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.enabled {
		fmt.Fprintln(p.out, "\r"+p.lineLocked()+"\x1b[K")
	}
}

// Summary describes the finished run for the log.
func (p *Progress) Summary() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	s := p.snap
	took := time.Since(p.started)
	return fmt.Sprintf("Rendered %d/%d frames (%d failed) in %s (%.1f fps)",
		s.completed-s.failed, s.total, s.failed, formatDuration(took), rate(s.completed, took))
}

func (p *Progress) lineLocked() string {
	s := p.snap
	took := time.Since(p.started)

	filled := 0
	if s.total > 0 {
		filled = min(barWidth, s.completed*barWidth/s.total)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "[%s%s] %d/%d frames",
		strings.Repeat("█", filled), strings.Repeat("░", barWidth-filled), s.completed, s.total)
	if s.failed > 0 {
		fmt.Fprintf(&b, " (%d failed)", s.failed)
	}
	fps := rate(s.completed, took)
	fmt.Fprintf(&b, " %.1f fps", fps)

	switch {
	case s.completed >= s.total:
		fmt.Fprintf(&b, " done in %s", formatDuration(took))
	case fps > 0:
		left := time.Duration(float64(s.total-s.completed) / fps * float64(time.Second))
		fmt.Fprintf(&b, " eta %s", formatDuration(left))
	}
	return b.String()
}

func rate(n int, d time.Duration) float64 {
	if n == 0 || d <= 0 {
		return 0
	}
	return float64(n) / d.Seconds()
}

// formatDuration prints 42s, 3m7s or 1h5m.
func formatDuration(d time.Duration) string {
	switch {
	case d < time.Minute:
		return fmt.Sprintf("%.0fs", d.Seconds())
	case d < time.Hour:
		return fmt.Sprintf("%dm%ds", int(d.Minutes()), int(d.Seconds())%60)
	default:
		return fmt.Sprintf("%dh%dm", int(d.Hours()), int(d.Minutes())%60)
	}
}
