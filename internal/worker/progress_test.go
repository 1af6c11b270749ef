package worker

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func newTestProgress(total int, enabled bool, ago time.Duration) (*Progress, *bytes.Buffer) {
	var buf bytes.Buffer
	p := NewProgress(total, enabled)
	p.out = &buf
	p.started = time.Now().Add(-ago)
	return p, &buf
}

func TestProgress_Line(t *testing.T) {
	p, buf := newTestProgress(10, true, 10*time.Second)

	p.Update(5, 10, 1)

	out := buf.String()
	for _, want := range []string{"[" + strings.Repeat("█", 15) + "░", "5/10 frames", "(1 failed)", "0.5 fps", "eta 10s"} {
		if !strings.Contains(out, want) {
			t.Errorf("line %q lacks %q", out, want)
		}
	}
	if !strings.HasPrefix(out, "\r") {
		t.Error("line should rewind the cursor")
	}
}

func TestProgress_Done(t *testing.T) {
	p, buf := newTestProgress(3, true, 3*time.Second)

	p.Update(3, 3, 0)
	buf.Reset()
	p.Done()

	out := buf.String()
	if !strings.Contains(out, "done in 3s") {
		t.Errorf("final line %q lacks completion time", out)
	}
	if !strings.HasSuffix(out, "\n") {
		t.Error("final line should end with a newline")
	}
}

func TestProgress_DisabledWritesNothing(t *testing.T) {
	p, buf := newTestProgress(10, false, 0)

	p.Callback()(5, 10, 1)
	p.Done()

	if buf.Len() != 0 {
		t.Errorf("disabled progress wrote %q", buf.String())
	}
	if p.snap.completed != 5 || p.snap.failed != 1 {
		t.Errorf("counts not recorded: %+v", p.snap)
	}
}

func TestProgress_Summary(t *testing.T) {
	p, _ := newTestProgress(10, false, 10*time.Second)

	p.Update(10, 10, 2)

	summary := p.Summary()
	if !strings.Contains(summary, "Rendered 8/10 frames (2 failed)") {
		t.Errorf("unexpected summary %q", summary)
	}
	if !strings.Contains(summary, "1.0 fps") {
		t.Errorf("summary %q lacks rate", summary)
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{30 * time.Second, "30s"},
		{90 * time.Second, "1m30s"},
		{5 * time.Minute, "5m0s"},
		{65 * time.Minute, "1h5m"},
		{2*time.Hour + 30*time.Minute, "2h30m"},
	}

	for _, tt := range tests {
		if got := formatDuration(tt.d); got != tt.want {
			t.Errorf("formatDuration(%v) = %s, want %s", tt.d, got, tt.want)
		}
	}
}
