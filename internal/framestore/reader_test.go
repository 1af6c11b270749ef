package framestore

import (
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func TestReader_RoundTrip(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "frames.db")

	metadata := Metadata{
		Name:        "mesh",
		Format:      "png",
		Description: "Test description",
		Version:     "1.0",
		Config:      `{"dotCount":120}`,
		Width:       320,
		Height:      180,
		Interval:    40 * time.Millisecond,
	}

	w, err := New(dbPath, metadata)
	if err != nil {
		t.Fatalf("Failed to create writer: %v", err)
	}
	frames := map[int][]byte{
		0: []byte("frame zero"),
		2: []byte("frame two"),
		1: []byte("frame one"),
	}
	for i, data := range frames {
		if err := w.WriteFrame(i, time.Duration(i)*40*time.Millisecond, data); err != nil {
			t.Fatalf("Failed to write frame %d: %v", i, err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Failed to close writer: %v", err)
	}

	r, err := OpenReader(dbPath)
	if err != nil {
		t.Fatalf("Failed to open reader: %v", err)
	}
	defer r.Close()

	n, err := r.Count()
	if err != nil {
		t.Fatalf("Failed to count frames: %v", err)
	}
	if n != len(frames) {
		t.Errorf("Expected %d frames, got %d", len(frames), n)
	}

	if d, err := r.Distinct(); err != nil || d != len(frames) {
		t.Errorf("Expected %d distinct frames, got %d (%v)", len(frames), d, err)
	}

	for i, want := range frames {
		data, elapsed, err := r.ReadFrame(i)
		if err != nil {
			t.Fatalf("Failed to read frame %d: %v", i, err)
		}
		if string(data) != string(want) {
			t.Errorf("Frame %d: expected %q, got %q", i, want, data)
		}
		if elapsed != time.Duration(i)*40*time.Millisecond {
			t.Errorf("Frame %d: unexpected elapsed %v", i, elapsed)
		}
	}

	if _, _, err := r.ReadFrame(99); !errors.Is(err, ErrFrameNotFound) {
		t.Errorf("Expected ErrFrameNotFound, got %v", err)
	}

	got, err := r.Metadata()
	if err != nil {
		t.Fatalf("Failed to read metadata: %v", err)
	}
	if got != metadata {
		t.Errorf("Metadata mismatch:\nwant %+v\ngot  %+v", metadata, got)
	}
}

func TestOpenReader_MissingTable(t *testing.T) {
	if _, err := OpenReader(filepath.Join(t.TempDir(), "empty.db")); err == nil {
		t.Error("Expected error for database without archive tables")
	}
}
