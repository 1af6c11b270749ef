package framestore

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite" // SQLite driver
)

// DefaultBatchSize is the number of frames buffered before a transaction.
const DefaultBatchSize = 32

// ErrClosed is returned when writing to a closed Writer.
var ErrClosed = errors.New("framestore: writer closed")

const schema = `
	CREATE TABLE IF NOT EXISTS metadata (
		name  TEXT PRIMARY KEY,
		value TEXT
	);
	CREATE TABLE IF NOT EXISTS blobs (
		hash TEXT PRIMARY KEY,
		data BLOB NOT NULL
	);
	CREATE TABLE IF NOT EXISTS frames (
		frame_index INTEGER PRIMARY KEY,
		elapsed_ms  INTEGER NOT NULL,
		hash        TEXT NOT NULL REFERENCES blobs (hash)
	);
`

type pendingFrame struct {
	index   int
	elapsed time.Duration
	hash    string
	data    []byte
}

// Writer stores encoded frames. Identical frames, as produced by the static
// render modes, share one blob. A Writer is safe for concurrent use; frames
// may arrive in any order.
type Writer struct {
	mu        sync.Mutex
	db        *sql.DB
	pending   []pendingFrame
	batchSize int
	closed    bool
}

// New creates or opens the archive at path and replaces its metadata.
func New(path string, metadata Metadata) (*Writer, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	setup := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		schema,
	}
	for _, stmt := range setup {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to initialize archive: %w", err)
		}
	}

	if err := writeMetadata(db, metadata); err != nil {
		db.Close()
		return nil, err
	}

	return &Writer{db: db, batchSize: DefaultBatchSize}, nil
}

func writeMetadata(db *sql.DB, meta Metadata) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() // nolint:errcheck

	if _, err := tx.Exec("DELETE FROM metadata"); err != nil {
		return fmt.Errorf("failed to clear metadata: %w", err)
	}
	for name, value := range meta.ToMap() {
		if _, err := tx.Exec("INSERT INTO metadata (name, value) VALUES (?, ?)", name, value); err != nil {
			return fmt.Errorf("failed to insert metadata %q: %w", name, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit metadata: %w", err)
	}
	return nil
}

// WriteFrame queues a frame; a full batch is written immediately. A frame
// index written twice keeps the later data.
func (w *Writer) WriteFrame(index int, elapsed time.Duration, data []byte) error {
	sum := sha256.Sum256(data)
	f := pendingFrame{index: index, elapsed: elapsed, hash: hex.EncodeToString(sum[:]), data: data}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return ErrClosed
	}
	w.pending = append(w.pending, f)
	if len(w.pending) >= w.batchSize {
		return w.flushLocked()
	}
	return nil
}

// Flush writes queued frames.
func (w *Writer) Flush() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return ErrClosed
	}
	return w.flushLocked()
}

func (w *Writer) flushLocked() error {
	if len(w.pending) == 0 {
		return nil
	}

	tx, err := w.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() // nolint:errcheck

	for _, f := range w.pending {
		if _, err := tx.Exec("INSERT OR IGNORE INTO blobs (hash, data) VALUES (?, ?)", f.hash, f.data); err != nil {
			return fmt.Errorf("failed to store frame %d: %w", f.index, err)
		}
		if _, err := tx.Exec(
			"INSERT OR REPLACE INTO frames (frame_index, elapsed_ms, hash) VALUES (?, ?, ?)",
			f.index, f.elapsed.Milliseconds(), f.hash,
		); err != nil {
			return fmt.Errorf("failed to index frame %d: %w", f.index, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit frames: %w", err)
	}
	w.pending = w.pending[:0]
	return nil
}

// Close writes queued frames, drops blobs no frame refers to any more and
// closes the database. Closing twice is a no-op.
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return nil
	}
	w.closed = true

	err := w.flushLocked()
	if err == nil {
		if _, perr := w.db.Exec("DELETE FROM blobs WHERE hash NOT IN (SELECT hash FROM frames)"); perr != nil {
			err = fmt.Errorf("failed to prune blobs: %w", perr)
		}
	}
	if cerr := w.db.Close(); cerr != nil && err == nil {
		err = fmt.Errorf("failed to close database: %w", cerr)
	}
	return err
}
