package framestore

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// ErrFrameNotFound is returned for indexes missing from the archive.
var ErrFrameNotFound = errors.New("frame not found")

// Reader reads a finished archive.
type Reader struct {
	db *sql.DB
}

// OpenReader opens the archive at path read-only.
func OpenReader(path string) (*Reader, error) {
	db, err := sql.Open("sqlite", path+"?mode=ro&immutable=1")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	var tables int
	err = db.QueryRow(
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name IN ('frames', 'blobs')",
	).Scan(&tables)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to verify schema: %w", err)
	}
	if tables != 2 {
		db.Close()
		return nil, fmt.Errorf("%s is not a frame archive", path)
	}

	return &Reader{db: db}, nil
}

// ReadFrame returns the encoded frame and the animation time it was posed at.
func (r *Reader) ReadFrame(index int) ([]byte, time.Duration, error) {
	var (
		data      []byte
		elapsedMS int64
	)
	err := r.db.QueryRow(`
		SELECT b.data, f.elapsed_ms
		FROM frames f JOIN blobs b ON b.hash = f.hash
		WHERE f.frame_index = ?`, index,
	).Scan(&data, &elapsedMS)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, 0, fmt.Errorf("%w: %d", ErrFrameNotFound, index)
	}
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read frame %d: %w", index, err)
	}
	return data, time.Duration(elapsedMS) * time.Millisecond, nil
}

// Count returns the number of frames.
func (r *Reader) Count() (int, error) {
	var n int
	if err := r.db.QueryRow("SELECT COUNT(*) FROM frames").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count frames: %w", err)
	}
	return n, nil
}

// Distinct returns the number of distinct frame images stored.
func (r *Reader) Distinct() (int, error) {
	var n int
	if err := r.db.QueryRow("SELECT COUNT(*) FROM blobs").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count blobs: %w", err)
	}
	return n, nil
}

// Metadata reads the archive metadata.
func (r *Reader) Metadata() (Metadata, error) {
	rows, err := r.db.Query("SELECT name, value FROM metadata")
	if err != nil {
		return Metadata{}, fmt.Errorf("failed to query metadata: %w", err)
	}
	defer rows.Close()

	values := make(map[string]string)
	for rows.Next() {
		var name string
		var value sql.NullString
		if err := rows.Scan(&name, &value); err != nil {
			return Metadata{}, fmt.Errorf("failed to scan metadata: %w", err)
		}
		values[name] = value.String
	}
	if err := rows.Err(); err != nil {
		return Metadata{}, fmt.Errorf("failed to read metadata: %w", err)
	}
	return metadataFromMap(values), nil
}

// Close closes the database.
func (r *Reader) Close() error {
	if err := r.db.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	return nil
}
