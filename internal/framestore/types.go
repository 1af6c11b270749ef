// Package framestore keeps rendered frame sequences in a SQLite archive.
package framestore

import (
	"strconv"
	"time"
)

// Metadata describes an archive.
type Metadata struct {
	Name        string
	Format      string // frame encoding, "png"
	Description string
	Version     string
	Config      string // JSON of the parameters the frames were rendered with
	Width       int
	Height      int
	Interval    time.Duration // time between consecutive frames
}

// ToMap converts Metadata to name/value rows.
func (m Metadata) ToMap() map[string]string {
	result := make(map[string]string)

	if m.Name != "" {
		result["name"] = m.Name
	}
	if m.Format != "" {
		result["format"] = m.Format
	}
	if m.Description != "" {
		result["description"] = m.Description
	}
	if m.Version != "" {
		result["version"] = m.Version
	}
	if m.Config != "" {
		result["config"] = m.Config
	}
	if m.Width > 0 {
		result["width"] = strconv.Itoa(m.Width)
	}
	if m.Height > 0 {
		result["height"] = strconv.Itoa(m.Height)
	}
	if m.Interval > 0 {
		result["interval_ms"] = strconv.FormatInt(m.Interval.Milliseconds(), 10)
	}

	return result
}

func metadataFromMap(rows map[string]string) Metadata {
	meta := Metadata{
		Name:        rows["name"],
		Format:      rows["format"],
		Description: rows["description"],
		Version:     rows["version"],
		Config:      rows["config"],
	}
	if v, err := strconv.Atoi(rows["width"]); err == nil {
		meta.Width = v
	}
	if v, err := strconv.Atoi(rows["height"]); err == nil {
		meta.Height = v
	}
	if v, err := strconv.ParseInt(rows["interval_ms"], 10, 64); err == nil {
		meta.Interval = time.Duration(v) * time.Millisecond
	}
	return meta
}
