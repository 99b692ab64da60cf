// Package archive bundles generated fiscal documents into a single zip
// download.
package archive

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
)

// ErrNoEntries is returned when a bundle is requested for zero documents.
var ErrNoEntries = errors.New("archive has no entries")

// Entry is one file to be placed in the archive, in order.
type Entry struct {
	Name string
	Data []byte
}

// Pack writes the entries into an in-memory zip archive, preserving input
// order. Names are stored as given; duplicates are written as-is.
func Pack(entries []Entry) ([]byte, error) {
	if len(entries) == 0 {
		return nil, ErrNoEntries
	}

	var buf bytes.Buffer
	w := zip.NewWriter(&buf)

	for _, entry := range entries {
		f, err := w.Create(entry.Name)
		if err != nil {
			return nil, fmt.Errorf("failed to add %s to archive: %w", entry.Name, err)
		}
		if _, err := f.Write(entry.Data); err != nil {
			return nil, fmt.Errorf("failed to write %s to archive: %w", entry.Name, err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize archive: %w", err)
	}
	return buf.Bytes(), nil
}
