// Package ingest streams trip CSV files as fixed-size header+rows chunks.
package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ChunkHandler receives one chunk of rows under the file's header
type ChunkHandler func(header []string, rows [][]string) error

// ReadChunks streams a CSV file to fn in chunks of at most chunkSize rows.
// Rows that fail to parse are skipped and counted, not fatal. The handler's
// error stops the stream.
func ReadChunks(path string, chunkSize int, fn ChunkHandler) error {
	if chunkSize <= 0 {
		chunkSize = 5000
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1 // ragged rows are handled downstream
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		return fmt.Errorf("failed to read header of %s: %w", path, err)
	}

	rows := make([][]string, 0, chunkSize)
	malformed := 0

	flush := func() error {
		if len(rows) == 0 {
			return nil
		}
		if err := fn(header, rows); err != nil {
			return err
		}
		rows = rows[:0]
		return nil
	}

	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			malformed++
			continue
		}

		rows = append(rows, row)
		if len(rows) >= chunkSize {
			if err := flush(); err != nil {
				return err
			}
		}
	}

	if err := flush(); err != nil {
		return err
	}

	if malformed > 0 {
		log.Printf("%s: skipped %d malformed rows", path, malformed)
	}
	return nil
}

// ListCSVFiles returns the CSV files in a directory sorted by filename, so
// monthly archives load in chronological order
func ListCSVFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", dir, err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(strings.ToLower(entry.Name()), ".csv") {
			continue
		}
		files = append(files, filepath.Join(dir, entry.Name()))
	}

	sort.Strings(files)
	return files, nil
}
