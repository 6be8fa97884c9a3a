package storage

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"member-etl/models"
)

// JSONLWriter writes members as newline-delimited JSON, one object per line.
type JSONLWriter struct {
	path string
	file *os.File
	buf  *bufio.Writer
	enc  *json.Encoder
}

// NewJSONLWriter creates (or truncates) the file at path. Intermediate
// directories are created automatically.
func NewJSONLWriter(path string) (*JSONLWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("jsonl: create output dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("jsonl: create file %q: %w", path, err)
	}

	buf := bufio.NewWriter(f)
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)

	return &JSONLWriter{path: path, file: f, buf: buf, enc: enc}, nil
}

// Write appends one line per member. A failure part way leaves the lines
// already flushed in place.
func (w *JSONLWriter) Write(members []*models.Member) error {
	for i, m := range members {
		if err := w.enc.Encode(m); err != nil {
			return fmt.Errorf("jsonl: encode row %d: %w", i, err)
		}
	}
	if err := w.buf.Flush(); err != nil {
		return fmt.Errorf("jsonl: flush %q: %w", w.path, err)
	}
	return nil
}

// Close flushes and closes the underlying file.
func (w *JSONLWriter) Close() error {
	if err := w.buf.Flush(); err != nil {
		_ = w.file.Close()
		return fmt.Errorf("jsonl: flush %q: %w", w.path, err)
	}
	return w.file.Close()
}
