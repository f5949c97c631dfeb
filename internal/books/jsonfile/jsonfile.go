// Package jsonfile reads the reading log from a JSON array on disk.
package jsonfile

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"booklog/internal/books"
	"booklog/internal/core"
)

// File is a Source backed by a JSON file.
type File struct {
	path string
}

var _ books.Source = (*File)(nil)

func New(path string) *File {
	return &File{path: path}
}

func (f *File) Name() string { return "json" }

// Path returns the watched file.
func (f *File) Path() string { return f.path }

// LoadBooks reads and decodes the whole file.
func (f *File) LoadBooks(ctx context.Context) ([]core.RawBook, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(f.path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", f.path, err)
	}
	records, err := Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", f.path, err)
	}
	return records, nil
}

// Decode parses an ordered JSON array of records. An empty document is an
// empty log.
func Decode(r io.Reader) ([]core.RawBook, error) {
	var records []core.RawBook
	dec := json.NewDecoder(r)
	if err := dec.Decode(&records); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, err
	}
	return records, nil
}
