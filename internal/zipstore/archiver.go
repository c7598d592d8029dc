package zipstore

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/packconv/packconv/internal/engine"
)

// Archiver adapts a Builder to the engine.Archiver interface so delivery
// sinks can wrap any inner sink with ZIP packaging.
type Archiver struct {
	builder *Builder
	closed  bool
}

func NewArchiver() engine.Archiver {
	return &Archiver{builder: NewBuilder()}
}

// AddFile adds a file to the archive.
func (a *Archiver) AddFile(ctx context.Context, filename string, data io.Reader) error {
	if a.closed {
		return fmt.Errorf("archiver is closed")
	}

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context cancelled: %w", err)
	}

	content, err := io.ReadAll(data)
	if err != nil {
		return fmt.Errorf("failed to read file data: %w", err)
	}

	if err := a.builder.AddEntry(filename, content); err != nil {
		return fmt.Errorf("failed to add archive entry: %w", err)
	}

	return nil
}

// Close finalizes the archive and returns a reader for the complete archive data.
func (a *Archiver) Close() (io.Reader, error) {
	if a.closed {
		return nil, fmt.Errorf("archiver already closed")
	}
	a.closed = true

	data, err := a.builder.Finish()
	if err != nil {
		return nil, fmt.Errorf("failed to finalize archive: %w", err)
	}

	return bytes.NewReader(data), nil
}

// Extension returns the file extension for this archive type.
func (a *Archiver) Extension() string {
	return ".zip"
}
