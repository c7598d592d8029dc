package sinks

import (
	"context"
	"fmt"
	"io"

	"github.com/packconv/packconv/internal/engine"
)

// StreamSink writes every file's raw bytes to a single writer, typically
// stdout. Only useful behind an ArchiveSink, where exactly one file is ever
// written.
type StreamSink struct {
	w io.Writer
}

func NewStreamSink(w io.Writer) engine.Sink {
	return &StreamSink{w: w}
}

func (s *StreamSink) Name() string {
	return "stream"
}

func (s *StreamSink) Kind() string {
	return "stream"
}

func (s *StreamSink) Write(ctx context.Context, path string, data io.Reader) error {
	if _, err := io.Copy(s.w, data); err != nil {
		return fmt.Errorf("failed to copy data: %w", err)
	}
	return nil
}

func (s *StreamSink) Close(ctx context.Context) error {
	return nil
}
