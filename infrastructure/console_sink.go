package infrastructure

import (
	"context"
	"fmt"
	"io"
	"sync"
)

// ConsoleSink writes rendered feed lines to a writer, one per line
type ConsoleSink struct {
	mu     sync.Mutex
	out    io.Writer
	header bool
}

// NewConsoleSink creates a sink writing to out; header prints the username before the lines
func NewConsoleSink(out io.Writer, header bool) *ConsoleSink {
	return &ConsoleSink{out: out, header: header}
}

// Render writes the lines in order
func (s *ConsoleSink) Render(ctx context.Context, username string, lines []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.header {
		if _, err := fmt.Fprintf(s.out, "Feed for %s:\n", username); err != nil {
			return fmt.Errorf("failed to write feed header: %w", err)
		}
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(s.out, line); err != nil {
			return fmt.Errorf("failed to write feed line: %w", err)
		}
	}
	return nil
}
