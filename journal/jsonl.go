package journal

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
)

// JSONLSink appends records to a writer as JSON Lines, one entry per line.
type JSONLSink struct {
	mu     sync.Mutex
	clock  clockwork.Clock
	w      *bufio.Writer
	closer io.Closer
}

// NewJSONLSink wraps a writer as a JSONL sink. If the writer is also an
// io.Closer it is closed by Close.
func NewJSONLSink(w io.Writer) *JSONLSink {
	s := &JSONLSink{
		clock: clockwork.NewRealClock(),
		w:     bufio.NewWriter(w),
	}
	if c, ok := w.(io.Closer); ok {
		s.closer = c
	}
	return s
}

// OpenJSONLFile opens (or creates) a JSONL log file for appending.
func OpenJSONLFile(path string) (*JSONLSink, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening journal file: %w", err)
	}
	return NewJSONLSink(f), nil
}

// SetClock overrides the entry timestamp clock. Call before publishing.
func (s *JSONLSink) SetClock(clock clockwork.Clock) {
	s.clock = clock
}

// Publish appends one record as a single JSON line.
func (s *JSONLSink) Publish(_ context.Context, record Record) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal %s record: %w", record.Kind(), err)
	}
	entry := Entry{
		ID:   uuid.NewString(),
		Kind: record.Kind(),
		At:   s.clock.Now().UTC(),
		Data: data,
	}
	line, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal journal entry: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.w.Write(line); err != nil {
		return fmt.Errorf("write journal entry: %w", err)
	}
	if err := s.w.WriteByte('\n'); err != nil {
		return fmt.Errorf("write journal entry: %w", err)
	}
	// One line per record on disk; a torn tail line stays detectable.
	return s.w.Flush()
}

// Close flushes and closes the underlying writer.
func (s *JSONLSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.w.Flush(); err != nil {
		return err
	}
	if s.closer != nil {
		return s.closer.Close()
	}
	return nil
}

var _ Sink = (*JSONLSink)(nil)

// ReadJSONL parses a JSONL journal back into entries. Empty lines are
// skipped.
func ReadJSONL(r io.Reader) ([]Entry, error) {
	var entries []Entry
	scanner := bufio.NewScanner(r)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var entry Entry
		if err := json.Unmarshal(line, &entry); err != nil {
			return nil, fmt.Errorf("line %d: invalid JSON: %w", lineNum, err)
		}
		entries = append(entries, entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading journal: %w", err)
	}
	return entries, nil
}

// ReadJSONLFile parses a JSONL journal file.
func ReadJSONLFile(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening journal file: %w", err)
	}
	defer f.Close()
	return ReadJSONL(f)
}
