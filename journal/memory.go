package journal

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
)

// MemorySink collects published records in memory for inspection.
type MemorySink struct {
	mu      sync.Mutex
	clock   clockwork.Clock
	entries []Entry
}

// NewMemorySink creates an empty memory sink using the real clock.
func NewMemorySink() *MemorySink {
	return NewMemorySinkWithClock(clockwork.NewRealClock())
}

// NewMemorySinkWithClock creates a memory sink stamping entries from the
// given clock.
func NewMemorySinkWithClock(clock clockwork.Clock) *MemorySink {
	return &MemorySink{clock: clock}
}

// Publish appends one record.
func (s *MemorySink) Publish(_ context.Context, record Record) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal %s record: %w", record.Kind(), err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, Entry{
		ID:   uuid.NewString(),
		Kind: record.Kind(),
		At:   s.clock.Now().UTC(),
		Data: data,
	})
	return nil
}

// Entries returns a copy of everything published so far.
func (s *MemorySink) Entries() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Close is a no-op.
func (s *MemorySink) Close() error { return nil }

var _ Sink = (*MemorySink)(nil)
