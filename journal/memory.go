package journal

import (
	"context"
	"sync"

	"github.com/spacemeshos/poe/claims"
)

// Memory keeps events in memory. It is safe for concurrent use.
type Memory struct {
	mu      sync.Mutex
	entries []Entry
}

func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) Publish(_ context.Context, seq uint64, ev claims.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, Entry{Seq: seq, Event: ev})
	return nil
}

// Events returns all entries with a sequence number >= from, in publishing order.
func (m *Memory) Events(from uint64) ([]Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var entries []Entry
	for _, e := range m.entries {
		if e.Seq >= from {
			entries = append(entries, e)
		}
	}
	return entries, nil
}

func (m *Memory) LastSequence() (uint64, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.entries) == 0 {
		return 0, false, nil
	}
	return m.entries[len(m.entries)-1].Seq, true, nil
}

func (m *Memory) Close() error {
	return nil
}
