package registry

import (
	"bytes"

	"golang.org/x/exp/slices"

	"github.com/spacemeshos/poe/claims"
)

// Memory keeps claims in a map. It is not safe for concurrent use.
type Memory struct {
	records map[string]claims.Record
}

var _ Store = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{records: make(map[string]claims.Record)}
}

func (m *Memory) Contains(fp claims.Fingerprint) (bool, error) {
	_, ok := m.records[string(fp)]
	return ok, nil
}

func (m *Memory) Get(fp claims.Fingerprint) (claims.Record, error) {
	r, ok := m.records[string(fp)]
	if !ok {
		return claims.Record{}, claims.ErrNotFound
	}
	return cloneRecord(r), nil
}

func (m *Memory) Insert(fp claims.Fingerprint, r claims.Record) error {
	m.records[string(fp)] = cloneRecord(r)
	return nil
}

func (m *Memory) Update(fp claims.Fingerprint, r claims.Record) error {
	if _, ok := m.records[string(fp)]; !ok {
		return claims.ErrNotFound
	}
	m.records[string(fp)] = cloneRecord(r)
	return nil
}

func (m *Memory) Remove(fp claims.Fingerprint) error {
	delete(m.records, string(fp))
	return nil
}

func (m *Memory) Len() int {
	return len(m.records)
}

func (m *Memory) Range(fn func(fp claims.Fingerprint, r claims.Record) bool) error {
	keys := make([]string, 0, len(m.records))
	for k := range m.records {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		if !fn(claims.Fingerprint(k), cloneRecord(m.records[k])) {
			return nil
		}
	}
	return nil
}

func (m *Memory) Close() error {
	return nil
}

func cloneRecord(r claims.Record) claims.Record {
	return claims.Record{
		Owner:        bytes.Clone(r.Owner),
		RegisteredAt: r.RegisteredAt,
	}
}
