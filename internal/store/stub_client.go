package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// StubClient is an in-memory Client for tests. Rows are held as decoded
// JSON objects; unique constraints can be registered per collection to
// exercise duplicate-key handling.
type StubClient struct {
	mu          sync.Mutex
	collections map[string][]map[string]any
	unique      map[string][][]string

	// FailWrites and FailReads make the corresponding operations return
	// ErrUnavailable, simulating an unreachable remote store.
	FailWrites bool
	FailReads  bool
}

func NewStubClient() *StubClient {
	return &StubClient{
		collections: map[string][]map[string]any{},
		unique:      map[string][][]string{},
	}
}

// Unique registers a unique constraint over the given columns.
func (s *StubClient) Unique(collection string, columns ...string) {
	s.unique[collection] = append(s.unique[collection], columns)
}

func (s *StubClient) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.collections = map[string][]map[string]any{}
}

func (s *StubClient) Create(ctx context.Context, collection string, payload any, out any) error {
	if s.FailWrites {
		return ErrUnavailable
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	row, err := toRow(payload)
	if err != nil {
		return err
	}
	if _, ok := row["id"]; !ok {
		row["id"] = uuid.NewString()
	}
	for _, columns := range s.unique[collection] {
		for _, existing := range s.collections[collection] {
			if matchesColumns(existing, row, columns) {
				return ErrDuplicateKey
			}
		}
	}
	s.collections[collection] = append(s.collections[collection], row)
	return writeOut(row, out)
}

func (s *StubClient) ReadOne(ctx context.Context, collection string, filter Filter, out any) error {
	if s.FailReads {
		return ErrUnavailable
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, row := range s.collections[collection] {
		if matchesFilter(row, filter) {
			return writeOut(row, out)
		}
	}
	return ErrNotFound
}

func (s *StubClient) ReadAll(ctx context.Context, collection string, filter Filter, out any) error {
	if s.FailReads {
		return ErrUnavailable
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	rows := make([]map[string]any, 0)
	for _, row := range s.collections[collection] {
		if matchesFilter(row, filter) {
			rows = append(rows, row)
		}
	}
	return writeOut(rows, out)
}

func (s *StubClient) Update(ctx context.Context, collection string, filter Filter, payload any, out any) error {
	if s.FailWrites {
		return ErrUnavailable
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	changes, err := toRow(payload)
	if err != nil {
		return err
	}
	var updated map[string]any
	for _, row := range s.collections[collection] {
		if matchesFilter(row, filter) {
			for column, value := range changes {
				row[column] = value
			}
			if updated == nil {
				updated = row
			}
		}
	}
	if updated == nil {
		return ErrNotFound
	}
	return writeOut(updated, out)
}

func (s *StubClient) Delete(ctx context.Context, collection string, filter Filter) error {
	if s.FailWrites {
		return ErrUnavailable
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	remaining := make([]map[string]any, 0, len(s.collections[collection]))
	removed := false
	for _, row := range s.collections[collection] {
		if matchesFilter(row, filter) {
			removed = true
			continue
		}
		remaining = append(remaining, row)
	}
	if !removed {
		return ErrNotFound
	}
	s.collections[collection] = remaining
	return nil
}

func toRow(payload any) (map[string]any, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	var row map[string]any
	if err := json.Unmarshal(data, &row); err != nil {
		return nil, err
	}
	return row, nil
}

func writeOut(value any, out any) error {
	if out == nil {
		return nil
	}
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}

func matchesFilter(row map[string]any, filter Filter) bool {
	for column, value := range filter {
		if fmt.Sprint(row[column]) != value {
			return false
		}
	}
	return true
}

func matchesColumns(a, b map[string]any, columns []string) bool {
	for _, column := range columns {
		if fmt.Sprint(a[column]) != fmt.Sprint(b[column]) {
			return false
		}
	}
	return true
}
