// Package memory is an in-process StatementWriter for tests and runs
// without Google credentials.
package memory

import (
	"context"
	"fmt"
	"sync"

	ports "grana/internal/sheets"
)

type Store struct {
	mu   sync.Mutex
	rows []ports.SettlementRecord
}

var _ ports.StatementWriter = (*Store)(nil)

func New() *Store {
	return &Store{}
}

// AppendSettlement stores the record and returns a synthetic row reference.
func (s *Store) AppendSettlement(_ context.Context, rec ports.SettlementRecord) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows = append(s.rows, rec)
	return fmt.Sprintf("mem:%d", len(s.rows)), nil
}

// Rows returns a copy of everything appended so far.
func (s *Store) Rows() []ports.SettlementRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]ports.SettlementRecord(nil), s.rows...)
}
