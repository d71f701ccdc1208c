// Package memstore keeps the ledger in process memory. It backs tests and
// the DATA_BACKEND=memory mode, and satisfies the same repository surface
// as the sqlite store.
package memstore

import (
	"context"
	"sync"

	"grana/internal/core"
	"grana/internal/planner"
)

type Store struct {
	mu   sync.Mutex
	snap core.Snapshot
	goal *planner.Goal
}

func New() *Store {
	return &Store{}
}

// Seed replaces the current state wholesale. Intended for test setup.
func Seed(snap core.Snapshot) *Store {
	return &Store{snap: snap.Clone()}
}

func (s *Store) LoadSnapshot(_ context.Context) (core.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap.Clone(), nil
}

func (s *Store) InsertEntry(_ context.Context, entry core.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap.Entries = append(s.snap.Entries, entry)
	return nil
}

func (s *Store) InsertCard(_ context.Context, card core.Card) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap.Cards = append(s.snap.Cards, card)
	return nil
}

func (s *Store) InsertDebt(_ context.Context, debt core.Debt) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap.Debts = append(s.snap.Debts, debt)
	return nil
}

func (s *Store) ReplaceSnapshot(_ context.Context, snap core.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap = snap.Clone()
	return nil
}

func (s *Store) SetGoal(_ context.Context, goal planner.Goal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	g := goal
	s.goal = &g
	return nil
}

func (s *Store) GetGoal(_ context.Context) (*planner.Goal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.goal == nil {
		return nil, nil
	}
	g := *s.goal
	return &g, nil
}

func (s *Store) Close() error { return nil }
