package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	ports "grana/internal/sheets"
)

func TestAppendSettlement(t *testing.T) {
	s := New()

	rec := ports.SettlementRecord{
		CardID:     "c1",
		CardName:   "Main card",
		Month:      3,
		Year:       2025,
		TotalCents: 40000,
		PaymentID:  "p1",
		SettledAt:  time.Date(2025, 4, 5, 10, 0, 0, 0, time.UTC),
	}

	ref, err := s.AppendSettlement(context.Background(), rec)
	if err != nil {
		t.Fatalf("AppendSettlement: %v", err)
	}
	if ref != "mem:1" {
		t.Errorf("ref = %q, want mem:1", ref)
	}

	rows := s.Rows()
	if len(rows) != 1 {
		t.Fatalf("rows = %d, want 1", len(rows))
	}
	if rows[0] != rec {
		t.Errorf("stored row = %+v, want %+v", rows[0], rec)
	}
}

func TestRowsReturnsCopy(t *testing.T) {
	s := New()
	_, _ = s.AppendSettlement(context.Background(), ports.SettlementRecord{CardID: "c1"})

	rows := s.Rows()
	rows[0].CardID = "mutated"

	if s.Rows()[0].CardID != "c1" {
		t.Error("mutating the returned slice must not change the store")
	}
}

func TestConcurrentAppends(t *testing.T) {
	s := New()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_, _ = s.AppendSettlement(context.Background(), ports.SettlementRecord{
				CardID: fmt.Sprintf("c%d", n),
			})
		}(i)
	}
	wg.Wait()

	if got := len(s.Rows()); got != 20 {
		t.Errorf("rows = %d, want 20", got)
	}
}
