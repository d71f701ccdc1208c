package core

// Snapshot is the full ledger state the engines compute over. Operations
// with write semantics return a new Snapshot; they never mutate the one
// they were given. The caller persists a returned snapshot as one unit.
type Snapshot struct {
	Entries []Entry `json:"entries"`
	Cards   []Card  `json:"cards"`
	Debts   []Debt  `json:"debts"`
}

// Clone returns a snapshot with freshly allocated slices so the copy can be
// modified without the original observing it. Element values are immutable,
// a shallow element copy is enough. Nil slices stay nil, so a clone
// round-trips bit-for-bit against its source.
func (s Snapshot) Clone() Snapshot {
	var out Snapshot
	if s.Entries != nil {
		out.Entries = make([]Entry, len(s.Entries))
		copy(out.Entries, s.Entries)
	}
	if s.Cards != nil {
		out.Cards = make([]Card, len(s.Cards))
		copy(out.Cards, s.Cards)
	}
	if s.Debts != nil {
		out.Debts = make([]Debt, len(s.Debts))
		copy(out.Debts, s.Debts)
	}
	return out
}

// CardByID looks a card up by its identifier, returning nil when absent.
// Entries hold weak references: an entry pointing at a missing card is a
// caller concern, so absence is reported, not treated as corruption.
func (s Snapshot) CardByID(id string) *Card {
	for i := range s.Cards {
		if s.Cards[i].ID == id {
			return &s.Cards[i]
		}
	}
	return nil
}

// DebtByID looks a structured debt up by its identifier, returning nil
// when absent.
func (s Snapshot) DebtByID(id string) *Debt {
	for i := range s.Debts {
		if s.Debts[i].ID == id {
			return &s.Debts[i]
		}
	}
	return nil
}
