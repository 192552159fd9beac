package table

import (
	"encoding/json"
	"fmt"
)

// Snapshot serializes the complete table state for replication. The host is
// the single writer; clients treat every snapshot as a full replacement and
// re-derive all computed queries (current actor, dealer, legal actions)
// locally instead of trusting pushed derived values.
func (t *Table) Snapshot() ([]byte, error) {
	data, err := json.Marshal(t)
	if err != nil {
		return nil, fmt.Errorf("table: marshal snapshot: %w", err)
	}
	return data, nil
}

// Restore builds a fresh table from a snapshot. Applying a snapshot taken
// from another table reproduces its seats, pots, and turn pointers exactly.
func Restore(data []byte) (*Table, error) {
	var t Table
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("table: restore snapshot: %w", err)
	}
	if t.Pots == nil {
		t.Pots = []*Pot{{}}
	}
	return &t, nil
}
