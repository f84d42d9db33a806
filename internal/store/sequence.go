package store

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
)

// Sequence names.
const seqLLMEvents = "llm_events"

// sequences hands out per-name monotonic numbers backed by the
// sequences table. SQLite may reuse rowids after a delete, so listings
// order by these numbers instead.
type sequences struct {
	mu sync.Mutex
	db *sql.DB
}

// Next returns the next number for name, starting at 1.
func (s *sequences) Next(ctx context.Context, name string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int64
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO sequences (name, last) VALUES (?, 1)
		ON CONFLICT(name) DO UPDATE SET last = last + 1
		RETURNING last`, name).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("store: next %s sequence: %w", name, err)
	}
	return n, nil
}
