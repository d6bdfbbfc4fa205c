// Package storage owns the persisted collections and their in-memory
// read-through caches. The Repository is the single source of truth for
// load/save; everything above it works on values it hands out.
package storage

import "context"

// Collection keys in the underlying keyed store.
const (
	CollectionExpenses  = "expenses"
	CollectionBudgets   = "budgets"
	CollectionSnapshots = "daily_snapshots"
	CollectionGoals     = "goals"
	CollectionPool      = "savings_pool"
)

// Collections lists every persisted collection key.
func Collections() []string {
	return []string{
		CollectionExpenses,
		CollectionBudgets,
		CollectionSnapshots,
		CollectionGoals,
		CollectionPool,
	}
}

// KV is the minimal keyed-document store the Repository persists to.
// Implementations: sqlite (durable) and memory (tests, throwaway runs).
type KV interface {
	// Get returns the stored document and whether the key exists.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Put stores the document under key, replacing any previous value.
	Put(ctx context.Context, key string, doc []byte) error

	// Delete removes the key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	Close() error
}
