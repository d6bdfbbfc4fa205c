package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"sync"

	"moneypouch/internal/core"
	"moneypouch/internal/log"
)

// Repository owns the five persisted collections and one cache slot per
// collection. Loads are read-through; saves are write-through: the slot
// is replaced with exactly the value just persisted, and only after the
// persist succeeded, so cache and durable store never diverge on a
// failed write. Absent or corrupt documents decode to the documented
// empty default instead of failing.
type Repository struct {
	kv     KV
	logger *log.Logger

	mu        sync.Mutex
	expenses  slot[[]core.Expense]
	budgets   slot[map[string]core.BudgetConfig]
	snapshots slot[map[string]core.DailyBudgetSnapshot]
	goals     slot[[]core.Goal]
	pool      slot[core.PoolState]
}

type slot[T any] struct {
	value T
	ok    bool
}

func (s *slot[T]) set(v T) {
	s.value = v
	s.ok = true
}

func (s *slot[T]) clear() {
	var zero T
	s.value = zero
	s.ok = false
}

func NewRepository(kv KV, logger *log.Logger) *Repository {
	return &Repository{
		kv:     kv,
		logger: logger.WithComponent(log.ComponentStorage),
	}
}

func (r *Repository) LoadExpenses(ctx context.Context) ([]core.Expense, error) {
	v, err := load(ctx, r, CollectionExpenses, &r.expenses, emptyExpenses)
	return slices.Clone(v), err
}

func (r *Repository) SaveExpenses(ctx context.Context, expenses []core.Expense) error {
	return save(ctx, r, CollectionExpenses, &r.expenses, slices.Clone(expenses))
}

func (r *Repository) LoadBudgets(ctx context.Context) (map[string]core.BudgetConfig, error) {
	v, err := load(ctx, r, CollectionBudgets, &r.budgets, emptyBudgets)
	return maps.Clone(v), err
}

func (r *Repository) SaveBudgets(ctx context.Context, budgets map[string]core.BudgetConfig) error {
	return save(ctx, r, CollectionBudgets, &r.budgets, maps.Clone(budgets))
}

func (r *Repository) LoadSnapshots(ctx context.Context) (map[string]core.DailyBudgetSnapshot, error) {
	v, err := load(ctx, r, CollectionSnapshots, &r.snapshots, emptySnapshots)
	return maps.Clone(v), err
}

func (r *Repository) SaveSnapshots(ctx context.Context, snapshots map[string]core.DailyBudgetSnapshot) error {
	return save(ctx, r, CollectionSnapshots, &r.snapshots, maps.Clone(snapshots))
}

func (r *Repository) LoadGoals(ctx context.Context) ([]core.Goal, error) {
	v, err := load(ctx, r, CollectionGoals, &r.goals, emptyGoals)
	return slices.Clone(v), err
}

func (r *Repository) SaveGoals(ctx context.Context, goals []core.Goal) error {
	return save(ctx, r, CollectionGoals, &r.goals, slices.Clone(goals))
}

func (r *Repository) LoadPool(ctx context.Context) (core.PoolState, error) {
	v, err := load(ctx, r, CollectionPool, &r.pool, core.EmptyPool)
	v.History = slices.Clone(v.History)
	return v, err
}

func (r *Repository) SavePool(ctx context.Context, pool core.PoolState) error {
	pool.History = slices.Clone(pool.History)
	return save(ctx, r, CollectionPool, &r.pool, pool)
}

// ClearCache resets the given cache slots, or all of them when called
// with no arguments. Used only by destructive full-reset operations.
func (r *Repository) ClearCache(collections ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(collections) == 0 {
		collections = Collections()
	}
	for _, c := range collections {
		switch c {
		case CollectionExpenses:
			r.expenses.clear()
		case CollectionBudgets:
			r.budgets.clear()
		case CollectionSnapshots:
			r.snapshots.clear()
		case CollectionGoals:
			r.goals.clear()
		case CollectionPool:
			r.pool.clear()
		}
	}
}

// Reset deletes every persisted collection and clears all cache slots.
func (r *Repository) Reset(ctx context.Context) error {
	for _, c := range Collections() {
		if err := r.kv.Delete(ctx, c); err != nil {
			return fmt.Errorf("reset %s: %w", c, err)
		}
	}
	r.ClearCache()
	r.logger.InfoContext(ctx, "All collections reset", log.FieldOperation, log.OpReset)
	return nil
}

func (r *Repository) Close() error {
	return r.kv.Close()
}

// load returns the cached value when present, otherwise reads and
// decodes the persisted document, filling the cache. Absent and corrupt
// documents both yield the empty default; corruption is logged and
// self-heals on the next successful save.
func load[T any](ctx context.Context, r *Repository, key string, s *slot[T], empty func() T) (T, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s.ok {
		return s.value, nil
	}

	raw, found, err := r.kv.Get(ctx, key)
	if err != nil {
		// Unreadable is handled like corrupt: non-fatal, defaulted.
		r.logger.WarnContext(ctx, "Collection unreadable, using empty default",
			log.FieldCollection, key,
			log.FieldError, fmt.Sprintf("%v: %v", core.ErrLoadCorrupted, err))
		v := empty()
		s.set(v)
		return v, nil
	}
	if !found {
		v := empty()
		s.set(v)
		return v, nil
	}

	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		r.logger.WarnContext(ctx, "Collection corrupted, using empty default",
			log.FieldCollection, key,
			log.FieldError, fmt.Sprintf("%v: %v", core.ErrLoadCorrupted, err))
		v = empty()
	}
	s.set(v)
	return v, nil
}

// save persists first and only then replaces the cache slot. A failed
// put leaves the slot exactly as it was.
func save[T any](ctx context.Context, r *Repository, key string, s *slot[T], v T) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("%w: encode %s: %v", core.ErrSaveFailed, key, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.kv.Put(ctx, key, raw); err != nil {
		return fmt.Errorf("%w: persist %s: %v", core.ErrSaveFailed, key, err)
	}
	s.set(v)
	return nil
}

func emptyExpenses() []core.Expense {
	return []core.Expense{}
}

func emptyGoals() []core.Goal {
	return []core.Goal{}
}

func emptyBudgets() map[string]core.BudgetConfig {
	return map[string]core.BudgetConfig{}
}

func emptySnapshots() map[string]core.DailyBudgetSnapshot {
	return map[string]core.DailyBudgetSnapshot{}
}
