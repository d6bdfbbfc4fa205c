package storage

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"moneypouch/internal/core"
	"moneypouch/internal/log"
)

func testLogger() *log.Logger {
	return log.NewWithHandler(slog.NewTextHandler(io.Discard, nil), "test")
}

// failingKV wraps a KV and fails every Put, simulating quota errors.
type failingKV struct {
	KV
}

var errDiskFull = errors.New("disk full")

func (f *failingKV) Put(context.Context, string, []byte) error {
	return errDiskFull
}

func TestRepository_EmptyDefaults(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(NewMemoryKV(), testLogger())

	expenses, err := repo.LoadExpenses(ctx)
	if err != nil {
		t.Fatalf("LoadExpenses: %v", err)
	}
	if expenses == nil || len(expenses) != 0 {
		t.Errorf("LoadExpenses = %v, want empty slice", expenses)
	}

	budgets, err := repo.LoadBudgets(ctx)
	if err != nil {
		t.Fatalf("LoadBudgets: %v", err)
	}
	if budgets == nil || len(budgets) != 0 {
		t.Errorf("LoadBudgets = %v, want empty map", budgets)
	}

	pool, err := repo.LoadPool(ctx)
	if err != nil {
		t.Fatalf("LoadPool: %v", err)
	}
	if pool.Amount != 0 || len(pool.History) != 0 {
		t.Errorf("LoadPool = %+v, want empty pool", pool)
	}
}

func TestRepository_ReadYourWrites(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()
	repo := NewRepository(kv, testLogger())

	exp := core.Expense{
		ID:        core.NewID("exp"),
		Amount:    1200,
		Category:  core.CategoryFood,
		Date:      "2026-08-22",
		Timestamp: time.Now(),
	}
	if err := repo.SaveExpenses(ctx, []core.Expense{exp}); err != nil {
		t.Fatalf("SaveExpenses: %v", err)
	}

	// Poison the durable copy; a cached read must not see it.
	if err := kv.Put(ctx, CollectionExpenses, []byte(`[{"id":"stale"}]`)); err != nil {
		t.Fatal(err)
	}

	got, err := repo.LoadExpenses(ctx)
	if err != nil {
		t.Fatalf("LoadExpenses: %v", err)
	}
	if len(got) != 1 || got[0].ID != exp.ID {
		t.Errorf("LoadExpenses after save = %+v, want cached %s", got, exp.ID)
	}

	// After clearing the cache the durable copy wins again.
	repo.ClearCache(CollectionExpenses)
	got, err = repo.LoadExpenses(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].ID != "stale" {
		t.Errorf("LoadExpenses after ClearCache = %+v, want durable copy", got)
	}
}

func TestRepository_CorruptDocumentDefaults(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()
	if err := kv.Put(ctx, CollectionGoals, []byte(`{not json`)); err != nil {
		t.Fatal(err)
	}
	repo := NewRepository(kv, testLogger())

	goals, err := repo.LoadGoals(ctx)
	if err != nil {
		t.Fatalf("LoadGoals on corrupt doc: %v, want nil (non-fatal)", err)
	}
	if len(goals) != 0 {
		t.Errorf("LoadGoals = %v, want empty default", goals)
	}

	// Next save heals the collection.
	g := core.Goal{ID: "goal_1", Name: "laptop", Amount: 150000}
	if err := repo.SaveGoals(ctx, []core.Goal{g}); err != nil {
		t.Fatal(err)
	}
	repo.ClearCache()
	goals, err = repo.LoadGoals(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(goals) != 1 || goals[0].ID != "goal_1" {
		t.Errorf("LoadGoals after heal = %+v", goals)
	}
}

func TestRepository_FailedSaveKeepsCache(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()
	repo := NewRepository(kv, testLogger())

	if err := repo.SavePool(ctx, core.PoolState{Amount: 500, History: []core.PoolTransaction{}}); err != nil {
		t.Fatal(err)
	}

	repo.kv = &failingKV{KV: kv}
	err := repo.SavePool(ctx, core.PoolState{Amount: 9999})
	if !errors.Is(err, core.ErrSaveFailed) {
		t.Fatalf("SavePool error = %v, want ErrSaveFailed", err)
	}

	// Cache still holds the last successfully persisted value.
	pool, err := repo.LoadPool(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if pool.Amount != 500 {
		t.Errorf("pool.Amount after failed save = %d, want 500", pool.Amount)
	}

	// And so does the durable store.
	repo.kv = kv
	repo.ClearCache()
	pool, err = repo.LoadPool(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if pool.Amount != 500 {
		t.Errorf("durable pool.Amount after failed save = %d, want 500", pool.Amount)
	}
}

func TestRepository_SavedValueNotAliased(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(NewMemoryKV(), testLogger())

	goals := []core.Goal{{ID: "goal_1", Name: "trip", Amount: 80000}}
	if err := repo.SaveGoals(ctx, goals); err != nil {
		t.Fatal(err)
	}
	goals[0].Name = "mutated"

	got, err := repo.LoadGoals(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if got[0].Name != "trip" {
		t.Errorf("cache aliased caller slice: %q", got[0].Name)
	}
}

func TestRepository_Reset(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()
	repo := NewRepository(kv, testLogger())

	if err := repo.SaveExpenses(ctx, []core.Expense{{ID: "exp_1", Amount: 100, Category: core.CategoryOther, Date: "2026-08-01"}}); err != nil {
		t.Fatal(err)
	}
	if err := repo.SavePool(ctx, core.PoolState{Amount: 300, History: []core.PoolTransaction{}}); err != nil {
		t.Fatal(err)
	}

	if err := repo.Reset(ctx); err != nil {
		t.Fatalf("Reset: %v", err)
	}

	expenses, err := repo.LoadExpenses(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(expenses) != 0 {
		t.Errorf("expenses after reset = %v", expenses)
	}
	pool, err := repo.LoadPool(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if pool.Amount != 0 {
		t.Errorf("pool after reset = %+v", pool)
	}
}
