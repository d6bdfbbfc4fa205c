package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"moneypouch/internal/core"
)

func newSavingsPool() *SavingsPool {
	pool := NewSavingsPool(newRepo(), testLogger())
	pool.now = fixedClock(testClock)
	return pool
}

func TestSavingsPool_AddAndWithdraw(t *testing.T) {
	ctx := context.Background()
	pool := newSavingsPool()

	state, err := pool.Add(ctx, 5000, "monthly leftovers")
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if state.Amount != 5000 {
		t.Errorf("Amount = %d, want 5000", state.Amount)
	}
	if len(state.History) != 1 {
		t.Fatalf("History = %d entries, want 1", len(state.History))
	}
	tx := state.History[0]
	if tx.Type != core.TransactionAdd || tx.Amount != 5000 || tx.Note != "monthly leftovers" {
		t.Errorf("transaction = %+v", tx)
	}
	if !strings.HasPrefix(tx.ID, "pool_") {
		t.Errorf("transaction ID = %q", tx.ID)
	}
	if !tx.Timestamp.Equal(testClock) {
		t.Errorf("Timestamp = %v", tx.Timestamp)
	}

	state, err = pool.Withdraw(ctx, 1500, "")
	if err != nil {
		t.Fatalf("Withdraw: %v", err)
	}
	if state.Amount != 3500 {
		t.Errorf("Amount = %d, want 3500", state.Amount)
	}
	if len(state.History) != 2 || state.History[1].Type != core.TransactionWithdraw {
		t.Errorf("History = %+v", state.History)
	}

	balance, err := pool.Balance(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if balance != 3500 {
		t.Errorf("Balance = %d, want 3500", balance)
	}
}

func TestSavingsPool_NeverNegative(t *testing.T) {
	ctx := context.Background()
	pool := newSavingsPool()

	if _, err := pool.Add(ctx, 1000, ""); err != nil {
		t.Fatal(err)
	}

	_, err := pool.Withdraw(ctx, 1001, "")
	if !errors.Is(err, core.ErrInsufficientPool) {
		t.Fatalf("Withdraw over balance = %v, want ErrInsufficientPool", err)
	}

	// The failed withdraw left no trace.
	state, err := pool.State(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if state.Amount != 1000 {
		t.Errorf("Amount = %d, want 1000", state.Amount)
	}
	if len(state.History) != 1 {
		t.Errorf("History = %d entries, want 1", len(state.History))
	}

	// Withdrawing down to exactly zero is fine.
	state, err = pool.Withdraw(ctx, 1000, "")
	if err != nil {
		t.Fatalf("Withdraw to zero: %v", err)
	}
	if state.Amount != 0 {
		t.Errorf("Amount = %d, want 0", state.Amount)
	}
}

func TestSavingsPool_RejectsNonPositiveAmounts(t *testing.T) {
	ctx := context.Background()
	pool := newSavingsPool()

	for _, amount := range []int64{0, -1} {
		if _, err := pool.Add(ctx, amount, ""); !errors.Is(err, core.ErrInvalidAmount) {
			t.Errorf("Add(%d) = %v, want ErrInvalidAmount", amount, err)
		}
		if _, err := pool.Withdraw(ctx, amount, ""); !errors.Is(err, core.ErrInvalidAmount) {
			t.Errorf("Withdraw(%d) = %v, want ErrInvalidAmount", amount, err)
		}
	}
	if _, err := pool.Add(ctx, 10_000_001, ""); !errors.Is(err, core.ErrAmountTooLarge) {
		t.Errorf("Add over cap = %v, want ErrAmountTooLarge", err)
	}
}

func TestSavingsPool_HistoryIsAppendOnly(t *testing.T) {
	ctx := context.Background()
	pool := newSavingsPool()

	amounts := []int64{100, 200, 300}
	for _, a := range amounts {
		if _, err := pool.Add(ctx, a, ""); err != nil {
			t.Fatal(err)
		}
	}

	state, err := pool.State(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(state.History) != 3 {
		t.Fatalf("History = %d entries, want 3", len(state.History))
	}
	for i, a := range amounts {
		if state.History[i].Amount != a {
			t.Errorf("History[%d].Amount = %d, want %d", i, state.History[i].Amount, a)
		}
	}
}
