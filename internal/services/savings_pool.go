package services

import (
	"context"
	"fmt"
	"time"

	"moneypouch/internal/core"
	"moneypouch/internal/log"
	"moneypouch/internal/storage"
)

// SavingsPool manages the shared savings balance. Every balance change
// appends exactly one transaction to the append-only history, and the
// balance never goes negative.
type SavingsPool struct {
	repo   *storage.Repository
	logger *log.Logger
	now    func() time.Time
}

func NewSavingsPool(repo *storage.Repository, logger *log.Logger) *SavingsPool {
	return &SavingsPool{
		repo:   repo,
		logger: logger.WithComponent(log.ComponentPool),
		now:    time.Now,
	}
}

// State returns the pool balance and its history.
func (p *SavingsPool) State(ctx context.Context) (core.PoolState, error) {
	return p.repo.LoadPool(ctx)
}

// Balance returns just the pool balance.
func (p *SavingsPool) Balance(ctx context.Context) (int64, error) {
	pool, err := p.repo.LoadPool(ctx)
	if err != nil {
		return 0, err
	}
	return pool.Amount, nil
}

// Add credits amount to the pool. Balance and the appended transaction
// are persisted in a single save.
func (p *SavingsPool) Add(ctx context.Context, amount int64, note string) (core.PoolState, error) {
	if err := validatePositiveAmount(amount); err != nil {
		return core.PoolState{}, err
	}

	pool, err := p.repo.LoadPool(ctx)
	if err != nil {
		return core.PoolState{}, err
	}

	pool.Amount += amount
	pool.History = append(pool.History, core.PoolTransaction{
		ID:        core.NewID("pool"),
		Amount:    amount,
		Type:      core.TransactionAdd,
		Note:      note,
		Timestamp: p.now(),
	})

	if err := p.repo.SavePool(ctx, pool); err != nil {
		return core.PoolState{}, fmt.Errorf("add to pool: %w", err)
	}

	p.logger.InfoContext(ctx, "Pool credited",
		log.FieldOperation, log.OpDeposit,
		log.FieldAmount, amount,
		log.FieldPoolBalance, pool.Amount)

	return pool, nil
}

// Withdraw debits amount from the pool, failing when the balance is
// insufficient.
func (p *SavingsPool) Withdraw(ctx context.Context, amount int64, note string) (core.PoolState, error) {
	if err := validatePositiveAmount(amount); err != nil {
		return core.PoolState{}, err
	}

	pool, err := p.repo.LoadPool(ctx)
	if err != nil {
		return core.PoolState{}, err
	}

	if amount > pool.Amount {
		return core.PoolState{}, fmt.Errorf("withdraw %d from pool of %d: %w",
			amount, pool.Amount, core.ErrInsufficientPool)
	}

	pool.Amount -= amount
	pool.History = append(pool.History, core.PoolTransaction{
		ID:        core.NewID("pool"),
		Amount:    amount,
		Type:      core.TransactionWithdraw,
		Note:      note,
		Timestamp: p.now(),
	})

	if err := p.repo.SavePool(ctx, pool); err != nil {
		return core.PoolState{}, fmt.Errorf("withdraw from pool: %w", err)
	}

	p.logger.InfoContext(ctx, "Pool debited",
		log.FieldOperation, log.OpWithdraw,
		log.FieldAmount, amount,
		log.FieldPoolBalance, pool.Amount)

	return pool, nil
}

// validatePositiveAmount enforces the transaction amount rule: within
// the validator bounds and strictly positive.
func validatePositiveAmount(amount int64) error {
	if _, err := core.ValidateAmount(amount); err != nil {
		return err
	}
	if amount == 0 {
		return core.ErrInvalidAmount
	}
	return nil
}
