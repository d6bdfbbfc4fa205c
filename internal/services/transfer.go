package services

import (
	"context"
	"fmt"

	"moneypouch/internal/core"
	"moneypouch/internal/log"
)

// TransferOrchestrator moves money between the savings pool and goals.
// Every precondition is checked before the first mutation, so a failed
// transfer leaves both sides untouched.
type TransferOrchestrator struct {
	goals  *GoalLedger
	pool   *SavingsPool
	logger *log.Logger
}

// TransferResult is the post-transfer state of both sides.
type TransferResult struct {
	Goal core.Goal
	Pool core.PoolState
}

func NewTransferOrchestrator(goals *GoalLedger, pool *SavingsPool, logger *log.Logger) *TransferOrchestrator {
	return &TransferOrchestrator{
		goals:  goals,
		pool:   pool,
		logger: logger.WithComponent(log.ComponentTransfer),
	}
}

// DepositToGoal moves amount from the pool into a goal. The pool is
// debited first; the goal credit follows.
func (t *TransferOrchestrator) DepositToGoal(ctx context.Context, goalID string, amount int64) (TransferResult, error) {
	if err := validatePositiveAmount(amount); err != nil {
		return TransferResult{}, err
	}

	goal, err := t.goals.Get(ctx, goalID)
	if err != nil {
		return TransferResult{}, err
	}
	balance, err := t.pool.Balance(ctx)
	if err != nil {
		return TransferResult{}, err
	}
	if amount > balance {
		return TransferResult{}, fmt.Errorf("deposit %d to goal %s from pool of %d: %w",
			amount, goalID, balance, core.ErrInsufficientPool)
	}

	pool, err := t.pool.Withdraw(ctx, amount, fmt.Sprintf("deposit to goal %q", goal.Name))
	if err != nil {
		return TransferResult{}, err
	}
	goal, err = t.goals.AddToGoal(ctx, goalID, amount)
	if err != nil {
		return TransferResult{}, fmt.Errorf("credit goal %s after pool debit: %w", goalID, err)
	}

	t.logger.InfoContext(ctx, "Transferred pool to goal",
		log.FieldOperation, log.OpDeposit,
		log.FieldGoalID, goalID,
		log.FieldAmount, amount,
		log.FieldPoolBalance, pool.Amount)

	return TransferResult{Goal: goal, Pool: pool}, nil
}

// WithdrawFromGoal moves amount out of a goal back into the pool. The
// goal is debited first; the pool credit follows.
func (t *TransferOrchestrator) WithdrawFromGoal(ctx context.Context, goalID string, amount int64) (TransferResult, error) {
	if err := validatePositiveAmount(amount); err != nil {
		return TransferResult{}, err
	}

	goal, err := t.goals.Get(ctx, goalID)
	if err != nil {
		return TransferResult{}, err
	}
	if amount > goal.CurrentAmount {
		return TransferResult{}, fmt.Errorf("withdraw %d from goal %s holding %d: %w",
			amount, goalID, goal.CurrentAmount, core.ErrInsufficientGoal)
	}

	remaining := goal.CurrentAmount - amount
	goal, err = t.goals.UpdateGoal(ctx, goalID, GoalUpdate{CurrentAmount: &remaining})
	if err != nil {
		return TransferResult{}, err
	}
	pool, err := t.pool.Add(ctx, amount, fmt.Sprintf("refund from goal %q", goal.Name))
	if err != nil {
		return TransferResult{}, fmt.Errorf("credit pool after goal debit: %w", err)
	}

	t.logger.InfoContext(ctx, "Transferred goal to pool",
		log.FieldOperation, log.OpWithdraw,
		log.FieldGoalID, goalID,
		log.FieldAmount, amount,
		log.FieldPoolBalance, pool.Amount)

	return TransferResult{Goal: goal, Pool: pool}, nil
}
