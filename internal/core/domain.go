package core

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

const (
	CalculationDynamic CalculationMode = "dynamic"
	CalculationFixed   CalculationMode = "fixed"

	ApplyCurrent ApplyRange = "current"
	ApplyFuture  ApplyRange = "future"

	TransactionAdd      TransactionType = "add"
	TransactionWithdraw TransactionType = "withdraw"

	// DefaultBudgetKey is the fallback entry consulted for months
	// without an explicit budget of their own.
	DefaultBudgetKey = "default"
)

type (
	CalculationMode string
	ApplyRange      string
	TransactionType string

	// Expense is a single spending record. ID is immutable; only
	// Amount, Category and Date may change after creation.
	Expense struct {
		ID        string     `json:"id"`
		Amount    int64      `json:"amount"`
		Category  Category   `json:"category"`
		Date      string     `json:"date"` // YYYY-MM-DD
		Timestamp time.Time  `json:"timestamp"`
		UpdatedAt *time.Time `json:"updatedAt,omitempty"`
	}

	// BudgetConfig is the budget for one month, keyed externally by
	// YYYY-MM or by DefaultBudgetKey.
	BudgetConfig struct {
		Amount      int64           `json:"amount"`
		Calculation CalculationMode `json:"calculation"`
		ApplyRange  ApplyRange      `json:"applyRange"`
		CreatedAt   time.Time       `json:"createdAt"`
	}

	// DailyBudgetSnapshot freezes the start-of-day allowance for one
	// calendar date. Once written it is never recomputed for that date.
	DailyBudgetSnapshot struct {
		Date         string    `json:"date"` // YYYY-MM-DD
		StartBudget  int64     `json:"startBudget"`
		CalculatedAt time.Time `json:"calculatedAt"`
	}

	// Goal is a savings goal. Achieved is derived: it must equal
	// CurrentAmount >= Amount after every mutation.
	Goal struct {
		ID            string     `json:"id"`
		Name          string     `json:"name"`
		Amount        int64      `json:"amount"`
		CurrentAmount int64      `json:"currentAmount"`
		AutoSave      bool       `json:"autoSave"`
		MonthlyAmount int64      `json:"monthlyAmount"`
		Achieved      bool       `json:"achieved"`
		AchievedAt    *time.Time `json:"achievedAt"`
		CreatedAt     time.Time  `json:"createdAt"`
		UpdatedAt     *time.Time `json:"updatedAt,omitempty"`
	}

	// PoolState is the shared savings pool: one balance plus an
	// append-only transaction history.
	PoolState struct {
		Amount  int64             `json:"amount"`
		History []PoolTransaction `json:"history"`
	}

	PoolTransaction struct {
		ID        string          `json:"id"`
		Amount    int64           `json:"amount"`
		Type      TransactionType `json:"type"`
		Note      string          `json:"note"`
		Timestamp time.Time       `json:"timestamp"`
	}

	// MonthBalance is the derived budget view for one month.
	MonthBalance struct {
		Budget        int64 `json:"budget"`
		Spent         int64 `json:"spent"`
		Balance       int64 `json:"balance"`
		RemainingDays int   `json:"remainingDays"`
		StartBudget   int64 `json:"startBudget"`
		DailyBudget   int64 `json:"dailyBudget"`
	}
)

var (
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrAmountTooLarge   = errors.New("amount too large")
	ErrInvalidCategory  = errors.New("invalid category")
	ErrInvalidDate      = errors.New("invalid date")
	ErrExpenseNotFound  = errors.New("expense not found")
	ErrGoalNotFound     = errors.New("goal not found")
	ErrInsufficientPool = errors.New("insufficient pool balance")
	ErrInsufficientGoal = errors.New("insufficient goal balance")
	ErrSaveFailed       = errors.New("save failed")
	ErrLoadCorrupted    = errors.New("load corrupted")
)

// NewID returns a prefixed unique identifier, e.g. "exp_<uuid>".
func NewID(prefix string) string {
	return prefix + "_" + uuid.NewString()
}

func (m CalculationMode) IsValid() bool {
	return m == CalculationDynamic || m == CalculationFixed
}

func (r ApplyRange) IsValid() bool {
	return r == ApplyCurrent || r == ApplyFuture
}

// EmptyPool returns the documented empty default for the savings pool.
func EmptyPool() PoolState {
	return PoolState{Amount: 0, History: []PoolTransaction{}}
}
