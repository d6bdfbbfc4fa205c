package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"moneypouch/internal/core"
	"moneypouch/internal/log"
	"moneypouch/internal/storage"
)

// snapshotRetentionDays bounds how long frozen start-of-day snapshots
// are kept; older entries are pruned lazily when a new one is written.
const snapshotRetentionDays = 30

// BudgetCalculator derives monthly balance and the per-day spending
// allowance from budget configuration, expense totals and the frozen
// start-of-day snapshot.
type BudgetCalculator struct {
	repo   *storage.Repository
	logger *log.Logger
	now    func() time.Time
}

// BudgetInput carries the user-supplied budget settings for one month.
type BudgetInput struct {
	YearMonth   string // empty means the current month
	Amount      int64
	Calculation string // "dynamic" (default) or "fixed"
	ApplyRange  string // "current" (default) or "future"
}

func NewBudgetCalculator(repo *storage.Repository, logger *log.Logger) *BudgetCalculator {
	return &BudgetCalculator{
		repo:   repo,
		logger: logger.WithComponent(log.ComponentBudget),
		now:    time.Now,
	}
}

// GetBudget resolves the budget for a month: the exact key first, then
// the "default" fallback, then nil.
func (c *BudgetCalculator) GetBudget(ctx context.Context, yearMonth string) (*core.BudgetConfig, error) {
	budgets, err := c.repo.LoadBudgets(ctx)
	if err != nil {
		return nil, err
	}
	if b, ok := budgets[yearMonth]; ok {
		return &b, nil
	}
	if b, ok := budgets[core.DefaultBudgetKey]; ok {
		return &b, nil
	}
	return nil, nil
}

// SaveBudget validates and stores a month's budget. With
// applyRange="future" the month key and the "default" key are written
// in the same save, so the two cannot diverge at the moment of the
// write.
func (c *BudgetCalculator) SaveBudget(ctx context.Context, in BudgetInput) (core.BudgetConfig, error) {
	amount, err := core.ValidateAmount(in.Amount)
	if err != nil {
		return core.BudgetConfig{}, err
	}
	if amount == 0 {
		return core.BudgetConfig{}, core.ErrInvalidAmount
	}

	calculation := core.CalculationMode(strings.TrimSpace(in.Calculation))
	if calculation == "" {
		calculation = core.CalculationDynamic
	}
	if !calculation.IsValid() {
		return core.BudgetConfig{}, fmt.Errorf("invalid calculation mode %q", in.Calculation)
	}

	applyRange := core.ApplyRange(strings.TrimSpace(in.ApplyRange))
	if applyRange == "" {
		applyRange = core.ApplyCurrent
	}
	if !applyRange.IsValid() {
		return core.BudgetConfig{}, fmt.Errorf("invalid apply range %q", in.ApplyRange)
	}

	yearMonth := in.YearMonth
	if yearMonth == "" {
		yearMonth = core.CurrentYearMonth(c.now())
	} else if _, err := core.ParseYearMonth(yearMonth); err != nil {
		return core.BudgetConfig{}, err
	}

	budgets, err := c.repo.LoadBudgets(ctx)
	if err != nil {
		return core.BudgetConfig{}, err
	}

	budget := core.BudgetConfig{
		Amount:      amount,
		Calculation: calculation,
		ApplyRange:  applyRange,
		CreatedAt:   c.now(),
	}
	budgets[yearMonth] = budget
	if applyRange == core.ApplyFuture {
		budgets[core.DefaultBudgetKey] = budget
	}

	if err := c.repo.SaveBudgets(ctx, budgets); err != nil {
		return core.BudgetConfig{}, fmt.Errorf("save budget %s: %w", yearMonth, err)
	}

	c.logger.InfoContext(ctx, "Budget saved",
		log.FieldOperation, log.OpUpdate,
		log.FieldYearMonth, yearMonth,
		log.FieldAmount, budget.Amount,
		"calculation", budget.Calculation,
		"apply_range", budget.ApplyRange)

	return budget, nil
}

// CalculateBalance derives the month's budget view. The start-of-day
// allowance is frozen per calendar date: the first calculation of a day
// stores it, and later calculations reuse the stored value no matter
// how the underlying inputs changed since.
func (c *BudgetCalculator) CalculateBalance(ctx context.Context, yearMonth string) (core.MonthBalance, error) {
	now := c.now()
	if yearMonth == "" {
		yearMonth = core.CurrentYearMonth(now)
	}

	budget, err := c.GetBudget(ctx, yearMonth)
	if err != nil {
		return core.MonthBalance{}, err
	}
	if budget == nil {
		return core.MonthBalance{}, nil
	}

	expenses, err := c.repo.LoadExpenses(ctx)
	if err != nil {
		return core.MonthBalance{}, err
	}

	today := core.FormatDate(now)
	var spent, spentToday int64
	for _, e := range expenses {
		if !strings.HasPrefix(e.Date, yearMonth) {
			continue
		}
		spent += e.Amount
		if e.Date == today {
			spentToday += e.Amount
		}
	}
	balance := budget.Amount - spent

	remainingDays, err := core.RemainingDays(yearMonth, now)
	if err != nil {
		return core.MonthBalance{}, err
	}
	daysInMonth, err := core.DaysInMonth(yearMonth)
	if err != nil {
		return core.MonthBalance{}, err
	}

	startBudget := startBudgetFor(budget.Calculation, balance, remainingDays, daysInMonth)
	if yearMonth == core.CurrentYearMonth(now) {
		startBudget = c.frozenStartBudget(ctx, today, startBudget)
	}

	dailyBudget := startBudget - spentToday
	if dailyBudget < 0 {
		dailyBudget = 0
	}

	return core.MonthBalance{
		Budget:        budget.Amount,
		Spent:         spent,
		Balance:       balance,
		RemainingDays: remainingDays,
		StartBudget:   startBudget,
		DailyBudget:   dailyBudget,
	}, nil
}

// frozenStartBudget returns the stored snapshot for date when one
// exists, otherwise freezes the computed value. Snapshot persistence is
// best effort: a failed save is logged and the computed value used,
// never surfaced to the caller of a read operation.
func (c *BudgetCalculator) frozenStartBudget(ctx context.Context, date string, computed int64) int64 {
	snapshots, err := c.repo.LoadSnapshots(ctx)
	if err != nil {
		c.logger.WarnContext(ctx, "Snapshot load failed, using computed start budget",
			log.FieldOperation, log.OpSnapshot,
			log.FieldDate, date,
			log.FieldError, err)
		return computed
	}

	if snap, ok := snapshots[date]; ok {
		return snap.StartBudget
	}

	c.pruneSnapshots(snapshots, date)
	snapshots[date] = core.DailyBudgetSnapshot{
		Date:         date,
		StartBudget:  computed,
		CalculatedAt: c.now(),
	}
	if err := c.repo.SaveSnapshots(ctx, snapshots); err != nil {
		c.logger.WarnContext(ctx, "Snapshot save failed",
			log.FieldOperation, log.OpSnapshot,
			log.FieldDate, date,
			log.FieldError, err)
	} else {
		c.logger.InfoContext(ctx, "Start-of-day budget frozen",
			log.FieldOperation, log.OpSnapshot,
			log.FieldDate, date,
			log.FieldStartBudget, computed)
	}
	return computed
}

// pruneSnapshots drops entries older than the retention window.
// YYYY-MM-DD strings order lexicographically, so a string compare
// against the cutoff date suffices.
func (c *BudgetCalculator) pruneSnapshots(snapshots map[string]core.DailyBudgetSnapshot, today string) {
	t, err := time.Parse(core.DateLayout, today)
	if err != nil {
		return
	}
	cutoff := core.FormatDate(t.AddDate(0, 0, -snapshotRetentionDays))
	for date := range snapshots {
		if date < cutoff {
			delete(snapshots, date)
		}
	}
}

// startBudgetFor computes the unfrozen start-of-day allowance.
// Dynamic mode spreads the remaining balance over the remaining days;
// fixed mode spreads it over the whole month. Division floors, also
// for negative balances.
func startBudgetFor(mode core.CalculationMode, balance int64, remainingDays, daysInMonth int) int64 {
	if mode == core.CalculationFixed {
		return floorDiv(balance, int64(daysInMonth))
	}
	if remainingDays <= 0 {
		return 0
	}
	return floorDiv(balance, int64(remainingDays))
}

func floorDiv(a, b int64) int64 {
	if b == 0 {
		return 0
	}
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}
