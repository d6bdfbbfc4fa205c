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

// ExpenseBook is the CRUD and aggregation surface over expense records.
type ExpenseBook struct {
	repo   *storage.Repository
	logger *log.Logger
	now    func() time.Time
}

// ExpenseInput carries the user-editable fields of an expense.
type ExpenseInput struct {
	Amount   int64
	Category string
	Date     string
}

// ExpenseUpdate carries optional field changes for an existing expense.
// Only amount, category and date may change after creation.
type ExpenseUpdate struct {
	Amount   *int64
	Category *string
	Date     *string
}

func NewExpenseBook(repo *storage.Repository, logger *log.Logger) *ExpenseBook {
	return &ExpenseBook{
		repo:   repo,
		logger: logger.WithComponent(log.ComponentExpense),
		now:    time.Now,
	}
}

// Add validates and records a new expense.
func (b *ExpenseBook) Add(ctx context.Context, in ExpenseInput) (core.Expense, error) {
	amount, err := core.ValidateAmount(in.Amount)
	if err != nil {
		return core.Expense{}, err
	}
	category, err := core.ValidateCategory(in.Category)
	if err != nil {
		return core.Expense{}, err
	}
	date, err := core.ValidateDate(in.Date)
	if err != nil {
		return core.Expense{}, err
	}

	expenses, err := b.repo.LoadExpenses(ctx)
	if err != nil {
		return core.Expense{}, err
	}

	expense := core.Expense{
		ID:        core.NewID("exp"),
		Amount:    amount,
		Category:  category,
		Date:      date,
		Timestamp: b.now(),
	}
	expenses = append(expenses, expense)

	if err := b.repo.SaveExpenses(ctx, expenses); err != nil {
		return core.Expense{}, fmt.Errorf("add expense: %w", err)
	}

	b.logger.InfoContext(ctx, "Expense recorded",
		log.FieldOperation, log.OpCreate,
		log.FieldExpenseID, expense.ID,
		log.FieldAmount, expense.Amount,
		log.FieldCategory, expense.Category,
		log.FieldDate, expense.Date)

	return expense, nil
}

// Update rewrites the changeable fields of an expense.
func (b *ExpenseBook) Update(ctx context.Context, id string, changes ExpenseUpdate) (core.Expense, error) {
	expenses, err := b.repo.LoadExpenses(ctx)
	if err != nil {
		return core.Expense{}, err
	}

	idx := -1
	for i := range expenses {
		if expenses[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return core.Expense{}, fmt.Errorf("update expense %s: %w", id, core.ErrExpenseNotFound)
	}

	updated := expenses[idx]
	if changes.Amount != nil {
		amount, err := core.ValidateAmount(*changes.Amount)
		if err != nil {
			return core.Expense{}, err
		}
		updated.Amount = amount
	}
	if changes.Category != nil {
		category, err := core.ValidateCategory(*changes.Category)
		if err != nil {
			return core.Expense{}, err
		}
		updated.Category = category
	}
	if changes.Date != nil {
		date, err := core.ValidateDate(*changes.Date)
		if err != nil {
			return core.Expense{}, err
		}
		updated.Date = date
	}
	now := b.now()
	updated.UpdatedAt = &now
	expenses[idx] = updated

	if err := b.repo.SaveExpenses(ctx, expenses); err != nil {
		return core.Expense{}, fmt.Errorf("update expense %s: %w", id, err)
	}

	b.logger.InfoContext(ctx, "Expense updated",
		log.FieldOperation, log.OpUpdate,
		log.FieldExpenseID, id)

	return updated, nil
}

// Delete removes an expense permanently.
func (b *ExpenseBook) Delete(ctx context.Context, id string) error {
	expenses, err := b.repo.LoadExpenses(ctx)
	if err != nil {
		return err
	}

	kept := expenses[:0:0]
	found := false
	for _, e := range expenses {
		if e.ID == id {
			found = true
			continue
		}
		kept = append(kept, e)
	}
	if !found {
		return fmt.Errorf("delete expense %s: %w", id, core.ErrExpenseNotFound)
	}

	if err := b.repo.SaveExpenses(ctx, kept); err != nil {
		return fmt.Errorf("delete expense %s: %w", id, err)
	}

	b.logger.InfoContext(ctx, "Expense deleted",
		log.FieldOperation, log.OpDelete,
		log.FieldExpenseID, id)

	return nil
}

// List returns all expenses in insertion order.
func (b *ExpenseBook) List(ctx context.Context) ([]core.Expense, error) {
	return b.repo.LoadExpenses(ctx)
}

// ByMonth returns the expenses whose date falls in yearMonth (YYYY-MM).
func (b *ExpenseBook) ByMonth(ctx context.Context, yearMonth string) ([]core.Expense, error) {
	expenses, err := b.repo.LoadExpenses(ctx)
	if err != nil {
		return nil, err
	}

	out := []core.Expense{}
	for _, e := range expenses {
		if strings.HasPrefix(e.Date, yearMonth) {
			out = append(out, e)
		}
	}
	return out, nil
}

// TotalByMonth sums expense amounts for one month.
func (b *ExpenseBook) TotalByMonth(ctx context.Context, yearMonth string) (int64, error) {
	expenses, err := b.ByMonth(ctx, yearMonth)
	if err != nil {
		return 0, err
	}

	var total int64
	for _, e := range expenses {
		total += e.Amount
	}
	return total, nil
}

// SummaryByCategory sums one month's expenses per category. Every
// category is present in the result, zero-filled when unused.
func (b *ExpenseBook) SummaryByCategory(ctx context.Context, yearMonth string) (map[core.Category]int64, error) {
	expenses, err := b.ByMonth(ctx, yearMonth)
	if err != nil {
		return nil, err
	}

	summary := make(map[core.Category]int64, len(core.Categories()))
	for _, c := range core.Categories() {
		summary[c] = 0
	}
	for _, e := range expenses {
		if _, ok := summary[e.Category]; ok {
			summary[e.Category] += e.Amount
		}
	}
	return summary, nil
}
