package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"moneypouch/internal/core"
	"moneypouch/internal/log"
	"moneypouch/internal/storage"
)

// GoalLedger is the CRUD surface over savings goals. Achievement is a
// derived state: every mutation re-evaluates it from the amounts.
type GoalLedger struct {
	repo   *storage.Repository
	logger *log.Logger
	now    func() time.Time
}

// GoalInput carries the fields for creating a goal.
type GoalInput struct {
	Name          string
	Amount        int64
	CurrentAmount int64
	AutoSave      bool
	MonthlyAmount int64
}

// GoalUpdate carries optional field changes for an existing goal.
type GoalUpdate struct {
	Name          *string
	Amount        *int64
	CurrentAmount *int64
	AutoSave      *bool
	MonthlyAmount *int64
}

func NewGoalLedger(repo *storage.Repository, logger *log.Logger) *GoalLedger {
	return &GoalLedger{
		repo:   repo,
		logger: logger.WithComponent(log.ComponentGoal),
		now:    time.Now,
	}
}

// AddGoal validates and creates a savings goal.
func (l *GoalLedger) AddGoal(ctx context.Context, in GoalInput) (core.Goal, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return core.Goal{}, errors.New("empty goal name")
	}
	amount, err := core.ValidateAmount(in.Amount)
	if err != nil {
		return core.Goal{}, err
	}
	if amount == 0 {
		return core.Goal{}, core.ErrInvalidAmount
	}
	currentAmount, err := core.ValidateAmount(in.CurrentAmount)
	if err != nil {
		return core.Goal{}, err
	}
	monthlyAmount := int64(0)
	if in.AutoSave {
		if monthlyAmount, err = core.ValidateAmount(in.MonthlyAmount); err != nil {
			return core.Goal{}, err
		}
	}

	goals, err := l.repo.LoadGoals(ctx)
	if err != nil {
		return core.Goal{}, err
	}

	goal := core.Goal{
		ID:            core.NewID("goal"),
		Name:          name,
		Amount:        amount,
		CurrentAmount: currentAmount,
		AutoSave:      in.AutoSave,
		MonthlyAmount: monthlyAmount,
		CreatedAt:     l.now(),
	}
	l.applyAchievement(&goal)
	goals = append(goals, goal)

	if err := l.repo.SaveGoals(ctx, goals); err != nil {
		return core.Goal{}, fmt.Errorf("add goal: %w", err)
	}

	l.logger.InfoContext(ctx, "Goal created",
		log.FieldOperation, log.OpCreate,
		log.FieldGoalID, goal.ID,
		log.FieldGoalName, goal.Name,
		log.FieldAmount, goal.Amount)

	return goal, nil
}

// Get returns a goal by id.
func (l *GoalLedger) Get(ctx context.Context, id string) (core.Goal, error) {
	goals, err := l.repo.LoadGoals(ctx)
	if err != nil {
		return core.Goal{}, err
	}
	for _, g := range goals {
		if g.ID == id {
			return g, nil
		}
	}
	return core.Goal{}, fmt.Errorf("goal %s: %w", id, core.ErrGoalNotFound)
}

// List returns all goals in insertion order.
func (l *GoalLedger) List(ctx context.Context) ([]core.Goal, error) {
	return l.repo.LoadGoals(ctx)
}

// UpdateGoal applies field changes and re-evaluates the achievement
// invariant: achieved must equal currentAmount >= amount afterwards,
// with achievedAt stamped only on the false-to-true transition and
// cleared on the reverse.
func (l *GoalLedger) UpdateGoal(ctx context.Context, id string, changes GoalUpdate) (core.Goal, error) {
	goals, err := l.repo.LoadGoals(ctx)
	if err != nil {
		return core.Goal{}, err
	}

	idx := -1
	for i := range goals {
		if goals[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return core.Goal{}, fmt.Errorf("update goal %s: %w", id, core.ErrGoalNotFound)
	}

	updated := goals[idx]
	if changes.Name != nil {
		name := strings.TrimSpace(*changes.Name)
		if name == "" {
			return core.Goal{}, errors.New("empty goal name")
		}
		updated.Name = name
	}
	if changes.Amount != nil {
		amount, err := core.ValidateAmount(*changes.Amount)
		if err != nil {
			return core.Goal{}, err
		}
		if amount == 0 {
			return core.Goal{}, core.ErrInvalidAmount
		}
		updated.Amount = amount
	}
	if changes.CurrentAmount != nil {
		currentAmount, err := core.ValidateAmount(*changes.CurrentAmount)
		if err != nil {
			return core.Goal{}, err
		}
		updated.CurrentAmount = currentAmount
	}
	if changes.AutoSave != nil {
		updated.AutoSave = *changes.AutoSave
	}
	if changes.MonthlyAmount != nil {
		monthlyAmount, err := core.ValidateAmount(*changes.MonthlyAmount)
		if err != nil {
			return core.Goal{}, err
		}
		updated.MonthlyAmount = monthlyAmount
	}
	now := l.now()
	updated.UpdatedAt = &now
	l.applyAchievement(&updated)
	goals[idx] = updated

	if err := l.repo.SaveGoals(ctx, goals); err != nil {
		return core.Goal{}, fmt.Errorf("update goal %s: %w", id, err)
	}

	l.logger.InfoContext(ctx, "Goal updated",
		log.FieldOperation, log.OpUpdate,
		log.FieldGoalID, id,
		"achieved", updated.Achieved)

	return updated, nil
}

// DeleteGoal removes a goal permanently.
func (l *GoalLedger) DeleteGoal(ctx context.Context, id string) error {
	goals, err := l.repo.LoadGoals(ctx)
	if err != nil {
		return err
	}

	kept := goals[:0:0]
	found := false
	for _, g := range goals {
		if g.ID == id {
			found = true
			continue
		}
		kept = append(kept, g)
	}
	if !found {
		return fmt.Errorf("delete goal %s: %w", id, core.ErrGoalNotFound)
	}

	if err := l.repo.SaveGoals(ctx, kept); err != nil {
		return fmt.Errorf("delete goal %s: %w", id, err)
	}

	l.logger.InfoContext(ctx, "Goal deleted",
		log.FieldOperation, log.OpDelete,
		log.FieldGoalID, id)

	return nil
}

// AddToGoal credits amount to a goal's current balance.
func (l *GoalLedger) AddToGoal(ctx context.Context, id string, amount int64) (core.Goal, error) {
	if _, err := core.ValidateAmount(amount); err != nil {
		return core.Goal{}, err
	}

	goal, err := l.Get(ctx, id)
	if err != nil {
		return core.Goal{}, err
	}

	newAmount := goal.CurrentAmount + amount
	return l.UpdateGoal(ctx, id, GoalUpdate{CurrentAmount: &newAmount})
}

// TotalSavings sums the current amounts of all goals.
func (l *GoalLedger) TotalSavings(ctx context.Context) (int64, error) {
	goals, err := l.repo.LoadGoals(ctx)
	if err != nil {
		return 0, err
	}
	var total int64
	for _, g := range goals {
		total += g.CurrentAmount
	}
	return total, nil
}

// AchievedCount returns how many goals are achieved.
func (l *GoalLedger) AchievedCount(ctx context.Context) (int, error) {
	goals, err := l.repo.LoadGoals(ctx)
	if err != nil {
		return 0, err
	}
	count := 0
	for _, g := range goals {
		if g.Achieved {
			count++
		}
	}
	return count, nil
}

// MonthlyAutoSaveAmount sums the monthly contribution of auto-save
// goals that are not yet achieved.
func (l *GoalLedger) MonthlyAutoSaveAmount(ctx context.Context) (int64, error) {
	goals, err := l.repo.LoadGoals(ctx)
	if err != nil {
		return 0, err
	}
	var total int64
	for _, g := range goals {
		if g.AutoSave && !g.Achieved {
			total += g.MonthlyAmount
		}
	}
	return total, nil
}

// applyAchievement re-derives the achieved flag, stamping or clearing
// achievedAt only on an actual transition.
func (l *GoalLedger) applyAchievement(goal *core.Goal) {
	reached := goal.CurrentAmount >= goal.Amount
	switch {
	case reached && !goal.Achieved:
		goal.Achieved = true
		at := l.now()
		goal.AchievedAt = &at
	case !reached && goal.Achieved:
		goal.Achieved = false
		goal.AchievedAt = nil
	}
}
