package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"moneypouch/internal/core"
)

func newGoalLedger() *GoalLedger {
	ledger := NewGoalLedger(newRepo(), testLogger())
	ledger.now = fixedClock(testClock)
	return ledger
}

func TestGoalLedger_AddGoal(t *testing.T) {
	ctx := context.Background()
	ledger := newGoalLedger()

	goal, err := ledger.AddGoal(ctx, GoalInput{Name: "  new laptop ", Amount: 150000, CurrentAmount: 20000})
	if err != nil {
		t.Fatalf("AddGoal: %v", err)
	}
	if !strings.HasPrefix(goal.ID, "goal_") {
		t.Errorf("ID = %q", goal.ID)
	}
	if goal.Name != "new laptop" {
		t.Errorf("Name = %q, want trimmed", goal.Name)
	}
	if goal.Achieved || goal.AchievedAt != nil {
		t.Errorf("fresh goal marked achieved: %+v", goal)
	}

	// Created at or past the target is achieved immediately.
	done, err := ledger.AddGoal(ctx, GoalInput{Name: "emergency fund", Amount: 1000, CurrentAmount: 1000})
	if err != nil {
		t.Fatal(err)
	}
	if !done.Achieved || done.AchievedAt == nil {
		t.Errorf("goal at target not achieved: %+v", done)
	}
}

func TestGoalLedger_AddGoalRejectsInvalid(t *testing.T) {
	ctx := context.Background()
	ledger := newGoalLedger()

	tests := []struct {
		name string
		in   GoalInput
	}{
		{"empty name", GoalInput{Name: "   ", Amount: 100}},
		{"zero target", GoalInput{Name: "x", Amount: 0}},
		{"negative target", GoalInput{Name: "x", Amount: -1}},
		{"negative current", GoalInput{Name: "x", Amount: 100, CurrentAmount: -1}},
		{"negative monthly", GoalInput{Name: "x", Amount: 100, AutoSave: true, MonthlyAmount: -5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ledger.AddGoal(ctx, tt.in); err == nil {
				t.Error("AddGoal accepted invalid input")
			}
		})
	}
}

func TestGoalLedger_AchievementTransitions(t *testing.T) {
	ctx := context.Background()
	ledger := newGoalLedger()

	goal, err := ledger.AddGoal(ctx, GoalInput{Name: "trip", Amount: 1000, CurrentAmount: 900})
	if err != nil {
		t.Fatal(err)
	}

	// Crossing the target stamps achievedAt.
	goal, err = ledger.AddToGoal(ctx, goal.ID, 100)
	if err != nil {
		t.Fatal(err)
	}
	if !goal.Achieved || goal.AchievedAt == nil {
		t.Fatalf("goal at target = %+v, want achieved", goal)
	}
	achievedAt := *goal.AchievedAt

	// Staying above the target keeps the original stamp.
	goal, err = ledger.AddToGoal(ctx, goal.ID, 50)
	if err != nil {
		t.Fatal(err)
	}
	if goal.AchievedAt == nil || !goal.AchievedAt.Equal(achievedAt) {
		t.Errorf("AchievedAt restamped: %v", goal.AchievedAt)
	}

	// Raising the target above the balance reverses achievement.
	target := int64(5000)
	goal, err = ledger.UpdateGoal(ctx, goal.ID, GoalUpdate{Amount: &target})
	if err != nil {
		t.Fatal(err)
	}
	if goal.Achieved || goal.AchievedAt != nil {
		t.Errorf("goal below raised target = %+v, want not achieved", goal)
	}
}

func TestGoalLedger_UpdateGoal(t *testing.T) {
	ctx := context.Background()
	ledger := newGoalLedger()

	goal, err := ledger.AddGoal(ctx, GoalInput{Name: "bike", Amount: 30000})
	if err != nil {
		t.Fatal(err)
	}

	name := "road bike"
	autoSave := true
	monthly := int64(2000)
	got, err := ledger.UpdateGoal(ctx, goal.ID, GoalUpdate{Name: &name, AutoSave: &autoSave, MonthlyAmount: &monthly})
	if err != nil {
		t.Fatalf("UpdateGoal: %v", err)
	}
	if got.Name != "road bike" || !got.AutoSave || got.MonthlyAmount != 2000 {
		t.Errorf("UpdateGoal = %+v", got)
	}
	if got.UpdatedAt == nil {
		t.Error("UpdatedAt not stamped")
	}

	empty := "  "
	if _, err := ledger.UpdateGoal(ctx, goal.ID, GoalUpdate{Name: &empty}); err == nil {
		t.Error("UpdateGoal accepted blank name")
	}
	if _, err := ledger.UpdateGoal(ctx, "goal_missing", GoalUpdate{Name: &name}); !errors.Is(err, core.ErrGoalNotFound) {
		t.Errorf("UpdateGoal missing = %v", err)
	}
}

func TestGoalLedger_DeleteGoal(t *testing.T) {
	ctx := context.Background()
	ledger := newGoalLedger()

	a, _ := ledger.AddGoal(ctx, GoalInput{Name: "a", Amount: 100})
	b, _ := ledger.AddGoal(ctx, GoalInput{Name: "b", Amount: 200})

	if err := ledger.DeleteGoal(ctx, a.ID); err != nil {
		t.Fatalf("DeleteGoal: %v", err)
	}
	goals, err := ledger.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(goals) != 1 || goals[0].ID != b.ID {
		t.Errorf("List after delete = %+v", goals)
	}
	if err := ledger.DeleteGoal(ctx, a.ID); !errors.Is(err, core.ErrGoalNotFound) {
		t.Errorf("second delete = %v", err)
	}
}

func TestGoalLedger_Aggregates(t *testing.T) {
	ctx := context.Background()
	ledger := newGoalLedger()

	if _, err := ledger.AddGoal(ctx, GoalInput{Name: "done", Amount: 100, CurrentAmount: 100, AutoSave: true, MonthlyAmount: 500}); err != nil {
		t.Fatal(err)
	}
	if _, err := ledger.AddGoal(ctx, GoalInput{Name: "active", Amount: 10000, CurrentAmount: 2500, AutoSave: true, MonthlyAmount: 1000}); err != nil {
		t.Fatal(err)
	}
	if _, err := ledger.AddGoal(ctx, GoalInput{Name: "manual", Amount: 5000, CurrentAmount: 400}); err != nil {
		t.Fatal(err)
	}

	total, err := ledger.TotalSavings(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if total != 3000 {
		t.Errorf("TotalSavings = %d, want 3000", total)
	}

	achieved, err := ledger.AchievedCount(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if achieved != 1 {
		t.Errorf("AchievedCount = %d, want 1", achieved)
	}

	// Achieved goals stop contributing to the monthly auto-save total.
	monthly, err := ledger.MonthlyAutoSaveAmount(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if monthly != 1000 {
		t.Errorf("MonthlyAutoSaveAmount = %d, want 1000", monthly)
	}
}
