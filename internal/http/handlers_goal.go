package http

import (
	"net/http"

	"moneypouch/internal/services"
)

// handleGoals serves GET /api/goals (list with aggregates) and
// POST /api/goals (create).
func (s *Server) handleGoals(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.listGoals(w, r)
	case http.MethodPost:
		s.createGoal(w, r)
	default:
		MethodNotAllowedError("GET, POST").Write(w)
	}
}

func (s *Server) listGoals(w http.ResponseWriter, r *http.Request) {
	goals, err := s.goals.List(r.Context())
	if err != nil {
		FromError(err).Write(w)
		return
	}
	total, err := s.goals.TotalSavings(r.Context())
	if err != nil {
		FromError(err).Write(w)
		return
	}
	achieved, err := s.goals.AchievedCount(r.Context())
	if err != nil {
		FromError(err).Write(w)
		return
	}
	monthly, err := s.goals.MonthlyAutoSaveAmount(r.Context())
	if err != nil {
		FromError(err).Write(w)
		return
	}

	NewResponse().JSON(map[string]any{
		"goals":           goals,
		"totalSavings":    total,
		"achievedCount":   achieved,
		"monthlyAutoSave": monthly,
	}).Write(w)
}

func (s *Server) createGoal(w http.ResponseWriter, r *http.Request) {
	parser := NewRequestBodyParser(r)
	if err := parser.Parse(); err != nil {
		BadRequestError("malformed request body").Write(w)
		return
	}

	in := services.GoalInput{
		Name:     parser.Get("name"),
		AutoSave: parser.GetBool("autoSave"),
	}
	amount, err := parser.GetAmount("amount")
	if err != nil {
		FromError(err).Write(w)
		return
	}
	in.Amount = amount
	if parser.Has("currentAmount") {
		if in.CurrentAmount, err = parser.GetAmount("currentAmount"); err != nil {
			FromError(err).Write(w)
			return
		}
	}
	if parser.Has("monthlyAmount") {
		if in.MonthlyAmount, err = parser.GetAmount("monthlyAmount"); err != nil {
			FromError(err).Write(w)
			return
		}
	}

	goal, err := s.goals.AddGoal(r.Context(), in)
	if err != nil {
		FromError(err).Write(w)
		return
	}

	NewResponse().Status(http.StatusCreated).JSON(goal).Write(w)
}

// handleUpdateGoal serves POST /api/goals/update. Only fields present
// in the body change.
func (s *Server) handleUpdateGoal(w http.ResponseWriter, r *http.Request) {
	if resp := RequirePOST(r); resp != nil {
		resp.Write(w)
		return
	}
	parser := NewRequestBodyParser(r)
	if err := parser.Parse(); err != nil {
		BadRequestError("malformed request body").Write(w)
		return
	}
	id := parser.Get("id")
	if id == "" {
		BadRequestError("missing goal id").Write(w)
		return
	}

	var changes services.GoalUpdate
	if parser.Has("name") {
		name := parser.Get("name")
		changes.Name = &name
	}
	if parser.Has("amount") {
		amount, err := parser.GetAmount("amount")
		if err != nil {
			FromError(err).Write(w)
			return
		}
		changes.Amount = &amount
	}
	if parser.Has("currentAmount") {
		currentAmount, err := parser.GetAmount("currentAmount")
		if err != nil {
			FromError(err).Write(w)
			return
		}
		changes.CurrentAmount = &currentAmount
	}
	if parser.Has("autoSave") {
		autoSave := parser.GetBool("autoSave")
		changes.AutoSave = &autoSave
	}
	if parser.Has("monthlyAmount") {
		monthlyAmount, err := parser.GetAmount("monthlyAmount")
		if err != nil {
			FromError(err).Write(w)
			return
		}
		changes.MonthlyAmount = &monthlyAmount
	}

	goal, err := s.goals.UpdateGoal(r.Context(), id, changes)
	if err != nil {
		FromError(err).Write(w)
		return
	}

	NewResponse().JSON(goal).Write(w)
}

// handleDeleteGoal serves POST /api/goals/delete.
func (s *Server) handleDeleteGoal(w http.ResponseWriter, r *http.Request) {
	if resp := RequirePOST(r); resp != nil {
		resp.Write(w)
		return
	}
	parser := NewRequestBodyParser(r)
	if err := parser.Parse(); err != nil {
		BadRequestError("malformed request body").Write(w)
		return
	}
	id := parser.Get("id")
	if id == "" {
		BadRequestError("missing goal id").Write(w)
		return
	}

	if err := s.goals.DeleteGoal(r.Context(), id); err != nil {
		FromError(err).Write(w)
		return
	}

	NewResponse().JSON(map[string]string{"deleted": id}).Write(w)
}

// handleDepositToGoal serves POST /api/goals/deposit: a direct credit
// to a goal, not drawn from the pool.
func (s *Server) handleDepositToGoal(w http.ResponseWriter, r *http.Request) {
	if resp := RequirePOST(r); resp != nil {
		resp.Write(w)
		return
	}
	parser := NewRequestBodyParser(r)
	if err := parser.Parse(); err != nil {
		BadRequestError("malformed request body").Write(w)
		return
	}
	id := parser.Get("id")
	if id == "" {
		BadRequestError("missing goal id").Write(w)
		return
	}
	amount, err := parser.GetAmount("amount")
	if err != nil {
		FromError(err).Write(w)
		return
	}

	goal, err := s.goals.AddToGoal(r.Context(), id, amount)
	if err != nil {
		FromError(err).Write(w)
		return
	}

	NewResponse().JSON(goal).Write(w)
}
