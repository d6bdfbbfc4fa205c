package http

import (
	"net/http"

	"moneypouch/internal/core"
	"moneypouch/internal/services"
)

// handleBudget serves GET /api/budget (resolve a month's budget) and
// POST /api/budget (set it).
func (s *Server) handleBudget(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.getBudget(w, r)
	case http.MethodPost:
		s.saveBudget(w, r)
	default:
		MethodNotAllowedError("GET, POST").Write(w)
	}
}

func (s *Server) getBudget(w http.ResponseWriter, r *http.Request) {
	month, err := ParseMonthParam(r.URL.Query())
	if err != nil {
		BadRequestError("invalid month parameter, want YYYY-MM").Write(w)
		return
	}
	if month == "" {
		month = core.CurrentYearMonth(s.now())
	}

	budget, err := s.budget.GetBudget(r.Context(), month)
	if err != nil {
		FromError(err).Write(w)
		return
	}

	NewResponse().JSON(map[string]any{
		"month":  month,
		"budget": budget,
	}).Write(w)
}

func (s *Server) saveBudget(w http.ResponseWriter, r *http.Request) {
	parser := NewRequestBodyParser(r)
	if err := parser.Parse(); err != nil {
		BadRequestError("malformed request body").Write(w)
		return
	}

	amount, err := parser.GetAmount("amount")
	if err != nil {
		FromError(err).Write(w)
		return
	}

	budget, err := s.budget.SaveBudget(r.Context(), services.BudgetInput{
		YearMonth:   parser.Get("month"),
		Amount:      amount,
		Calculation: parser.Get("calculation"),
		ApplyRange:  parser.Get("applyRange"),
	})
	if err != nil {
		FromError(err).Write(w)
		return
	}

	NewResponse().Status(http.StatusCreated).JSON(budget).Write(w)
}

// handleBalance serves GET /api/balance: the derived month view with
// display strings alongside the raw amounts.
func (s *Server) handleBalance(w http.ResponseWriter, r *http.Request) {
	if resp := RequireMethod(r, http.MethodGet); resp != nil {
		resp.Write(w)
		return
	}
	month, err := ParseMonthParam(r.URL.Query())
	if err != nil {
		BadRequestError("invalid month parameter, want YYYY-MM").Write(w)
		return
	}

	balance, err := s.budget.CalculateBalance(r.Context(), month)
	if err != nil {
		FromError(err).Write(w)
		return
	}
	if month == "" {
		month = core.CurrentYearMonth(s.now())
	}

	NewResponse().JSON(map[string]any{
		"month":              month,
		"budget":             balance.Budget,
		"spent":              balance.Spent,
		"balance":            balance.Balance,
		"remainingDays":      balance.RemainingDays,
		"startBudget":        balance.StartBudget,
		"dailyBudget":        balance.DailyBudget,
		"balanceDisplay":     s.formatter.Amount(balance.Balance),
		"dailyBudgetDisplay": s.formatter.Amount(balance.DailyBudget),
	}).Write(w)
}
