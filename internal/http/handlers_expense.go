package http

import (
	"net/http"

	"moneypouch/internal/core"
	"moneypouch/internal/services"
)

// summaryView is the cached shape of a month's summary response.
type summaryView struct {
	Month        string                  `json:"month"`
	Total        int64                   `json:"total"`
	TotalDisplay string                  `json:"totalDisplay"`
	ByCategory   map[core.Category]int64 `json:"byCategory"`
}

// handleExpenses serves GET /api/expenses (list, optionally filtered by
// ?month=YYYY-MM) and POST /api/expenses (create).
func (s *Server) handleExpenses(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.listExpenses(w, r)
	case http.MethodPost:
		s.createExpense(w, r)
	default:
		MethodNotAllowedError("GET, POST").Write(w)
	}
}

func (s *Server) listExpenses(w http.ResponseWriter, r *http.Request) {
	month, err := ParseMonthParam(r.URL.Query())
	if err != nil {
		BadRequestError("invalid month parameter, want YYYY-MM").Write(w)
		return
	}

	var expenses []core.Expense
	if month == "" {
		expenses, err = s.expenses.List(r.Context())
	} else {
		expenses, err = s.expenses.ByMonth(r.Context(), month)
	}
	if err != nil {
		FromError(err).Write(w)
		return
	}

	NewResponse().JSON(map[string]any{"expenses": expenses}).Write(w)
}

func (s *Server) createExpense(w http.ResponseWriter, r *http.Request) {
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

	expense, err := s.expenses.Add(r.Context(), services.ExpenseInput{
		Amount:   amount,
		Category: parser.Get("category"),
		Date:     parser.Get("date"),
	})
	if err != nil {
		FromError(err).Write(w)
		return
	}
	s.summaryCache.Delete(core.YearMonthOf(expense.Date))

	NewResponse().Status(http.StatusCreated).JSON(expense).Write(w)
}

// handleUpdateExpense serves POST /api/expenses/update. Only fields
// present in the body change.
func (s *Server) handleUpdateExpense(w http.ResponseWriter, r *http.Request) {
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
		BadRequestError("missing expense id").Write(w)
		return
	}

	var changes services.ExpenseUpdate
	if parser.Has("amount") {
		amount, err := parser.GetAmount("amount")
		if err != nil {
			FromError(err).Write(w)
			return
		}
		changes.Amount = &amount
	}
	if parser.Has("category") {
		category := parser.Get("category")
		changes.Category = &category
	}
	if parser.Has("date") {
		date := parser.Get("date")
		changes.Date = &date
	}

	expense, err := s.expenses.Update(r.Context(), id, changes)
	if err != nil {
		FromError(err).Write(w)
		return
	}
	// The date may have moved between months, so drop everything.
	s.summaryCache.Purge()

	NewResponse().JSON(expense).Write(w)
}

// handleDeleteExpense serves POST /api/expenses/delete.
func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
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
		BadRequestError("missing expense id").Write(w)
		return
	}

	if err := s.expenses.Delete(r.Context(), id); err != nil {
		FromError(err).Write(w)
		return
	}
	s.summaryCache.Purge()

	NewResponse().JSON(map[string]string{"deleted": id}).Write(w)
}

// handleSummary serves GET /api/summary: per-category totals for one
// month, every category present.
func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	if resp := RequireMethod(r, http.MethodGet); resp != nil {
		resp.Write(w)
		return
	}
	month, err := ParseMonthParam(r.URL.Query())
	if err != nil {
		BadRequestError("invalid month parameter, want YYYY-MM").Write(w)
		return
	}
	if month == "" {
		month = core.CurrentYearMonth(s.now())
	}

	if view, found := s.summaryCache.Get(month); found {
		NewResponse().JSON(view).Write(w)
		return
	}

	summary, err := s.expenses.SummaryByCategory(r.Context(), month)
	if err != nil {
		FromError(err).Write(w)
		return
	}
	total, err := s.expenses.TotalByMonth(r.Context(), month)
	if err != nil {
		FromError(err).Write(w)
		return
	}

	view := summaryView{
		Month:        month,
		Total:        total,
		TotalDisplay: s.formatter.Amount(total),
		ByCategory:   summary,
	}
	s.summaryCache.Set(month, view)
	NewResponse().JSON(view).Write(w)
}
