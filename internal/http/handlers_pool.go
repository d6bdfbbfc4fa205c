package http

import (
	"context"
	"net/http"

	"moneypouch/internal/core"
	"moneypouch/internal/log"
	"moneypouch/internal/services"
)

// handlePool serves GET /api/pool: balance plus full transaction history.
func (s *Server) handlePool(w http.ResponseWriter, r *http.Request) {
	if resp := RequireMethod(r, http.MethodGet); resp != nil {
		resp.Write(w)
		return
	}

	state, err := s.pool.State(r.Context())
	if err != nil {
		FromError(err).Write(w)
		return
	}

	NewResponse().JSON(map[string]any{
		"amount":        state.Amount,
		"amountDisplay": s.formatter.Amount(state.Amount),
		"history":       state.History,
	}).Write(w)
}

// handlePoolAdd serves POST /api/pool/add.
func (s *Server) handlePoolAdd(w http.ResponseWriter, r *http.Request) {
	s.poolMutation(w, r, s.pool.Add)
}

// handlePoolWithdraw serves POST /api/pool/withdraw.
func (s *Server) handlePoolWithdraw(w http.ResponseWriter, r *http.Request) {
	s.poolMutation(w, r, s.pool.Withdraw)
}

func (s *Server) poolMutation(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, amount int64, note string) (core.PoolState, error)) {
	if resp := RequirePOST(r); resp != nil {
		resp.Write(w)
		return
	}
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

	state, err := op(r.Context(), amount, parser.Get("note"))
	if err != nil {
		FromError(err).Write(w)
		return
	}

	NewResponse().JSON(state).Write(w)
}

// handleTransferDeposit serves POST /api/transfers/deposit: pool to goal.
func (s *Server) handleTransferDeposit(w http.ResponseWriter, r *http.Request) {
	s.transferMutation(w, r, s.transfers.DepositToGoal)
}

// handleTransferWithdraw serves POST /api/transfers/withdraw: goal to pool.
func (s *Server) handleTransferWithdraw(w http.ResponseWriter, r *http.Request) {
	s.transferMutation(w, r, s.transfers.WithdrawFromGoal)
}

func (s *Server) transferMutation(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, goalID string, amount int64) (services.TransferResult, error)) {
	if resp := RequirePOST(r); resp != nil {
		resp.Write(w)
		return
	}
	parser := NewRequestBodyParser(r)
	if err := parser.Parse(); err != nil {
		BadRequestError("malformed request body").Write(w)
		return
	}
	goalID := parser.Get("goalId")
	if goalID == "" {
		BadRequestError("missing goal id").Write(w)
		return
	}
	amount, err := parser.GetAmount("amount")
	if err != nil {
		FromError(err).Write(w)
		return
	}

	result, err := op(r.Context(), goalID, amount)
	if err != nil {
		FromError(err).Write(w)
		return
	}

	NewResponse().JSON(map[string]any{
		"goal": result.Goal,
		"pool": result.Pool,
	}).Write(w)
}

// handleReset serves POST /api/reset: wipes every collection.
func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	if resp := RequirePOST(r); resp != nil {
		resp.Write(w)
		return
	}

	if err := s.repo.Reset(r.Context()); err != nil {
		FromError(err).Write(w)
		return
	}
	s.summaryCache.Purge()

	s.logger.InfoContext(r.Context(), "All data reset", log.FieldOperation, log.OpReset)
	NewResponse().JSON(map[string]string{"status": "reset"}).Write(w)
}
