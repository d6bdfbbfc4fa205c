package http

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/http"
	"sync"
	"time"

	"moneypouch/internal/cache"
	"moneypouch/internal/format"
	"moneypouch/internal/log"
	"moneypouch/internal/services"
	"moneypouch/internal/storage"
)

// Server wires the API routes to the services layer.
type Server struct {
	http.Server

	expenses  *services.ExpenseBook
	budget    *services.BudgetCalculator
	goals     *services.GoalLedger
	pool      *services.SavingsPool
	transfers *services.TransferOrchestrator
	repo      *storage.Repository
	formatter *format.Formatter
	logger    *log.Logger

	rateLimiter  *rateLimiter
	summaryCache *cache.LRUCache[summaryView]
	now          func() time.Time
	shutdownOnce sync.Once
}

// Services bundles the dependencies the server routes to.
type Services struct {
	Expenses  *services.ExpenseBook
	Budget    *services.BudgetCalculator
	Goals     *services.GoalLedger
	Pool      *services.SavingsPool
	Transfers *services.TransferOrchestrator
	Repo      *storage.Repository
	Formatter *format.Formatter
}

// NewServer configures routes, returning a ready-to-run http.Server.
func NewServer(addr string, deps Services, logger *log.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       10 * time.Second,
			WriteTimeout:      15 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
		expenses:     deps.Expenses,
		budget:       deps.Budget,
		goals:        deps.Goals,
		pool:         deps.Pool,
		transfers:    deps.Transfers,
		repo:         deps.Repo,
		formatter:    deps.Formatter,
		logger:       logger.WithComponent(log.ComponentHTTP),
		rateLimiter:  newRateLimiter(),
		summaryCache: cache.NewLRUCache[summaryView](100, 5*time.Minute),
		now:          time.Now,
	}

	mux.HandleFunc("/healthz", handleHealth)

	mux.HandleFunc("/api/expenses", s.withMiddleware(s.handleExpenses))
	mux.HandleFunc("/api/expenses/update", s.withMiddleware(s.handleUpdateExpense))
	mux.HandleFunc("/api/expenses/delete", s.withMiddleware(s.handleDeleteExpense))
	mux.HandleFunc("/api/summary", s.withMiddleware(s.handleSummary))

	mux.HandleFunc("/api/budget", s.withMiddleware(s.handleBudget))
	mux.HandleFunc("/api/balance", s.withMiddleware(s.handleBalance))

	mux.HandleFunc("/api/goals", s.withMiddleware(s.handleGoals))
	mux.HandleFunc("/api/goals/update", s.withMiddleware(s.handleUpdateGoal))
	mux.HandleFunc("/api/goals/delete", s.withMiddleware(s.handleDeleteGoal))
	mux.HandleFunc("/api/goals/deposit", s.withMiddleware(s.handleDepositToGoal))

	mux.HandleFunc("/api/pool", s.withMiddleware(s.handlePool))
	mux.HandleFunc("/api/pool/add", s.withMiddleware(s.handlePoolAdd))
	mux.HandleFunc("/api/pool/withdraw", s.withMiddleware(s.handlePoolWithdraw))

	mux.HandleFunc("/api/transfers/deposit", s.withMiddleware(s.handleTransferDeposit))
	mux.HandleFunc("/api/transfers/withdraw", s.withMiddleware(s.handleTransferWithdraw))

	mux.HandleFunc("/api/reset", s.withMiddleware(s.handleReset))

	return s
}

// Shutdown gracefully shuts down the server and cleanup routines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		if s.rateLimiter != nil {
			s.rateLimiter.stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})

	return shutdownErr
}

// withMiddleware adds security headers, rate limiting, and request
// logging to responses.
func (s *Server) withMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Extract client IP (considering proxies)
		clientIP := r.Header.Get("X-Forwarded-For")
		if clientIP == "" {
			clientIP = r.Header.Get("X-Real-IP")
		}
		if clientIP == "" {
			clientIP = r.RemoteAddr
		}

		requestID := generateRequestID()
		ctx := context.WithValue(r.Context(), requestIDKey{}, requestID)
		r = r.WithContext(ctx)

		s.logger.InfoContext(ctx, "Request started",
			log.FieldRequestID, requestID,
			log.FieldMethod, r.Method,
			log.FieldPath, r.URL.Path,
			log.FieldClientIP, clientIP)

		// Rate limit mutations only
		if r.Method == http.MethodPost && !s.rateLimiter.allow(clientIP) {
			s.logger.WarnContext(ctx, "Rate limit exceeded",
				log.FieldRequestID, requestID,
				log.FieldClientIP, clientIP,
				log.FieldPath, r.URL.Path)
			w.Header().Set("Retry-After", "60")
			ErrorResponse(http.StatusTooManyRequests, "rate limit exceeded, try again later").Write(w)
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		duration := time.Since(start)
		s.logger.InfoContext(ctx, "Request completed",
			log.FieldRequestID, requestID,
			log.FieldMethod, r.Method,
			log.FieldPath, r.URL.Path,
			log.FieldStatusCode, rw.statusCode,
			log.FieldDuration, duration.Milliseconds(),
			log.FieldClientIP, clientIP)
	}
}

type requestIDKey struct{}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// generateRequestID creates a unique request ID for tracing
func generateRequestID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		// Fallback to timestamp if random fails
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return "req_" + hex.EncodeToString(bytes)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
