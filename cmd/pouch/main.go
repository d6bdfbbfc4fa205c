package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"moneypouch/internal/backend"
	"moneypouch/internal/cli"
	"moneypouch/internal/format"
	apphttp "moneypouch/internal/http"
	"moneypouch/internal/log"
	"moneypouch/internal/services"
)

func main() {
	cli.LoadEnvFile()
	cfg := cli.LoadAndValidateConfig()
	logger := cli.SetupLogger(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	factory := backend.NewFactory(logger)
	result, err := factory.CreateBackend(ctx, backend.Config{
		Type:         backend.BackendType(cfg.DataBackend),
		SQLiteDBPath: cfg.SQLiteDBPath,
	})
	if err != nil {
		logger.Error("Failed to initialize backend",
			log.FieldOperation, log.OpStartup,
			log.FieldError, err)
		os.Exit(1)
	}
	if result.Cleanup != nil {
		defer func() {
			if err := result.Cleanup(); err != nil {
				logger.Error("Backend cleanup failed",
					log.FieldOperation, log.OpShutdown,
					log.FieldError, err)
			}
		}()
	}

	repo := result.Repo
	goals := services.NewGoalLedger(repo, logger)
	pool := services.NewSavingsPool(repo, logger)
	srv := apphttp.NewServer(":"+cfg.Port, apphttp.Services{
		Expenses:  services.NewExpenseBook(repo, logger),
		Budget:    services.NewBudgetCalculator(repo, logger),
		Goals:     goals,
		Pool:      pool,
		Transfers: services.NewTransferOrchestrator(goals, pool, logger),
		Repo:      repo,
		Formatter: format.NewFormatter(cfg.CurrencyCode),
	}, logger)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Starting server",
			log.FieldOperation, log.OpStartup,
			"port", cfg.Port,
			"backend", cfg.DataBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server error",
			log.FieldOperation, log.OpShutdown,
			log.FieldError, err)
		os.Exit(1)
	}
	logger.Info("Server stopped gracefully", log.FieldOperation, log.OpShutdown)
}
