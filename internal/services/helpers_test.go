package services

import (
	"io"
	"log/slog"
	"time"

	"moneypouch/internal/log"
	"moneypouch/internal/storage"
)

// testClock is 2026-08-22, ten days before the end of a 31-day month.
var testClock = time.Date(2026, 8, 22, 10, 30, 0, 0, time.UTC)

func testLogger() *log.Logger {
	return log.NewWithHandler(slog.NewTextHandler(io.Discard, nil), "test")
}

func newRepo() *storage.Repository {
	return storage.NewRepository(storage.NewMemoryKV(), testLogger())
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}
