//go:build testutil
// +build testutil

// Package testdb поднимает Postgres в контейнере для интеграционных тестов
// хранилища расписания. Запуск: go test -tags testutil ./...
package testdb

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/Spok95/smartschool/internal/db"
)

type DBHandle struct {
	DB        *sql.DB
	container *postgres.PostgresContainer
}

// Close закрывает пул и гасит контейнер.
func (h *DBHandle) Close() {
	if h.DB != nil {
		_ = h.DB.Close()
	}
	if h.container != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = h.container.Terminate(ctx)
	}
}

// Reset очищает таблицы расписания между подтестами одного контейнера.
func (h *DBHandle) Reset(ctx context.Context) error {
	_, err := h.DB.ExecContext(ctx, `TRUNCATE period_windows, timetable, roster RESTART IDENTITY`)
	return err
}

// Start поднимает одноразовый Postgres, подключается тем же драйвером, что и
// сервис (db.Open), и накатывает миграции.
func Start(ctx context.Context) (*DBHandle, error) {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	pg, err := postgres.RunContainer(ctx,
		tc.WithImage("postgres:17-alpine"),
		postgres.WithDatabase("smartschool"),
		postgres.WithUsername("smartschool"),
		postgres.WithPassword("smartschool"),
		tc.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		return nil, fmt.Errorf("start postgres: %w", err)
	}
	h := &DBHandle{container: pg}

	uri, err := pg.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		h.Close()
		return nil, err
	}
	if h.DB, err = db.Open(ctx, uri); err != nil {
		h.Close()
		return nil, err
	}
	if err := db.Migrate(h.DB); err != nil {
		h.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return h, nil
}
