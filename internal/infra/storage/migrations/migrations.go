package migrations

import (
	"context"
	"fmt"

	"github.com/m04kA/SMC-AppointmentBot/pkg/dbmetrics"
	"github.com/m04kA/SMC-AppointmentBot/pkg/sqlbuilder"
)

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS sessions (
		platform   TEXT        NOT NULL,
		user_id    TEXT        NOT NULL,
		filled     JSONB       NOT NULL DEFAULT '{}'::jsonb,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		PRIMARY KEY (platform, user_id)
	)`,
	`CREATE TABLE IF NOT EXISTS bookings (
		id         BIGSERIAL   PRIMARY KEY,
		platform   TEXT        NOT NULL,
		user_id    TEXT        NOT NULL,
		slots      JSONB       NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_bookings_platform_user ON bookings (platform, user_id)`,
}

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS sessions (
		platform   TEXT     NOT NULL,
		user_id    TEXT     NOT NULL,
		filled     TEXT     NOT NULL DEFAULT '{}',
		updated_at DATETIME NOT NULL,
		PRIMARY KEY (platform, user_id)
	)`,
	`CREATE TABLE IF NOT EXISTS bookings (
		id         INTEGER  PRIMARY KEY AUTOINCREMENT,
		platform   TEXT     NOT NULL,
		user_id    TEXT     NOT NULL,
		slots      TEXT     NOT NULL,
		created_at DATETIME NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_bookings_platform_user ON bookings (platform, user_id)`,
}

// Apply создает таблицы sessions и bookings, если их еще нет
func Apply(ctx context.Context, db dbmetrics.DBExecutor, dialect sqlbuilder.Dialect) error {
	statements := postgresSchema
	if dialect == sqlbuilder.SQLite {
		statements = sqliteSchema
	}

	for i, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrations: statement %d: %w", i+1, err)
		}
	}

	return nil
}
