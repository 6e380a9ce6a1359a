// Package storagetest открывает временную SQLite-базу со схемой сервиса для тестов.
package storagetest

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/m04kA/SMC-AppointmentBot/internal/infra/storage/migrations"
	"github.com/m04kA/SMC-AppointmentBot/pkg/dbmetrics"
	"github.com/m04kA/SMC-AppointmentBot/pkg/sqlbuilder"
)

// NewSQLite создает файл БД во временной директории теста и применяет миграции
func NewSQLite(t *testing.T) *dbmetrics.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.db")
	raw, err := sql.Open("sqlite", "file:"+path+"?_pragma=busy_timeout(5000)")
	require.NoError(t, err)

	// Одно соединение: транзакция и запросы вне её не конкурируют за блокировку файла
	raw.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = raw.Close() })

	db := dbmetrics.Wrap(raw, nil)
	require.NoError(t, migrations.Apply(context.Background(), db, sqlbuilder.SQLite))

	return db
}
