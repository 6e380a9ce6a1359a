package migrations_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentBot/internal/infra/storage/migrations"
	"github.com/m04kA/SMC-AppointmentBot/internal/infra/storage/storagetest"
	"github.com/m04kA/SMC-AppointmentBot/pkg/sqlbuilder"
)

func TestApply_IsIdempotent(t *testing.T) {
	db := storagetest.NewSQLite(t)

	require.NoError(t, migrations.Apply(context.Background(), db, sqlbuilder.SQLite))
}
