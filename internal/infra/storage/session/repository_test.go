package session_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentBot/internal/domain"
	"github.com/m04kA/SMC-AppointmentBot/internal/infra/storage/session"
	"github.com/m04kA/SMC-AppointmentBot/internal/infra/storage/storagetest"
	"github.com/m04kA/SMC-AppointmentBot/pkg/sqlbuilder"
)

func TestRepository_GetMissing(t *testing.T) {
	repo := session.NewRepository(storagetest.NewSQLite(t), sqlbuilder.SQLite)

	_, err := repo.Get(context.Background(), domain.PlatformTelegram, "42")
	assert.ErrorIs(t, err, session.ErrSessionNotFound)
}

func TestRepository_UpsertOverwrites(t *testing.T) {
	ctx := context.Background()
	repo := session.NewRepository(storagetest.NewSQLite(t), sqlbuilder.SQLite)

	_, err := repo.Upsert(ctx, domain.PlatformMessenger, "user1", map[string]string{"name": "Alice"})
	require.NoError(t, err)

	_, err = repo.Upsert(ctx, domain.PlatformMessenger, "user1", map[string]string{"name": "Alice", "service": "facial"})
	require.NoError(t, err)

	state, err := repo.Get(ctx, domain.PlatformMessenger, "user1")
	require.NoError(t, err)
	assert.Equal(t, domain.PlatformMessenger, state.Platform)
	assert.Equal(t, "user1", state.UserID)
	assert.Equal(t, map[string]string{"name": "Alice", "service": "facial"}, state.Filled)
	assert.False(t, state.UpdatedAt.IsZero())
}

func TestRepository_UpsertEmpty(t *testing.T) {
	ctx := context.Background()
	repo := session.NewRepository(storagetest.NewSQLite(t), sqlbuilder.SQLite)

	_, err := repo.Upsert(ctx, domain.PlatformInstagram, "ig-1", nil)
	require.NoError(t, err)

	state, err := repo.Get(ctx, domain.PlatformInstagram, "ig-1")
	require.NoError(t, err)
	assert.Empty(t, state.Filled)
}

func TestRepository_KeyIsComposite(t *testing.T) {
	ctx := context.Background()
	repo := session.NewRepository(storagetest.NewSQLite(t), sqlbuilder.SQLite)

	_, err := repo.Upsert(ctx, domain.PlatformMessenger, "same-id", map[string]string{"name": "Meta"})
	require.NoError(t, err)
	_, err = repo.Upsert(ctx, domain.PlatformTelegram, "same-id", map[string]string{"name": "Tg"})
	require.NoError(t, err)

	meta, err := repo.Get(ctx, domain.PlatformMessenger, "same-id")
	require.NoError(t, err)
	assert.Equal(t, "Meta", meta.Filled["name"])

	tg, err := repo.Get(ctx, domain.PlatformTelegram, "same-id")
	require.NoError(t, err)
	assert.Equal(t, "Tg", tg.Filled["name"])
}

func TestRepository_Delete(t *testing.T) {
	ctx := context.Background()
	repo := session.NewRepository(storagetest.NewSQLite(t), sqlbuilder.SQLite)

	_, err := repo.Upsert(ctx, domain.PlatformTelegram, "7", map[string]string{"name": "Bob"})
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, domain.PlatformTelegram, "7"))
	require.NoError(t, repo.Delete(ctx, domain.PlatformTelegram, "7"))

	_, err = repo.Get(ctx, domain.PlatformTelegram, "7")
	assert.ErrorIs(t, err, session.ErrSessionNotFound)
}
