package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-AppointmentBot/internal/domain"
	"github.com/m04kA/SMC-AppointmentBot/pkg/dbmetrics"
	"github.com/m04kA/SMC-AppointmentBot/pkg/sqlbuilder"
)

// Repository репозиторий незавершенных диалогов (частично заполненных слотов)
type Repository struct {
	db  DBExecutor
	sb  squirrel.StatementBuilderType
	now func() time.Time
}

// NewRepository создает новый экземпляр репозитория сессий
func NewRepository(db DBExecutor, dialect sqlbuilder.Dialect) *Repository {
	return &Repository{
		db:  db,
		sb:  sqlbuilder.New(dialect),
		now: func() time.Time { return time.Now().UTC() },
	}
}

// Get получает сессию пользователя
// Возвращает ErrSessionNotFound, если сессии нет
func (r *Repository) Get(ctx context.Context, platform domain.Platform, userID string) (*domain.SessionState, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := r.sb.Select("platform", "user_id", "filled", "updated_at").
		From("sessions").
		Where(squirrel.Eq{"platform": string(platform), "user_id": userID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Get - build select query: %v", ErrBuildQuery, err)
	}

	var (
		state     domain.SessionState
		rawFilled string
		updatedAt sql.NullTime
		rawPlat   string
	)

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&rawPlat,
		&state.UserID,
		&rawFilled,
		&updatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Get - scan session: %v", ErrScanRow, err)
	}

	filled, err := decodeSlots(rawFilled)
	if err != nil {
		return nil, fmt.Errorf("%w: Get - decode filled: %v", ErrScanRow, err)
	}

	state.Platform = domain.Platform(rawPlat)
	state.Filled = filled
	state.UpdatedAt = updatedAt.Time

	return &state, nil
}

// Upsert сохраняет набор слотов пользователя, перезаписывая предыдущий
// Если в контексте передана активная транзакция, использует её
func (r *Repository) Upsert(ctx context.Context, platform domain.Platform, userID string, filled map[string]string) (*domain.SessionState, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	if filled == nil {
		filled = map[string]string{}
	}

	encoded, err := json.Marshal(filled)
	if err != nil {
		return nil, fmt.Errorf("%w: Upsert - marshal filled: %v", ErrEncode, err)
	}

	updatedAt := r.now()

	query, args, err := r.sb.Insert("sessions").
		Columns("platform", "user_id", "filled", "updated_at").
		Values(string(platform), userID, string(encoded), updatedAt).
		Suffix("ON CONFLICT (platform, user_id) DO UPDATE SET filled = excluded.filled, updated_at = excluded.updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Upsert - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("%w: Upsert - execute insert: %v", ErrExecQuery, err)
	}

	stored := make(map[string]string, len(filled))
	for k, v := range filled {
		stored[k] = v
	}

	return &domain.SessionState{
		Platform:  platform,
		UserID:    userID,
		Filled:    stored,
		UpdatedAt: updatedAt,
	}, nil
}

// Delete удаляет сессию пользователя
// Отсутствие сессии не считается ошибкой
func (r *Repository) Delete(ctx context.Context, platform domain.Platform, userID string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := r.sb.Delete("sessions").
		Where(squirrel.Eq{"platform": string(platform), "user_id": userID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: Delete - execute delete: %v", ErrExecQuery, err)
	}

	return nil
}

func decodeSlots(raw string) (map[string]string, error) {
	slots := map[string]string{}
	if raw == "" {
		return slots, nil
	}
	if err := json.Unmarshal([]byte(raw), &slots); err != nil {
		return nil, err
	}
	return slots, nil
}
