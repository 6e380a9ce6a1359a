package booking

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

var bookingColumns = []string{
	"id",
	"platform",
	"user_id",
	"slots",
	"created_at",
}

// Repository репозиторий для работы с бронированиями
// Бронирования неизменяемы: только создание и чтение
type Repository struct {
	db  DBExecutor
	sb  squirrel.StatementBuilderType
	now func() time.Time
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor, dialect sqlbuilder.Dialect) *Repository {
	return &Repository{
		db:  db,
		sb:  sqlbuilder.New(dialect),
		now: func() time.Time { return time.Now().UTC() },
	}
}

// Create создает новое бронирование
// Если в контексте передана активная транзакция (через context.Value), использует её.
// Финализация диалога вызывает Create внутри транзакции вместе с удалением сессии.
func (r *Repository) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	slots := booking.Slots
	if slots == nil {
		slots = map[string]string{}
	}

	encoded, err := json.Marshal(slots)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - marshal slots: %v", ErrEncode, err)
	}

	if booking.CreatedAt.IsZero() {
		booking.CreatedAt = r.now()
	}

	query, args, err := r.sb.Insert("bookings").
		Columns(
			"platform",
			"user_id",
			"slots",
			"created_at",
		).
		Values(
			string(booking.Platform),
			booking.UserID,
			string(encoded),
			booking.CreatedAt,
		).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&booking.ID); err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	return booking, nil
}

// GetByID получает бронирование по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := r.sb.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	booking, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan booking: %v", ErrScanRow, err)
	}

	return booking, nil
}

// GetByUser получает бронирования пользователя платформы, новые первыми
func (r *Repository) GetByUser(ctx context.Context, platform domain.Platform, userID string) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := r.sb.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"platform": string(platform), "user_id": userID}).
		OrderBy("created_at DESC", "id DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByUser - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByUser - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	bookings := make([]*domain.Booking, 0)
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: GetByUser - scan row: %v", ErrScanRow, err)
		}
		bookings = append(bookings, booking)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetByUser - rows error: %v", ErrScanRow, err)
	}

	return bookings, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanBooking сканирует строку в бронирование
func scanBooking(row rowScanner) (*domain.Booking, error) {
	var (
		booking   domain.Booking
		platform  string
		rawSlots  string
		createdAt sql.NullTime
	)

	if err := row.Scan(
		&booking.ID,
		&platform,
		&booking.UserID,
		&rawSlots,
		&createdAt,
	); err != nil {
		return nil, err
	}

	slots := map[string]string{}
	if rawSlots != "" {
		if err := json.Unmarshal([]byte(rawSlots), &slots); err != nil {
			return nil, fmt.Errorf("decode slots: %w", err)
		}
	}

	booking.Platform = domain.Platform(platform)
	booking.Slots = slots
	booking.CreatedAt = createdAt.Time

	return &booking, nil
}
