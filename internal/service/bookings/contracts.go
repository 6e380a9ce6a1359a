package bookings

import (
	"context"

	"github.com/m04kA/SMC-AppointmentBot/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	GetByUser(ctx context.Context, platform domain.Platform, userID string) ([]*domain.Booking, error)
}

// SessionRepository интерфейс репозитория сессий
type SessionRepository interface {
	Delete(ctx context.Context, platform domain.Platform, userID string) error
}

// Mirror внешняя таблица, в которую дублируются бронирования
type Mirror interface {
	EnsureHeader(ctx context.Context) error
	Append(ctx context.Context, row []string) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Metrics интерфейс для учета сбоев зеркалирования
type Metrics interface {
	IncMirrorFailure()
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
