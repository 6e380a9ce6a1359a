package process_message

import (
	"context"

	"github.com/m04kA/SMC-AppointmentBot/internal/domain"
)

// RateLimiter интерфейс ограничителя частоты сообщений
type RateLimiter interface {
	Hit(platform domain.Platform, userID string) bool
}

// SessionRepository интерфейс репозитория сессий
type SessionRepository interface {
	Get(ctx context.Context, platform domain.Platform, userID string) (*domain.SessionState, error)
	Upsert(ctx context.Context, platform domain.Platform, userID string, filled map[string]string) (*domain.SessionState, error)
}

// NLUGateway интерфейс разбора сообщения языковой моделью
type NLUGateway interface {
	Parse(ctx context.Context, message string, filled map[string]string) *domain.NLUResult
}

// BookingFinalizer интерфейс создания бронирования по завершенному диалогу
type BookingFinalizer interface {
	Finalize(ctx context.Context, platform domain.Platform, userID string, merged map[string]string) (*domain.Booking, error)
}

// Dispatcher интерфейс отправки ответа пользователю
type Dispatcher interface {
	Send(ctx context.Context, platform domain.Platform, recipientID, text string)
}

// Metrics интерфейс для учета исходов обработки сообщений
type Metrics interface {
	ObserveTurn(platform, outcome string)
	IncRateLimited(platform string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
