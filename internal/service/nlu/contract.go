package nlu

import (
	"context"

	"github.com/m04kA/SMC-AppointmentBot/internal/domain"
)

// Provider языковая модель, возвращающая сырой JSON-документ разбора сообщения
type Provider interface {
	Parse(ctx context.Context, req domain.NLURequest) ([]byte, error)
}

// Metrics интерфейс для учета откатов на ответ по умолчанию
type Metrics interface {
	IncNLUFallback(reason string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
