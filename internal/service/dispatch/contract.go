package dispatch

import "context"

// Sender отправляет текстовое сообщение получателю на одной платформе
type Sender interface {
	Send(ctx context.Context, recipientID, text string) error
}

// Metrics интерфейс для учета неудачных отправок
type Metrics interface {
	IncDispatchFailure(platform string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
