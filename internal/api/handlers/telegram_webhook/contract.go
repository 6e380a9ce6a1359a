package telegram_webhook

import (
	"context"

	processMessage "github.com/m04kA/SMC-AppointmentBot/internal/usecase/process_message"
)

type ProcessMessageUseCase interface {
	Execute(ctx context.Context, req *processMessage.Request) (*processMessage.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
