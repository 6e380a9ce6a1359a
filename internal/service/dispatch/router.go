package dispatch

import (
	"context"
	"time"

	"github.com/m04kA/SMC-AppointmentBot/internal/domain"
)

const defaultTimeout = 10 * time.Second

// Router выбирает отправителя по платформе
// Ошибки отправки логируются и не возвращаются вызывающему
type Router struct {
	senders map[domain.Platform]Sender
	timeout time.Duration
	metrics Metrics
	logger  Logger
}

// NewRouter создает маршрутизатор без зарегистрированных отправителей
func NewRouter(timeout time.Duration, metrics Metrics, logger Logger) *Router {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Router{
		senders: make(map[domain.Platform]Sender),
		timeout: timeout,
		metrics: metrics,
		logger:  logger,
	}
}

// Register регистрирует отправителя для платформы
// Регистрация выполняется до начала обработки запросов
func (r *Router) Register(platform domain.Platform, sender Sender) *Router {
	r.senders[platform] = sender
	return r
}

// Send отправляет ответ пользователю платформы
func (r *Router) Send(ctx context.Context, platform domain.Platform, recipientID, text string) {
	sender, ok := r.senders[platform]
	if !ok {
		r.logger.Warn("Dispatch: no sender for platform=%s, recipient=%s, message dropped", platform, recipientID)
		r.failed(platform)
		return
	}

	sendCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	if err := sender.Send(sendCtx, recipientID, text); err != nil {
		r.logger.Error("Dispatch: failed to send to platform=%s, recipient=%s: %v", platform, recipientID, err)
		r.failed(platform)
		return
	}

	r.logger.Info("Dispatch: sent reply to platform=%s, recipient=%s", platform, recipientID)
}

func (r *Router) failed(platform domain.Platform) {
	if r.metrics != nil {
		r.metrics.IncDispatchFailure(platform.String())
	}
}
