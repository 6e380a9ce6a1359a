package process_message

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/m04kA/SMC-AppointmentBot/internal/domain"
	sessionRepo "github.com/m04kA/SMC-AppointmentBot/internal/infra/storage/session"
)

// UseCase use case обработки входящего сообщения: сбор слотов и создание бронирования
type UseCase struct {
	limiter    RateLimiter
	sessions   SessionRepository
	nlu        NLUGateway
	finalizer  BookingFinalizer
	dispatcher Dispatcher
	required   domain.RequiredSlots
	templates  Templates
	metrics    Metrics
	logger     Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	limiter RateLimiter,
	sessions SessionRepository,
	nlu NLUGateway,
	finalizer BookingFinalizer,
	dispatcher Dispatcher,
	required domain.RequiredSlots,
	templates Templates,
	metrics Metrics,
	logger Logger,
) *UseCase {
	if templates.Confirm == "" {
		templates.Confirm = domain.DefaultConfirmTemplate
	}
	if templates.RateLimitReply == "" {
		templates.RateLimitReply = domain.DefaultRateLimitReply
	}

	return &UseCase{
		limiter:    limiter,
		sessions:   sessions,
		nlu:        nlu,
		finalizer:  finalizer,
		dispatcher: dispatcher,
		required:   required,
		templates:  templates,
		metrics:    metrics,
		logger:     logger,
	}
}

// Execute обрабатывает одно сообщение и отправляет ответ через платформу
// Ошибка возвращается только при сбое хранилища, чтобы платформа повторила доставку
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("ProcessMessage: validation failed: %v", err)
		return nil, err
	}

	uc.logger.Info("ProcessMessage: platform=%s, user=%s, text_len=%d", req.Platform, req.SenderID, len(req.Text))

	// 2. Ограничение частоты
	if !uc.limiter.Hit(req.Platform, req.SenderID) {
		if uc.metrics != nil {
			uc.metrics.IncRateLimited(req.Platform.String())
		}
		return uc.respond(ctx, req, &Response{
			Reply:   uc.templates.RateLimitReply,
			Outcome: OutcomeRateLimited,
		}), nil
	}

	// 3. Загружаем сессию
	current := map[string]string{}
	state, err := uc.sessions.Get(ctx, req.Platform, req.SenderID)
	switch {
	case err == nil:
		// Слоты вне обязательного набора (например, после смены конфигурации) отбрасываются
		current = uc.required.Pick(state.FilledOrEmpty())
	case errors.Is(err, sessionRepo.ErrSessionNotFound):
		// Новый диалог
	default:
		uc.logger.Error("ProcessMessage: failed to load session platform=%s, user=%s: %v", req.Platform, req.SenderID, err)
		return nil, fmt.Errorf("%w: failed to load session: %v", ErrInternal, err)
	}

	// 4. Разбор сообщения
	parsed := uc.nlu.Parse(ctx, req.Text, current)

	// 5. Объединение слотов; missing всегда считается локально
	merged := uc.required.Pick(MergeSlots(current, parsed.Filled))
	missing := uc.required.Missing(merged)

	// 6. Ветвление
	if !parsed.IsBooking() {
		if err := uc.saveSession(ctx, req, merged); err != nil {
			return nil, err
		}
		return uc.respond(ctx, req, &Response{
			Reply:   parsed.Reply,
			Outcome: OutcomeReplied,
			Missing: missing,
		}), nil
	}

	if len(missing) > 0 {
		if err := uc.saveSession(ctx, req, merged); err != nil {
			return nil, err
		}
		uc.logger.Info("ProcessMessage: platform=%s, user=%s still missing: %s",
			req.Platform, req.SenderID, strings.Join(missing, ", "))
		return uc.respond(ctx, req, &Response{
			Reply:   BuildNudge(missing),
			Outcome: OutcomeNudged,
			Missing: missing,
		}), nil
	}

	booking, err := uc.finalizer.Finalize(ctx, req.Platform, req.SenderID, merged)
	if err != nil {
		uc.logger.Error("ProcessMessage: failed to finalize booking platform=%s, user=%s: %v", req.Platform, req.SenderID, err)
		return nil, fmt.Errorf("%w: failed to finalize booking: %v", ErrInternal, err)
	}

	uc.logger.Info("ProcessMessage: booking id=%d completed for platform=%s, user=%s", booking.ID, req.Platform, req.SenderID)

	return uc.respond(ctx, req, &Response{
		Reply:     RenderConfirmation(uc.templates.Confirm, uc.required, merged),
		Outcome:   OutcomeCompleted,
		Missing:   []string{},
		BookingID: booking.ID,
	}), nil
}

// saveSession перезаписывает сессию объединенным набором слотов
func (uc *UseCase) saveSession(ctx context.Context, req *Request, merged map[string]string) error {
	if _, err := uc.sessions.Upsert(ctx, req.Platform, req.SenderID, merged); err != nil {
		uc.logger.Error("ProcessMessage: failed to save session platform=%s, user=%s: %v", req.Platform, req.SenderID, err)
		return fmt.Errorf("%w: failed to save session: %v", ErrInternal, err)
	}
	return nil
}

// respond отправляет ответ и учитывает исход
func (uc *UseCase) respond(ctx context.Context, req *Request, resp *Response) *Response {
	uc.dispatcher.Send(ctx, req.Platform, req.SenderID, resp.Reply)
	if uc.metrics != nil {
		uc.metrics.ObserveTurn(req.Platform.String(), string(resp.Outcome))
	}
	return resp
}
