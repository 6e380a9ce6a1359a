package telegram_webhook

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-AppointmentBot/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentBot/internal/domain"
	"github.com/m04kA/SMC-AppointmentBot/internal/integrations/telegram"
	processMessage "github.com/m04kA/SMC-AppointmentBot/internal/usecase/process_message"
)

type Handler struct {
	useCase ProcessMessageUseCase
	logger  Logger
}

func NewHandler(useCase ProcessMessageUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /webhook/telegram
// Секретный токен проверяется middleware.TelegramSecret
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	body, err := handlers.ReadBody(r)
	if err != nil {
		h.logger.Warn("POST /webhook/telegram - Failed to read body: %v", err)
		handlers.RespondStatus(w, http.StatusOK, handlers.StatusIgnored)
		return
	}

	update, err := telegram.ParseUpdate(body)
	if err != nil {
		h.logger.Warn("POST /webhook/telegram - Invalid JSON payload: %v", err)
		handlers.RespondStatus(w, http.StatusOK, handlers.StatusIgnored)
		return
	}

	event, err := update.Event()
	if err != nil {
		h.logger.Info("POST /webhook/telegram - Update ignored: update_id=%d", update.UpdateID)
		handlers.RespondStatus(w, http.StatusOK, handlers.StatusIgnored)
		return
	}

	_, err = h.useCase.Execute(r.Context(), &processMessage.Request{
		Platform: domain.PlatformTelegram,
		SenderID: event.ChatID,
		Text:     event.Text,
	})
	if err != nil {
		if errors.Is(err, processMessage.ErrInvalidInput) {
			h.logger.Warn("POST /webhook/telegram - Update skipped: chat=%s, error=%v", event.ChatID, err)
			handlers.RespondStatus(w, http.StatusOK, handlers.StatusIgnored)
			return
		}

		h.logger.Error("POST /webhook/telegram - Failed to process message: chat=%s, error=%v", event.ChatID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("POST /webhook/telegram - Update processed: update_id=%d, chat=%s", update.UpdateID, event.ChatID)
	handlers.RespondStatus(w, http.StatusOK, handlers.StatusOK)
}
