package meta_webhook

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-AppointmentBot/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentBot/internal/integrations/meta"
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

// Handle POST /webhook/meta
// Подпись проверяется middleware.MetaSignature
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	body, err := handlers.ReadBody(r)
	if err != nil {
		h.logger.Warn("POST /webhook/meta - Failed to read body: %v", err)
		handlers.RespondStatus(w, http.StatusOK, handlers.StatusIgnored)
		return
	}

	payload, err := meta.ParsePayload(body)
	if err != nil {
		h.logger.Warn("POST /webhook/meta - Invalid JSON payload: %v", err)
		handlers.RespondStatus(w, http.StatusOK, handlers.StatusIgnored)
		return
	}

	events := meta.NormalizeEvents(payload)
	for _, event := range events {
		_, err := h.useCase.Execute(r.Context(), &processMessage.Request{
			Platform: event.Platform,
			SenderID: event.SenderID,
			Text:     event.Text,
		})
		if err == nil {
			continue
		}

		if errors.Is(err, processMessage.ErrInvalidInput) {
			h.logger.Warn("POST /webhook/meta - Event skipped: platform=%s, sender=%s, error=%v",
				event.Platform, event.SenderID, err)
			continue
		}

		// 500 заставит Meta повторить доставку
		h.logger.Error("POST /webhook/meta - Failed to process message: platform=%s, sender=%s, error=%v",
			event.Platform, event.SenderID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("POST /webhook/meta - Processed %d events", len(events))
	handlers.RespondStatus(w, http.StatusOK, handlers.StatusOK)
}
