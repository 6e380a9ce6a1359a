package meta_verify

import (
	"crypto/subtle"
	"net/http"

	"github.com/m04kA/SMC-AppointmentBot/internal/api/handlers"
)

const (
	modeSubscribe = "subscribe"

	msgVerificationFailed = "verification failed"
)

type Handler struct {
	verifyToken string
	logger      Logger
}

func NewHandler(verifyToken string, logger Logger) *Handler {
	return &Handler{
		verifyToken: verifyToken,
		logger:      logger,
	}
}

// Handle GET /webhook/meta
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	mode := query.Get("hub.mode")
	token := query.Get("hub.verify_token")
	challenge := query.Get("hub.challenge")

	if mode != modeSubscribe || h.verifyToken == "" ||
		subtle.ConstantTimeCompare([]byte(token), []byte(h.verifyToken)) != 1 {
		h.logger.Warn("GET /webhook/meta - Verification failed: mode=%s", mode)
		handlers.RespondForbidden(w, msgVerificationFailed)
		return
	}

	h.logger.Info("GET /webhook/meta - Subscription verified")
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(challenge))
}
