package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/m04kA/SMC-AppointmentBot/internal/api/handlers"
)

const (
	// HeaderTelegramSecret секретный токен, заданный при setWebhook
	HeaderTelegramSecret = "X-Telegram-Bot-Api-Secret-Token"

	bearerPrefix = "Bearer "

	msgInvalidSecret = "invalid secret token"
	msgUnauthorized  = "требуется авторизация"
)

// TelegramSecret пропускает только запросы с верным секретным токеном
// Пустой токен в конфигурации отклоняет все запросы
func TelegramSecret(secret string, logger Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !equalSecret(r.Header.Get(HeaderTelegramSecret), secret) {
				logger.Warn("%s %s - Invalid secret token", r.Method, r.URL.Path)
				handlers.RespondForbidden(w, msgInvalidSecret)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// AdminAuth проверяет заголовок Authorization: Bearer <token>
func AdminAuth(token string, logger Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, bearerPrefix) ||
				!equalSecret(strings.TrimPrefix(header, bearerPrefix), token) {
				logger.Warn("%s %s - Unauthorized admin request", r.Method, r.URL.Path)
				handlers.RespondUnauthorized(w, msgUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func equalSecret(provided, expected string) bool {
	if expected == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(provided), []byte(expected)) == 1
}
