package middleware

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
	"strings"

	"github.com/m04kA/SMC-AppointmentBot/internal/api/handlers"
)

const (
	// HeaderMetaSignature подпись тела запроса Meta
	HeaderMetaSignature = "X-Hub-Signature-256"

	signaturePrefix = "sha256="

	msgInvalidSignature = "invalid signature"
)

// MetaSignature проверяет HMAC-SHA256 тела запроса ключом приложения
// Тело восстанавливается для следующего обработчика
func MetaSignature(appSecret string, logger Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			body, err := handlers.ReadBody(r)
			if err != nil {
				logger.Warn("%s %s - Failed to read body: %v", r.Method, r.URL.Path, err)
				handlers.RespondForbidden(w, msgInvalidSignature)
				return
			}

			if !ValidMetaSignature(appSecret, body, r.Header.Get(HeaderMetaSignature)) {
				logger.Warn("%s %s - Invalid signature", r.Method, r.URL.Path)
				handlers.RespondForbidden(w, msgInvalidSignature)
				return
			}

			r.Body = io.NopCloser(bytes.NewReader(body))
			next.ServeHTTP(w, r)
		})
	}
}

// ValidMetaSignature сравнивает заголовок "sha256=<hex>" с HMAC тела
// Пустой секрет не принимает ни одной подписи
func ValidMetaSignature(appSecret string, body []byte, header string) bool {
	if appSecret == "" || !strings.HasPrefix(header, signaturePrefix) {
		return false
	}

	provided, err := hex.DecodeString(strings.TrimPrefix(header, signaturePrefix))
	if err != nil {
		return false
	}

	mac := hmac.New(sha256.New, []byte(appSecret))
	mac.Write(body)
	return hmac.Equal(provided, mac.Sum(nil))
}
