package middleware

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentBot/pkg/logger"
)

func sign(secret, body string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(body))
	return "sha256=" + hex.EncodeToString(mac.Sum(nil))
}

func echoBody(t *testing.T) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		assert.NoError(t, err)
		_, _ = w.Write(body)
	})
}

func TestMetaSignature(t *testing.T) {
	const (
		secret = "app-secret"
		body   = `{"object":"page"}`
	)
	h := MetaSignature(secret, logger.NewNop())(echoBody(t))

	tests := []struct {
		name       string
		header     string
		wantStatus int
	}{
		{name: "valid", header: sign(secret, body), wantStatus: http.StatusOK},
		{name: "wrong secret", header: sign("other", body), wantStatus: http.StatusForbidden},
		{name: "missing", header: "", wantStatus: http.StatusForbidden},
		{name: "wrong algorithm", header: strings.Replace(sign(secret, body), "sha256=", "sha1=", 1), wantStatus: http.StatusForbidden},
		{name: "not hex", header: "sha256=zzzz", wantStatus: http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/webhook/meta", strings.NewReader(body))
			if tt.header != "" {
				req.Header.Set(HeaderMetaSignature, tt.header)
			}
			rec := httptest.NewRecorder()

			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus == http.StatusOK {
				// Следующий обработчик получает исходное тело
				assert.Equal(t, body, rec.Body.String())
			}
		})
	}
}

func TestValidMetaSignature_EmptySecret(t *testing.T) {
	assert.False(t, ValidMetaSignature("", []byte("x"), sign("", "x")))
}

func TestTelegramSecret(t *testing.T) {
	h := TelegramSecret("tg-secret", logger.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodPost, "/webhook/telegram", nil)
	req.Header.Set(HeaderTelegramSecret, "tg-secret")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/webhook/telegram", nil)
	req.Header.Set(HeaderTelegramSecret, "wrong")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	closed := TelegramSecret("", logger.NewNop())(http.NotFoundHandler())
	rec = httptest.NewRecorder()
	closed.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/webhook/telegram", nil))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestAdminAuth(t *testing.T) {
	h := AdminAuth("admin-token", logger.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	tests := []struct {
		header     string
		wantStatus int
	}{
		{header: "Bearer admin-token", wantStatus: http.StatusNoContent},
		{header: "Bearer wrong", wantStatus: http.StatusUnauthorized},
		{header: "admin-token", wantStatus: http.StatusUnauthorized},
		{header: "", wantStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/bookings/1", nil)
		if tt.header != "" {
			req.Header.Set("Authorization", tt.header)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, tt.wantStatus, rec.Code, tt.header)
	}
}

func TestRequestID(t *testing.T) {
	var seen string
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = GetRequestID(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.NotEmpty(t, seen)
	assert.Equal(t, seen, rec.Header().Get(HeaderRequestID))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderRequestID, "given-id")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "given-id", seen)
}

type observed struct {
	method string
	route  string
	status int
}

type fakeRecorder struct {
	calls []observed
}

func (f *fakeRecorder) ObserveHTTPRequest(method, route string, status int, duration time.Duration) {
	f.calls = append(f.calls, observed{method: method, route: route, status: status})
}

func TestMetrics_UsesRouteTemplate(t *testing.T) {
	recorder := &fakeRecorder{}
	router := mux.NewRouter()
	router.Use(Metrics(recorder))
	router.HandleFunc("/api/v1/bookings/{bookingId}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/bookings/15", nil))

	assert.Equal(t, []observed{{method: "GET", route: "/api/v1/bookings/{bookingId}", status: 404}}, recorder.calls)
}

func TestLogging_PassesThrough(t *testing.T) {
	h := Logging(logger.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusAccepted, rec.Code)
}
