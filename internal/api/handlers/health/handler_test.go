package health

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/m04kA/SMC-AppointmentBot/pkg/logger"
)

type fakePinger struct {
	err error
}

func (p *fakePinger) PingContext(ctx context.Context) error {
	return p.err
}

func TestHandle(t *testing.T) {
	rec := httptest.NewRecorder()
	NewHandler(&fakePinger{}, logger.NewNop()).Handle(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestHandle_DatabaseDown(t *testing.T) {
	rec := httptest.NewRecorder()
	NewHandler(&fakePinger{err: errors.New("connection refused")}, logger.NewNop()).
		Handle(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
