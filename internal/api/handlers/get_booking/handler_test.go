package get_booking

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentBot/internal/service/bookings"
	"github.com/m04kA/SMC-AppointmentBot/internal/service/bookings/models"
	"github.com/m04kA/SMC-AppointmentBot/pkg/logger"
)

type fakeService struct {
	booking *models.BookingResponse
	err     error
}

func (s *fakeService) GetByID(ctx context.Context, id int64) (*models.BookingResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.booking, nil
}

func serve(svc BookingService, path string) *httptest.ResponseRecorder {
	router := mux.NewRouter()
	router.HandleFunc("/api/v1/bookings/{bookingId}", NewHandler(svc, logger.NewNop()).Handle)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestHandle(t *testing.T) {
	svc := &fakeService{booking: &models.BookingResponse{
		ID:       7,
		Platform: "telegram",
		UserID:   "42",
		Slots:    map[string]string{"name": "Alice"},
	}}

	rec := serve(svc, "/api/v1/bookings/7")

	require.Equal(t, http.StatusOK, rec.Code)
	var got models.BookingResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, int64(7), got.ID)
	assert.Equal(t, "Alice", got.Slots["name"])
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		err        error
		wantStatus int
	}{
		{name: "invalid id", path: "/api/v1/bookings/abc", wantStatus: http.StatusBadRequest},
		{name: "not found", path: "/api/v1/bookings/1", err: bookings.ErrBookingNotFound, wantStatus: http.StatusNotFound},
		{name: "internal", path: "/api/v1/bookings/1", err: errors.New("db"), wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(&fakeService{err: tt.err}, tt.path)
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}
