package get_user_bookings

import (
	"context"
	"encoding/json"
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
	got *models.GetUserBookingsRequest
	err error
}

func (s *fakeService) GetUserBookings(ctx context.Context, req *models.GetUserBookingsRequest) (*models.BookingListResponse, error) {
	s.got = req
	if s.err != nil {
		return nil, s.err
	}
	return &models.BookingListResponse{Bookings: []models.BookingResponse{{ID: 1}, {ID: 2}}}, nil
}

func serve(svc BookingService, path string) *httptest.ResponseRecorder {
	router := mux.NewRouter()
	router.HandleFunc("/api/v1/users/{platform}/{userId}/bookings", NewHandler(svc, logger.NewNop()).Handle)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestHandle(t *testing.T) {
	svc := &fakeService{}
	rec := serve(svc, "/api/v1/users/instagram/ig-77/bookings")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, &models.GetUserBookingsRequest{Platform: "instagram", UserID: "ig-77"}, svc.got)

	var got []models.BookingResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Len(t, got, 2)
}

func TestHandle_InvalidInput(t *testing.T) {
	rec := serve(&fakeService{err: bookings.ErrInvalidInput}, "/api/v1/users/whatsapp/1/bookings")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
