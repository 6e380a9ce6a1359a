package get_booking

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-AppointmentBot/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentBot/internal/api/middleware"
	"github.com/m04kA/SMC-AppointmentBot/internal/service/bookings"
)

const (
	logPrefix = "GET /api/v1/bookings/{bookingId}"

	msgInvalidBookingID = "некорректный ID бронирования"
	msgNotFound         = "бронирование не найдено"
)

type Handler struct {
	service BookingService
	logger  Logger
}

func NewHandler(service BookingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle возвращает бронирование администратору
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	requestID, _ := middleware.GetRequestID(r.Context())

	bookingID, ok := parseBookingID(mux.Vars(r)["bookingId"])
	if !ok {
		h.logger.Warn("%s - request_id=%s invalid booking id %q", logPrefix, requestID, mux.Vars(r)["bookingId"])
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	booking, err := h.service.GetByID(r.Context(), bookingID)
	switch {
	case err == nil:
	case errors.Is(err, bookings.ErrBookingNotFound):
		h.logger.Warn("%s - request_id=%s booking_id=%d not found", logPrefix, requestID, bookingID)
		handlers.RespondNotFound(w, msgNotFound)
		return
	default:
		h.logger.Error("%s - request_id=%s booking_id=%d lookup failed: %v", logPrefix, requestID, bookingID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("%s - request_id=%s booking_id=%d platform=%s returned", logPrefix, requestID, bookingID, booking.Platform)
	handlers.RespondJSON(w, http.StatusOK, booking)
}

// parseBookingID принимает только положительные целые идентификаторы
func parseBookingID(raw string) (int64, bool) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
