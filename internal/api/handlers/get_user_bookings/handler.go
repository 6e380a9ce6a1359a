package get_user_bookings

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-AppointmentBot/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentBot/internal/service/bookings"
	"github.com/m04kA/SMC-AppointmentBot/internal/service/bookings/models"
)

const (
	msgInvalidUser = "некорректная платформа или ID пользователя"
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

// Handle GET /api/v1/users/{platform}/{userId}/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	serviceReq := &models.GetUserBookingsRequest{
		Platform: vars["platform"],
		UserID:   vars["userId"],
	}

	result, err := h.service.GetUserBookings(r.Context(), serviceReq)
	if err != nil {
		if errors.Is(err, bookings.ErrInvalidInput) {
			h.logger.Warn("GET /users/{platform}/{userId}/bookings - Invalid request: platform=%s, user_id=%s",
				serviceReq.Platform, serviceReq.UserID)
			handlers.RespondBadRequest(w, msgInvalidUser)
			return
		}
		h.logger.Error("GET /users/{platform}/{userId}/bookings - Failed to get bookings: platform=%s, user_id=%s, error=%v",
			serviceReq.Platform, serviceReq.UserID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /users/{platform}/{userId}/bookings - Bookings retrieved successfully: platform=%s, user_id=%s, count=%d",
		serviceReq.Platform, serviceReq.UserID, len(result.Bookings))
	handlers.RespondJSON(w, http.StatusOK, result.Bookings)
}
