package models

import (
	"time"

	"github.com/m04kA/SMC-AppointmentBot/internal/domain"
)

// Request модели

// GetUserBookingsRequest запрос на получение бронирований пользователя платформы
type GetUserBookingsRequest struct {
	Platform string `json:"platform"`
	UserID   string `json:"userId"`
}

// Response модели

// BookingResponse ответ с данными бронирования
type BookingResponse struct {
	ID        int64             `json:"id"`
	Platform  string            `json:"platform"`
	UserID    string            `json:"userId"`
	Slots     map[string]string `json:"slots"`
	CreatedAt time.Time         `json:"createdAt"`
}

// BookingListResponse список бронирований
type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
}

// FromDomainBooking конвертирует domain.Booking в BookingResponse
func FromDomainBooking(booking *domain.Booking) *BookingResponse {
	slots := make(map[string]string, len(booking.Slots))
	for k, v := range booking.Slots {
		slots[k] = v
	}

	return &BookingResponse{
		ID:        booking.ID,
		Platform:  booking.Platform.String(),
		UserID:    booking.UserID,
		Slots:     slots,
		CreatedAt: booking.CreatedAt,
	}
}

// FromDomainBookings конвертирует список бронирований
func FromDomainBookings(bookings []*domain.Booking) *BookingListResponse {
	result := &BookingListResponse{
		Bookings: make([]BookingResponse, 0, len(bookings)),
	}
	for _, b := range bookings {
		result.Bookings = append(result.Bookings, *FromDomainBooking(b))
	}
	return result
}
