package bookings

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-AppointmentBot/internal/domain"
	bookingRepo "github.com/m04kA/SMC-AppointmentBot/internal/infra/storage/booking"
	"github.com/m04kA/SMC-AppointmentBot/internal/service/bookings/models"
)

const defaultMirrorTimeout = 10 * time.Second

// Service сервис бронирований: финализация диалога и чтение для администратора
type Service struct {
	bookingRepo   BookingRepository
	sessionRepo   SessionRepository
	txManager     TransactionManager
	mirror        Mirror
	mirrorTimeout time.Duration
	required      domain.RequiredSlots
	metrics       Metrics
	logger        Logger
}

// NewService создает новый экземпляр сервиса бронирований
// mirror может быть nil, если зеркалирование не настроено
func NewService(
	bookingRepo BookingRepository,
	sessionRepo SessionRepository,
	txManager TransactionManager,
	mirror Mirror,
	mirrorTimeout time.Duration,
	required domain.RequiredSlots,
	metrics Metrics,
	logger Logger,
) *Service {
	if mirrorTimeout <= 0 {
		mirrorTimeout = defaultMirrorTimeout
	}

	return &Service{
		bookingRepo:   bookingRepo,
		sessionRepo:   sessionRepo,
		txManager:     txManager,
		mirror:        mirror,
		mirrorTimeout: mirrorTimeout,
		required:      required,
		metrics:       metrics,
		logger:        logger,
	}
}

// Finalize создает бронирование и удаляет сессию в одной транзакции,
// после чего дублирует запись во внешнюю таблицу
// Сбой зеркалирования не влияет на результат
func (s *Service) Finalize(ctx context.Context, platform domain.Platform, userID string, merged map[string]string) (*domain.Booking, error) {
	s.logger.Info("FinalizeBooking: platform=%s, user=%s", platform, userID)

	if missing := s.required.Missing(merged); len(missing) > 0 {
		s.logger.Warn("FinalizeBooking: platform=%s, user=%s has unfilled slots: %s",
			platform, userID, strings.Join(missing, ", "))
		return nil, fmt.Errorf("%w: %s", ErrIncomplete, strings.Join(missing, ", "))
	}

	// В бронирование попадают только слоты из обязательного набора
	slots := make(map[string]string, len(s.required))
	for _, slot := range s.required {
		slots[slot] = merged[slot]
	}

	var created *domain.Booking
	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		booking, err := s.bookingRepo.Create(txCtx, &domain.Booking{
			Platform: platform,
			UserID:   userID,
			Slots:    slots,
		})
		if err != nil {
			return fmt.Errorf("create booking: %w", err)
		}

		if err := s.sessionRepo.Delete(txCtx, platform, userID); err != nil {
			return fmt.Errorf("delete session: %w", err)
		}

		created = booking
		return nil
	})
	if err != nil {
		s.logger.Error("FinalizeBooking: transaction failed for platform=%s, user=%s: %v", platform, userID, err)
		return nil, fmt.Errorf("%w: Finalize - transaction: %v", ErrInternal, err)
	}

	s.logger.Info("FinalizeBooking: created booking id=%d for platform=%s, user=%s", created.ID, platform, userID)

	if s.mirror != nil {
		s.mirrorBooking(ctx, created)
	}

	return created, nil
}

// mirrorBooking дописывает бронирование во внешнюю таблицу
func (s *Service) mirrorBooking(ctx context.Context, booking *domain.Booking) {
	mirrorCtx, cancel := context.WithTimeout(ctx, s.mirrorTimeout)
	defer cancel()

	row := make([]string, 0, len(s.required)+1)
	row = append(row, booking.CreatedAt.UTC().Format(domain.MirrorTimestampFormat))
	row = append(row, booking.Values(s.required)...)

	if err := s.mirror.EnsureHeader(mirrorCtx); err != nil {
		s.mirrorFailed(booking.ID, err)
		return
	}
	if err := s.mirror.Append(mirrorCtx, row); err != nil {
		s.mirrorFailed(booking.ID, err)
		return
	}

	s.logger.Info("FinalizeBooking: booking id=%d mirrored", booking.ID)
}

func (s *Service) mirrorFailed(bookingID int64, err error) {
	s.logger.Error("FinalizeBooking: failed to mirror booking id=%d: %v", bookingID, err)
	if s.metrics != nil {
		s.metrics.IncMirrorFailure()
	}
}

// GetByID получает бронирование по ID
func (s *Service) GetByID(ctx context.Context, id int64) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%d", id)

	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("GetByID: booking id=%d not found", id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("GetByID: repository error for booking id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetByID: successfully fetched booking id=%d", id)
	return models.FromDomainBooking(booking), nil
}

// GetUserBookings получает историю бронирований пользователя платформы
func (s *Service) GetUserBookings(ctx context.Context, req *models.GetUserBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("GetUserBookings: fetching bookings for platform=%s, user=%s", req.Platform, req.UserID)

	platform := domain.Platform(req.Platform)
	if !platform.IsKnown() || strings.TrimSpace(req.UserID) == "" {
		s.logger.Warn("GetUserBookings: invalid platform=%s or user=%q", req.Platform, req.UserID)
		return nil, ErrInvalidInput
	}

	bookings, err := s.bookingRepo.GetByUser(ctx, platform, req.UserID)
	if err != nil {
		s.logger.Error("GetUserBookings: repository error for platform=%s, user=%s: %v", req.Platform, req.UserID, err)
		return nil, fmt.Errorf("%w: GetUserBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetUserBookings: found %d bookings for platform=%s, user=%s", len(bookings), req.Platform, req.UserID)
	return models.FromDomainBookings(bookings), nil
}
