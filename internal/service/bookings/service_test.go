package bookings_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentBot/internal/domain"
	"github.com/m04kA/SMC-AppointmentBot/internal/infra/storage/booking"
	"github.com/m04kA/SMC-AppointmentBot/internal/infra/storage/session"
	"github.com/m04kA/SMC-AppointmentBot/internal/infra/storage/storagetest"
	"github.com/m04kA/SMC-AppointmentBot/internal/service/bookings"
	"github.com/m04kA/SMC-AppointmentBot/internal/service/bookings/models"
	"github.com/m04kA/SMC-AppointmentBot/pkg/logger"
	"github.com/m04kA/SMC-AppointmentBot/pkg/sqlbuilder"
	"github.com/m04kA/SMC-AppointmentBot/pkg/txmanager"
)

type fakeMirror struct {
	headerErr error
	appendErr error
	rows      [][]string
	headers   int
}

func (m *fakeMirror) EnsureHeader(ctx context.Context) error {
	m.headers++
	return m.headerErr
}

func (m *fakeMirror) Append(ctx context.Context, row []string) error {
	if m.appendErr != nil {
		return m.appendErr
	}
	m.rows = append(m.rows, row)
	return nil
}

type fakeMetrics struct {
	mirrorFailures int
}

func (m *fakeMetrics) IncMirrorFailure() {
	m.mirrorFailures++
}

type fixture struct {
	service  *bookings.Service
	sessions *session.Repository
	bookings *booking.Repository
	metrics  *fakeMetrics
}

var required = domain.ParseRequiredSlots(domain.DefaultRequiredSlots)

var completeSlots = map[string]string{
	"name":    "Alice",
	"service": "facial",
	"date":    "2024-06-01",
	"time":    "10:00",
	"phone":   "+15550100",
}

func newFixture(t *testing.T, mirror bookings.Mirror) *fixture {
	t.Helper()

	db := storagetest.NewSQLite(t)
	sessions := session.NewRepository(db, sqlbuilder.SQLite)
	bookingRepo := booking.NewRepository(db, sqlbuilder.SQLite)
	metrics := &fakeMetrics{}

	svc := bookings.NewService(
		bookingRepo,
		sessions,
		txmanager.NewTransactionManager(db),
		mirror,
		time.Second,
		required,
		metrics,
		logger.NewNop(),
	)

	return &fixture{service: svc, sessions: sessions, bookings: bookingRepo, metrics: metrics}
}

func TestFinalize_CreatesBookingAndClearsSession(t *testing.T) {
	ctx := context.Background()
	mirror := &fakeMirror{}
	f := newFixture(t, mirror)

	_, err := f.sessions.Upsert(ctx, domain.PlatformMessenger, "psid-1", map[string]string{"name": "Alice"})
	require.NoError(t, err)

	created, err := f.service.Finalize(ctx, domain.PlatformMessenger, "psid-1", completeSlots)
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.Equal(t, completeSlots, created.Slots)

	_, err = f.sessions.Get(ctx, domain.PlatformMessenger, "psid-1")
	assert.ErrorIs(t, err, session.ErrSessionNotFound)

	stored, err := f.bookings.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, completeSlots, stored.Slots)

	require.Len(t, mirror.rows, 1)
	assert.Equal(t, []string{"Alice", "facial", "2024-06-01", "10:00", "+15550100"}, mirror.rows[0][1:])
	_, err = time.Parse(domain.MirrorTimestampFormat, mirror.rows[0][0])
	assert.NoError(t, err)
}

func TestFinalize_DropsSlotsOutsideRequiredSet(t *testing.T) {
	f := newFixture(t, nil)

	merged := map[string]string{"extra": "ignored"}
	for k, v := range completeSlots {
		merged[k] = v
	}

	created, err := f.service.Finalize(context.Background(), domain.PlatformTelegram, "7", merged)
	require.NoError(t, err)
	assert.NotContains(t, created.Slots, "extra")
}

func TestFinalize_MirrorFailureDoesNotFail(t *testing.T) {
	tests := []struct {
		name   string
		mirror *fakeMirror
	}{
		{name: "header", mirror: &fakeMirror{headerErr: errors.New("sheets unavailable")}},
		{name: "append", mirror: &fakeMirror{appendErr: errors.New("quota exceeded")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			f := newFixture(t, tt.mirror)

			created, err := f.service.Finalize(ctx, domain.PlatformInstagram, "ig-9", completeSlots)
			require.NoError(t, err)
			assert.NotZero(t, created.ID)
			assert.Equal(t, 1, f.metrics.mirrorFailures)

			list, err := f.bookings.GetByUser(ctx, domain.PlatformInstagram, "ig-9")
			require.NoError(t, err)
			assert.Len(t, list, 1)
		})
	}
}

func TestFinalize_Incomplete(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)

	_, err := f.service.Finalize(ctx, domain.PlatformMessenger, "psid-2", map[string]string{"name": "Bob"})
	assert.ErrorIs(t, err, bookings.ErrIncomplete)

	list, err := f.bookings.GetByUser(ctx, domain.PlatformMessenger, "psid-2")
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestGetByID(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)

	created, err := f.service.Finalize(ctx, domain.PlatformTelegram, "100", completeSlots)
	require.NoError(t, err)

	resp, err := f.service.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "telegram", resp.Platform)
	assert.Equal(t, "100", resp.UserID)
	assert.Equal(t, completeSlots, resp.Slots)

	_, err = f.service.GetByID(ctx, created.ID+100)
	assert.ErrorIs(t, err, bookings.ErrBookingNotFound)
}

func TestGetUserBookings(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)

	for i := 0; i < 2; i++ {
		_, err := f.service.Finalize(ctx, domain.PlatformTelegram, "100", completeSlots)
		require.NoError(t, err)
	}

	resp, err := f.service.GetUserBookings(ctx, &models.GetUserBookingsRequest{Platform: "telegram", UserID: "100"})
	require.NoError(t, err)
	assert.Len(t, resp.Bookings, 2)

	_, err = f.service.GetUserBookings(ctx, &models.GetUserBookingsRequest{Platform: "whatsapp", UserID: "100"})
	assert.ErrorIs(t, err, bookings.ErrInvalidInput)
}

type failingSessions struct {
	*session.Repository
	deleteErr error
}

func (s *failingSessions) Delete(ctx context.Context, platform domain.Platform, userID string) error {
	return s.deleteErr
}

func TestFinalize_RollsBackWhenSessionDeleteFails(t *testing.T) {
	ctx := context.Background()
	db := storagetest.NewSQLite(t)
	sessions := session.NewRepository(db, sqlbuilder.SQLite)
	bookingRepo := booking.NewRepository(db, sqlbuilder.SQLite)
	mirror := &fakeMirror{}

	svc := bookings.NewService(
		bookingRepo,
		&failingSessions{Repository: sessions, deleteErr: errors.New("disk full")},
		txmanager.NewTransactionManager(db),
		mirror,
		time.Second,
		required,
		&fakeMetrics{},
		logger.NewNop(),
	)

	_, err := sessions.Upsert(ctx, domain.PlatformTelegram, "42", map[string]string{"name": "Alice"})
	require.NoError(t, err)

	created, err := svc.Finalize(ctx, domain.PlatformTelegram, "42", completeSlots)
	require.Error(t, err)
	assert.ErrorIs(t, err, bookings.ErrInternal)
	assert.Nil(t, created)

	// Вставка бронирования откачена вместе с транзакцией
	stored, err := bookingRepo.GetByUser(ctx, domain.PlatformTelegram, "42")
	require.NoError(t, err)
	assert.Empty(t, stored)

	state, err := sessions.Get(ctx, domain.PlatformTelegram, "42")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"name": "Alice"}, state.Filled)

	assert.Zero(t, mirror.headers)
	assert.Empty(t, mirror.rows)
}
