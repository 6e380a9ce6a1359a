package process_message

import "github.com/m04kA/SMC-AppointmentBot/internal/domain"

// Outcome исход обработки одного сообщения
type Outcome string

const (
	// OutcomeRateLimited сообщение отклонено ограничителем частоты
	OutcomeRateLimited Outcome = "rate_limited"
	// OutcomeReplied намерение не booking, отправлен ответ модели
	OutcomeReplied Outcome = "replied"
	// OutcomeNudged не хватает слотов, отправлен запрос недостающих
	OutcomeNudged Outcome = "nudged"
	// OutcomeCompleted бронирование создано
	OutcomeCompleted Outcome = "completed"
)

// Templates тексты ответов пользователю
type Templates struct {
	Confirm        string
	RateLimitReply string
}

// Request входящее сообщение от пользователя платформы
type Request struct {
	Platform domain.Platform
	SenderID string
	Text     string
}

// Response результат обработки сообщения
type Response struct {
	Reply     string
	Outcome   Outcome
	Missing   []string // Незаполненные слоты после обработки
	BookingID int64    // ID бронирования, если диалог завершен
}
