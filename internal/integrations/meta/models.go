package meta

import (
	"encoding/json"

	"github.com/m04kA/SMC-AppointmentBot/internal/domain"
)

// Исходящие сообщения

type recipient struct {
	ID string `json:"id"`
}

type messageBody struct {
	Text string `json:"text"`
}

// SendRequest тело запроса к /messages
type SendRequest struct {
	Recipient        recipient   `json:"recipient"`
	Message          messageBody `json:"message"`
	MessagingProduct string      `json:"messaging_product,omitempty"`
}

// Входящие события вебхука

// WebhookPayload корневой объект уведомления Meta
type WebhookPayload struct {
	Object string  `json:"object"`
	Entry  []Entry `json:"entry"`
}

// Entry одна запись уведомления
type Entry struct {
	ID        string           `json:"id"`
	Messaging []MessagingEvent `json:"messaging"`
	Changes   []Change         `json:"changes"`
}

// MessagingEvent событие Messenger
type MessagingEvent struct {
	Sender  *Participant      `json:"sender"`
	Message *MessengerMessage `json:"message"`
}

// Participant отправитель или получатель
type Participant struct {
	ID string `json:"id"`
}

// MessengerMessage сообщение Messenger
type MessengerMessage struct {
	MID  string `json:"mid"`
	Text string `json:"text"`
}

// Change изменение из подписки Instagram
type Change struct {
	Field string      `json:"field"`
	Value ChangeValue `json:"value"`
}

// ChangeValue содержимое изменения
type ChangeValue struct {
	MessagingProduct string             `json:"messaging_product"`
	Messages         []InstagramMessage `json:"messages"`
}

// InstagramMessage сообщение Instagram
// Текст приходит либо строкой, либо объектом {"body": "..."}
type InstagramMessage struct {
	From *Participant    `json:"from"`
	Text json.RawMessage `json:"text"`
}

// Event нормализованное входящее сообщение
type Event struct {
	Platform domain.Platform
	SenderID string
	Text     string
}
