package meta

import (
	"encoding/json"

	"github.com/m04kA/SMC-AppointmentBot/internal/domain"
)

const instagramProduct = "instagram"

// ParsePayload разбирает тело уведомления
func ParsePayload(body []byte) (*WebhookPayload, error) {
	var payload WebhookPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// NormalizeEvents извлекает текстовые сообщения Messenger и Instagram
// События без отправителя или текста пропускаются
func NormalizeEvents(payload *WebhookPayload) []Event {
	if payload == nil {
		return nil
	}

	events := make([]Event, 0)
	for _, entry := range payload.Entry {
		for _, msg := range entry.Messaging {
			if msg.Sender == nil || msg.Sender.ID == "" || msg.Message == nil || msg.Message.Text == "" {
				continue
			}
			events = append(events, Event{
				Platform: domain.PlatformMessenger,
				SenderID: msg.Sender.ID,
				Text:     msg.Message.Text,
			})
		}

		for _, change := range entry.Changes {
			if change.Value.MessagingProduct != instagramProduct {
				continue
			}
			for _, msg := range change.Value.Messages {
				if msg.From == nil || msg.From.ID == "" {
					continue
				}
				text, ok := instagramText(msg.Text)
				if !ok {
					continue
				}
				events = append(events, Event{
					Platform: domain.PlatformInstagram,
					SenderID: msg.From.ID,
					Text:     text,
				})
			}
		}
	}

	return events
}

// instagramText достает текст из строки или объекта {"body": ...}
func instagramText(raw json.RawMessage) (string, bool) {
	if len(raw) == 0 {
		return "", false
	}

	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		return text, true
	}

	var body struct {
		Body *string `json:"body"`
	}
	if err := json.Unmarshal(raw, &body); err == nil && body.Body != nil {
		return *body.Body, true
	}

	return "", false
}
