package telegram

import (
	"encoding/json"
	"strconv"
)

// ParseUpdate разбирает тело вебхука
func ParseUpdate(body []byte) (*Update, error) {
	var update Update
	if err := json.Unmarshal(body, &update); err != nil {
		return nil, err
	}
	return &update, nil
}

// Event извлекает текстовое сообщение из message или edited_message
// Возвращает ErrNoMessage, если нет чата или текста
func (u *Update) Event() (*Event, error) {
	msg := u.Message
	if msg == nil {
		msg = u.EditedMessage
	}
	if msg == nil || msg.Chat == nil || msg.Chat.ID == nil || msg.Text == nil {
		return nil, ErrNoMessage
	}

	return &Event{
		ChatID: strconv.FormatInt(*msg.Chat.ID, 10),
		Text:   *msg.Text,
	}, nil
}
