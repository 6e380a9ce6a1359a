package telegram

// SendMessageRequest тело запроса sendMessage
type SendMessageRequest struct {
	ChatID string `json:"chat_id"`
	Text   string `json:"text"`
}

// Update входящее обновление вебхука
type Update struct {
	UpdateID      int64    `json:"update_id"`
	Message       *Message `json:"message"`
	EditedMessage *Message `json:"edited_message"`
}

// Message сообщение чата
type Message struct {
	MessageID int64   `json:"message_id"`
	Chat      *Chat   `json:"chat"`
	Text      *string `json:"text"`
}

// Chat чат, в который пришло сообщение
type Chat struct {
	ID *int64 `json:"id"`
}

// Event нормализованное входящее сообщение
type Event struct {
	ChatID string
	Text   string
}
