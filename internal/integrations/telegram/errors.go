package telegram

import "errors"

var (
	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("telegram client: internal error")

	// ErrInvalidResponse возвращается, когда Bot API ответил статусом ошибки
	ErrInvalidResponse = errors.New("telegram client: invalid response")

	// ErrNoMessage возвращается, когда обновление не содержит текстового сообщения
	ErrNoMessage = errors.New("telegram: update has no text message")
)
