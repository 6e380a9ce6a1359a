package gemini

import "errors"

var (
	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("gemini client: internal error")

	// ErrEmptyResponse возвращается, когда модель не вернула текст
	ErrEmptyResponse = errors.New("gemini client: empty response")
)
