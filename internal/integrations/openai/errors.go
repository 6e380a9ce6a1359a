package openai

import "errors"

var (
	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("openai client: internal error")

	// ErrInvalidResponse возвращается при ответе с ошибкой или без вариантов
	ErrInvalidResponse = errors.New("openai client: invalid response")
)
