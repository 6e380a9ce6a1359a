package meta

import "errors"

var (
	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("meta client: internal error")

	// ErrInvalidResponse возвращается, когда Graph API ответил статусом ошибки
	ErrInvalidResponse = errors.New("meta client: invalid response")

	// ErrNotConfigured возвращается, когда не задан токен страницы или ID Instagram-аккаунта
	ErrNotConfigured = errors.New("meta client: not configured")
)
