package nlu

import "errors"

var (
	// ErrMalformedOutput возвращается, когда ответ модели не является JSON-объектом
	ErrMalformedOutput = errors.New("nlu: malformed provider output")

	// ErrEmptyOutput возвращается, когда модель вернула пустой ответ
	ErrEmptyOutput = errors.New("nlu: empty provider output")
)

// Причины отката для метрик
const (
	fallbackProviderError = "provider_error"
	fallbackTimeout       = "timeout"
	fallbackMalformed     = "malformed"
)
