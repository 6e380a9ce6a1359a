package middleware

import "time"

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// MetricsRecorder получатель метрик HTTP-запросов
type MetricsRecorder interface {
	ObserveHTTPRequest(method, route string, status int, duration time.Duration)
}
