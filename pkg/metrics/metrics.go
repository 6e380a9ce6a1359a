package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics набор prometheus-метрик сервиса
// Все методы записи безопасны для nil-получателя: если метрики выключены,
// в компоненты можно передать nil и ничего не проверять
type Metrics struct {
	service  string
	registry *prometheus.Registry

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	DBQueryDuration    *prometheus.HistogramVec
	DBQueryErrorsTotal *prometheus.CounterVec
	DBOpenConnections  *prometheus.GaugeVec
	DBInUseConnections *prometheus.GaugeVec
	DBIdleConnections  *prometheus.GaugeVec

	TurnsTotal            *prometheus.CounterVec
	NLUFallbacksTotal     *prometheus.CounterVec
	RateLimitedTotal      *prometheus.CounterVec
	MirrorFailuresTotal   *prometheus.CounterVec
	DispatchFailuresTotal *prometheus.CounterVec
}

// New создает и регистрирует метрики в собственном реестре
func New(serviceName string) *Metrics {
	m := &Metrics{
		service:  serviceName,
		registry: prometheus.NewRegistry(),

		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"service", "method", "route", "status"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"service", "method", "route"}),

		DBQueryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "db_query_duration_seconds",
			Help:    "Database query duration in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		}, []string{"service", "operation"}),
		DBQueryErrorsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "db_query_errors_total",
			Help: "Total number of failed database queries",
		}, []string{"service", "operation"}),
		DBOpenConnections: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "db_open_connections",
			Help: "Number of open database connections",
		}, []string{"service"}),
		DBInUseConnections: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "db_in_use_connections",
			Help: "Number of database connections in use",
		}, []string{"service"}),
		DBIdleConnections: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "db_idle_connections",
			Help: "Number of idle database connections",
		}, []string{"service"}),

		TurnsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "conversation_turns_total",
			Help: "Processed inbound messages by outcome",
		}, []string{"service", "platform", "outcome"}),
		NLUFallbacksTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "nlu_fallbacks_total",
			Help: "NLU calls answered with the fallback result",
		}, []string{"service", "reason"}),
		RateLimitedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rate_limited_total",
			Help: "Inbound messages rejected by the rate limiter",
		}, []string{"service", "platform"}),
		MirrorFailuresTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "booking_mirror_failures_total",
			Help: "Failed attempts to mirror a booking to the external ledger",
		}, []string{"service"}),
		DispatchFailuresTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dispatch_failures_total",
			Help: "Outbound messages that could not be delivered",
		}, []string{"service", "platform"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.DBQueryDuration,
		m.DBQueryErrorsTotal,
		m.DBOpenConnections,
		m.DBInUseConnections,
		m.DBIdleConnections,
		m.TurnsTotal,
		m.NLUFallbacksTotal,
		m.RateLimitedTotal,
		m.MirrorFailuresTotal,
		m.DispatchFailuresTotal,
	)

	return m
}

// Handler отдает метрики в формате prometheus
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry возвращает реестр (используется в тестах)
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveHTTPRequest учитывает HTTP-запрос по шаблону маршрута и классу статуса
func (m *Metrics) ObserveHTTPRequest(method, route string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(m.service, method, route, statusLabel(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(m.service, method, route).Observe(duration.Seconds())
}

// ObserveDBQuery учитывает длительность SQL-операции и ошибку, если она была
func (m *Metrics) ObserveDBQuery(operation string, duration time.Duration, err error) {
	if m == nil {
		return
	}
	m.DBQueryDuration.WithLabelValues(m.service, operation).Observe(duration.Seconds())
	if err != nil {
		m.DBQueryErrorsTotal.WithLabelValues(m.service, operation).Inc()
	}
}

// SetDBPoolStats обновляет состояние пула соединений
func (m *Metrics) SetDBPoolStats(open, inUse, idle int) {
	if m == nil {
		return
	}
	m.DBOpenConnections.WithLabelValues(m.service).Set(float64(open))
	m.DBInUseConnections.WithLabelValues(m.service).Set(float64(inUse))
	m.DBIdleConnections.WithLabelValues(m.service).Set(float64(idle))
}

// ObserveTurn учитывает исход обработки сообщения (rate_limited, replied, nudged, completed)
func (m *Metrics) ObserveTurn(platform, outcome string) {
	if m == nil {
		return
	}
	m.TurnsTotal.WithLabelValues(m.service, platform, outcome).Inc()
}

// IncNLUFallback учитывает ответ по умолчанию после сбоя NLU
func (m *Metrics) IncNLUFallback(reason string) {
	if m == nil {
		return
	}
	m.NLUFallbacksTotal.WithLabelValues(m.service, reason).Inc()
}

// IncRateLimited учитывает сообщение, отклоненное ограничителем частоты
func (m *Metrics) IncRateLimited(platform string) {
	if m == nil {
		return
	}
	m.RateLimitedTotal.WithLabelValues(m.service, platform).Inc()
}

// IncMirrorFailure учитывает неудачную запись в Google Sheets
func (m *Metrics) IncMirrorFailure() {
	if m == nil {
		return
	}
	m.MirrorFailuresTotal.WithLabelValues(m.service).Inc()
}

// IncDispatchFailure учитывает неотправленный ответ пользователю
func (m *Metrics) IncDispatchFailure(platform string) {
	if m == nil {
		return
	}
	m.DispatchFailuresTotal.WithLabelValues(m.service, platform).Inc()
}

// statusLabel сворачивает код ответа в класс 2xx..5xx
func statusLabel(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
