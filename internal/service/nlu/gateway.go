package nlu

import (
	"context"
	"errors"
	"time"

	"github.com/m04kA/SMC-AppointmentBot/internal/domain"
)

const defaultTimeout = 8 * time.Second

// Config параметры шлюза
type Config struct {
	Timeout      time.Duration
	DefaultReply string
	SystemPrompt string
}

// Gateway обращается к языковой модели и нормализует ее ответ
// Никогда не возвращает ошибку: любой сбой превращается в ответ по умолчанию
type Gateway struct {
	provider Provider
	required domain.RequiredSlots
	cfg      Config
	metrics  Metrics
	logger   Logger
}

// NewGateway создает новый шлюз NLU
func NewGateway(provider Provider, required domain.RequiredSlots, cfg Config, metrics Metrics, logger Logger) *Gateway {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.DefaultReply == "" {
		cfg.DefaultReply = domain.DefaultReply
	}
	if cfg.SystemPrompt == "" {
		cfg.SystemPrompt = DefaultSystemPrompt
	}

	return &Gateway{
		provider: provider,
		required: required,
		cfg:      cfg,
		metrics:  metrics,
		logger:   logger,
	}
}

// Parse разбирает сообщение с учетом уже собранных слотов
func (g *Gateway) Parse(ctx context.Context, message string, filled map[string]string) *domain.NLUResult {
	callCtx, cancel := context.WithTimeout(ctx, g.cfg.Timeout)
	defer cancel()

	raw, err := g.provider.Parse(callCtx, domain.NLURequest{
		SystemPrompt: g.cfg.SystemPrompt,
		Message:      message,
		Filled:       filled,
		Required:     g.required.Copy(),
	})
	if err != nil {
		reason := fallbackProviderError
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(callCtx.Err(), context.DeadlineExceeded) {
			reason = fallbackTimeout
		}
		g.logger.Error("NLUParse: provider call failed (%s): %v", reason, err)
		return g.fallback(reason)
	}

	result, err := sanitize(raw, g.required, filled, g.cfg.DefaultReply)
	if err != nil {
		g.logger.Error("NLUParse: unusable provider output: %v", err)
		return g.fallback(fallbackMalformed)
	}

	return result
}

// fallback ответ, при котором диалог продолжается без изменения слотов
func (g *Gateway) fallback(reason string) *domain.NLUResult {
	if g.metrics != nil {
		g.metrics.IncNLUFallback(reason)
	}

	return &domain.NLUResult{
		Intent:  domain.IntentOther,
		Filled:  map[string]string{},
		Missing: g.required.Copy(),
		Reply:   g.cfg.DefaultReply,
	}
}
