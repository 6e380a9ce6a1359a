package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const (
	// DefaultAPIURL адрес Bot API
	DefaultAPIURL = "https://api.telegram.org"

	maxErrorBody = 4096
)

// Client клиент Telegram Bot API
// Исходящие сообщения ограничены общим лимитом сообщений в секунду
type Client struct {
	apiURL     string
	token      string
	limiter    *rate.Limiter
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента Bot API
// messagesPerSecond <= 0 отключает ограничение
func NewClient(apiURL, token string, messagesPerSecond float64, timeout time.Duration, log Logger) *Client {
	if apiURL == "" {
		apiURL = DefaultAPIURL
	}

	limit := rate.Inf
	burst := 1
	if messagesPerSecond > 0 {
		limit = rate.Limit(messagesPerSecond)
		burst = int(messagesPerSecond)
		if burst < 1 {
			burst = 1
		}
	}

	return &Client{
		apiURL:  strings.TrimRight(apiURL, "/"),
		token:   token,
		limiter: rate.NewLimiter(limit, burst),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// Send отправляет текст в чат
// Без токена сообщение не отправляется, ошибка не возвращается
func (c *Client) Send(ctx context.Context, chatID, text string) error {
	if c.token == "" {
		c.log.Warn("Telegram token not configured, message to chat=%s dropped", chatID)
		return nil
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%w: rate limiter wait: %v", ErrInternal, err)
	}

	body, err := json.Marshal(&SendMessageRequest{ChatID: chatID, Text: text})
	if err != nil {
		return fmt.Errorf("%w: failed to marshal request: %v", ErrInternal, err)
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", c.apiURL, c.token)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// Ошибка содержит URL с токеном
		return fmt.Errorf("%w: failed to execute request: %v", ErrInternal, redact(err.Error(), c.token))
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		c.log.Error("Telegram send failed: status=%d, body=%s", resp.StatusCode, string(respBody))
		return fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(respBody))
	}

	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

func redact(s, secret string) string {
	if secret == "" {
		return s
	}
	return strings.ReplaceAll(s, secret, "***")
}
