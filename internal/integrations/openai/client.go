package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/m04kA/SMC-AppointmentBot/internal/domain"
)

const (
	DefaultBaseURL = "https://api.openai.com/v1"
	DefaultModel   = "gpt-4o-mini"

	temperature = 0.1

	// maxResponseBody верхняя граница ответа chat completions
	maxResponseBody = 1 << 20
)

// Config параметры OpenAI-совместимого API
type Config struct {
	APIKey  string
	BaseURL string // Ollama, Azure OpenAI и другие совместимые API
	Model   string
	Timeout time.Duration
}

// Client провайдер NLU поверх chat completions в JSON-режиме
type Client struct {
	cfg        Config
	httpClient *http.Client
}

// NewClient создает новый экземпляр клиента
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

// Parse возвращает JSON-документ, сгенерированный моделью
func (c *Client) Parse(ctx context.Context, req domain.NLURequest) ([]byte, error) {
	user, err := req.UserContent()
	if err != nil {
		return nil, fmt.Errorf("%w: encode user content: %v", ErrInternal, err)
	}

	data, err := json.Marshal(oaiRequest{
		Model: c.cfg.Model,
		Messages: []oaiMessage{
			{Role: "system", Content: req.SystemPrompt},
			{Role: "user", Content: user},
		},
		Temperature:    temperature,
		ResponseFormat: &oaiFormat{Type: "json_object"},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: marshal request: %v", ErrInternal, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/chat/completions", bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: create request: %v", ErrInternal, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: http request: %w", ErrInternal, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody+1))
	if err != nil {
		return nil, fmt.Errorf("%w: read response body: %w", ErrInternal, err)
	}
	if len(respBody) > maxResponseBody {
		return nil, fmt.Errorf("%w: response body exceeds %d bytes", ErrInvalidResponse, maxResponseBody)
	}

	var oaiResp oaiResponse
	if err := json.Unmarshal(respBody, &oaiResp); err != nil {
		return nil, fmt.Errorf("%w: decode response (HTTP %d): %v", ErrInvalidResponse, resp.StatusCode, err)
	}

	if oaiResp.Error != nil {
		return nil, fmt.Errorf("%w: API error (%s): %s", ErrInvalidResponse, oaiResp.Error.Type, oaiResp.Error.Message)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, fmt.Errorf("%w: unexpected status code %d", ErrInvalidResponse, resp.StatusCode)
	}

	if len(oaiResp.Choices) == 0 {
		return nil, fmt.Errorf("%w: no choices returned (HTTP %d)", ErrInvalidResponse, resp.StatusCode)
	}

	return []byte(oaiResp.Choices[0].Message.Content), nil
}
