package gemini

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/m04kA/SMC-AppointmentBot/internal/domain"
)

const (
	DefaultModel = "gemini-1.5-flash"

	temperature = 0.1
	jsonMIME    = "application/json"
)

// Client провайдер NLU поверх Google Generative AI
type Client struct {
	client    *genai.Client
	modelName string
}

// NewClient создает клиента Gemini; opts дополняют или заменяют параметры подключения
func NewClient(ctx context.Context, apiKey, model string, opts ...option.ClientOption) (*Client, error) {
	if model == "" {
		model = DefaultModel
	}

	clientOpts := append([]option.ClientOption{option.WithAPIKey(apiKey)}, opts...)
	client, err := genai.NewClient(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("%w: create client: %v", ErrInternal, err)
	}

	return &Client{client: client, modelName: model}, nil
}

// Close закрывает соединение с API
func (c *Client) Close() error {
	return c.client.Close()
}

// Parse возвращает JSON-документ, сгенерированный моделью
func (c *Client) Parse(ctx context.Context, req domain.NLURequest) ([]byte, error) {
	user, err := req.UserContent()
	if err != nil {
		return nil, fmt.Errorf("%w: encode user content: %v", ErrInternal, err)
	}

	// Модель легковесна, инструкция задается на каждый запрос
	model := c.client.GenerativeModel(c.modelName)
	model.SetTemperature(temperature)
	model.ResponseMIMEType = jsonMIME
	if req.SystemPrompt != "" {
		model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(req.SystemPrompt)}}
	}

	resp, err := model.GenerateContent(ctx, genai.Text(user))
	if err != nil {
		return nil, fmt.Errorf("%w: generate content: %w", ErrInternal, err)
	}

	text, err := extractText(resp)
	if err != nil {
		return nil, err
	}
	return []byte(text), nil
}

// extractText склеивает текстовые части первого кандидата
func extractText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", ErrEmptyResponse
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}

	if strings.TrimSpace(sb.String()) == "" {
		return "", ErrEmptyResponse
	}
	return sb.String(), nil
}
