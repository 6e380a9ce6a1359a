package meta

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const maxErrorBody = 4096

// Client клиент Graph API для отправки сообщений в Messenger и Instagram
type Client struct {
	graphURL        string
	pageAccessToken string
	igBusinessID    string
	httpClient      *http.Client
	log             Logger
}

// NewClient создает новый экземпляр клиента Graph API
func NewClient(graphURL, pageAccessToken, igBusinessID string, timeout time.Duration, log Logger) *Client {
	return &Client{
		graphURL:        strings.TrimRight(graphURL, "/"),
		pageAccessToken: pageAccessToken,
		igBusinessID:    igBusinessID,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// SendMessenger отправляет сообщение пользователю Messenger
func (c *Client) SendMessenger(ctx context.Context, recipientID, text string) error {
	endpoint := fmt.Sprintf("%s/me/messages", c.graphURL)
	return c.send(ctx, endpoint, &SendRequest{
		Recipient: recipient{ID: recipientID},
		Message:   messageBody{Text: text},
	})
}

// SendInstagram отправляет сообщение пользователю Instagram
func (c *Client) SendInstagram(ctx context.Context, recipientID, text string) error {
	if c.igBusinessID == "" {
		return fmt.Errorf("%w: ig business id is empty", ErrNotConfigured)
	}

	endpoint := fmt.Sprintf("%s/%s/messages", c.graphURL, url.PathEscape(c.igBusinessID))
	return c.send(ctx, endpoint, &SendRequest{
		Recipient:        recipient{ID: recipientID},
		Message:          messageBody{Text: text},
		MessagingProduct: instagramProduct,
	})
}

func (c *Client) send(ctx context.Context, endpoint string, payload *SendRequest) error {
	if c.pageAccessToken == "" {
		return fmt.Errorf("%w: page access token is empty", ErrNotConfigured)
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("%w: failed to marshal request: %v", ErrInternal, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		endpoint+"?access_token="+url.QueryEscape(c.pageAccessToken), bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// Ошибка содержит URL с access_token
		return fmt.Errorf("%w: failed to execute request: %v", ErrInternal, c.redact(err.Error()))
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		c.log.Error("Meta send failed: status=%d, body=%s", resp.StatusCode, string(respBody))
		return fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(respBody))
	}

	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

// Sender адаптер клиента под одну платформу
type Sender struct {
	send func(ctx context.Context, recipientID, text string) error
}

// Send отправляет сообщение
func (s *Sender) Send(ctx context.Context, recipientID, text string) error {
	return s.send(ctx, recipientID, text)
}

// MessengerSender отправитель для Messenger
func (c *Client) MessengerSender() *Sender {
	return &Sender{send: c.SendMessenger}
}

// InstagramSender отправитель для Instagram
func (c *Client) InstagramSender() *Sender {
	return &Sender{send: c.SendInstagram}
}

func (c *Client) redact(s string) string {
	if c.pageAccessToken == "" {
		return s
	}
	s = strings.ReplaceAll(s, url.QueryEscape(c.pageAccessToken), "***")
	return strings.ReplaceAll(s, c.pageAccessToken, "***")
}
