package meta

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentBot/pkg/logger"
)

type captured struct {
	path  string
	token string
	body  map[string]interface{}
}

func newGraphServer(t *testing.T, status int, got *captured) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		raw, err := io.ReadAll(r.Body)
		assert.NoError(t, err)
		got.path = r.URL.Path
		got.token = r.URL.Query().Get("access_token")
		assert.NoError(t, json.Unmarshal(raw, &got.body))

		w.WriteHeader(status)
		_, _ = w.Write([]byte(`{"error":{"message":"bad"}}`))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_SendMessenger(t *testing.T) {
	var got captured
	srv := newGraphServer(t, http.StatusOK, &got)
	client := NewClient(srv.URL+"/", "page-token", "ig-biz", time.Second, logger.NewNop())

	require.NoError(t, client.MessengerSender().Send(context.Background(), "psid-1", "hello"))

	assert.Equal(t, "/me/messages", got.path)
	assert.Equal(t, "page-token", got.token)
	assert.Equal(t, map[string]interface{}{
		"recipient": map[string]interface{}{"id": "psid-1"},
		"message":   map[string]interface{}{"text": "hello"},
	}, got.body)
}

func TestClient_SendInstagram(t *testing.T) {
	var got captured
	srv := newGraphServer(t, http.StatusOK, &got)
	client := NewClient(srv.URL, "page-token", "ig-biz", time.Second, logger.NewNop())

	require.NoError(t, client.InstagramSender().Send(context.Background(), "ig-user", "hi"))

	assert.Equal(t, "/ig-biz/messages", got.path)
	assert.Equal(t, "instagram", got.body["messaging_product"])
	assert.Equal(t, map[string]interface{}{"id": "ig-user"}, got.body["recipient"])
}

func TestClient_ErrorStatus(t *testing.T) {
	var got captured
	srv := newGraphServer(t, http.StatusBadRequest, &got)
	client := NewClient(srv.URL, "page-token", "ig-biz", time.Second, logger.NewNop())

	err := client.SendMessenger(context.Background(), "psid-1", "hello")

	assert.ErrorIs(t, err, ErrInvalidResponse)
	assert.Contains(t, err.Error(), "400")
}

func TestClient_NotConfigured(t *testing.T) {
	client := NewClient("http://127.0.0.1:1", "", "", time.Second, logger.NewNop())

	assert.ErrorIs(t, client.SendMessenger(context.Background(), "p", "t"), ErrNotConfigured)
	assert.ErrorIs(t, client.SendInstagram(context.Background(), "p", "t"), ErrNotConfigured)
}

func TestClient_TransportErrorHidesToken(t *testing.T) {
	client := NewClient("http://127.0.0.1:1", "PAGE-SECRET/token+1", "ig-biz", time.Second, logger.NewNop())

	for _, send := range []func(context.Context, string, string) error{client.SendMessenger, client.SendInstagram} {
		err := send(context.Background(), "psid-1", "hello")
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInternal)
		assert.NotContains(t, err.Error(), "PAGE-SECRET")
		assert.Contains(t, err.Error(), "access_token=***")
	}
}
