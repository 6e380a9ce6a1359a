package telegram

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdate_Event(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    *Event
		wantErr error
	}{
		{
			name: "message",
			body: `{"update_id": 1, "message": {"message_id": 5, "chat": {"id": 123456789}, "text": "Book me in"}}`,
			want: &Event{ChatID: "123456789", Text: "Book me in"},
		},
		{
			name: "edited message",
			body: `{"update_id": 2, "edited_message": {"chat": {"id": -100200}, "text": "fixed typo"}}`,
			want: &Event{ChatID: "-100200", Text: "fixed typo"},
		},
		{
			name:    "no text",
			body:    `{"update_id": 3, "message": {"chat": {"id": 1}, "sticker": {}}}`,
			wantErr: ErrNoMessage,
		},
		{
			name:    "no chat id",
			body:    `{"update_id": 4, "message": {"chat": {}, "text": "hi"}}`,
			wantErr: ErrNoMessage,
		},
		{
			name:    "callback query",
			body:    `{"update_id": 5, "callback_query": {"id": "x"}}`,
			wantErr: ErrNoMessage,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			update, err := ParseUpdate([]byte(tt.body))
			require.NoError(t, err)

			event, err := update.Event()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, event)
		})
	}
}

func TestParseUpdate_InvalidJSON(t *testing.T) {
	_, err := ParseUpdate([]byte(`{"update_id":`))
	assert.Error(t, err)
}
