package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRespondError(t *testing.T) {
	rec := httptest.NewRecorder()

	RespondNotFound(rec, "бронирование не найдено")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, ErrorResponse{Code: 404, Message: "бронирование не найдено"}, body)
}

func TestRespondStatus(t *testing.T) {
	rec := httptest.NewRecorder()

	RespondStatus(rec, http.StatusOK, StatusIgnored)

	assert.JSONEq(t, `{"status":"ignored"}`, rec.Body.String())
}

func TestReadBody_Limit(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(strings.Repeat("a", MaxBodyBytes+10)))

	body, err := ReadBody(req)
	require.NoError(t, err)
	assert.Len(t, body, MaxBodyBytes)
}
