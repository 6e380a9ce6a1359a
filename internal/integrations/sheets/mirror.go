package sheets

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"sync"

	"google.golang.org/api/option"
	gsheets "google.golang.org/api/sheets/v4"
)

const (
	headerRange = "1:1"
	appendRange = "A1"

	// TimestampColumn первая колонка зеркала
	TimestampColumn = "timestamp"
)

// Config параметры зеркала
type Config struct {
	SheetID                  string
	ServiceAccountFile       string
	ServiceAccountJSONBase64 string
	Columns                  []string // обязательные слоты в порядке колонок
}

// Mirror дописывает бронирования строками в Google-таблицу
type Mirror struct {
	values  *gsheets.SpreadsheetsValuesService
	sheetID string
	header  []string

	mu            sync.Mutex
	headerEnsured bool
}

// NewMirror создает зеркало; opts дополняют или заменяют учетные данные
func NewMirror(ctx context.Context, cfg Config, opts ...option.ClientOption) (*Mirror, error) {
	clientOpts := []option.ClientOption{option.WithScopes(gsheets.SpreadsheetsScope)}

	switch {
	case cfg.ServiceAccountJSONBase64 != "":
		raw, err := base64.StdEncoding.DecodeString(strings.TrimSpace(cfg.ServiceAccountJSONBase64))
		if err != nil {
			return nil, fmt.Errorf("%w: decode base64: %v", ErrInvalidCredentials, err)
		}
		clientOpts = append(clientOpts, option.WithCredentialsJSON(raw))
	case cfg.ServiceAccountFile != "":
		clientOpts = append(clientOpts, option.WithCredentialsFile(cfg.ServiceAccountFile))
	}
	clientOpts = append(clientOpts, opts...)

	srv, err := gsheets.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("%w: create service: %v", ErrInvalidCredentials, err)
	}

	header := make([]string, 0, len(cfg.Columns)+1)
	header = append(header, TimestampColumn)
	header = append(header, cfg.Columns...)

	return &Mirror{
		values:  srv.Spreadsheets.Values,
		sheetID: cfg.SheetID,
		header:  header,
	}, nil
}

// EnsureHeader записывает заголовок в первую строку, если он отличается
// После успешной проверки повторные вызовы не обращаются к API
func (m *Mirror) EnsureHeader(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.headerEnsured {
		return nil
	}

	current, err := m.values.Get(m.sheetID, headerRange).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("%w: EnsureHeader - read header: %v", ErrInternal, err)
	}

	if !sameRow(current.Values, m.header) {
		_, err := m.values.Update(m.sheetID, headerRange, &gsheets.ValueRange{
			Values: [][]interface{}{toRow(m.header)},
		}).ValueInputOption("RAW").Context(ctx).Do()
		if err != nil {
			return fmt.Errorf("%w: EnsureHeader - write header: %v", ErrInternal, err)
		}
	}

	m.headerEnsured = true
	return nil
}

// Append дописывает строку в конец таблицы
func (m *Mirror) Append(ctx context.Context, row []string) error {
	_, err := m.values.Append(m.sheetID, appendRange, &gsheets.ValueRange{
		Values: [][]interface{}{toRow(row)},
	}).ValueInputOption("USER_ENTERED").InsertDataOption("INSERT_ROWS").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("%w: Append - append row: %v", ErrInternal, err)
	}
	return nil
}

func toRow(values []string) []interface{} {
	row := make([]interface{}, 0, len(values))
	for _, v := range values {
		row = append(row, v)
	}
	return row
}

func sameRow(values [][]interface{}, want []string) bool {
	if len(values) == 0 || len(values[0]) != len(want) {
		return false
	}
	for i, cell := range values[0] {
		if fmt.Sprint(cell) != want[i] {
			return false
		}
	}
	return true
}
