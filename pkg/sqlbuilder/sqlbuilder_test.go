package sqlbuilder

import (
	"testing"

	"github.com/Masterminds/squirrel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDialect(t *testing.T) {
	tests := []struct {
		driver  string
		want    Dialect
		wantErr bool
	}{
		{driver: "postgres", want: Postgres},
		{driver: "sqlite", want: SQLite},
		{driver: "pq", wantErr: true},
		{driver: "sqlite3", wantErr: true},
		{driver: "mysql", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.driver, func(t *testing.T) {
			got, err := ParseDialect(tt.driver)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNew_Placeholders(t *testing.T) {
	query, _, err := New(Postgres).Select("id").From("bookings").Where(squirrel.Eq{"id": 1}).ToSql()
	require.NoError(t, err)
	assert.Equal(t, "SELECT id FROM bookings WHERE id = $1", query)

	query, _, err = New(SQLite).Select("id").From("bookings").Where(squirrel.Eq{"id": 1}).ToSql()
	require.NoError(t, err)
	assert.Equal(t, "SELECT id FROM bookings WHERE id = ?", query)
}
