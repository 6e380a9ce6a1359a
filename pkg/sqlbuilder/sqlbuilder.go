package sqlbuilder

import (
	"fmt"

	"github.com/Masterminds/squirrel"
)

// Dialect диалект SQL, определяющий формат плейсхолдеров
type Dialect string

const (
	Postgres Dialect = "postgres"
	SQLite   Dialect = "sqlite"
)

// ParseDialect приводит имя драйвера к диалекту
func ParseDialect(driver string) (Dialect, error) {
	switch driver {
	case "postgres":
		return Postgres, nil
	case "sqlite":
		return SQLite, nil
	default:
		return "", fmt.Errorf("sqlbuilder: unsupported driver %q", driver)
	}
}

// New возвращает squirrel-билдер с плейсхолдерами диалекта ($1 или ?)
func New(dialect Dialect) squirrel.StatementBuilderType {
	if dialect == SQLite {
		return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)
	}
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}
