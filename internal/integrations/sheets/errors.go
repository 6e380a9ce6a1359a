package sheets

import "errors"

var (
	// ErrInvalidCredentials возвращается при некорректных учетных данных сервисного аккаунта
	ErrInvalidCredentials = errors.New("sheets: invalid service account credentials")

	// ErrInternal возвращается при ошибках Sheets API
	ErrInternal = errors.New("sheets: internal error")
)
