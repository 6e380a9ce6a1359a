package booking

import (
	"github.com/m04kA/SMC-AppointmentBot/pkg/dbmetrics"
)

// Переиспользуем интерфейсы из dbmetrics для работы с БД
type DBExecutor = dbmetrics.DBExecutor
