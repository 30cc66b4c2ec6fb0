package services

import (
	"net/http"
	"strings"

	"github.com/avvalues/trade-hub/shared"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func sqliteDialector() gorm.Dialector {
	return sqlite.Open(sqliteDSN())
}

func sqliteDSN() string {
	path := shared.GetEnvString("DB_DATABASE", "trade-hub.db")
	if strings.Contains(path, "?") {
		return path
	}
	return path + "?_busy_timeout=5000&_journal_mode=WAL"
}

func classifySqliteError(err error) (int, string) {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "UNIQUE constraint failed"):
		return http.StatusConflict, "UNIQUE_CONSTRAINT"
	case strings.Contains(msg, "no such table"):
		return http.StatusInternalServerError, "SCHEMA_ERROR"
	case strings.Contains(msg, "database is locked"):
		return http.StatusServiceUnavailable, "DATABASE_LOCKED"
	}
	return 0, ""
}
