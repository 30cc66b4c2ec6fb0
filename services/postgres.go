package services

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/avvalues/trade-hub/shared"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func postgresDialector() gorm.Dialector {
	return postgres.Open(postgresDSN())
}

// postgresDSN prefers DATABASE_URL and falls back to the individual DB_* variables.
func postgresDSN() string {
	if url := shared.GetEnvString("DATABASE_URL", ""); url != "" {
		return url
	}

	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s",
		shared.GetEnvString("DB_HOST", "localhost"),
		shared.GetEnvString("DB_USER", "postgres"),
		shared.GetEnvString("DB_PASSWORD", "postgres"),
		shared.GetEnvString("DB_NAME", "trade_hub"),
		shared.GetEnvString("DB_PORT", "5432"),
		shared.GetEnvString("DB_SSLMODE", "disable"),
		shared.GetEnvString("DB_TIMEZONE", "UTC"),
	)
}

func classifyPostgresError(err error) (int, string) {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "duplicate key value violates unique constraint"):
		return http.StatusConflict, "UNIQUE_CONSTRAINT"
	case strings.Contains(msg, "relation") && strings.Contains(msg, "does not exist"):
		return http.StatusInternalServerError, "SCHEMA_ERROR"
	case strings.Contains(msg, "connection refused"):
		return http.StatusServiceUnavailable, "DATABASE_CONNECTION_ERROR"
	}
	return 0, ""
}
