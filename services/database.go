package services

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/alphabatem/common/context"
	"github.com/avvalues/trade-hub/services/repositories"
	"github.com/avvalues/trade-hub/shared"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	DATABASE_SVC = "database_svc"

	DriverPostgres = "postgres"
	DriverSqlite   = "sqlite"
)

// DatabaseService owns the single gorm handle shared by every repository.
type DatabaseService struct {
	context.DefaultService
	db *gorm.DB

	driver    string
	dialector gorm.Dialector
}

func (ds DatabaseService) Id() string {
	return DATABASE_SVC
}

func (ds DatabaseService) Db() *gorm.DB {
	return ds.db
}

func (ds *DatabaseService) Configure(ctx *context.Context) error {
	ds.driver = shared.GetEnvString("DB_DRIVER", DriverPostgres)

	dialector, err := Dialector(ds.driver)
	if err != nil {
		return err
	}
	ds.dialector = dialector

	return ds.DefaultService.Configure(ctx)
}

// Dialector builds the gorm dialector for driver from the environment.
func Dialector(driver string) (gorm.Dialector, error) {
	switch driver {
	case DriverPostgres:
		return postgresDialector(), nil
	case DriverSqlite:
		return sqliteDialector(), nil
	}
	return nil, fmt.Errorf("unsupported DB_DRIVER %q", driver)
}

func (ds *DatabaseService) Start() (err error) {
	// Retry connection with exponential backoff
	maxRetries := 10
	retryDelay := time.Second

	for attempt := 1; attempt <= maxRetries; attempt++ {
		log.WithFields(log.Fields{"driver": ds.driver, "attempt": attempt}).Info("Connecting to database")

		ds.db, err = gorm.Open(ds.dialector, &gorm.Config{
			Logger: logger.Default.LogMode(logger.Error),
		})
		if err == nil {
			sqlDB, dbErr := ds.db.DB()
			if dbErr == nil {
				if err = sqlDB.Ping(); err == nil {
					break
				}
			} else {
				err = dbErr
			}
		}

		if attempt == maxRetries {
			log.WithError(err).Errorf("Failed to connect to database after %d attempts", maxRetries)
			return err
		}

		log.WithError(err).Warnf("Database connection failed, retrying in %v", retryDelay)
		time.Sleep(retryDelay)

		retryDelay *= 2
		if retryDelay > 10*time.Second {
			retryDelay = 10 * time.Second
		}
	}

	if ds.driver == DriverSqlite {
		// SQLite allows a single writer.
		if sqlDB, err := ds.db.DB(); err == nil {
			sqlDB.SetMaxOpenConns(1)
		}
	}

	if err := repositories.Migrate(ds.db); err != nil {
		log.WithError(err).Error("Failed to migrate database")
		return err
	}

	log.Info("Database connected and migrated successfully")
	return nil
}

func (ds *DatabaseService) Shutdown() {
	if ds.db == nil {
		return
	}
	sqlDB, err := ds.db.DB()
	if err == nil {
		sqlDB.Close()
	}
}

func (ds *DatabaseService) HandleError(err error) error {
	return handleStoreError(err)
}

// handleStoreError classifies and logs a store failure and returns it wrapped with its type.
func handleStoreError(err error) error {
	if err == nil {
		return nil
	}

	var statusCode int
	var errorType string

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		statusCode = http.StatusNotFound // 404
		errorType = "NOT_FOUND"
	case errors.Is(err, gorm.ErrDuplicatedKey):
		statusCode = http.StatusConflict // 409
		errorType = "CONFLICT"
	case errors.Is(err, gorm.ErrInvalidTransaction):
		statusCode = http.StatusInternalServerError // 500
		errorType = "TRANSACTION_ERROR"
	default:
		statusCode, errorType = classifyPostgresError(err)
		if errorType == "" {
			statusCode, errorType = classifySqliteError(err)
		}
		if errorType == "" {
			if strings.Contains(err.Error(), "context deadline exceeded") {
				statusCode = http.StatusGatewayTimeout // 504
				errorType = "TIMEOUT"
			} else {
				statusCode = http.StatusInternalServerError // 500
				errorType = "INTERNAL_ERROR"
			}
		}
	}

	logEntry := log.WithFields(log.Fields{
		"status_code": statusCode,
		"error_type":  errorType,
		"error":       err.Error(),
	})

	if statusCode >= 500 {
		logEntry.Error("Database error occurred")
	} else {
		logEntry.Warn("Database operation failed")
	}

	return fmt.Errorf("%s: %w", errorType, err)
}
