package repositories

import (
	"github.com/avvalues/trade-hub/model"
	"gorm.io/gorm"
)

// BaseRepository provides common database functionality
type BaseRepository struct {
	db *gorm.DB
}

func NewBaseRepository(db *gorm.DB) BaseRepository {
	return BaseRepository{db: db}
}

// DB returns the underlying database connection
func (r *BaseRepository) DB() *gorm.DB {
	return r.db
}

// Models lists every table owned by the service, in migration order.
func Models() []interface{} {
	return []interface{}{
		&model.Trade{},
		&model.RateBucket{},
		&model.BannedWord{},
	}
}

// Migrate provisions tables and indexes. It is idempotent and meant to run once at startup.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}
