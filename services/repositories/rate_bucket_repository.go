package repositories

import (
	"context"
	"time"

	"github.com/avvalues/trade-hub/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type RateBucketRepository struct {
	BaseRepository
}

func NewRateBucketRepository(db *gorm.DB) *RateBucketRepository {
	return &RateBucketRepository{
		BaseRepository: NewBaseRepository(db),
	}
}

// Increment adds one hit to the bucket, creating it on first use, and returns the new count.
// The upsert keeps concurrent writers from losing updates.
func (ds *RateBucketRepository) Increment(ctx context.Context, key model.BucketKey, now time.Time) (int64, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return 0, err
	}

	bucket := model.RateBucket{
		ID:          id.String(),
		Fingerprint: key.Fingerprint,
		Granularity: string(key.Granularity),
		BucketIndex: key.Index,
		Hits:        1,
		CreatedAt:   now,
	}

	db := ds.db.WithContext(ctx)
	err = db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "fingerprint"}, {Name: "granularity"}, {Name: "bucket_index"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"hits": gorm.Expr("rate_buckets.hits + 1"),
		}),
	}).Create(&bucket).Error
	if err != nil {
		return 0, err
	}

	var hits int64
	err = db.Model(&model.RateBucket{}).
		Select("hits").
		Where("fingerprint = ? AND granularity = ? AND bucket_index = ?", key.Fingerprint, string(key.Granularity), key.Index).
		Scan(&hits).Error
	if err != nil {
		return 0, err
	}
	return hits, nil
}

func (ds *RateBucketRepository) DeleteBucketsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result := ds.db.WithContext(ctx).Where("created_at < ?", cutoff).Delete(&model.RateBucket{})
	return result.RowsAffected, result.Error
}

func (ds *RateBucketRepository) CountBuckets(ctx context.Context) (int64, error) {
	var count int64
	err := ds.db.WithContext(ctx).Model(&model.RateBucket{}).Count(&count).Error
	return count, err
}
