package model

import (
	"fmt"
	"time"
)

type Granularity string

const (
	GranularityMinute Granularity = "minute"
	GranularityHour   Granularity = "hour"
)

// Length is the span of one bucket of this granularity.
func (g Granularity) Length() time.Duration {
	switch g {
	case GranularityMinute:
		return time.Minute
	case GranularityHour:
		return time.Hour
	}
	return 0
}

// BucketKey identifies one fixed time-slice counter for one fingerprint.
type BucketKey struct {
	Fingerprint string
	Granularity Granularity
	Index       int64
}

// NewBucketKey computes the bucket index as floor(now_ms / granularity_ms).
func NewBucketKey(fingerprint string, granularity Granularity, now time.Time) BucketKey {
	return BucketKey{
		Fingerprint: fingerprint,
		Granularity: granularity,
		Index:       now.UnixMilli() / granularity.Length().Milliseconds(),
	}
}

// End is the instant the bucket stops being relevant.
func (k BucketKey) End() time.Time {
	length := k.Granularity.Length().Milliseconds()
	return time.UnixMilli((k.Index + 1) * length).UTC()
}

func (k BucketKey) String() string {
	return fmt.Sprintf("%s:%s:%d", k.Fingerprint, k.Granularity, k.Index)
}

// RateBucket is the persisted counter behind a BucketKey. Hits only ever grows;
// stale buckets are reclaimed by the expiry sweep, not by request logic.
type RateBucket struct {
	ID          string    `json:"id" gorm:"primaryKey;type:text;not null"`
	Fingerprint string    `json:"fingerprint" gorm:"not null;type:text;uniqueIndex:idx_rate_bucket_key,priority:1"`
	Granularity string    `json:"granularity" gorm:"not null;size:10;uniqueIndex:idx_rate_bucket_key,priority:2"`
	BucketIndex int64     `json:"bucket_index" gorm:"not null;uniqueIndex:idx_rate_bucket_key,priority:3"`
	Hits        int64     `json:"hits" gorm:"not null;default:0"`
	CreatedAt   time.Time `json:"created_at" gorm:"not null;index"`
}
