package repositories

import (
	"context"
	"strings"
	"time"

	"github.com/avvalues/trade-hub/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type BannedWordRepository struct {
	BaseRepository
}

func NewBannedWordRepository(db *gorm.DB) *BannedWordRepository {
	return &BannedWordRepository{
		BaseRepository: NewBaseRepository(db),
	}
}

// NormalizeWord is the stored form of a banned word.
func NormalizeWord(word string) string {
	return strings.ToLower(strings.TrimSpace(word))
}

func (ds *BannedWordRepository) List(ctx context.Context) ([]model.BannedWord, error) {
	var words []model.BannedWord
	if err := ds.db.WithContext(ctx).Order("word ASC").Find(&words).Error; err != nil {
		return nil, err
	}
	return words, nil
}

// ListWords returns just the words, in insertion order.
func (ds *BannedWordRepository) ListWords(ctx context.Context) ([]string, error) {
	var words []string
	err := ds.db.WithContext(ctx).
		Model(&model.BannedWord{}).
		Order("created_at ASC").
		Pluck("word", &words).Error
	if err != nil {
		return nil, err
	}
	return words, nil
}

// Add stores word if it is not already present and returns the stored row either way.
func (ds *BannedWordRepository) Add(ctx context.Context, word string) (*model.BannedWord, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return nil, err
	}

	entry := model.BannedWord{
		ID:        id.String(),
		Word:      NormalizeWord(word),
		CreatedAt: time.Now().UTC(),
	}

	db := ds.db.WithContext(ctx)
	err = db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "word"}},
		DoNothing: true,
	}).Create(&entry).Error
	if err != nil {
		return nil, err
	}

	var stored model.BannedWord
	if err := db.Where("word = ?", entry.Word).Take(&stored).Error; err != nil {
		return nil, err
	}
	return &stored, nil
}

// Remove deletes word and reports whether it existed.
func (ds *BannedWordRepository) Remove(ctx context.Context, word string) (bool, error) {
	result := ds.db.WithContext(ctx).Where("word = ?", NormalizeWord(word)).Delete(&model.BannedWord{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (ds *BannedWordRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := ds.db.WithContext(ctx).Model(&model.BannedWord{}).Count(&count).Error
	return count, err
}
