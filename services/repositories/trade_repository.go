package repositories

import (
	"context"
	"strings"
	"time"

	"github.com/avvalues/trade-hub/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// listColumns is the public projection of a trade; abuse fields stay server side.
var listColumns = []string{
	"id", "title", "description", "player1", "player2",
	"p1_total", "p2_total", "verdict", "discord", "roblox", "created_at",
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

type TradeRepository struct {
	BaseRepository
}

func NewTradeRepository(db *gorm.DB) *TradeRepository {
	return &TradeRepository{
		BaseRepository: NewBaseRepository(db),
	}
}

func (ds *TradeRepository) CreateTrade(ctx context.Context, trade *model.Trade) (*model.Trade, error) {
	if trade.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return nil, err
		}
		trade.ID = id.String()
	}
	if err := ds.db.WithContext(ctx).Create(trade).Error; err != nil {
		return nil, err
	}
	return trade, nil
}

// ListTrades returns live trades newest first. search matches title or description
// as a case-insensitive substring.
func (ds *TradeRepository) ListTrades(ctx context.Context, search string, since time.Time, limit int) ([]model.Trade, error) {
	query := ds.db.WithContext(ctx).
		Model(&model.Trade{}).
		Select(listColumns).
		Where("created_at >= ?", since)

	if search = strings.TrimSpace(search); search != "" {
		pattern := "%" + likeEscaper.Replace(strings.ToLower(search)) + "%"
		query = query.Where(`(LOWER(title) LIKE ? ESCAPE '\' OR LOWER(description) LIKE ? ESCAPE '\')`, pattern, pattern)
	}

	var trades []model.Trade
	if err := query.Order("created_at DESC").Limit(limit).Find(&trades).Error; err != nil {
		return nil, err
	}
	return trades, nil
}

// FindByFingerprintSince returns the fingerprint's trades created at or after since, oldest first.
func (ds *TradeRepository) FindByFingerprintSince(ctx context.Context, fingerprint string, since time.Time) ([]model.Trade, error) {
	var trades []model.Trade
	err := ds.db.WithContext(ctx).
		Where("fingerprint = ? AND created_at >= ?", fingerprint, since).
		Order("created_at ASC").
		Find(&trades).Error
	if err != nil {
		return nil, err
	}
	return trades, nil
}

func (ds *TradeRepository) ExistsDuplicate(ctx context.Context, fingerprint, title, description string, since time.Time) (bool, error) {
	var ids []string
	err := ds.db.WithContext(ctx).
		Model(&model.Trade{}).
		Where("fingerprint = ? AND title = ? AND description = ? AND created_at >= ?", fingerprint, title, description, since).
		Limit(1).
		Pluck("id", &ids).Error
	if err != nil {
		return false, err
	}
	return len(ids) > 0, nil
}

func (ds *TradeRepository) DeleteAllTrades(ctx context.Context) (int64, error) {
	result := ds.db.WithContext(ctx).
		Session(&gorm.Session{AllowGlobalUpdate: true}).
		Delete(&model.Trade{})
	return result.RowsAffected, result.Error
}

func (ds *TradeRepository) DeleteTradesBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result := ds.db.WithContext(ctx).Where("created_at < ?", cutoff).Delete(&model.Trade{})
	return result.RowsAffected, result.Error
}

func (ds *TradeRepository) CountTrades(ctx context.Context, since time.Time) (int64, error) {
	var count int64
	err := ds.db.WithContext(ctx).Model(&model.Trade{}).Where("created_at >= ?", since).Count(&count).Error
	return count, err
}
