package handlers

import (
	"context"

	"github.com/avvalues/trade-hub/dto"
	"github.com/avvalues/trade-hub/model"
)

type TradeServiceInterface interface {
	SubmitTrade(ctx context.Context, req dto.SubmitTradeRequest, client dto.ClientInfo) (*model.Trade, error)
	ListTrades(ctx context.Context, search string) ([]model.Trade, error)
	ClearTrades(ctx context.Context) (int64, error)
	EvaluateTrade(req dto.EvaluateTradeRequest) (*dto.TradeEvaluation, error)
	GetStats(ctx context.Context) (*dto.StatsResponse, error)
}

type ModerationServiceInterface interface {
	ListBannedWords(ctx context.Context) ([]model.BannedWord, error)
	AddBannedWord(ctx context.Context, word string) (*model.BannedWord, error)
	RemoveBannedWord(ctx context.Context, word string) error
}
