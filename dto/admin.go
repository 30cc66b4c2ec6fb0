package dto

import (
	"github.com/avvalues/trade-hub/model"
	"github.com/avvalues/trade-hub/shared"
)

type BannedWordRequest struct {
	Word string `json:"word" validate:"required,trimmed_min=1,max=100"`
}

func (r *BannedWordRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		return shared.NewBadRequestError(err, ValidationMessage(err))
	}
	return nil
}

type BannedWordListResponse struct {
	Success bool               `json:"success"`
	Words   []model.BannedWord `json:"words"`
}

type BannedWordResponse struct {
	Success bool              `json:"success"`
	Word    *model.BannedWord `json:"word"`
}

type StatsResponse struct {
	Success     bool  `json:"success"`
	Trades      int64 `json:"trades"`
	RateBuckets int64 `json:"rateBuckets"`
	BannedWords int64 `json:"bannedWords"`
}
