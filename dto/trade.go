package dto

import (
	"github.com/avvalues/trade-hub/model"
	"github.com/avvalues/trade-hub/shared"
)

// SubmitTradeRequest is the raw trade post as sent by the board.
type SubmitTradeRequest struct {
	Title       *string           `json:"title" validate:"omitnil,trimmed_min=3"`
	Description string            `json:"description"`
	Player1     []model.OfferItem `json:"player1" validate:"required,dive"`
	Player2     []model.OfferItem `json:"player2" validate:"required,dive"`
	P1Total     *float64          `json:"p1Total" validate:"omitnil,gte=0"`
	P2Total     *float64          `json:"p2Total" validate:"omitnil,gte=0"`
	Verdict     *string           `json:"verdict"`
	Discord     string            `json:"discord"`
	Roblox      string            `json:"roblox"`
}

func (r *SubmitTradeRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		return shared.NewBadRequestError(err, ValidationMessage(err))
	}
	if len(r.Player1) == 0 && len(r.Player2) == 0 {
		return shared.NewBadRequestError(nil, "Please add units to your trade.")
	}
	return nil
}

// ClientInfo carries the caller identity extracted by the transport layer.
type ClientInfo struct {
	IP        string
	UserAgent string
}

type SubmitTradeResponse struct {
	Success bool         `json:"success"`
	Trade   *model.Trade `json:"trade"`
}

type ListTradesResponse struct {
	Success bool          `json:"success"`
	Results []model.Trade `json:"results"`
}

type ClearTradesResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Deleted int64  `json:"deleted"`
}

type EvaluateTradeRequest struct {
	Player1 []model.OfferItem `json:"player1" validate:"dive"`
	Player2 []model.OfferItem `json:"player2" validate:"dive"`
}

func (r *EvaluateTradeRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		return shared.NewBadRequestError(err, ValidationMessage(err))
	}
	return nil
}

// TradeEvaluation is the calculator view of a pair of offer sides.
type TradeEvaluation struct {
	Title      string  `json:"title"`
	P1Total    float64 `json:"p1Total"`
	P2Total    float64 `json:"p2Total"`
	Difference float64 `json:"difference"`
	Verdict    string  `json:"verdict"`
}

type EvaluateTradeResponse struct {
	Success    bool            `json:"success"`
	Evaluation TradeEvaluation `json:"evaluation"`
}
