package handlers

import (
	"fmt"

	"github.com/avvalues/trade-hub/dto"
	"github.com/avvalues/trade-hub/shared"
	"github.com/gofiber/fiber/v2"
)

type TradeHandler struct {
	tradeSvc TradeServiceInterface
}

func NewTradeHandler(tradeSvc TradeServiceInterface) *TradeHandler {
	return &TradeHandler{tradeSvc: tradeSvc}
}

// ListTrades serves GET /api/trades?search=
func (h *TradeHandler) ListTrades(c *fiber.Ctx) error {
	trades, err := h.tradeSvc.ListTrades(c.UserContext(), c.Query("search"))
	if err != nil {
		return err
	}

	return shared.ResponseOK(c, dto.ListTradesResponse{
		Success: true,
		Results: trades,
	})
}

// SubmitTrade serves POST /api/trades
func (h *TradeHandler) SubmitTrade(c *fiber.Ctx) error {
	var req dto.SubmitTradeRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewBadRequestError(err, "Invalid request body")
	}

	client := dto.ClientInfo{
		IP:        shared.ClientIP(c),
		UserAgent: shared.UserAgent(c),
	}

	trade, err := h.tradeSvc.SubmitTrade(c.UserContext(), req, client)
	if err != nil {
		return err
	}

	return shared.ResponseOK(c, dto.SubmitTradeResponse{
		Success: true,
		Trade:   trade,
	})
}

// ClearTrades serves DELETE /api/trades (admin)
func (h *TradeHandler) ClearTrades(c *fiber.Ctx) error {
	deleted, err := h.tradeSvc.ClearTrades(c.UserContext())
	if err != nil {
		return err
	}

	return shared.ResponseOK(c, dto.ClearTradesResponse{
		Success: true,
		Message: fmt.Sprintf("Deleted %d trades.", deleted),
		Deleted: deleted,
	})
}

// EvaluateTrade serves POST /api/trades/evaluate
func (h *TradeHandler) EvaluateTrade(c *fiber.Ctx) error {
	var req dto.EvaluateTradeRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewBadRequestError(err, "Invalid request body")
	}

	evaluation, err := h.tradeSvc.EvaluateTrade(req)
	if err != nil {
		return err
	}

	return shared.ResponseOK(c, dto.EvaluateTradeResponse{
		Success:    true,
		Evaluation: *evaluation,
	})
}
