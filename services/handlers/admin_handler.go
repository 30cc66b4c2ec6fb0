package handlers

import (
	"github.com/avvalues/trade-hub/dto"
	"github.com/avvalues/trade-hub/shared"
	"github.com/gofiber/fiber/v2"
)

type AdminHandler struct {
	tradeSvc      TradeServiceInterface
	moderationSvc ModerationServiceInterface
}

func NewAdminHandler(tradeSvc TradeServiceInterface, moderationSvc ModerationServiceInterface) *AdminHandler {
	return &AdminHandler{
		tradeSvc:      tradeSvc,
		moderationSvc: moderationSvc,
	}
}

func (h *AdminHandler) ListBannedWords(c *fiber.Ctx) error {
	words, err := h.moderationSvc.ListBannedWords(c.UserContext())
	if err != nil {
		return err
	}

	return shared.ResponseOK(c, dto.BannedWordListResponse{
		Success: true,
		Words:   words,
	})
}

func (h *AdminHandler) AddBannedWord(c *fiber.Ctx) error {
	var req dto.BannedWordRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewBadRequestError(err, "Invalid request body")
	}
	if err := req.Validate(); err != nil {
		return err
	}

	word, err := h.moderationSvc.AddBannedWord(c.UserContext(), req.Word)
	if err != nil {
		return err
	}

	return shared.ResponseOK(c, dto.BannedWordResponse{
		Success: true,
		Word:    word,
	})
}

func (h *AdminHandler) RemoveBannedWord(c *fiber.Ctx) error {
	if err := h.moderationSvc.RemoveBannedWord(c.UserContext(), c.Params("word")); err != nil {
		return err
	}

	return shared.ResponseOK(c, shared.MessageResponse{
		Success: true,
		Message: "Banned word removed.",
	})
}

func (h *AdminHandler) GetStats(c *fiber.Ctx) error {
	stats, err := h.tradeSvc.GetStats(c.UserContext())
	if err != nil {
		return err
	}

	return shared.ResponseOK(c, stats)
}
