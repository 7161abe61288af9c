package handlers

import (
	"errors"

	"github.com/megh2001/pantry-helper/domain"
	"github.com/megh2001/pantry-helper/internal/api/presenters"
	"github.com/megh2001/pantry-helper/pkg/recommend"

	"github.com/gofiber/fiber/v2"
)

type (
	RecommendHandler interface {
		GetRecommendations(c *fiber.Ctx) error
	}

	recommendHandler struct {
		recommendService recommend.RecommendService
	}
)

func NewRecommendHandler(recommendService recommend.RecommendService) RecommendHandler {
	return &recommendHandler{
		recommendService: recommendService,
	}
}

func (h *recommendHandler) GetRecommendations(c *fiber.Ctx) error {
	userPrompt := c.Query("user_prompt")

	res, err := h.recommendService.Recommend(c.Context(), userPrompt)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrEmptyPantry):
			return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetRecommendations, err)
		case errors.Is(err, domain.ErrNoFeasibleRecipes):
			return presenters.ErrorResponse(c, fiber.StatusNotFound, domain.MessageFailedGetRecommendations, err)
		case errors.Is(err, domain.ErrAIServiceUnavailable):
			return presenters.ErrorResponse(c, fiber.StatusServiceUnavailable, domain.MessageFailedGetRecommendations, err)
		}
		return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedGetRecommendations, err)
	}

	if res.Chat != nil && res.Chat.IsError {
		return presenters.ErrorResponse(c, fiber.StatusBadGateway, domain.MessageFailedChatResponse, errors.New(res.Chat.Message))
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetRecommendations)
}
