package handlers

import (
	"errors"

	"github.com/megh2001/pantry-helper/domain"
	"github.com/megh2001/pantry-helper/internal/api/presenters"
	"github.com/megh2001/pantry-helper/pkg/pantry"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type (
	PantryHandler interface {
		GetPantry(c *fiber.Ctx) error
		AddIngredient(c *fiber.Ctx) error
		RemoveIngredient(c *fiber.Ctx) error
		ClearPantry(c *fiber.Ctx) error
		ProcessReceipt(c *fiber.Ctx) error
		UseRecipe(c *fiber.Ctx) error

		GetToBuyList(c *fiber.Ctx) error
		AddToBuyItem(c *fiber.Ctx) error
		RemoveToBuyItem(c *fiber.Ctx) error
		ClearToBuyList(c *fiber.Ctx) error
		EmailToBuyList(c *fiber.Ctx) error
	}

	pantryHandler struct {
		pantryService pantry.PantryService
		validator     *validator.Validate
	}
)

func NewPantryHandler(pantryService pantry.PantryService, validator *validator.Validate) PantryHandler {
	return &pantryHandler{
		pantryService: pantryService,
		validator:     validator,
	}
}

func (h *pantryHandler) GetPantry(c *fiber.Ctx) error {
	items, err := h.pantryService.GetPantry(c.Context())
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedGetPantry, err)
	}

	return presenters.SuccessResponse(c, items, fiber.StatusOK, domain.MessageSuccessGetPantry)
}

func (h *pantryHandler) AddIngredient(c *fiber.Ctx) error {
	req := new(domain.AddIngredientRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedAddIngredient, err)
	}

	res, err := h.pantryService.AddIngredient(c.Context(), *req)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedAddIngredient, err)
	}

	// a nil response means the quantity fell under the depletion
	// threshold and the item went to the to-buy list instead
	if res == nil {
		return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessMovedToBuy)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessAddIngredient)
}

func (h *pantryHandler) RemoveIngredient(c *fiber.Ctx) error {
	itemID := c.Params("id")

	if err := h.pantryService.RemoveIngredient(c.Context(), itemID); err != nil {
		if errors.Is(err, domain.ErrIngredientNotFound) {
			return presenters.ErrorResponse(c, fiber.StatusNotFound, domain.MessageFailedRemoveItem, err)
		}
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedRemoveItem, err)
	}

	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessRemoveItem)
}

func (h *pantryHandler) ClearPantry(c *fiber.Ctx) error {
	if c.Query("confirm") != "true" {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedClearPantry, domain.ErrConfirmationRequired)
	}

	if err := h.pantryService.ClearPantry(c.Context()); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedClearPantry, err)
	}

	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessClearPantry)
}

func (h *pantryHandler) ProcessReceipt(c *fiber.Ctx) error {
	file, err := c.FormFile("receipt_image")
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	res, err := h.pantryService.ProcessReceipt(c.Context(), file)
	if err != nil {
		if errors.Is(err, domain.ErrAIServiceUnavailable) {
			return presenters.ErrorResponse(c, fiber.StatusServiceUnavailable, domain.MessageFailedProcessReceipt, err)
		}
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedProcessReceipt, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessProcessReceipt)
}

func (h *pantryHandler) UseRecipe(c *fiber.Ctx) error {
	req := new(domain.UseRecipeRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUseRecipe, err)
	}

	res, err := h.pantryService.UseRecipe(c.Context(), *req)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUseRecipe, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessUseRecipe)
}

func (h *pantryHandler) GetToBuyList(c *fiber.Ctx) error {
	items, err := h.pantryService.GetToBuyList(c.Context())
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedGetToBuy, err)
	}

	return presenters.SuccessResponse(c, items, fiber.StatusOK, domain.MessageSuccessGetToBuy)
}

func (h *pantryHandler) AddToBuyItem(c *fiber.Ctx) error {
	req := new(domain.AddToBuyRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedAddToBuy, err)
	}

	res, err := h.pantryService.AddToBuyItem(c.Context(), *req)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedAddToBuy, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessAddToBuy)
}

func (h *pantryHandler) RemoveToBuyItem(c *fiber.Ctx) error {
	itemID := c.Params("id")

	if err := h.pantryService.RemoveToBuyItem(c.Context(), itemID); err != nil {
		if errors.Is(err, domain.ErrToBuyItemNotFound) {
			return presenters.ErrorResponse(c, fiber.StatusNotFound, domain.MessageFailedRemoveToBuy, err)
		}
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedRemoveToBuy, err)
	}

	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessRemoveToBuy)
}

func (h *pantryHandler) ClearToBuyList(c *fiber.Ctx) error {
	if c.Query("confirm") != "true" {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedClearToBuy, domain.ErrConfirmationRequired)
	}

	if err := h.pantryService.ClearToBuyList(c.Context()); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedClearToBuy, err)
	}

	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessClearToBuy)
}

func (h *pantryHandler) EmailToBuyList(c *fiber.Ctx) error {
	req := new(domain.EmailToBuyRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedEmailToBuy, err)
	}

	if err := h.pantryService.EmailToBuyList(c.Context(), req.Email); err != nil {
		if errors.Is(err, domain.ErrEmptyToBuyList) {
			return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedEmailToBuy, err)
		}
		return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedEmailToBuy, err)
	}

	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessEmailToBuy)
}
