package domain

import (
	"errors"
	"time"
)

var (
	MessageSuccessGetPantry      = "pantry items retrieved successfully"
	MessageSuccessAddIngredient  = "ingredient added successfully"
	MessageSuccessMovedToBuy     = "quantity too low, item moved to to-buy list"
	MessageSuccessRemoveItem     = "item removed from pantry"
	MessageSuccessClearPantry    = "pantry cleared successfully"
	MessageSuccessProcessReceipt = "receipt processed successfully"
	MessageSuccessUseRecipe      = "pantry updated for recipe"
	MessageSuccessGetToBuy       = "to-buy items retrieved successfully"
	MessageSuccessAddToBuy       = "item added to to-buy list"
	MessageSuccessRemoveToBuy    = "item removed from to-buy list"
	MessageSuccessClearToBuy     = "to-buy list cleared successfully"
	MessageSuccessEmailToBuy     = "shopping list sent successfully"

	MessageFailedGetPantry      = "failed to retrieve pantry items"
	MessageFailedAddIngredient  = "failed to add ingredient"
	MessageFailedRemoveItem     = "failed to remove item from pantry"
	MessageFailedClearPantry    = "failed to clear pantry"
	MessageFailedProcessReceipt = "failed to process receipt"
	MessageFailedUseRecipe      = "failed to update pantry for recipe"
	MessageFailedGetToBuy       = "failed to retrieve to-buy items"
	MessageFailedAddToBuy       = "failed to add item to to-buy list"
	MessageFailedRemoveToBuy    = "failed to remove item from to-buy list"
	MessageFailedClearToBuy     = "failed to clear to-buy list"
	MessageFailedEmailToBuy     = "failed to send shopping list"

	ErrIngredientNotFound = errors.New("item not found in pantry")
	ErrToBuyItemNotFound  = errors.New("item not found in to-buy list")
	ErrEmptyToBuyList     = errors.New("to-buy list is empty")
)

// LowQuantityProvenance is recorded on to-buy entries created by the
// sub-threshold promotion rule rather than by recipe usage.
const LowQuantityProvenance = "Low quantity alert"

type (
	AddIngredientRequest struct {
		Name string `json:"name" validate:"required"`
		// zero is a legal quantity: the mutation rule routes it to the
		// to-buy list
		Quantity    float64 `json:"quantity"`
		Unit        string  `json:"unit" validate:"required"`
		Category    string  `json:"category" validate:"required"`
		MinQuantity float64 `json:"min_quantity" validate:"omitempty,min=0"`
	}

	IngredientResponse struct {
		ID          string    `json:"id"`
		Name        string    `json:"name"`
		Quantity    float64   `json:"quantity"`
		Unit        string    `json:"unit"`
		Category    string    `json:"category"`
		MinQuantity float64   `json:"min_quantity"`
		CreatedAt   time.Time `json:"created_at"`
	}

	AddToBuyRequest struct {
		Name     string  `json:"name" validate:"required"`
		Quantity float64 `json:"quantity" validate:"required,gt=0"`
		Unit     string  `json:"unit" validate:"required"`
		Category string  `json:"category" validate:"required"`
		LastUsed string  `json:"last_used" validate:"required"`
	}

	ToBuyResponse struct {
		ID       string  `json:"id"`
		Name     string  `json:"name"`
		Quantity float64 `json:"quantity"`
		Unit     string  `json:"unit"`
		Category string  `json:"category"`
		LastUsed string  `json:"last_used"`
	}

	// ReceiptItem is a candidate item extracted from a receipt image.
	// It is transient: validated for field presence, folded into the
	// pantry through the same upsert rule as a manual add, then dropped.
	ReceiptItem struct {
		Name     string  `json:"name"`
		Quantity float64 `json:"quantity"`
		Unit     string  `json:"unit"`
		Category string  `json:"category"`
	}

	ProcessReceiptResponse struct {
		ItemsAdded int                  `json:"items_added"`
		Items      []IngredientResponse `json:"items"`
		MovedToBuy []string             `json:"moved_to_buy,omitempty"`
		ImageURL   string               `json:"image_url,omitempty"`
	}

	UseRecipeIngredient struct {
		Name     string  `json:"name" validate:"required"`
		Quantity float64 `json:"quantity" validate:"min=0"`
		Unit     string  `json:"unit"`
	}

	UseRecipeRequest struct {
		Name        string                `json:"name" validate:"required"`
		Ingredients []UseRecipeIngredient `json:"ingredients" validate:"required,min=1,dive"`
	}

	UseRecipeResponse struct {
		Message      string          `json:"message"`
		ItemsUpdated int             `json:"items_updated"`
		ItemsToBuy   []ToBuyResponse `json:"items_to_buy"`
	}

	EmailToBuyRequest struct {
		Email string `json:"email" validate:"required,email"`
	}
)
