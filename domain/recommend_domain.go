package domain

import (
	"errors"
)

var (
	MessageSuccessGetRecommendations = "recipe recommendations retrieved successfully"

	MessageFailedGetRecommendations = "failed to get recipe recommendations"
	MessageFailedChatResponse       = "assistant could not process the request"

	ErrEmptyPantry          = errors.New("no ingredients found in pantry")
	ErrNoFeasibleRecipes    = errors.New("no recipes found that can be made with current pantry items")
	ErrAIServiceUnavailable = errors.New("assistant service is not available")
)

// Intent is the classified purpose of a free-text user prompt.
type Intent string

const (
	IntentRecipeRequest Intent = "RECIPE_REQUEST"
	IntentFoodQuestion  Intent = "GENERAL_FOOD_QUESTION"
	IntentGeneralChat   Intent = "GENERAL_CHAT"
	IntentUnknown       Intent = "UNKNOWN_INTENT"
)

type (
	RecipeIngredient struct {
		Name     string  `json:"name"`
		Quantity float64 `json:"quantity"`
		Unit     string  `json:"unit"`
	}

	// RecipeSuggestion is produced per-request by the generative call
	// and discarded after reconciliation. Never persisted.
	RecipeSuggestion struct {
		Name            string             `json:"name"`
		Description     string             `json:"description"`
		Ingredients     []RecipeIngredient `json:"ingredients"`
		Instructions    []string           `json:"instructions"`
		CookingTime     string             `json:"cooking_time"`
		Difficulty      string             `json:"difficulty"`
		ConfidenceScore float64            `json:"confidence_score"`
	}

	ChatResponse struct {
		Message string `json:"message"`
		IsError bool   `json:"-"`
	}

	// RecommendationResult is a tagged union: exactly one of Chat and
	// Recipes is set.
	RecommendationResult struct {
		Chat    *ChatResponse      `json:"chat_response,omitempty"`
		Recipes []RecipeSuggestion `json:"recipes,omitempty"`
	}
)
