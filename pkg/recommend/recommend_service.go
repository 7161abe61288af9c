package recommend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/megh2001/pantry-helper/domain"
	"github.com/megh2001/pantry-helper/entities"
	"github.com/megh2001/pantry-helper/internal/utils"
	"github.com/megh2001/pantry-helper/pkg/ai"
	"github.com/megh2001/pantry-helper/pkg/pantry"
)

const (
	foodQuestionStyleHint = "You are a friendly and knowledgeable cooking assistant. Answer the user's food or cooking question clearly and concisely."
	generalChatStyleHint  = "You are a friendly kitchen assistant. Respond warmly and briefly, and gently steer the conversation toward cooking when it fits naturally."

	apologyMessage = "Sorry, I couldn't come up with a response right now. Please try again."
)

// DefaultCommonStaples are ingredients assumed to be on hand: recipe
// lines naming them are never reconciled against the pantry.
var DefaultCommonStaples = map[string]struct{}{
	"olive oil":       {},
	"vegetable oil":   {},
	"salt":            {},
	"black pepper":    {},
	"garlic":          {},
	"onion":           {},
	"sugar":           {},
	"flour":           {},
	"baking powder":   {},
	"baking soda":     {},
	"vanilla extract": {},
	"cinnamon":        {},
	"paprika":         {},
	"oregano":         {},
	"basil":           {},
	"thyme":           {},
	"rosemary":        {},
	"butter":          {},
	"milk":            {},
	"eggs":            {},
	"water":           {},
}

type (
	RecommendService interface {
		Recommend(ctx context.Context, userPrompt string) (domain.RecommendationResult, error)
	}

	recommendService struct {
		pantryRepository pantry.PantryRepository
		aiService        ai.AIService
		staples          map[string]struct{}
	}
)

func NewRecommendService(pantryRepository pantry.PantryRepository, aiService ai.AIService, staples map[string]struct{}) RecommendService {
	if staples == nil {
		staples = DefaultCommonStaples
	}
	return &recommendService{
		pantryRepository: pantryRepository,
		aiService:        aiService,
		staples:          staples,
	}
}

func (s *recommendService) Recommend(ctx context.Context, userPrompt string) (domain.RecommendationResult, error) {
	ingredients, err := s.pantryRepository.ListIngredients(ctx)
	if err != nil {
		return domain.RecommendationResult{}, err
	}
	if len(ingredients) == 0 {
		return domain.RecommendationResult{}, domain.ErrEmptyPantry
	}

	intent := s.aiService.ClassifyIntent(ctx, userPrompt)
	if strings.TrimSpace(userPrompt) == "" {
		userPrompt = "Hello"
	}

	switch intent {
	case domain.IntentFoodQuestion:
		return s.converse(ctx, userPrompt, foodQuestionStyleHint)
	case domain.IntentGeneralChat:
		return s.converse(ctx, userPrompt, generalChatStyleHint)
	}

	// RECIPE_REQUEST, and UNKNOWN_INTENT failing open to the recipe path.
	return s.recommendRecipes(ctx, ingredients, userPrompt)
}

func (s *recommendService) converse(ctx context.Context, userPrompt, styleHint string) (domain.RecommendationResult, error) {
	message, err := s.aiService.GenerateConversational(ctx, userPrompt, styleHint)
	if err != nil {
		if errors.Is(err, domain.ErrAIServiceUnavailable) {
			return domain.RecommendationResult{}, err
		}
		log.Printf("conversational reply failed: %v", err)
		return domain.RecommendationResult{
			Chat: &domain.ChatResponse{Message: apologyMessage, IsError: true},
		}, nil
	}
	return domain.RecommendationResult{Chat: &domain.ChatResponse{Message: message}}, nil
}

func (s *recommendService) recommendRecipes(ctx context.Context, ingredients []*entities.Ingredient, userPrompt string) (domain.RecommendationResult, error) {
	pantryIndex := make(map[string]*entities.Ingredient, len(ingredients))
	pantryLines := make([]string, 0, len(ingredients))
	for _, ingredient := range ingredients {
		pantryIndex[utils.NormalizeName(ingredient.Name)] = ingredient
		pantryLines = append(pantryLines, fmt.Sprintf("- %s: %g %s", ingredient.Name, ingredient.Quantity, ingredient.Unit))
	}

	content, err := s.aiService.GenerateRecipes(ctx, pantryLines, userPrompt)
	if err != nil {
		if errors.Is(err, domain.ErrAIServiceUnavailable) {
			return domain.RecommendationResult{}, err
		}
		log.Printf("recipe generation failed: %v", err)
		return domain.RecommendationResult{
			Chat: &domain.ChatResponse{Message: apologyMessage, IsError: true},
		}, nil
	}

	recipes, chat := parseRecipePayload(content)
	if chat != nil {
		return domain.RecommendationResult{Chat: chat}, nil
	}

	feasible := s.reconcileRecipes(recipes, pantryIndex)
	if len(feasible) == 0 {
		return domain.RecommendationResult{}, domain.ErrNoFeasibleRecipes
	}
	return domain.RecommendationResult{Recipes: feasible}, nil
}

// reconcileRecipes rewrites each recipe's ingredient list against the
// pantry: staples are assumed on hand and dropped from the list,
// absent ingredients are dropped, and requested quantities are
// clamped to what is on hand. Recipes left with no usable
// ingredients are discarded.
func (s *recommendService) reconcileRecipes(recipes []domain.RecipeSuggestion, pantryIndex map[string]*entities.Ingredient) []domain.RecipeSuggestion {
	feasible := make([]domain.RecipeSuggestion, 0, len(recipes))
	for _, recipe := range recipes {
		reconciled := make([]domain.RecipeIngredient, 0, len(recipe.Ingredients))
		for _, ingredient := range recipe.Ingredients {
			key := utils.NormalizeName(ingredient.Name)
			if key == "" {
				continue
			}
			if _, isStaple := s.staples[key]; isStaple {
				continue
			}

			available, ok := pantryIndex[key]
			if !ok {
				continue
			}
			if ingredient.Quantity > available.Quantity {
				ingredient.Quantity = available.Quantity
			}
			if ingredient.Unit == "" {
				ingredient.Unit = available.Unit
			}
			reconciled = append(reconciled, ingredient)
		}

		if len(reconciled) == 0 {
			continue
		}
		recipe.Ingredients = reconciled
		feasible = append(feasible, recipe)
	}
	return feasible
}

// parseRecipePayload interprets the generative reply: only a JSON
// object carrying a recipes array yields suggestions, any other shape
// is treated as conversational prose.
func parseRecipePayload(content string) ([]domain.RecipeSuggestion, *domain.ChatResponse) {
	cleaned := stripCodeFences(content)

	var payload struct {
		Recipes []domain.RecipeSuggestion `json:"recipes"`
	}
	if err := json.Unmarshal([]byte(cleaned), &payload); err == nil && payload.Recipes != nil {
		return payload.Recipes, nil
	}

	return nil, &domain.ChatResponse{Message: cleaned}
}

// stripCodeFences removes a surrounding markdown code fence, with or
// without a language tag, leaving other text untouched.
func stripCodeFences(content string) string {
	trimmed := strings.TrimSpace(content)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}

	trimmed = strings.TrimPrefix(trimmed, "```")
	if newline := strings.IndexByte(trimmed, '\n'); newline >= 0 {
		firstLine := strings.TrimSpace(trimmed[:newline])
		// drop a leading language tag like "json"
		if firstLine != "" && !strings.ContainsAny(firstLine, "{}[]") {
			trimmed = trimmed[newline+1:]
		}
	}
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	return strings.TrimSpace(trimmed)
}
