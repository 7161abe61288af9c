package ai

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/megh2001/pantry-helper/domain"
	"github.com/megh2001/pantry-helper/internal/utils"

	"github.com/go-resty/resty/v2"
)

const defaultModel = "gpt-4o-mini"

const recipeSystemPrompt = `You are a helpful cooking assistant that suggests recipes based on available ingredients.
For each recipe, provide:
1. A descriptive name
2. A brief description
3. List of required ingredients with quantities
4. Step-by-step instructions
5. Estimated cooking time
6. Difficulty level
7. A confidence score (0-1) indicating how well the recipe matches available ingredients

Format your response as a JSON object with this structure:
{
    "recipes": [
        {
            "name": "Recipe Name",
            "description": "Brief description",
            "ingredients": [
                {"name": "ingredient name", "quantity": 1.0, "unit": "unit"}
            ],
            "instructions": ["step 1", "step 2"],
            "cooking_time": "30 minutes",
            "difficulty": "easy/medium/hard",
            "confidence_score": 0.9
        }
    ]
}`

const receiptSystemPrompt = `You are a receipt analyzer specialized in processing grocery receipts.
Extract grocery items as accurately as possible:
1. Item name (generic product name, remove brand names)
2. Quantity (numeric value, default to 1.0 if unclear)
3. Unit of measurement (e.g., can, bottle, lb, oz, package, item)
4. Category (pantry, dairy, produce, meat, bakery, other)

Standardize item names by removing brand names and using common terms:
- "HEINZ KETCHUP" -> "ketchup"
- "COUNTRY HARVEST BREAD" -> "wheat bread"

Focus only on food items and ignore store information, dates, prices,
totals, taxes, discounts and non-food items.
Return ONLY a valid JSON object of the form {"items": [...]} where each
item has exactly the fields name, quantity, unit and category.
If no items are found or the image is not a receipt, return {"items": []}.`

const intentSystemPrompt = `You are an intent classifier for a kitchen assistant.
Classify the user's message into exactly one of these categories:
- RECIPE_REQUEST: the user wants recipe suggestions or wants to cook something
- GENERAL_FOOD_QUESTION: a question about food, ingredients, nutrition or cooking technique
- GENERAL_CHAT: greetings, small talk, or anything not about food
Respond with ONLY the category label, nothing else.`

type (
	// AIService wraps every call to the external language/vision model.
	// When no API key is configured the service is still constructed,
	// but generative calls return domain.ErrAIServiceUnavailable.
	AIService interface {
		ClassifyIntent(ctx context.Context, text string) domain.Intent
		GenerateConversational(ctx context.Context, text string, styleHint string) (string, error)
		GenerateRecipes(ctx context.Context, pantryLines []string, userPrompt string) (string, error)
		ExtractReceiptItems(ctx context.Context, image []byte, mimeType string) ([]domain.ReceiptItem, error)
	}

	aiService struct {
		client     *resty.Client
		model      string
		canProcess bool
	}
)

func NewAIService() AIService {
	apiKey := utils.GetConfig("OPENAI_API_KEY")
	model := utils.GetConfig("OPENAI_MODEL")
	if model == "" {
		model = defaultModel
	}

	client := resty.New().
		SetBaseURL("https://api.openai.com/v1").
		SetHeader("Authorization", fmt.Sprintf("Bearer %s", apiKey)).
		SetHeader("Content-Type", "application/json")

	return &aiService{
		client:     client,
		model:      model,
		canProcess: apiKey != "",
	}
}

func (s *aiService) ClassifyIntent(ctx context.Context, text string) domain.Intent {
	// Blank input short-circuits to chat without spending a model call.
	if strings.TrimSpace(text) == "" {
		return domain.IntentGeneralChat
	}

	content, err := s.chatCompletion(ctx, []map[string]interface{}{
		{"role": "system", "content": intentSystemPrompt},
		{"role": "user", "content": text},
	}, false)
	if err != nil {
		return domain.IntentUnknown
	}

	return intentFromLabel(content)
}

func (s *aiService) GenerateConversational(ctx context.Context, text string, styleHint string) (string, error) {
	return s.chatCompletion(ctx, []map[string]interface{}{
		{"role": "system", "content": styleHint},
		{"role": "user", "content": text},
	}, false)
}

func (s *aiService) GenerateRecipes(ctx context.Context, pantryLines []string, userPrompt string) (string, error) {
	basePrompt := fmt.Sprintf(`Based on these available ingredients, suggest recipes:

%s

Consider:
1. Suggest recipes that are practical and delicious
2. Do not try to use all ingredients from the pantry unless required by the recipe
3. Include basic pantry staples (salt, pepper, oil) in the ingredients list
4. For the ingredients specified above only use the right quantities
5. If you cannot find a recipe that the user is asking for suggest an alternative with the ingredients that are available
6. Provide clear, step-by-step instructions`,
		strings.Join(pantryLines, "\n"))

	if userPrompt != "" {
		basePrompt += fmt.Sprintf("\n\nAdditional requirements: %s", userPrompt)
	}

	return s.chatCompletion(ctx, []map[string]interface{}{
		{"role": "system", "content": recipeSystemPrompt},
		{"role": "user", "content": basePrompt},
	}, false)
}

func (s *aiService) ExtractReceiptItems(ctx context.Context, image []byte, mimeType string) ([]domain.ReceiptItem, error) {
	if mimeType == "" {
		mimeType = "image/jpeg"
	}
	base64Image := base64.StdEncoding.EncodeToString(image)

	content, err := s.chatCompletion(ctx, []map[string]interface{}{
		{"role": "system", "content": receiptSystemPrompt},
		{
			"role": "user",
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": "Analyze this receipt image and extract only the grocery items.",
				},
				{
					"type": "image_url",
					"image_url": map[string]string{
						"url": fmt.Sprintf("data:%s;base64,%s", mimeType, base64Image),
					},
				},
			},
		},
	}, true)
	if err != nil {
		return nil, err
	}

	return parseReceiptItems(content), nil
}

func (s *aiService) chatCompletion(ctx context.Context, messages []map[string]interface{}, jsonMode bool) (string, error) {
	if !s.canProcess {
		return "", domain.ErrAIServiceUnavailable
	}

	req := map[string]interface{}{
		"model":    s.model,
		"messages": messages,
	}
	if jsonMode {
		req["response_format"] = map[string]string{"type": "json_object"}
	}

	resp, err := s.client.R().
		SetContext(ctx).
		SetBody(req).
		Post("/chat/completions")
	if err != nil {
		return "", fmt.Errorf("failed to send request to OpenAI: %w", err)
	}

	if resp.StatusCode() != http.StatusOK {
		return "", fmt.Errorf("OpenAI API returned error: %s - %s", resp.Status(), resp.String())
	}

	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return "", fmt.Errorf("failed to parse OpenAI response: %w", err)
	}
	if len(result.Choices) == 0 {
		return "", fmt.Errorf("no choices in OpenAI response")
	}

	return strings.TrimSpace(result.Choices[0].Message.Content), nil
}

func intentFromLabel(label string) domain.Intent {
	switch domain.Intent(strings.ToUpper(strings.TrimSpace(label))) {
	case domain.IntentRecipeRequest:
		return domain.IntentRecipeRequest
	case domain.IntentFoodQuestion:
		return domain.IntentFoodQuestion
	case domain.IntentGeneralChat:
		return domain.IntentGeneralChat
	default:
		return domain.IntentUnknown
	}
}

// parseReceiptItems tolerates the shapes the vision model actually
// produces: a bare array, {"items": [...]}, or any object whose first
// array value holds the items. Entries missing a required field are
// dropped individually, never failing the batch.
func parseReceiptItems(content string) []domain.ReceiptItem {
	var payload interface{}
	if err := json.Unmarshal([]byte(content), &payload); err != nil {
		return nil
	}

	var rawItems []interface{}
	switch v := payload.(type) {
	case []interface{}:
		rawItems = v
	case map[string]interface{}:
		if items, ok := v["items"].([]interface{}); ok {
			rawItems = items
		} else {
			for _, value := range v {
				if list, ok := value.([]interface{}); ok {
					rawItems = list
					break
				}
			}
		}
	}

	items := make([]domain.ReceiptItem, 0, len(rawItems))
	for _, raw := range rawItems {
		entry, ok := raw.(map[string]interface{})
		if !ok {
			continue
		}

		name, nameOk := entry["name"].(string)
		quantity, quantityOk := entry["quantity"].(float64)
		unit, unitOk := entry["unit"].(string)
		category, categoryOk := entry["category"].(string)
		if !nameOk || !quantityOk || !unitOk || !categoryOk || strings.TrimSpace(name) == "" {
			continue
		}

		items = append(items, domain.ReceiptItem{
			Name:     name,
			Quantity: quantity,
			Unit:     unit,
			Category: category,
		})
	}

	return items
}
