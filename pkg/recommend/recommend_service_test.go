package recommend

import (
	"context"
	"errors"
	"testing"

	"github.com/megh2001/pantry-helper/domain"
	"github.com/megh2001/pantry-helper/entities"
	"github.com/megh2001/pantry-helper/pkg/pantry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakePantryRepository embeds the interface and overrides only the
// listing call the recommendation flow depends on.
type fakePantryRepository struct {
	pantry.PantryRepository
	ingredients []*entities.Ingredient
}

func (f *fakePantryRepository) ListIngredients(ctx context.Context) ([]*entities.Ingredient, error) {
	return f.ingredients, nil
}

type fakeAIService struct {
	intent          domain.Intent
	chatReply       string
	chatErr         error
	recipesContent  string
	recipesErr      error
	gotPantryLines  []string
	gotUserPrompt   string
	gotStyleHint    string
	classifyCalls   int
	recipeGenCalls  int
	converseCalls   int
}

func (f *fakeAIService) ClassifyIntent(ctx context.Context, text string) domain.Intent {
	f.classifyCalls++
	return f.intent
}

func (f *fakeAIService) GenerateConversational(ctx context.Context, text, styleHint string) (string, error) {
	f.converseCalls++
	f.gotStyleHint = styleHint
	return f.chatReply, f.chatErr
}

func (f *fakeAIService) GenerateRecipes(ctx context.Context, pantryLines []string, userPrompt string) (string, error) {
	f.recipeGenCalls++
	f.gotPantryLines = pantryLines
	f.gotUserPrompt = userPrompt
	return f.recipesContent, f.recipesErr
}

func (f *fakeAIService) ExtractReceiptItems(ctx context.Context, image []byte, mimeType string) ([]domain.ReceiptItem, error) {
	return nil, nil
}

func pantryWith(names ...string) *fakePantryRepository {
	repo := &fakePantryRepository{}
	for _, name := range names {
		repo.ingredients = append(repo.ingredients, &entities.Ingredient{
			Name: name, Quantity: 2, Unit: "cups",
		})
	}
	return repo
}

func TestRecommendEmptyPantry(t *testing.T) {
	service := NewRecommendService(&fakePantryRepository{}, &fakeAIService{}, nil)

	_, err := service.Recommend(context.Background(), "what can I cook?")
	assert.ErrorIs(t, err, domain.ErrEmptyPantry)
}

func TestRecommendChatIntentReturnsConversationalReply(t *testing.T) {
	aiSvc := &fakeAIService{intent: domain.IntentGeneralChat, chatReply: "Hi there!"}
	service := NewRecommendService(pantryWith("chicken"), aiSvc, nil)

	res, err := service.Recommend(context.Background(), "good morning")
	require.NoError(t, err)
	require.NotNil(t, res.Chat)
	assert.Equal(t, "Hi there!", res.Chat.Message)
	assert.False(t, res.Chat.IsError)
	assert.Empty(t, res.Recipes)
	assert.Equal(t, 0, aiSvc.recipeGenCalls)
}

func TestRecommendFoodQuestionUsesDistinctStyle(t *testing.T) {
	chatSvc := &fakeAIService{intent: domain.IntentGeneralChat, chatReply: "ok"}
	foodSvc := &fakeAIService{intent: domain.IntentFoodQuestion, chatReply: "ok"}
	repo := pantryWith("chicken")

	_, err := NewRecommendService(repo, chatSvc, nil).Recommend(context.Background(), "hi")
	require.NoError(t, err)
	_, err = NewRecommendService(repo, foodSvc, nil).Recommend(context.Background(), "how do I sear a steak?")
	require.NoError(t, err)

	assert.NotEqual(t, chatSvc.gotStyleHint, foodSvc.gotStyleHint)
}

func TestRecommendChatFailureDegradesToApology(t *testing.T) {
	aiSvc := &fakeAIService{intent: domain.IntentGeneralChat, chatErr: errors.New("model timeout")}
	service := NewRecommendService(pantryWith("chicken"), aiSvc, nil)

	res, err := service.Recommend(context.Background(), "hello")
	require.NoError(t, err)
	require.NotNil(t, res.Chat)
	assert.True(t, res.Chat.IsError)
	assert.NotEmpty(t, res.Chat.Message)
}

func TestRecommendChatUnavailablePropagates(t *testing.T) {
	aiSvc := &fakeAIService{intent: domain.IntentGeneralChat, chatErr: domain.ErrAIServiceUnavailable}
	service := NewRecommendService(pantryWith("chicken"), aiSvc, nil)

	_, err := service.Recommend(context.Background(), "hello")
	assert.ErrorIs(t, err, domain.ErrAIServiceUnavailable)
}

func TestRecommendUnknownIntentFallsOpenToRecipes(t *testing.T) {
	aiSvc := &fakeAIService{
		intent:         domain.IntentUnknown,
		recipesContent: `{"recipes":[{"name":"Chicken Rice","ingredients":[{"name":"chicken","quantity":1,"unit":"lb"}]}]}`,
	}
	service := NewRecommendService(pantryWith("chicken"), aiSvc, nil)

	res, err := service.Recommend(context.Background(), "asdf qwerty")
	require.NoError(t, err)
	require.Len(t, res.Recipes, 1)
	assert.Equal(t, 1, aiSvc.recipeGenCalls)
}

func TestRecommendBlankPromptDefaultsToHello(t *testing.T) {
	aiSvc := &fakeAIService{
		intent:         domain.IntentRecipeRequest,
		recipesContent: `{"recipes":[{"name":"Plain Chicken","ingredients":[{"name":"chicken","quantity":1,"unit":"lb"}]}]}`,
	}
	service := NewRecommendService(pantryWith("chicken"), aiSvc, nil)

	// blank prompt classifies as chat in production; force the recipe
	// path here to check the prompt default.
	_, err := service.Recommend(context.Background(), "   ")
	require.NoError(t, err)
	assert.Equal(t, "Hello", aiSvc.gotUserPrompt)
}

func TestRecommendRecipeGenerationFailureDegradesToApology(t *testing.T) {
	aiSvc := &fakeAIService{intent: domain.IntentRecipeRequest, recipesErr: errors.New("model timeout")}
	service := NewRecommendService(pantryWith("chicken"), aiSvc, nil)

	res, err := service.Recommend(context.Background(), "dinner")
	require.NoError(t, err)
	require.NotNil(t, res.Chat)
	assert.True(t, res.Chat.IsError)
}

func TestRecommendRecipeGenerationUnavailablePropagates(t *testing.T) {
	aiSvc := &fakeAIService{intent: domain.IntentRecipeRequest, recipesErr: domain.ErrAIServiceUnavailable}
	service := NewRecommendService(pantryWith("chicken"), aiSvc, nil)

	_, err := service.Recommend(context.Background(), "dinner")
	assert.ErrorIs(t, err, domain.ErrAIServiceUnavailable)
}

func TestRecommendClampsQuantitiesToPantry(t *testing.T) {
	repo := &fakePantryRepository{ingredients: []*entities.Ingredient{
		{Name: "Chicken", Quantity: 1.5, Unit: "lbs"},
	}}
	aiSvc := &fakeAIService{
		intent:         domain.IntentRecipeRequest,
		recipesContent: `{"recipes":[{"name":"Roast Chicken","ingredients":[{"name":"chicken","quantity":4,"unit":""}]}]}`,
	}
	service := NewRecommendService(repo, aiSvc, nil)

	res, err := service.Recommend(context.Background(), "dinner ideas")
	require.NoError(t, err)
	require.Len(t, res.Recipes, 1)
	ingredient := res.Recipes[0].Ingredients[0]
	assert.Equal(t, 1.5, ingredient.Quantity)
	assert.Equal(t, "lbs", ingredient.Unit) // pantry unit fills the blank
}

func TestRecommendExcludesStaplesFromReconciledList(t *testing.T) {
	aiSvc := &fakeAIService{
		intent: domain.IntentRecipeRequest,
		recipesContent: `{"recipes":[{"name":"Seasoned Chicken","ingredients":[
			{"name":"chicken","quantity":1,"unit":"lb"},
			{"name":"salt","quantity":1,"unit":"tsp"},
			{"name":"olive oil","quantity":2,"unit":"tbsp"}]}]}`,
	}
	service := NewRecommendService(pantryWith("chicken"), aiSvc, nil)

	res, err := service.Recommend(context.Background(), "dinner")
	require.NoError(t, err)
	require.Len(t, res.Recipes, 1)
	require.Len(t, res.Recipes[0].Ingredients, 1)
	assert.Equal(t, "chicken", res.Recipes[0].Ingredients[0].Name)
}

func TestRecommendInjectedStaplesSet(t *testing.T) {
	repo := &fakePantryRepository{ingredients: []*entities.Ingredient{
		{Name: "flour", Quantity: 5, Unit: "cups"},
	}}
	aiSvc := &fakeAIService{
		intent: domain.IntentRecipeRequest,
		recipesContent: `{"recipes":[{"name":"Shortcrust","ingredients":[
			{"name":"flour","quantity":2,"unit":"cups"},
			{"name":"sugar","quantity":1,"unit":"cups"}]}]}`,
	}
	staples := map[string]struct{}{"sugar": {}}
	service := NewRecommendService(repo, aiSvc, staples)

	res, err := service.Recommend(context.Background(), "dessert")
	require.NoError(t, err)
	require.Len(t, res.Recipes, 1)
	require.Len(t, res.Recipes[0].Ingredients, 1)
	assert.Equal(t, "flour", res.Recipes[0].Ingredients[0].Name)
	assert.Equal(t, 2.0, res.Recipes[0].Ingredients[0].Quantity)
	assert.Equal(t, "cups", res.Recipes[0].Ingredients[0].Unit)
}

func TestRecommendAllStapleRecipeIsInfeasible(t *testing.T) {
	aiSvc := &fakeAIService{
		intent: domain.IntentRecipeRequest,
		recipesContent: `{"recipes":[{"name":"Seasoning Mix","ingredients":[
			{"name":"salt","quantity":1,"unit":"tsp"},
			{"name":"black pepper","quantity":1,"unit":"tsp"}]}]}`,
	}
	service := NewRecommendService(pantryWith("chicken"), aiSvc, nil)

	_, err := service.Recommend(context.Background(), "seasoning")
	assert.ErrorIs(t, err, domain.ErrNoFeasibleRecipes)
}

func TestRecommendDropsAbsentIngredientsAndInfeasibleRecipes(t *testing.T) {
	aiSvc := &fakeAIService{
		intent: domain.IntentRecipeRequest,
		recipesContent: `{"recipes":[
			{"name":"Chicken Dish","ingredients":[{"name":"chicken","quantity":1,"unit":"lb"},{"name":"saffron","quantity":1,"unit":"pinch"}]},
			{"name":"Lobster Roll","ingredients":[{"name":"lobster","quantity":1,"unit":"item"}]}]}`,
	}
	service := NewRecommendService(pantryWith("chicken"), aiSvc, nil)

	res, err := service.Recommend(context.Background(), "dinner")
	require.NoError(t, err)
	require.Len(t, res.Recipes, 1)
	assert.Equal(t, "Chicken Dish", res.Recipes[0].Name)
	require.Len(t, res.Recipes[0].Ingredients, 1)
	assert.Equal(t, "chicken", res.Recipes[0].Ingredients[0].Name)
}

func TestRecommendAllRecipesInfeasible(t *testing.T) {
	aiSvc := &fakeAIService{
		intent:         domain.IntentRecipeRequest,
		recipesContent: `{"recipes":[{"name":"Lobster Roll","ingredients":[{"name":"lobster","quantity":1,"unit":"item"}]}]}`,
	}
	service := NewRecommendService(pantryWith("chicken"), aiSvc, nil)

	_, err := service.Recommend(context.Background(), "dinner")
	assert.ErrorIs(t, err, domain.ErrNoFeasibleRecipes)
}

func TestRecommendProseReplyBecomesChat(t *testing.T) {
	aiSvc := &fakeAIService{
		intent:         domain.IntentRecipeRequest,
		recipesContent: "I'd suggest keeping it simple tonight: roast the chicken with whatever herbs you have.",
	}
	service := NewRecommendService(pantryWith("chicken"), aiSvc, nil)

	res, err := service.Recommend(context.Background(), "dinner")
	require.NoError(t, err)
	require.NotNil(t, res.Chat)
	assert.Contains(t, res.Chat.Message, "roast the chicken")
}

func TestStripCodeFences(t *testing.T) {
	cases := map[string]struct {
		in   string
		want string
	}{
		"no fence":       {`{"a":1}`, `{"a":1}`},
		"plain fence":    {"```\n{\"a\":1}\n```", `{"a":1}`},
		"json tag":       {"```json\n{\"a\":1}\n```", `{"a":1}`},
		"one line fence": {"```{\"a\":1}```", `{"a":1}`},
		"padded":         {"  ```json\n{\"a\":1}\n```  ", `{"a":1}`},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.want, stripCodeFences(tc.in))
		})
	}
}

func TestParseRecipePayloadNonRecipeShapesBecomeChat(t *testing.T) {
	cases := map[string]string{
		"bare array":         `[{"name":"Soup","ingredients":[]}]`,
		"object without key": `{"suggestions":[{"name":"Soup"}]}`,
		"prose":              "Try a simple soup tonight.",
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			recipes, chat := parseRecipePayload(content)
			assert.Nil(t, recipes)
			require.NotNil(t, chat)
			assert.Equal(t, content, chat.Message)
		})
	}
}
