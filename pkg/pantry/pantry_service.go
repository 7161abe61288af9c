package pantry

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"math"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/megh2001/pantry-helper/domain"
	"github.com/megh2001/pantry-helper/entities"
	"github.com/megh2001/pantry-helper/internal/utils"
	"github.com/megh2001/pantry-helper/internal/utils/mailing"
	"github.com/megh2001/pantry-helper/internal/utils/storage"
	"github.com/megh2001/pantry-helper/pkg/ai"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// depletionThreshold is the policy constant below which a pantry
// quantity counts as depleted and the item moves to the to-buy list.
const depletionThreshold = 0.5

type (
	PantryService interface {
		GetPantry(ctx context.Context) ([]domain.IngredientResponse, error)
		AddIngredient(ctx context.Context, req domain.AddIngredientRequest) (*domain.IngredientResponse, error)
		RemoveIngredient(ctx context.Context, id string) error
		ClearPantry(ctx context.Context) error
		ProcessReceipt(ctx context.Context, receiptImage *multipart.FileHeader) (domain.ProcessReceiptResponse, error)
		UseRecipe(ctx context.Context, req domain.UseRecipeRequest) (domain.UseRecipeResponse, error)

		GetToBuyList(ctx context.Context) ([]domain.ToBuyResponse, error)
		AddToBuyItem(ctx context.Context, req domain.AddToBuyRequest) (domain.ToBuyResponse, error)
		RemoveToBuyItem(ctx context.Context, id string) error
		ClearToBuyList(ctx context.Context) error
		EmailToBuyList(ctx context.Context, email string) error
	}

	pantryService struct {
		pantryRepository PantryRepository
		aiService        ai.AIService
		s3               storage.AwsS3
	}
)

func NewPantryService(pantryRepository PantryRepository, aiService ai.AIService, s3 storage.AwsS3) PantryService {
	return &pantryService{
		pantryRepository: pantryRepository,
		aiService:        aiService,
		s3:               s3,
	}
}

func (s *pantryService) GetPantry(ctx context.Context) ([]domain.IngredientResponse, error) {
	ingredients, err := s.pantryRepository.ListIngredients(ctx)
	if err != nil {
		return nil, err
	}

	response := make([]domain.IngredientResponse, 0, len(ingredients))
	for _, ingredient := range ingredients {
		response = append(response, toIngredientResponse(ingredient))
	}
	return response, nil
}

// AddIngredient applies the manual-entry intake rule: quantities are
// rounded to the nearest whole unit. A nil response with a nil error
// means the item was routed to the to-buy list instead of the pantry.
func (s *pantryService) AddIngredient(ctx context.Context, req domain.AddIngredientRequest) (*domain.IngredientResponse, error) {
	ingredient, err := s.intakeQuantity(ctx, req, false)
	if err != nil {
		return nil, err
	}
	if ingredient == nil {
		return nil, nil
	}

	response := toIngredientResponse(ingredient)
	return &response, nil
}

// intakeQuantity is the shared mutation rule for every path that adds
// a quantity to the pantry by name. Manual entries round to the
// nearest whole unit; receipt entries keep the raw decimal to two
// places, because receipt quantities are considered provisional.
func (s *pantryService) intakeQuantity(ctx context.Context, req domain.AddIngredientRequest, fromReceipt bool) (*entities.Ingredient, error) {
	var quantity float64
	if fromReceipt {
		quantity = round2(req.Quantity)
	} else {
		quantity = math.Round(req.Quantity)
	}

	existing, err := s.pantryRepository.GetIngredientByName(ctx, utils.NormalizeName(req.Name))
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if err == nil {
		newQuantity := existing.Quantity + quantity
		if !fromReceipt {
			newQuantity = math.Round(newQuantity)
		}

		if newQuantity < depletionThreshold {
			item := entities.ToBuyItem{
				Name:     existing.Name,
				Quantity: 1, // at least one unit
				Unit:     existing.Unit,
				Category: existing.Category,
				LastUsed: domain.LowQuantityProvenance,
			}
			if err := s.pantryRepository.PromoteDepleted(ctx, &existing.ID, item); err != nil {
				return nil, err
			}
			return nil, nil
		}

		existing.Quantity = newQuantity
		if err := s.pantryRepository.UpdateIngredient(ctx, existing); err != nil {
			return nil, err
		}
		return existing, nil
	}

	if quantity < depletionThreshold {
		item := entities.ToBuyItem{
			Name:     req.Name,
			Quantity: 1,
			Unit:     req.Unit,
			Category: req.Category,
			LastUsed: domain.LowQuantityProvenance,
		}
		if err := s.pantryRepository.PromoteDepleted(ctx, nil, item); err != nil {
			return nil, err
		}
		return nil, nil
	}

	minQuantity := req.MinQuantity
	if minQuantity == 0 {
		minQuantity = round2(quantity * 0.2)
	}

	ingredient := &entities.Ingredient{
		ID:          uuid.New(),
		Name:        req.Name,
		Quantity:    quantity,
		Unit:        req.Unit,
		Category:    req.Category,
		MinQuantity: minQuantity,
	}
	if err := s.pantryRepository.CreateIngredient(ctx, ingredient); err != nil {
		return nil, err
	}
	return ingredient, nil
}

func (s *pantryService) RemoveIngredient(ctx context.Context, id string) error {
	itemID, err := uuid.Parse(id)
	if err != nil {
		return domain.ErrParseUUID
	}

	if _, err := s.pantryRepository.GetIngredientByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrIngredientNotFound
		}
		return err
	}

	return s.pantryRepository.DeleteIngredient(ctx, itemID)
}

func (s *pantryService) ClearPantry(ctx context.Context) error {
	return s.pantryRepository.ClearIngredients(ctx)
}

func (s *pantryService) ProcessReceipt(ctx context.Context, receiptImage *multipart.FileHeader) (domain.ProcessReceiptResponse, error) {
	file, err := receiptImage.Open()
	if err != nil {
		return domain.ProcessReceiptResponse{}, err
	}
	defer file.Close()

	imageData, err := io.ReadAll(file)
	if err != nil {
		return domain.ProcessReceiptResponse{}, err
	}

	items, err := s.aiService.ExtractReceiptItems(ctx, imageData, receiptMimeType(receiptImage))
	if err != nil {
		if errors.Is(err, domain.ErrAIServiceUnavailable) {
			return domain.ProcessReceiptResponse{}, err
		}
		// OCR failures degrade to an empty batch, never a hard error.
		log.Printf("receipt extraction failed: %v", err)
		items = nil
	}

	response := domain.ProcessReceiptResponse{
		Items: make([]domain.IngredientResponse, 0, len(items)),
	}
	for _, item := range items {
		ingredient, err := s.intakeQuantity(ctx, domain.AddIngredientRequest{
			Name:     item.Name,
			Quantity: item.Quantity,
			Unit:     item.Unit,
			Category: item.Category,
		}, true)
		if err != nil {
			// each item commits on its own, so a bad one is skipped
			// rather than failing items already stored
			log.Printf("failed to store receipt item %q: %v", item.Name, err)
			continue
		}

		response.ItemsAdded++
		if ingredient != nil {
			response.Items = append(response.Items, toIngredientResponse(ingredient))
		} else {
			response.MovedToBuy = append(response.MovedToBuy, item.Name)
		}
	}

	// Archive the image for later review. Best effort: a storage
	// failure must not undo a processed receipt.
	if s.s3 != nil && s.s3.Enabled() {
		fileName := fmt.Sprintf("receipt-%s", uuid.New().String())
		objectKey, err := s.s3.UploadFile(fileName, receiptImage, "receipts", storage.AllowImage...)
		if err != nil {
			log.Printf("failed to archive receipt image: %v", err)
		} else {
			response.ImageURL = s.s3.GetPublicLinkKey(objectKey)
		}
	}

	return response, nil
}

// UseRecipe applies a confirmed recipe's usage to the pantry.
// Ingredients the pantry doesn't hold are ignored; depleted ones are
// promoted to the to-buy list with the recipe name as provenance. All
// writes land in a single transaction.
func (s *pantryService) UseRecipe(ctx context.Context, req domain.UseRecipeRequest) (domain.UseRecipeResponse, error) {
	ingredients, err := s.pantryRepository.ListIngredients(ctx)
	if err != nil {
		return domain.UseRecipeResponse{}, err
	}

	index := make(map[string]*entities.Ingredient, len(ingredients))
	for _, ingredient := range ingredients {
		index[utils.NormalizeName(ingredient.Name)] = ingredient
	}

	var updates []*entities.Ingredient
	var deletions []uuid.UUID
	var additions []entities.ToBuyItem

	for _, item := range req.Ingredients {
		available, ok := index[utils.NormalizeName(item.Name)]
		if !ok {
			continue
		}

		remaining := available.Quantity - item.Quantity
		if remaining <= 0 {
			additions = append(additions, entities.ToBuyItem{
				Name:     available.Name,
				Quantity: math.Abs(remaining),
				Unit:     available.Unit,
				Category: available.Category,
				LastUsed: req.Name,
			})
			deletions = append(deletions, available.ID)
			delete(index, utils.NormalizeName(item.Name))
		} else {
			available.Quantity = remaining
			updates = append(updates, available)
		}
	}

	if err := s.pantryRepository.ApplyRecipeUsage(ctx, updates, deletions, additions); err != nil {
		return domain.UseRecipeResponse{}, err
	}

	itemsToBuy := make([]domain.ToBuyResponse, 0, len(additions))
	for _, addition := range additions {
		itemsToBuy = append(itemsToBuy, domain.ToBuyResponse{
			Name:     addition.Name,
			Quantity: addition.Quantity,
			Unit:     addition.Unit,
			Category: addition.Category,
			LastUsed: addition.LastUsed,
		})
	}

	return domain.UseRecipeResponse{
		Message:      fmt.Sprintf("Successfully updated pantry for recipe: %s", req.Name),
		ItemsUpdated: len(updates),
		ItemsToBuy:   itemsToBuy,
	}, nil
}

func (s *pantryService) GetToBuyList(ctx context.Context) ([]domain.ToBuyResponse, error) {
	items, err := s.pantryRepository.ListToBuy(ctx)
	if err != nil {
		return nil, err
	}

	response := make([]domain.ToBuyResponse, 0, len(items))
	for _, item := range items {
		response = append(response, toToBuyResponse(item))
	}
	return response, nil
}

func (s *pantryService) AddToBuyItem(ctx context.Context, req domain.AddToBuyRequest) (domain.ToBuyResponse, error) {
	existing, err := s.pantryRepository.GetToBuyByName(ctx, utils.NormalizeName(req.Name))
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ToBuyResponse{}, err
	}

	if err == nil {
		existing.Quantity += req.Quantity
		existing.LastUsed = req.LastUsed
		if err := s.pantryRepository.UpdateToBuy(ctx, existing); err != nil {
			return domain.ToBuyResponse{}, err
		}
		return toToBuyResponse(existing), nil
	}

	item := &entities.ToBuyItem{
		ID:       uuid.New(),
		Name:     req.Name,
		Quantity: req.Quantity,
		Unit:     req.Unit,
		Category: req.Category,
		LastUsed: req.LastUsed,
	}
	if err := s.pantryRepository.CreateToBuy(ctx, item); err != nil {
		return domain.ToBuyResponse{}, err
	}
	return toToBuyResponse(item), nil
}

func (s *pantryService) RemoveToBuyItem(ctx context.Context, id string) error {
	itemID, err := uuid.Parse(id)
	if err != nil {
		return domain.ErrParseUUID
	}

	if _, err := s.pantryRepository.GetToBuyByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrToBuyItemNotFound
		}
		return err
	}

	return s.pantryRepository.DeleteToBuy(ctx, itemID)
}

func (s *pantryService) ClearToBuyList(ctx context.Context) error {
	return s.pantryRepository.ClearToBuy(ctx)
}

func (s *pantryService) EmailToBuyList(ctx context.Context, email string) error {
	items, err := s.pantryRepository.ListToBuy(ctx)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		return domain.ErrEmptyToBuyList
	}

	return mailing.SendMail(email, "Your shopping list", buildShoppingListBody(items))
}

func buildShoppingListBody(items []*entities.ToBuyItem) string {
	var b strings.Builder
	b.WriteString("<h3>Shopping list</h3>")
	b.WriteString("<table border=\"1\" cellpadding=\"4\"><tr><th>Item</th><th>Quantity</th><th>Last used</th></tr>")
	for _, item := range items {
		b.WriteString(fmt.Sprintf(
			"<tr><td>%s</td><td>%g %s</td><td>%s</td></tr>",
			item.Name, item.Quantity, item.Unit, item.LastUsed,
		))
	}
	b.WriteString("</table>")
	return b.String()
}

func receiptMimeType(file *multipart.FileHeader) string {
	mimeType := file.Header.Get("Content-Type")
	if mimeType != "" {
		return mimeType
	}

	switch strings.ToLower(filepath.Ext(file.Filename)) {
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	default:
		return "image/jpeg"
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func toIngredientResponse(ingredient *entities.Ingredient) domain.IngredientResponse {
	return domain.IngredientResponse{
		ID:          ingredient.ID.String(),
		Name:        ingredient.Name,
		Quantity:    ingredient.Quantity,
		Unit:        ingredient.Unit,
		Category:    ingredient.Category,
		MinQuantity: ingredient.MinQuantity,
		CreatedAt:   ingredient.CreatedAt,
	}
}

func toToBuyResponse(item *entities.ToBuyItem) domain.ToBuyResponse {
	return domain.ToBuyResponse{
		ID:       item.ID.String(),
		Name:     item.Name,
		Quantity: item.Quantity,
		Unit:     item.Unit,
		Category: item.Category,
		LastUsed: item.LastUsed,
	}
}
