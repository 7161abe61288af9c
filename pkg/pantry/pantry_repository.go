package pantry

import (
	"context"
	"errors"

	"github.com/megh2001/pantry-helper/entities"
	"github.com/megh2001/pantry-helper/internal/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type (
	PantryRepository interface {
		ListIngredients(ctx context.Context) ([]*entities.Ingredient, error)
		GetIngredientByName(ctx context.Context, key string) (*entities.Ingredient, error)
		GetIngredientByID(ctx context.Context, id string) (*entities.Ingredient, error)
		CreateIngredient(ctx context.Context, ingredient *entities.Ingredient) error
		UpdateIngredient(ctx context.Context, ingredient *entities.Ingredient) error
		DeleteIngredient(ctx context.Context, id uuid.UUID) error
		ClearIngredients(ctx context.Context) error

		ListToBuy(ctx context.Context) ([]*entities.ToBuyItem, error)
		GetToBuyByID(ctx context.Context, id string) (*entities.ToBuyItem, error)
		CreateToBuy(ctx context.Context, item *entities.ToBuyItem) error
		UpdateToBuy(ctx context.Context, item *entities.ToBuyItem) error
		DeleteToBuy(ctx context.Context, id uuid.UUID) error
		ClearToBuy(ctx context.Context) error
		GetToBuyByName(ctx context.Context, key string) (*entities.ToBuyItem, error)

		// PromoteDepleted atomically removes an ingredient (when id is
		// non-nil) and merges a to-buy entry in its place, so a name is
		// never left in both tables.
		PromoteDepleted(ctx context.Context, ingredientID *uuid.UUID, item entities.ToBuyItem) error

		// ApplyRecipeUsage persists the full outcome of a recipe
		// confirmation in one transaction: quantity updates, depletions
		// and to-buy merges.
		ApplyRecipeUsage(ctx context.Context, updates []*entities.Ingredient, deletions []uuid.UUID, additions []entities.ToBuyItem) error
	}

	pantryRepository struct {
		db *gorm.DB
	}
)

func NewPantryRepository(db *gorm.DB) PantryRepository {
	return &pantryRepository{db: db}
}

func (r *pantryRepository) ListIngredients(ctx context.Context) ([]*entities.Ingredient, error) {
	var ingredients []*entities.Ingredient
	if err := r.db.WithContext(ctx).Order("name asc").Find(&ingredients).Error; err != nil {
		return nil, err
	}
	return ingredients, nil
}

func (r *pantryRepository) GetIngredientByName(ctx context.Context, key string) (*entities.Ingredient, error) {
	var ingredient entities.Ingredient
	if err := r.db.WithContext(ctx).Where("LOWER(name) = ?", key).First(&ingredient).Error; err != nil {
		return nil, err
	}
	return &ingredient, nil
}

func (r *pantryRepository) GetIngredientByID(ctx context.Context, id string) (*entities.Ingredient, error) {
	var ingredient entities.Ingredient
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&ingredient).Error; err != nil {
		return nil, err
	}
	return &ingredient, nil
}

func (r *pantryRepository) CreateIngredient(ctx context.Context, ingredient *entities.Ingredient) error {
	return r.db.WithContext(ctx).Create(ingredient).Error
}

func (r *pantryRepository) UpdateIngredient(ctx context.Context, ingredient *entities.Ingredient) error {
	return r.db.WithContext(ctx).Save(ingredient).Error
}

func (r *pantryRepository) DeleteIngredient(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entities.Ingredient{}, "id = ?", id).Error
}

func (r *pantryRepository) ClearIngredients(ctx context.Context) error {
	return r.db.WithContext(ctx).Where("1 = 1").Delete(&entities.Ingredient{}).Error
}

func (r *pantryRepository) ListToBuy(ctx context.Context) ([]*entities.ToBuyItem, error) {
	var items []*entities.ToBuyItem
	if err := r.db.WithContext(ctx).Order("name asc").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *pantryRepository) GetToBuyByID(ctx context.Context, id string) (*entities.ToBuyItem, error) {
	var item entities.ToBuyItem
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *pantryRepository) GetToBuyByName(ctx context.Context, key string) (*entities.ToBuyItem, error) {
	var item entities.ToBuyItem
	if err := r.db.WithContext(ctx).Where("LOWER(name) = ?", key).First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *pantryRepository) CreateToBuy(ctx context.Context, item *entities.ToBuyItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *pantryRepository) UpdateToBuy(ctx context.Context, item *entities.ToBuyItem) error {
	return r.db.WithContext(ctx).Save(item).Error
}

func (r *pantryRepository) DeleteToBuy(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entities.ToBuyItem{}, "id = ?", id).Error
}

func (r *pantryRepository) ClearToBuy(ctx context.Context) error {
	return r.db.WithContext(ctx).Where("1 = 1").Delete(&entities.ToBuyItem{}).Error
}

func (r *pantryRepository) PromoteDepleted(ctx context.Context, ingredientID *uuid.UUID, item entities.ToBuyItem) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if ingredientID != nil {
			if err := tx.Delete(&entities.Ingredient{}, "id = ?", *ingredientID).Error; err != nil {
				return err
			}
		}
		return mergeToBuy(tx, item)
	})
}

func (r *pantryRepository) ApplyRecipeUsage(ctx context.Context, updates []*entities.Ingredient, deletions []uuid.UUID, additions []entities.ToBuyItem) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, ingredient := range updates {
			if err := tx.Save(ingredient).Error; err != nil {
				return err
			}
		}
		for _, id := range deletions {
			if err := tx.Delete(&entities.Ingredient{}, "id = ?", id).Error; err != nil {
				return err
			}
		}
		for _, item := range additions {
			if err := mergeToBuy(tx, item); err != nil {
				return err
			}
		}
		return nil
	})
}

// mergeToBuy upserts by normalized name: quantity becomes the max of
// the existing and incoming values, provenance is overwritten.
func mergeToBuy(tx *gorm.DB, item entities.ToBuyItem) error {
	var existing entities.ToBuyItem
	err := tx.Where("LOWER(name) = ?", utils.NormalizeName(item.Name)).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		if item.ID == uuid.Nil {
			item.ID = uuid.New()
		}
		return tx.Create(&item).Error
	}
	if err != nil {
		return err
	}

	if item.Quantity > existing.Quantity {
		existing.Quantity = item.Quantity
	}
	existing.LastUsed = item.LastUsed
	return tx.Save(&existing).Error
}
