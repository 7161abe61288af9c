package entities

import (
	"github.com/google/uuid"
)

type Ingredient struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	Name        string    `gorm:"uniqueIndex" json:"name"`
	Quantity    float64   `json:"quantity"`
	Unit        string    `json:"unit"`
	Category    string    `json:"category"` // e.g. "pantry", "dairy", "produce"
	MinQuantity float64   `json:"min_quantity"`

	Timestamp
}
