package entities

import (
	"github.com/google/uuid"
)

type ToBuyItem struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	Name     string    `gorm:"uniqueIndex" json:"name"`
	Quantity float64   `json:"quantity"`
	Unit     string    `json:"unit"`
	Category string    `json:"category"`
	LastUsed string    `json:"last_used"` // recipe name or reason that depleted the item

	Timestamp
}
