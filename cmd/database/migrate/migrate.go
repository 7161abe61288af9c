package migration

import (
	"fmt"
	"log"

	"github.com/megh2001/pantry-helper/entities"

	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	db.Exec("CREATE EXTENSION IF NOT EXISTS \"uuid-ossp\";")

	if err := db.AutoMigrate(&entities.Ingredient{}); err != nil {
		log.Fatalf("Error migrating ingredient database: %v", err)
		return err
	}
	if err := db.AutoMigrate(&entities.ToBuyItem{}); err != nil {
		log.Fatalf("Error migrating to-buy item database: %v", err)
		return err
	}

	fmt.Println("Database migration complete")
	return nil
}
