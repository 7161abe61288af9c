package config

import (
	"os"
	"time"

	"github.com/megh2001/pantry-helper/internal/api/handlers"
	"github.com/megh2001/pantry-helper/internal/api/routes"
	"github.com/megh2001/pantry-helper/internal/middleware"
	"github.com/megh2001/pantry-helper/internal/utils"
	"github.com/megh2001/pantry-helper/internal/utils/storage"
	"github.com/megh2001/pantry-helper/pkg/ai"
	"github.com/megh2001/pantry-helper/pkg/pantry"
	"github.com/megh2001/pantry-helper/pkg/recommend"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"gorm.io/gorm"
)

func NewApp(db *gorm.DB) (*fiber.App, error) {
	utils.InitValidator()
	app := fiber.New(fiber.Config{
		EnablePrintRoutes: true,
	})
	middlewares := middleware.NewMiddleware()
	validator := utils.Validate

	// setting up logging and limiter
	err := os.MkdirAll("./logs", os.ModePerm)
	if err != nil {
		log.Fatalf("error creating logs directory: %v", err)
	}
	file, err := os.OpenFile(
		"./logs/app.log",
		os.O_RDWR|os.O_CREATE|os.O_APPEND,
		0666,
	)
	if err != nil {
		log.Fatalf("error opening file: %v", err)
	}
	app.Use(logger.New(logger.Config{
		TimeFormat: "2006-01-02 15:04:05",
		Output:     file,
	}))

	app.Use(limiter.New(limiter.Config{
		Max:        10,
		Expiration: 1 * time.Second,
	}))

	// utils
	s3 := storage.NewAwsS3()

	// Repository
	pantryRepository := pantry.NewPantryRepository(db)

	// Service
	aiService := ai.NewAIService()
	pantryService := pantry.NewPantryService(pantryRepository, aiService, s3)
	recommendService := recommend.NewRecommendService(pantryRepository, aiService, nil)

	// Handler
	pantryHandler := handlers.NewPantryHandler(pantryService, validator)
	recommendHandler := handlers.NewRecommendHandler(recommendService)

	// routes
	routesConfig := routes.Config{
		App:              app,
		PantryHandler:    pantryHandler,
		RecommendHandler: recommendHandler,
		Middleware:       middlewares,
	}
	routesConfig.Setup()
	return app, nil
}
