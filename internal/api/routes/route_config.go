package routes

import (
	"github.com/megh2001/pantry-helper/internal/api/handlers"
	"github.com/megh2001/pantry-helper/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type Config struct {
	App              *fiber.App
	PantryHandler    handlers.PantryHandler
	RecommendHandler handlers.RecommendHandler
	Middleware       middleware.Middleware
}

func (c *Config) Setup() {
	c.App.Use(c.Middleware.CORSMiddleware())
	c.Pantry()
	c.Recipes()
	c.ToBuy()
	c.GuestRoute()
}

func (c *Config) Pantry() {
	pantry := c.App.Group("/api/v1/pantry")
	{
		pantry.Get("", c.PantryHandler.GetPantry)
		pantry.Post("", c.PantryHandler.AddIngredient)
		pantry.Delete("/clear", c.PantryHandler.ClearPantry)
		pantry.Delete("/:id", c.PantryHandler.RemoveIngredient)
		pantry.Post("/receipt", c.PantryHandler.ProcessReceipt)
	}
}

func (c *Config) Recipes() {
	recipes := c.App.Group("/api/v1/recipes")
	{
		recipes.Get("/recommend", c.RecommendHandler.GetRecommendations)
		recipes.Post("/use", c.PantryHandler.UseRecipe)
	}
}

func (c *Config) ToBuy() {
	toBuy := c.App.Group("/api/v1/to-buy")
	{
		toBuy.Get("", c.PantryHandler.GetToBuyList)
		toBuy.Post("", c.PantryHandler.AddToBuyItem)
		toBuy.Post("/email", c.PantryHandler.EmailToBuyList)
		toBuy.Delete("/clear", c.PantryHandler.ClearToBuyList)
		toBuy.Delete("/:id", c.PantryHandler.RemoveToBuyItem)
	}
}

func (c *Config) GuestRoute() {
	c.App.Get("/api/ping", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "pong"})
	})
}
