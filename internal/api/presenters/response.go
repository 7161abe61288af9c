package presenters

import (
	"github.com/gofiber/fiber/v2"
)

func SuccessResponse(c *fiber.Ctx, data interface{}, code int, message string) error {
	return c.Status(code).JSON(fiber.Map{
		"status":  "success",
		"message": message,
		"data":    data,
	})
}

func ErrorResponse(c *fiber.Ctx, code int, message string, err error) error {
	detail := ""
	if err != nil {
		detail = err.Error()
	}
	return c.Status(code).JSON(fiber.Map{
		"status":  "error",
		"message": message,
		"error":   detail,
	})
}
