package controllers

import (
	"github.com/gofiber/fiber/v2"
)

// Every JSON endpoint answers in the same envelope so clients can branch on
// "status" without inspecting HTTP codes first.

func successResponse(c *fiber.Ctx, data interface{}) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "success",
		"data":   data,
	})
}

func errorResponse(c *fiber.Ctx, code int, message string) error {
	return c.Status(code).JSON(fiber.Map{
		"status":  "error",
		"message": message,
	})
}
