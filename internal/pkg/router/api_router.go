package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"github.com/roamline/roamline/app/controllers"
)

type ApiRouter struct {
}

func (h ApiRouter) InstallRouter(app *fiber.App) {
	api := app.Group("/api", limiter.New())
	api.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
			"message": "Roamline API",
		})
	})

	// API v1 routes
	v1 := api.Group("/v1")
	v1.Get("/packages", controllers.HandleListPackages)
	v1.Get("/packages/:id", controllers.HandleGetPackage)
	v1.Post("/checkout/validate", controllers.HandleCheckoutValidate)
}

func NewApiRouter() *ApiRouter {
	return &ApiRouter{}
}
