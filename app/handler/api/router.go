package handler

import (
	"catalog-service/app/middleware"
	"catalog-service/config"

	"github.com/gofiber/fiber/v2"
)

func SetupRouter(app *fiber.App, productHandler *ProductHandler, reservationHandler *ReservationHandler, cfg *config.Config) {

	api := app.Group("/catalog-service").Use(middleware.Auth(cfg.Jwt.SecretKey))

	api.Get("/products/:id", productHandler.Get)

	api.Post("/reservations", reservationHandler.Create)
	api.Get("/reservations/:id", reservationHandler.Get)
	api.Post("/reservations/:id/checkout", reservationHandler.Checkout)
	api.Post("/reservations/:id/cancel", reservationHandler.Cancel)
	api.Get("/reservations/:id/history", reservationHandler.History)

	internal := app.Group("/internal/catalog-service").Use(middleware.AuthInternal(cfg))
	internal.Post("/products", productHandler.Create)
}
