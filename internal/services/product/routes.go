package product

import (
	"github.com/gofiber/fiber/v3"
	"github.com/rajivgeraev/bolend-api/internal/middleware"
)

// SetupRoutes настраивает маршруты для API товаров
func (s *ProductService) SetupRoutes(app *fiber.App) {
	// Публичный маршрут для витрины
	app.Get("/api/products", s.GetPublicProducts)

	// Защищенные маршруты (требуют авторизации)
	api := app.Group("/api/products")
	api.Use(middleware.AuthMiddleware(s.jwtService))

	// Маршрут для добавления товара
	api.Post("/", s.CreateProduct)

	// Маршрут для получения списка своих товаров
	api.Get("/my", s.GetMyProducts)

	// Маршрут для получения одного товара по ID
	api.Get("/:id", s.GetProduct)

	// Маршрут для переключения статуса товара
	api.Put("/:id/status", s.UpdateProductStatus)
}
