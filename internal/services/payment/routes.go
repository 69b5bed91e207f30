package payment

import (
	"github.com/gofiber/fiber/v3"
	"github.com/rajivgeraev/bolend-api/internal/middleware"
)

// SetupRoutes настраивает маршруты для API платежей
func (s *RazorpayService) SetupRoutes(app *fiber.App) {
	// Группа для API платежей
	api := app.Group("/api/payment")

	// Защищенные маршруты (требуют авторизации)
	api.Use(middleware.AuthMiddleware(s.jwtService))

	// Маршрут для создания заказа в платёжном шлюзе
	api.Post("/order", s.CreateOrderHandler)

	// Маршрут для проверки подписи платежа
	api.Post("/verify", s.VerifyPaymentHandler)
}
