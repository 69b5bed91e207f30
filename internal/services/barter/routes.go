package barter

import (
	"github.com/gofiber/fiber/v3"
	"github.com/rajivgeraev/bolend-api/internal/middleware"
)

// SetupRoutes настраивает маршруты для API обменов
func (s *BarterService) SetupRoutes(app *fiber.App) {
	// Группа для API обменов
	api := app.Group("/api/barter/requests")

	// Защищенные маршруты (требуют авторизации)
	api.Use(middleware.AuthMiddleware(s.jwtService))

	// Маршрут для создания запроса на обмен
	api.Post("/", s.ProposeBarter)

	// Маршрут для получения списка запросов на обмен
	api.Get("/", s.GetMyRequests)

	// Маршруты жизненного цикла запроса
	api.Post("/:product_id/:request_id/accept", s.AcceptBarter)
	api.Post("/:product_id/:request_id/reject", s.RejectBarter)
	api.Post("/:product_id/:request_id/withdraw", s.WithdrawBarter)

	// Маршруты расчёта по обмену
	api.Post("/:product_id/:request_id/exchange", s.ContinueExchange)
	api.Post("/:product_id/:request_id/confirm-payment", s.ConfirmPayment)
}
