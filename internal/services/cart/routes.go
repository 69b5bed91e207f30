package cart

import (
	"github.com/gofiber/fiber/v3"

	"github.com/rajivgeraev/bolend-api/internal/middleware"
)

// SetupRoutes настраивает маршруты для сервиса корзины
func (s *CartService) SetupRoutes(app *fiber.App) {
	cartGroup := app.Group("/api/cart", middleware.AuthMiddleware(s.jwtService))

	cartGroup.Get("/", s.GetCart)
	cartGroup.Post("/", s.AddToCart)
	cartGroup.Delete("/:product_id", s.RemoveFromCart)
	cartGroup.Post("/checkout", s.Checkout)
	cartGroup.Post("/checkout/verify", s.CheckoutVerify)
}
