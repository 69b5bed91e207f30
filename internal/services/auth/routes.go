package auth

import (
	"github.com/gofiber/fiber/v3"
	"github.com/rajivgeraev/bolend-api/internal/middleware"
)

// SetupRoutes регистрирует маршруты в Fiber
func (s *AuthService) SetupRoutes(app *fiber.App) {
	app.Post("/api/auth/signup", s.SignupHandler)
	app.Post("/api/auth/signin", s.SigninHandler)

	// Защищенный маршрут профиля. Middleware навешивается на сам маршрут,
	// чтобы не перекрывать публичные маршруты остальных сервисов под /api
	app.Get("/api/profile", s.ProfileHandler, middleware.AuthMiddleware(s.jwtService))
}
