package upload

import (
	"github.com/gofiber/fiber/v3"

	"github.com/rajivgeraev/bolend-api/internal/middleware"
)

// SetupRoutes настраивает маршруты для загрузки изображений
func (s *UploadService) SetupRoutes(app *fiber.App) {
	uploadGroup := app.Group("/api/upload", middleware.AuthMiddleware(s.jwtService))

	uploadGroup.Get("/params", s.GenerateUploadParams)
	uploadGroup.Post("/", s.UploadImage)
}
