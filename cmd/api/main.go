package main

import (
	"log"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/fiber/v3/middleware/recover"

	"github.com/rajivgeraev/bolend-api/internal/config"
	"github.com/rajivgeraev/bolend-api/internal/db"
	"github.com/rajivgeraev/bolend-api/internal/services/auth"
	"github.com/rajivgeraev/bolend-api/internal/services/barter"
	"github.com/rajivgeraev/bolend-api/internal/services/cart"
	"github.com/rajivgeraev/bolend-api/internal/services/payment"
	"github.com/rajivgeraev/bolend-api/internal/services/product"
	"github.com/rajivgeraev/bolend-api/internal/services/upload"
	"github.com/rajivgeraev/bolend-api/internal/utils"
	"github.com/rajivgeraev/bolend-api/internal/websocket"
)

func main() {
	// Загружаем конфигурацию
	cfg := config.LoadConfig()

	// Инициализируем базу данных
	if err := db.InitDB(cfg); err != nil {
		log.Fatalf("❌ Ошибка при инициализации базы данных: %v", err)
	}
	defer db.CloseDB()

	// Создаём экземпляр Fiber
	app := fiber.New(fiber.Config{
		AppName:      "Borrow & Lend API",
		ErrorHandler: errorHandler,
	})

	// Добавляем middleware
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowCredentials: false,
	}))

	// Менеджер WebSocket-уведомлений
	wsManager := websocket.NewManager()
	defer wsManager.Shutdown()

	// Создаём сервисы
	paymentService := payment.NewRazorpayService(cfg)
	authService := auth.NewAuthService(cfg)
	productService := product.NewProductService(cfg)
	cartService := cart.NewCartService(cfg, paymentService)
	barterService := barter.NewBarterService(cfg, paymentService, wsManager)

	uploadService, err := upload.NewUploadService(cfg)
	if err != nil {
		log.Fatalf("❌ Ошибка инициализации сервиса загрузки: %v", err)
	}

	// Регистрируем маршруты
	authService.SetupRoutes(app)
	productService.SetupRoutes(app)
	cartService.SetupRoutes(app)
	barterService.SetupRoutes(app)
	paymentService.SetupRoutes(app)
	uploadService.SetupRoutes(app)

	// WebSocket-сервер на отдельном порту
	go func() {
		if err := websocket.ListenAndServe(":8081", wsManager, utils.NewJWTService(cfg.JWTSecret)); err != nil {
			log.Fatalf("❌ Ошибка WebSocket-сервера: %v", err)
		}
	}()

	// Запускаем сервер
	log.Println("✅ Borrow & Lend API запущен на порту 8080")
	log.Fatal(app.Listen(":8080"))
}

// errorHandler обрабатывает ошибки Fiber
func errorHandler(c fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	// Проверяем, является ли ошибка из Fiber
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	// Отправляем ошибку в JSON
	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
	})
}
