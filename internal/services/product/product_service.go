package product

import (
	"log"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/rajivgeraev/bolend-api/internal/config"
	"github.com/rajivgeraev/bolend-api/internal/db"
	"github.com/rajivgeraev/bolend-api/internal/models"
	"github.com/rajivgeraev/bolend-api/internal/utils"
)

// ProductService представляет сервис для работы с товарами
type ProductService struct {
	cfg        *config.Config
	jwtService *utils.JWTService
}

// NewProductService создает новый экземпляр ProductService
func NewProductService(cfg *config.Config) *ProductService {
	return &ProductService{
		cfg:        cfg,
		jwtService: utils.NewJWTService(cfg.JWTSecret),
	}
}

// CreateProduct обрабатывает создание нового товара
func (s *ProductService) CreateProduct(c fiber.Ctx) error {
	userID := c.Locals("userID").(string)

	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID пользователя"})
	}

	// Извлекаем данные из запроса
	var requestData struct {
		Name        string  `json:"name"`
		Description string  `json:"description"`
		Price       float64 `json:"price"`
		ImageURL    string  `json:"image_url"`
		Category    string  `json:"category"`
	}

	if err := c.Bind().Body(&requestData); err != nil {
		log.Printf("Ошибка декодирования тела запроса: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат данных"})
	}

	// Валидация обязательных полей
	if requestData.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Название обязательно"})
	}

	if requestData.Price < 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Цена не может быть отрицательной"})
	}

	productID := uuid.New()

	ctx, cancel := db.GetContext()
	defer cancel()

	// Новый товар создается закрытым для продажи, владелец открывает его сам
	_, err = db.Pool.Exec(ctx, `
		INSERT INTO products (id, user_id, name, description, price, image_url, category, status, barter_requests)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, '[]')
	`, productID, userUUID, requestData.Name, requestData.Description,
		requestData.Price, requestData.ImageURL, requestData.Category, models.ProductUnavailable)

	if err != nil {
		log.Printf("Ошибка вставки товара: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка сохранения товара"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success":    true,
		"product_id": productID,
		"message":    "Товар успешно добавлен",
	})
}

// GetPublicProducts возвращает все доступные для обмена товары
func (s *ProductService) GetPublicProducts(c fiber.Ctx) error {
	ctx, cancel := db.GetContext()
	defer cancel()

	rows, err := db.Pool.Query(ctx, `
		SELECT id, user_id, name, description, price, image_url, COALESCE(category, ''), status, created_at, updated_at
		FROM products
		WHERE status = $1
	`, models.ProductAvailable)

	if err != nil {
		log.Printf("Ошибка запроса товаров: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка получения товаров"})
	}
	defer rows.Close()

	products := make([]models.Product, 0)
	for rows.Next() {
		var product models.Product
		if err := rows.Scan(
			&product.ID,
			&product.UserID,
			&product.Name,
			&product.Description,
			&product.Price,
			&product.ImageURL,
			&product.Category,
			&product.Status,
			&product.CreatedAt,
			&product.UpdatedAt,
		); err != nil {
			log.Printf("Ошибка сканирования строки: %v", err)
			continue
		}
		product.BarterRequests = []models.BarterRequest{}
		products = append(products, product)
	}

	return c.JSON(fiber.Map{
		"products": products,
		"count":    len(products),
	})
}

// GetMyProducts возвращает товары текущего пользователя вместе с запросами на обмен
func (s *ProductService) GetMyProducts(c fiber.Ctx) error {
	userID := c.Locals("userID").(string)

	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID пользователя"})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	rows, err := db.Pool.Query(ctx, `
		SELECT id, user_id, name, description, price, image_url, COALESCE(category, ''), status, barter_requests, created_at, updated_at
		FROM products
		WHERE user_id = $1
		ORDER BY updated_at DESC
	`, userUUID)

	if err != nil {
		log.Printf("Ошибка запроса товаров: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка получения товаров"})
	}
	defer rows.Close()

	products := make([]models.Product, 0)
	for rows.Next() {
		var product models.Product
		var requestsData []byte
		if err := rows.Scan(
			&product.ID,
			&product.UserID,
			&product.Name,
			&product.Description,
			&product.Price,
			&product.ImageURL,
			&product.Category,
			&product.Status,
			&requestsData,
			&product.CreatedAt,
			&product.UpdatedAt,
		); err != nil {
			log.Printf("Ошибка сканирования строки: %v", err)
			continue
		}

		requests, err := models.ParseBarterRequests(requestsData)
		if err != nil {
			log.Printf("Ошибка разбора запросов на обмен для товара %s: %v", product.ID, err)
			requests = []models.BarterRequest{}
		}
		product.BarterRequests = requests
		products = append(products, product)
	}

	return c.JSON(fiber.Map{
		"products": products,
		"count":    len(products),
	})
}

// GetProduct возвращает один товар по ID
func (s *ProductService) GetProduct(c fiber.Ctx) error {
	productID := c.Params("id")

	productUUID, err := uuid.Parse(productID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID товара"})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	var product models.Product
	var requestsData []byte
	err = db.Pool.QueryRow(ctx, `
		SELECT id, user_id, name, description, price, image_url, COALESCE(category, ''), status, barter_requests, created_at, updated_at
		FROM products
		WHERE id = $1
	`, productUUID).Scan(
		&product.ID,
		&product.UserID,
		&product.Name,
		&product.Description,
		&product.Price,
		&product.ImageURL,
		&product.Category,
		&product.Status,
		&requestsData,
		&product.CreatedAt,
		&product.UpdatedAt,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Товар не найден"})
		}
		log.Printf("Ошибка запроса товара: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка получения товара"})
	}

	requests, err := models.ParseBarterRequests(requestsData)
	if err != nil {
		log.Printf("Ошибка разбора запросов на обмен: %v", err)
		requests = []models.BarterRequest{}
	}
	product.BarterRequests = requests

	return c.JSON(fiber.Map{"product": product})
}

// UpdateProductStatus переключает статус товара (открыт/закрыт для обмена)
func (s *ProductService) UpdateProductStatus(c fiber.Ctx) error {
	userID := c.Locals("userID").(string)
	productID := c.Params("id")

	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID пользователя"})
	}

	productUUID, err := uuid.Parse(productID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID товара"})
	}

	var requestData struct {
		Status string `json:"status"` // available, unavailable
	}

	if err := c.Bind().Body(&requestData); err != nil {
		log.Printf("Ошибка декодирования тела запроса: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат данных"})
	}

	if requestData.Status != models.ProductAvailable && requestData.Status != models.ProductUnavailable {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Недопустимый статус товара"})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	// Проверяем владельца и активные запросы на обмен
	var ownerID uuid.UUID
	var requestsData []byte
	err = db.Pool.QueryRow(ctx, `
		SELECT user_id, barter_requests FROM products WHERE id = $1
	`, productUUID).Scan(&ownerID, &requestsData)

	if err != nil {
		if err == pgx.ErrNoRows {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Товар не найден"})
		}
		log.Printf("Ошибка запроса товара: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка получения товара"})
	}

	if ownerID != userUUID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Вы не являетесь владельцем товара"})
	}

	// Пока по товару идёт обмен, вернуть его на витрину нельзя
	if requestData.Status == models.ProductAvailable {
		requests, parseErr := models.ParseBarterRequests(requestsData)
		if parseErr == nil && len(requests) > 0 {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "По товару есть активный запрос на обмен"})
		}
	}

	_, err = db.Pool.Exec(ctx, `
		UPDATE products
		SET status = $1, updated_at = NOW()
		WHERE id = $2
	`, requestData.Status, productUUID)

	if err != nil {
		log.Printf("Ошибка обновления статуса товара: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка обновления статуса"})
	}

	return c.JSON(fiber.Map{
		"success":    true,
		"product_id": productID,
		"status":     requestData.Status,
	})
}
