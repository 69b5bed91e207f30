package cart

import (
	"context"
	"log"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/rajivgeraev/bolend-api/internal/config"
	"github.com/rajivgeraev/bolend-api/internal/db"
	"github.com/rajivgeraev/bolend-api/internal/models"
	"github.com/rajivgeraev/bolend-api/internal/services/payment"
	"github.com/rajivgeraev/bolend-api/internal/utils"
)

// CartService представляет сервис для работы с корзиной
type CartService struct {
	cfg        *config.Config
	jwtService *utils.JWTService
	payments   *payment.RazorpayService
}

// NewCartService создает новый экземпляр CartService
func NewCartService(cfg *config.Config, payments *payment.RazorpayService) *CartService {
	return &CartService{
		cfg:        cfg,
		jwtService: utils.NewJWTService(cfg.JWTSecret),
		payments:   payments,
	}
}

// CartTotal возвращает сумму текущих цен товаров корзины
func CartTotal(products []models.Product) float64 {
	var total float64
	for _, p := range products {
		total += p.Price
	}
	return total
}

// checkoutOrderMatches проверяет, что платёж относится к заказу,
// привязанному к корзине при checkout. Без привязанного заказа
// платёж не принимается
func checkoutOrderMatches(payload models.PaymentVerification, orderID string) bool {
	if orderID == "" {
		return false
	}
	return payload.OrderCreationID == orderID && payload.RazorpayOrderID == orderID
}

// GetCart возвращает товары корзины и итоговую сумму
func (s *CartService) GetCart(c fiber.Ctx) error {
	userID := c.Locals("userID").(string)

	ctx, cancel := db.GetContext()
	defer cancel()

	cartIDs, errResp := loadCart(ctx, userID)
	if errResp != nil {
		return errResp(c)
	}

	products := resolveCartProducts(ctx, cartIDs)

	return c.JSON(fiber.Map{
		"items": products,
		"total": CartTotal(products),
		"count": len(products),
	})
}

// AddToCart добавляет товар в корзину.
// Повторное добавление того же товара ничего не меняет.
func (s *CartService) AddToCart(c fiber.Ctx) error {
	userID := c.Locals("userID").(string)

	var requestData struct {
		ProductID string `json:"product_id"`
	}

	if err := c.Bind().Body(&requestData); err != nil {
		log.Printf("Ошибка декодирования тела запроса: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат данных"})
	}

	productUUID, err := uuid.Parse(requestData.ProductID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID товара"})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	// Проверяем, что товар существует и доступен
	var status string
	err = db.Pool.QueryRow(ctx, `
		SELECT status FROM products WHERE id = $1
	`, productUUID).Scan(&status)

	if err != nil {
		if err == pgx.ErrNoRows {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Товар не найден"})
		}
		log.Printf("Ошибка проверки товара: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка проверки товара"})
	}

	if status != models.ProductAvailable {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Товар недоступен для покупки"})
	}

	// Добавление с сохранением порядка; дубликат не добавляется
	_, err = db.Pool.Exec(ctx, `
		UPDATE users
		SET cart = array_append(cart, $2), updated_at = NOW()
		WHERE id = $1 AND NOT ($2 = ANY(cart))
	`, userID, productUUID.String())

	if err != nil {
		log.Printf("Ошибка добавления в корзину: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка добавления в корзину"})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Товар добавлен в корзину",
	})
}

// RemoveFromCart удаляет товар из корзины и возвращает новую сумму
func (s *CartService) RemoveFromCart(c fiber.Ctx) error {
	userID := c.Locals("userID").(string)
	productID := c.Params("product_id")

	productUUID, err := uuid.Parse(productID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID товара"})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	var cartIDs []string
	err = db.Pool.QueryRow(ctx, `
		UPDATE users
		SET cart = array_remove(cart, $2), updated_at = NOW()
		WHERE id = $1
		RETURNING cart
	`, userID, productUUID.String()).Scan(&cartIDs)

	if err != nil {
		if err == pgx.ErrNoRows {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Пользователь не найден"})
		}
		log.Printf("Ошибка удаления из корзины: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка удаления из корзины"})
	}

	products := resolveCartProducts(ctx, cartIDs)

	return c.JSON(fiber.Map{
		"success": true,
		"total":   CartTotal(products),
		"count":   len(products),
	})
}

// Checkout создает заказ в платёжном шлюзе на сумму корзины
func (s *CartService) Checkout(c fiber.Ctx) error {
	userID := c.Locals("userID").(string)

	ctx, cancel := db.GetContext()
	defer cancel()

	cartIDs, errResp := loadCart(ctx, userID)
	if errResp != nil {
		return errResp(c)
	}

	products := resolveCartProducts(ctx, cartIDs)
	total := CartTotal(products)

	if total <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Корзина пуста"})
	}

	orderID, err := s.payments.CreateOrder(total, "")
	if err != nil {
		log.Printf("Ошибка создания заказа в платёжном шлюзе: %v", err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "Ошибка создания заказа в платёжном шлюзе"})
	}

	// Привязываем заказ к корзине: verify примет платёж только по нему.
	// Повторный checkout заменяет заказ новым
	_, err = db.Pool.Exec(ctx, `
		UPDATE users
		SET checkout_order_id = $2, checkout_total = $3, updated_at = NOW()
		WHERE id = $1
	`, userID, orderID, total)

	if err != nil {
		log.Printf("Ошибка сохранения заказа: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка сохранения заказа"})
	}

	var userName, userEmail string
	if err := db.Pool.QueryRow(ctx, `
		SELECT name, email FROM users WHERE id = $1
	`, userID).Scan(&userName, &userEmail); err != nil {
		log.Printf("Ошибка запроса пользователя: %v", err)
	}

	return c.JSON(fiber.Map{
		"order_id": orderID,
		"total":    total,
		"payment":  s.payments.CheckoutOptions(orderID, total, userName, userEmail),
	})
}

// CheckoutVerify проверяет подпись платежа и передает товары покупателю
func (s *CartService) CheckoutVerify(c fiber.Ctx) error {
	userID := c.Locals("userID").(string)

	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID пользователя"})
	}

	var payload models.PaymentVerification
	if err := c.Bind().Body(&payload); err != nil {
		log.Printf("Ошибка декодирования тела запроса: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат данных"})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	var cartIDs []string
	var checkoutOrderID string
	var checkoutTotal float64
	err = db.Pool.QueryRow(ctx, `
		SELECT cart, COALESCE(checkout_order_id, ''), COALESCE(checkout_total, 0)
		FROM users
		WHERE id = $1
	`, userID).Scan(&cartIDs, &checkoutOrderID, &checkoutTotal)

	if err != nil {
		if err == pgx.ErrNoRows {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Пользователь не найден"})
		}
		log.Printf("Ошибка запроса корзины: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка получения корзины"})
	}

	// Платёж принимается только по заказу, привязанному при checkout:
	// подпись чужого заказа товары не передаст
	if !checkoutOrderMatches(payload, checkoutOrderID) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Несовпадение заказа"})
	}

	if len(cartIDs) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Корзина пуста"})
	}

	products := resolveCartProducts(ctx, cartIDs)
	if CartTotal(products) != checkoutTotal {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Состав корзины изменился после создания заказа"})
	}

	if !s.payments.VerifySignature(payload.OrderCreationID, payload.RazorpayPaymentID, payload.RazorpaySignature) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "payment verification failed",
			"isOk":    false,
		})
	}

	// Передача всех товаров корзины и её очистка выполняются одной транзакцией
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		log.Printf("Ошибка начала транзакции: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка базы данных"})
	}
	defer tx.Rollback(ctx)

	for _, productID := range cartIDs {
		_, err = tx.Exec(ctx, `
			UPDATE products
			SET user_id = $1, status = $2, updated_at = NOW()
			WHERE id = $3
		`, userUUID, models.ProductUnavailable, productID)

		if err != nil {
			log.Printf("Ошибка передачи товара %s: %v", productID, err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка передачи товаров"})
		}
	}

	_, err = tx.Exec(ctx, `
		UPDATE users
		SET cart = '{}', checkout_order_id = NULL, checkout_total = 0, updated_at = NOW()
		WHERE id = $1
	`, userUUID)

	if err != nil {
		log.Printf("Ошибка очистки корзины: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка очистки корзины"})
	}

	if err = tx.Commit(ctx); err != nil {
		log.Printf("Ошибка фиксации транзакции: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка базы данных"})
	}

	return c.JSON(fiber.Map{
		"message": "payment verified successfully",
		"isOk":    true,
	})
}

// loadCart возвращает ID товаров в корзине пользователя
func loadCart(ctx context.Context, userID string) ([]string, func(fiber.Ctx) error) {
	var cartIDs []string
	err := db.Pool.QueryRow(ctx, `
		SELECT cart FROM users WHERE id = $1
	`, userID).Scan(&cartIDs)

	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, func(c fiber.Ctx) error {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Пользователь не найден"})
			}
		}
		log.Printf("Ошибка запроса корзины: %v", err)
		return nil, func(c fiber.Ctx) error {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка получения корзины"})
		}
	}

	return cartIDs, nil
}

// resolveCartProducts загружает товары корзины, пропуская удалённые
func resolveCartProducts(ctx context.Context, cartIDs []string) []models.Product {
	products := make([]models.Product, 0, len(cartIDs))

	for _, id := range cartIDs {
		productUUID, err := uuid.Parse(id)
		if err != nil {
			log.Printf("Некорректный ID товара в корзине: %s", id)
			continue
		}

		var product models.Product
		err = db.Pool.QueryRow(ctx, `
			SELECT id, user_id, name, description, price, image_url, COALESCE(category, ''), status
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
		)

		if err != nil {
			if err != pgx.ErrNoRows {
				log.Printf("Ошибка запроса товара %s: %v", id, err)
			}
			continue
		}

		product.BarterRequests = []models.BarterRequest{}
		products = append(products, product)
	}

	return products
}
