package barter

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/rajivgeraev/bolend-api/internal/config"
	"github.com/rajivgeraev/bolend-api/internal/db"
	"github.com/rajivgeraev/bolend-api/internal/models"
	"github.com/rajivgeraev/bolend-api/internal/services/payment"
	"github.com/rajivgeraev/bolend-api/internal/utils"
	"github.com/rajivgeraev/bolend-api/internal/websocket"
)

// BarterService представляет сервис для работы с обменами
type BarterService struct {
	cfg        *config.Config
	jwtService *utils.JWTService
	payments   *payment.RazorpayService
	notifier   *websocket.Manager
}

// NewBarterService создает новый экземпляр BarterService
func NewBarterService(cfg *config.Config, payments *payment.RazorpayService, notifier *websocket.Manager) *BarterService {
	return &BarterService{
		cfg:        cfg,
		jwtService: utils.NewJWTService(cfg.JWTSecret),
		payments:   payments,
		notifier:   notifier,
	}
}

// ProposeBarter создает новый запрос на обмен
func (s *BarterService) ProposeBarter(c fiber.Ctx) error {
	userID := c.Locals("userID").(string)

	requesterID, err := uuid.Parse(userID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID пользователя"})
	}

	// Извлекаем данные из запроса
	var requestData struct {
		TargetProductID  string `json:"target_product_id"`
		OfferedProductID string `json:"offered_product_id"`
	}

	if err := c.Bind().Body(&requestData); err != nil {
		log.Printf("Ошибка декодирования тела запроса: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат данных"})
	}

	if requestData.TargetProductID == "" || requestData.OfferedProductID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Необходимо указать ID товаров для обмена"})
	}

	targetID, err := uuid.Parse(requestData.TargetProductID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID товара-цели"})
	}

	offeredID, err := uuid.Parse(requestData.OfferedProductID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID предложенного товара"})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	// Проверяем, что предложенный товар принадлежит инициатору
	var offered models.Product
	err = db.Pool.QueryRow(ctx, `
		SELECT id, user_id, name, price, image_url FROM products WHERE id = $1
	`, offeredID).Scan(&offered.ID, &offered.UserID, &offered.Name, &offered.Price, &offered.ImageURL)

	if err != nil {
		if err == pgx.ErrNoRows {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Предложенный товар не найден"})
		}
		log.Printf("Ошибка запроса предложенного товара: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка проверки товара"})
	}

	if offered.UserID != requesterID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Вы не можете предложить чужой товар для обмена"})
	}

	// Загружаем товар-цель для денормализованной копии в запросе
	var target models.Product
	err = db.Pool.QueryRow(ctx, `
		SELECT id, user_id, name, price, image_url, status FROM products WHERE id = $1
	`, targetID).Scan(&target.ID, &target.UserID, &target.Name, &target.Price, &target.ImageURL, &target.Status)

	if err != nil {
		if err == pgx.ErrNoRows {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Товар-цель не найден"})
		}
		log.Printf("Ошибка запроса товара-цели: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка проверки товара"})
	}

	if target.UserID == requesterID {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Вы не можете предложить обмен самому себе"})
	}

	if target.Status != models.ProductAvailable {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Товар недоступен для обмена"})
	}

	// Получаем email инициатора для денормализованной копии
	var requesterEmail string
	err = db.Pool.QueryRow(ctx, `
		SELECT email FROM users WHERE id = $1
	`, requesterID).Scan(&requesterEmail)

	if err != nil {
		log.Printf("Ошибка запроса пользователя: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка проверки пользователя"})
	}

	request := models.BarterRequest{
		ID:                  uuid.New(),
		RequestingUserID:    requesterID,
		RequestingUserEmail: requesterEmail,

		SelectedProductID:    offered.ID,
		SelectedProductName:  offered.Name,
		SelectedProductPrice: offered.Price,
		SelectedProductImage: offered.ImageURL,

		BarterExchangeProductID:    target.ID,
		BarterExchangeProductName:  target.Name,
		BarterExchangeProductPrice: target.Price,
		BarterExchangeProductImage: target.ImageURL,

		BarterOwnerID: target.UserID,
		Status:        StatusPending,
		CreatedAt:     time.Now(),
	}

	requestJSON, err := json.Marshal([]models.BarterRequest{request})
	if err != nil {
		log.Printf("Ошибка сериализации запроса на обмен: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка создания запроса"})
	}

	// Конкурирующий запрос, успевший раньше, оставит условный UPDATE без строк
	attached, err := attachBarterRequest(ctx, db.Pool, targetID, requestJSON)
	if err != nil {
		log.Printf("Ошибка создания запроса на обмен: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка сохранения запроса на обмен"})
	}

	if !attached {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Товар недоступен для обмена"})
	}

	s.notify(target.UserID, websocket.EventBarterRequestCreated, targetID, request.ID)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success":    true,
		"request_id": request.ID,
		"message":    "Запрос на обмен успешно создан",
	})
}

// requestWithProduct представляет запрос на обмен вместе с ID товара-цели
type requestWithProduct struct {
	ProductID uuid.UUID `json:"product_id"`
	models.BarterRequest
}

// GetMyRequests возвращает список входящих и исходящих запросов на обмен
func (s *BarterService) GetMyRequests(c fiber.Ctx) error {
	userID := c.Locals("userID").(string)

	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат ID пользователя"})
	}

	// Получаем тип запросов (входящие/исходящие/все)
	requestType := c.Query("type", "all") // all, incoming, outgoing

	ctx, cancel := db.GetContext()
	defer cancel()

	incoming := make([]requestWithProduct, 0)
	outgoing := make([]requestWithProduct, 0)

	if requestType == "incoming" || requestType == "all" {
		// Запросы, вложенные в мои товары
		rows, err := db.Pool.Query(ctx, `
			SELECT id, barter_requests
			FROM products
			WHERE user_id = $1 AND jsonb_array_length(barter_requests) > 0
		`, userUUID)

		if err != nil {
			log.Printf("Ошибка запроса входящих обменов: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка получения запросов на обмен"})
		}

		incoming, err = collectRequests(rows)
		if err != nil {
			log.Printf("Ошибка обработки входящих обменов: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка получения запросов на обмен"})
		}
	}

	if requestType == "outgoing" || requestType == "all" {
		// Мои запросы на чужие товары (поиск по вложенному массиву)
		filter := fmt.Sprintf(`[{"requesting_user_id": %q}]`, userUUID)
		rows, err := db.Pool.Query(ctx, `
			SELECT id, barter_requests
			FROM products
			WHERE barter_requests @> $1::jsonb
		`, filter)

		if err != nil {
			log.Printf("Ошибка запроса исходящих обменов: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка получения запросов на обмен"})
		}

		collected, err := collectRequests(rows)
		if err != nil {
			log.Printf("Ошибка обработки исходящих обменов: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка получения запросов на обмен"})
		}

		// Контейнерный запрос возвращает весь массив товара, оставляем только свои
		for _, r := range collected {
			if r.RequestingUserID == userUUID {
				outgoing = append(outgoing, r)
			}
		}
	}

	return c.JSON(fiber.Map{
		"incoming": incoming,
		"outgoing": outgoing,
	})
}

// collectRequests разворачивает массивы запросов из строк товаров
func collectRequests(rows pgx.Rows) ([]requestWithProduct, error) {
	defer rows.Close()

	result := make([]requestWithProduct, 0)
	for rows.Next() {
		var productID uuid.UUID
		var requestsData []byte
		if err := rows.Scan(&productID, &requestsData); err != nil {
			return nil, err
		}

		requests, err := models.ParseBarterRequests(requestsData)
		if err != nil {
			log.Printf("Ошибка разбора запросов для товара %s: %v", productID, err)
			continue
		}

		for _, r := range requests {
			result = append(result, requestWithProduct{ProductID: productID, BarterRequest: r})
		}
	}

	return result, rows.Err()
}

// AcceptBarter принимает запрос на обмен (только владелец товара-цели)
func (s *BarterService) AcceptBarter(c fiber.Ctx) error {
	userID := c.Locals("userID").(string)

	userUUID, productID, requestID, errResp := parseBarterParams(c, userID)
	if errResp != nil {
		return errResp(c)
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		log.Printf("Ошибка начала транзакции: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка базы данных"})
	}
	defer tx.Rollback(ctx)

	ownerID, requests, errResp := lockProductRequests(ctx, tx, productID)
	if errResp != nil {
		return errResp(c)
	}

	if ownerID != userUUID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Только владелец товара может принять запрос"})
	}

	request, found := models.FindBarterRequest(requests, requestID)
	if !found {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Запрос на обмен не найден"})
	}

	if !CanTransition(request.Status, StatusAccepted) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Запрос уже обработан"})
	}

	request.Status = StatusAccepted
	if err := updateProductRequests(ctx, tx, productID, models.ReplaceBarterRequest(requests, request)); err != nil {
		log.Printf("Ошибка обновления запроса на обмен: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка обновления запроса"})
	}

	if err = tx.Commit(ctx); err != nil {
		log.Printf("Ошибка фиксации транзакции: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка базы данных"})
	}

	s.notify(request.RequestingUserID, websocket.EventBarterRequestAccepted, productID, requestID)

	return c.JSON(fiber.Map{
		"success":    true,
		"request_id": requestID,
		"status":     StatusAccepted,
		"message":    "Запрос на обмен принят",
	})
}

// RejectBarter отклоняет запрос на обмен и возвращает товар на витрину
func (s *BarterService) RejectBarter(c fiber.Ctx) error {
	userID := c.Locals("userID").(string)

	userUUID, productID, requestID, errResp := parseBarterParams(c, userID)
	if errResp != nil {
		return errResp(c)
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		log.Printf("Ошибка начала транзакции: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка базы данных"})
	}
	defer tx.Rollback(ctx)

	ownerID, requests, errResp := lockProductRequests(ctx, tx, productID)
	if errResp != nil {
		return errResp(c)
	}

	if ownerID != userUUID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Только владелец товара может отклонить запрос"})
	}

	request, found := models.FindBarterRequest(requests, requestID)
	if !found {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Запрос на обмен не найден"})
	}

	if request.Status != StatusPending {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Принятый запрос нельзя отклонить"})
	}

	if err := removeRequestAndRestore(ctx, tx, productID, models.RemoveBarterRequest(requests, requestID)); err != nil {
		log.Printf("Ошибка отклонения запроса: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка отклонения запроса"})
	}

	if err = tx.Commit(ctx); err != nil {
		log.Printf("Ошибка фиксации транзакции: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка базы данных"})
	}

	s.notify(request.RequestingUserID, websocket.EventBarterRequestRejected, productID, requestID)

	return c.JSON(fiber.Map{
		"success":    true,
		"request_id": requestID,
		"message":    "Запрос на обмен отклонен",
	})
}

// WithdrawBarter отзывает собственный запрос на обмен.
// Как и при отклонении, товар-цель возвращается на витрину.
func (s *BarterService) WithdrawBarter(c fiber.Ctx) error {
	userID := c.Locals("userID").(string)

	userUUID, productID, requestID, errResp := parseBarterParams(c, userID)
	if errResp != nil {
		return errResp(c)
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		log.Printf("Ошибка начала транзакции: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка базы данных"})
	}
	defer tx.Rollback(ctx)

	ownerID, requests, errResp := lockProductRequests(ctx, tx, productID)
	if errResp != nil {
		return errResp(c)
	}

	request, found := models.FindBarterRequest(requests, requestID)
	if !found {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Запрос на обмен не найден"})
	}

	if request.RequestingUserID != userUUID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Только инициатор запроса может его отозвать"})
	}

	if request.Status != StatusPending {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Принятый запрос нельзя отозвать"})
	}

	if err := removeRequestAndRestore(ctx, tx, productID, models.RemoveBarterRequest(requests, requestID)); err != nil {
		log.Printf("Ошибка отзыва запроса: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка отзыва запроса"})
	}

	if err = tx.Commit(ctx); err != nil {
		log.Printf("Ошибка фиксации транзакции: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка базы данных"})
	}

	s.notify(ownerID, websocket.EventBarterRequestWithdrawn, productID, requestID)

	return c.JSON(fiber.Map{
		"success":    true,
		"request_id": requestID,
		"message":    "Запрос на обмен отозван",
	})
}

// ContinueExchange запускает расчёт по принятому запросу.
// Без доплаты обмен завершается сразу; при нехватке создается заказ
// в платёжном шлюзе, и запрос переходит в awaiting_payment.
func (s *BarterService) ContinueExchange(c fiber.Ctx) error {
	userID := c.Locals("userID").(string)

	userUUID, productID, requestID, errResp := parseBarterParams(c, userID)
	if errResp != nil {
		return errResp(c)
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		log.Printf("Ошибка начала транзакции: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка базы данных"})
	}
	defer tx.Rollback(ctx)

	_, requests, errResp := lockProductRequests(ctx, tx, productID)
	if errResp != nil {
		return errResp(c)
	}

	request, found := models.FindBarterRequest(requests, requestID)
	if !found {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Запрос на обмен не найден"})
	}

	if request.RequestingUserID != userUUID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Только инициатор запроса может продолжить обмен"})
	}

	// Повторный вызов с открытым checkout заменяет заказ новым
	if request.Status != StatusAccepted && request.Status != StatusAwaitingPayment {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Обмен возможен только по принятому запросу"})
	}

	shortfall := PaymentShortfall(request.BarterExchangeProductPrice, request.SelectedProductPrice)

	if shortfall <= 0 {
		// Обмен без доплаты: завершаем в той же транзакции
		if err := settleExchange(ctx, tx, request); err != nil {
			log.Printf("Ошибка завершения обмена: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка завершения обмена"})
		}

		if err = tx.Commit(ctx); err != nil {
			log.Printf("Ошибка фиксации транзакции: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка базы данных"})
		}

		s.notify(request.BarterOwnerID, websocket.EventExchangeCompleted, productID, requestID)
		s.notify(request.RequestingUserID, websocket.EventExchangeCompleted, productID, requestID)

		return c.JSON(fiber.Map{
			"settled": true,
			"message": "Обмен успешно завершен",
		})
	}

	// Заказ в шлюзе создается под блокировкой строки, уже после проверки
	// статуса: отклонённый или завершённый запрос не дойдёт до шлюза
	orderID, err := s.payments.CreateOrder(shortfall, "")
	if err != nil {
		log.Printf("Ошибка создания заказа в платёжном шлюзе: %v", err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "Ошибка создания заказа в платёжном шлюзе"})
	}

	request.Status = StatusAwaitingPayment
	request.PaymentOrderID = orderID
	request.PaymentAmount = shortfall

	if err := updateProductRequests(ctx, tx, productID, models.ReplaceBarterRequest(requests, request)); err != nil {
		log.Printf("Ошибка сохранения заказа: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка сохранения заказа"})
	}

	if err = tx.Commit(ctx); err != nil {
		log.Printf("Ошибка фиксации транзакции: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка базы данных"})
	}

	// Данные пользователя для формы оплаты
	var userName, userEmail string
	if err := db.Pool.QueryRow(ctx, `
		SELECT name, email FROM users WHERE id = $1
	`, userUUID).Scan(&userName, &userEmail); err != nil {
		log.Printf("Ошибка запроса пользователя: %v", err)
	}

	return c.JSON(fiber.Map{
		"settled": false,
		"payment": s.payments.CheckoutOptions(orderID, shortfall, userName, userEmail),
	})
}

// ConfirmPayment проверяет подпись платежа и завершает обмен
func (s *BarterService) ConfirmPayment(c fiber.Ctx) error {
	userID := c.Locals("userID").(string)

	userUUID, productID, requestID, errResp := parseBarterParams(c, userID)
	if errResp != nil {
		return errResp(c)
	}

	var payload models.PaymentVerification
	if err := c.Bind().Body(&payload); err != nil {
		log.Printf("Ошибка декодирования тела запроса: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат данных"})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		log.Printf("Ошибка начала транзакции: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка базы данных"})
	}
	defer tx.Rollback(ctx)

	_, requests, errResp := lockProductRequests(ctx, tx, productID)
	if errResp != nil {
		return errResp(c)
	}

	request, found := models.FindBarterRequest(requests, requestID)
	if !found {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Запрос на обмен не найден"})
	}

	if request.RequestingUserID != userUUID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Только инициатор запроса может подтвердить оплату"})
	}

	if request.Status != StatusAwaitingPayment {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Запрос не ожидает оплаты"})
	}

	// Заказ должен совпадать с сохранённым при создании
	if payload.OrderCreationID != request.PaymentOrderID || payload.RazorpayOrderID != request.PaymentOrderID {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Несовпадение заказа"})
	}

	if !s.payments.VerifySignature(payload.OrderCreationID, payload.RazorpayPaymentID, payload.RazorpaySignature) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "payment verification failed",
			"isOk":    false,
		})
	}

	if err := settleExchange(ctx, tx, request); err != nil {
		log.Printf("Ошибка завершения обмена: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка завершения обмена"})
	}

	if err = tx.Commit(ctx); err != nil {
		log.Printf("Ошибка фиксации транзакции: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка базы данных"})
	}

	s.notify(request.BarterOwnerID, websocket.EventExchangeCompleted, productID, requestID)
	s.notify(request.RequestingUserID, websocket.EventExchangeCompleted, productID, requestID)

	return c.JSON(fiber.Map{
		"message": "payment verified successfully",
		"isOk":    true,
		"settled": true,
	})
}

// notify отправляет событие обмена пользователю через WebSocket
func (s *BarterService) notify(userID uuid.UUID, eventType websocket.EventType, productID, requestID uuid.UUID) {
	if s.notifier == nil {
		return
	}
	s.notifier.SendToUser(userID.String(), websocket.Event{
		Type:      eventType,
		ProductID: productID.String(),
		RequestID: requestID.String(),
		Timestamp: time.Now(),
	})
}

// parseBarterParams разбирает userID и параметры маршрута
func parseBarterParams(c fiber.Ctx, userID string) (uuid.UUID, uuid.UUID, uuid.UUID, func(fiber.Ctx) error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return uuid.Nil, uuid.Nil, uuid.Nil, jsonError(fiber.StatusBadRequest, "Неверный формат ID пользователя")
	}

	productID, err := uuid.Parse(c.Params("product_id"))
	if err != nil {
		return uuid.Nil, uuid.Nil, uuid.Nil, jsonError(fiber.StatusBadRequest, "Неверный формат ID товара")
	}

	requestID, err := uuid.Parse(c.Params("request_id"))
	if err != nil {
		return uuid.Nil, uuid.Nil, uuid.Nil, jsonError(fiber.StatusBadRequest, "Неверный формат ID запроса")
	}

	return userUUID, productID, requestID, nil
}

// jsonError возвращает замыкание с готовым JSON-ответом об ошибке
func jsonError(status int, message string) func(fiber.Ctx) error {
	return func(c fiber.Ctx) error {
		return c.Status(status).JSON(fiber.Map{"error": message})
	}
}

// lockProductRequests блокирует строку товара и возвращает владельца и запросы
func lockProductRequests(ctx context.Context, tx pgx.Tx, productID uuid.UUID) (uuid.UUID, []models.BarterRequest, func(fiber.Ctx) error) {
	var ownerID uuid.UUID
	var requestsData []byte

	err := tx.QueryRow(ctx, `
		SELECT user_id, barter_requests FROM products WHERE id = $1 FOR UPDATE
	`, productID).Scan(&ownerID, &requestsData)

	if err != nil {
		if err == pgx.ErrNoRows {
			return uuid.Nil, nil, jsonError(fiber.StatusNotFound, "Товар не найден")
		}
		log.Printf("Ошибка запроса товара: %v", err)
		return uuid.Nil, nil, jsonError(fiber.StatusInternalServerError, "Ошибка получения товара")
	}

	requests, err := models.ParseBarterRequests(requestsData)
	if err != nil {
		log.Printf("Ошибка разбора запросов: %v", err)
		return uuid.Nil, nil, jsonError(fiber.StatusInternalServerError, "Ошибка получения запросов на обмен")
	}

	return ownerID, requests, nil
}

// updateProductRequests сохраняет обновлённый массив запросов товара
func updateProductRequests(ctx context.Context, tx pgx.Tx, productID uuid.UUID, requests []models.BarterRequest) error {
	requestsJSON, err := json.Marshal(requests)
	if err != nil {
		return fmt.Errorf("ошибка сериализации запросов: %w", err)
	}

	_, err = tx.Exec(ctx, `
		UPDATE products SET barter_requests = $1, updated_at = NOW() WHERE id = $2
	`, requestsJSON, productID)
	return err
}

// removeRequestAndRestore сохраняет массив без запроса и возвращает товар на витрину
func removeRequestAndRestore(ctx context.Context, tx pgx.Tx, productID uuid.UUID, requests []models.BarterRequest) error {
	requestsJSON, err := json.Marshal(requests)
	if err != nil {
		return fmt.Errorf("ошибка сериализации запросов: %w", err)
	}

	_, err = tx.Exec(ctx, `
		UPDATE products
		SET barter_requests = $1, status = $2, updated_at = NOW()
		WHERE id = $3
	`, requestsJSON, models.ProductAvailable, productID)
	return err
}
