package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log"
	"math"

	"github.com/gofiber/fiber/v3"
	razorpay "github.com/razorpay/razorpay-go"

	"github.com/rajivgeraev/bolend-api/internal/config"
	"github.com/rajivgeraev/bolend-api/internal/models"
	"github.com/rajivgeraev/bolend-api/internal/utils"
)

// RazorpayService предоставляет методы для работы с платёжным шлюзом Razorpay
type RazorpayService struct {
	cfg        *config.Config
	client     *razorpay.Client
	jwtService *utils.JWTService
}

// NewRazorpayService создает новый экземпляр RazorpayService
func NewRazorpayService(cfg *config.Config) *RazorpayService {
	return &RazorpayService{
		cfg:        cfg,
		client:     razorpay.NewClient(cfg.RazorpayConfig.KeyID, cfg.RazorpayConfig.KeySecret),
		jwtService: utils.NewJWTService(cfg.JWTSecret),
	}
}

// ToSmallestUnit переводит сумму в минимальные единицы валюты (пайсы)
func ToSmallestUnit(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

// CreateOrder создает заказ в Razorpay и возвращает его ID
func (s *RazorpayService) CreateOrder(amount float64, currency string) (string, error) {
	if amount <= 0 {
		return "", fmt.Errorf("сумма заказа должна быть положительной, получено %.2f", amount)
	}

	if currency == "" {
		currency = s.cfg.RazorpayConfig.Currency
	}

	data := map[string]interface{}{
		"amount":   ToSmallestUnit(amount),
		"currency": currency,
		"receipt":  "rcp1",
	}

	body, err := s.client.Order.Create(data, nil)
	if err != nil {
		return "", fmt.Errorf("ошибка создания заказа в Razorpay: %w", err)
	}

	orderID, ok := body["id"].(string)
	if !ok || orderID == "" {
		return "", fmt.Errorf("некорректный ответ Razorpay: отсутствует id заказа")
	}

	return orderID, nil
}

// CheckoutOptions формирует конфигурацию hosted checkout для фронтенда
func (s *RazorpayService) CheckoutOptions(orderID string, amount float64, userName, userEmail string) models.CheckoutOptions {
	return models.CheckoutOptions{
		Key:         s.cfg.RazorpayConfig.KeyID,
		Amount:      ToSmallestUnit(amount),
		Currency:    s.cfg.RazorpayConfig.Currency,
		OrderID:     orderID,
		Name:        "Borrow & Lend",
		Description: "Website for barter system",
		Prefill: models.CheckoutPrefill{
			Name:  userName,
			Email: userEmail,
		},
		Theme: models.CheckoutTheme{
			Color: s.cfg.RazorpayConfig.ThemeColor,
		},
	}
}

// VerifySignature проверяет подпись завершённого платежа.
// Подпись - HMAC-SHA256 от "orderId|paymentId" на секретном ключе.
// Несовпадение дает отрицательный результат, а не ошибку.
func (s *RazorpayService) VerifySignature(orderID, paymentID, signature string) bool {
	return verifySignature(orderID, paymentID, signature, s.cfg.RazorpayConfig.KeySecret)
}

func verifySignature(orderID, paymentID, signature, secret string) bool {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	expected := mac.Sum(nil)

	sigBytes, err := hex.DecodeString(signature)
	if err != nil {
		return false
	}
	return hmac.Equal(expected, sigBytes)
}

// CreateOrderHandler создает заказ по запросу фронтенда
func (s *RazorpayService) CreateOrderHandler(c fiber.Ctx) error {
	var requestData struct {
		Amount   float64 `json:"amount"`
		Currency string  `json:"currency"`
	}

	if err := c.Bind().Body(&requestData); err != nil {
		log.Printf("Ошибка декодирования тела запроса: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат данных"})
	}

	if requestData.Amount <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Сумма заказа должна быть положительной"})
	}

	orderID, err := s.CreateOrder(requestData.Amount, requestData.Currency)
	if err != nil {
		log.Printf("Ошибка создания заказа: %v", err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "Ошибка создания заказа в платёжном шлюзе"})
	}

	return c.JSON(fiber.Map{"orderId": orderID})
}

// VerifyPaymentHandler проверяет подпись платежа и возвращает результат проверки
func (s *RazorpayService) VerifyPaymentHandler(c fiber.Ctx) error {
	var payload struct {
		OrderCreationID   string `json:"orderCreationId"`
		RazorpayPaymentID string `json:"razorpayPaymentId"`
		RazorpayOrderID   string `json:"razorpayOrderId"`
		RazorpaySignature string `json:"razorpaySignature"`
	}

	if err := c.Bind().Body(&payload); err != nil {
		log.Printf("Ошибка декодирования тела запроса: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат данных"})
	}

	if !s.VerifySignature(payload.OrderCreationID, payload.RazorpayPaymentID, payload.RazorpaySignature) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "payment verification failed",
			"isOk":    false,
		})
	}

	return c.JSON(fiber.Map{
		"message": "payment verified successfully",
		"isOk":    true,
	})
}
