package auth

import (
	"log"
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/rajivgeraev/bolend-api/internal/config"
	"github.com/rajivgeraev/bolend-api/internal/db"
	"github.com/rajivgeraev/bolend-api/internal/models"
	"github.com/rajivgeraev/bolend-api/internal/utils"
)

// AuthService – структура для обработки авторизации
type AuthService struct {
	cfg        *config.Config
	jwtService *utils.JWTService
}

// NewAuthService – конструктор AuthService
func NewAuthService(cfg *config.Config) *AuthService {
	return &AuthService{
		cfg:        cfg,
		jwtService: utils.NewJWTService(cfg.JWTSecret),
	}
}

// GetJWTService возвращает JWT сервис
func (s *AuthService) GetJWTService() *utils.JWTService {
	return s.jwtService
}

// SignupHandler регистрирует нового пользователя и создаёт запись с пустой корзиной
func (s *AuthService) SignupHandler(c fiber.Ctx) error {
	var payload struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	if err := c.Bind().Body(&payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат данных"})
	}

	payload.Email = strings.ToLower(strings.TrimSpace(payload.Email))
	if payload.Email == "" || payload.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Email и пароль обязательны"})
	}

	if len(payload.Password) < 6 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Пароль должен содержать не менее 6 символов"})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	// Проверяем, не занят ли email
	var exists bool
	err := db.Pool.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)
	`, payload.Email).Scan(&exists)

	if err != nil {
		log.Printf("Ошибка проверки email: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка базы данных"})
	}

	if exists {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Пользователь с таким email уже существует"})
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(payload.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("Ошибка хеширования пароля: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка регистрации"})
	}

	// Создаем пользователя с пустой корзиной
	var user models.User
	err = db.Pool.QueryRow(ctx, `
		INSERT INTO users (name, email, password_hash, cart)
		VALUES ($1, $2, $3, '{}')
		RETURNING id, name, email
	`, payload.Name, payload.Email, string(hash)).Scan(&user.ID, &user.Name, &user.Email)

	if err != nil {
		log.Printf("Ошибка создания пользователя: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка регистрации"})
	}

	jwtToken, err := s.jwtService.GenerateToken(user.ID.String())
	if err != nil {
		log.Printf("Ошибка генерации JWT: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to generate JWT"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"token": jwtToken,
		"user":  user.PublicProfile(),
	})
}

// SigninHandler проверяет учетные данные и возвращает JWT
func (s *AuthService) SigninHandler(c fiber.Ctx) error {
	var payload struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	if err := c.Bind().Body(&payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный формат данных"})
	}

	payload.Email = strings.ToLower(strings.TrimSpace(payload.Email))

	ctx, cancel := db.GetContext()
	defer cancel()

	var user models.User
	err := db.Pool.QueryRow(ctx, `
		SELECT id, name, email, password_hash, COALESCE(avatar_url, '')
		FROM users
		WHERE email = $1
	`, payload.Email).Scan(&user.ID, &user.Name, &user.Email, &user.PasswordHash, &user.AvatarURL)

	if err != nil {
		if err == pgx.ErrNoRows {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Неверный email или пароль"})
		}
		log.Printf("Ошибка запроса пользователя: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка базы данных"})
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(payload.Password)); err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Неверный email или пароль"})
	}

	jwtToken, err := s.jwtService.GenerateToken(user.ID.String())
	if err != nil {
		log.Printf("Ошибка генерации JWT: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to generate JWT"})
	}

	return c.JSON(fiber.Map{
		"token": jwtToken,
		"user":  user.PublicProfile(),
	})
}

// ProfileHandler возвращает профиль текущего пользователя
func (s *AuthService) ProfileHandler(c fiber.Ctx) error {
	userID := c.Locals("userID").(string)

	ctx, cancel := db.GetContext()
	defer cancel()

	var user models.User
	err := db.Pool.QueryRow(ctx, `
		SELECT id, name, email, COALESCE(avatar_url, ''), cart
		FROM users
		WHERE id = $1
	`, userID).Scan(&user.ID, &user.Name, &user.Email, &user.AvatarURL, &user.Cart)

	if err != nil {
		if err == pgx.ErrNoRows {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Пользователь не найден"})
		}
		log.Printf("Ошибка запроса профиля: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка базы данных"})
	}

	return c.JSON(fiber.Map{
		"user":      user.PublicProfile(),
		"cart_size": len(user.Cart),
	})
}
