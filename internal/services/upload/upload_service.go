package upload

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"github.com/rajivgeraev/bolend-api/internal/config"
	"github.com/rajivgeraev/bolend-api/internal/db"
	"github.com/rajivgeraev/bolend-api/internal/utils"
)

// UploadService предоставляет методы для загрузки изображений товаров
type UploadService struct {
	cfg          *config.Config
	cld          *cloudinary.Cloudinary
	jwtService   *utils.JWTService
	uploadFolder string
}

// NewUploadService создает новый экземпляр UploadService
func NewUploadService(cfg *config.Config) (*UploadService, error) {
	cld, err := cloudinary.NewFromParams(
		cfg.CloudinaryConfig.CloudName,
		cfg.CloudinaryConfig.APIKey,
		cfg.CloudinaryConfig.APISecret,
	)
	if err != nil {
		return nil, fmt.Errorf("ошибка инициализации Cloudinary: %w", err)
	}

	return &UploadService{
		cfg:          cfg,
		cld:          cld,
		jwtService:   utils.NewJWTService(cfg.JWTSecret),
		uploadFolder: cfg.CloudinaryConfig.UploadFolder,
	}, nil
}

// GenerateSignature создаёт корректную подпись для Cloudinary
func (s *UploadService) GenerateSignature(params map[string]string) string {
	// Сортируем ключи параметров
	var keys []string
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	// Формируем строку для подписи
	var signParts []string
	for _, k := range keys {
		signParts = append(signParts, fmt.Sprintf("%s=%s", k, params[k]))
	}
	signatureString := strings.Join(signParts, "&")

	// Добавляем API-секрет в конец строки
	signatureString += s.cfg.CloudinaryConfig.APISecret

	h := sha1.New()
	h.Write([]byte(signatureString))

	return hex.EncodeToString(h.Sum(nil))
}

// GenerateUploadParams создаёт параметры для прямой загрузки с фронтенда
func (s *UploadService) GenerateUploadParams(c fiber.Ctx) error {
	// Генерируем ID для товара, если не передан
	productID := c.Query("product_id")
	if productID == "" {
		productID = uuid.New().String()
	}

	timestamp := fmt.Sprintf("%d", time.Now().Unix())

	params := map[string]string{
		"timestamp": timestamp,
		"folder":    s.uploadFolder,
	}

	signature := s.GenerateSignature(params)

	return c.JSON(fiber.Map{
		"timestamp":  timestamp,
		"signature":  signature,
		"folder":     s.uploadFolder,
		"api_key":    s.cfg.CloudinaryConfig.APIKey,
		"cloud_name": s.cfg.CloudinaryConfig.CloudName,
		"product_id": productID,
	})
}

// UploadImage загружает изображение на сервере и возвращает его URL
func (s *UploadService) UploadImage(c fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Файл не передан"})
	}

	file, err := fileHeader.Open()
	if err != nil {
		log.Printf("Ошибка открытия файла: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Ошибка чтения файла"})
	}
	defer file.Close()

	ctx, cancel := db.GetContext()
	defer cancel()

	resp, err := s.cld.Upload.Upload(ctx, file, uploader.UploadParams{
		Folder:   s.uploadFolder,
		PublicID: uuid.New().String(),
	})
	if err != nil {
		log.Printf("Ошибка загрузки в Cloudinary: %v", err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "Ошибка загрузки изображения"})
	}

	return c.JSON(fiber.Map{
		"url":       resp.SecureURL,
		"public_id": resp.PublicID,
	})
}
