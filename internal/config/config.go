package config

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
)

// Config структура конфигурации
type Config struct {
	JWTSecret        string
	DatabaseURL      string
	DatabaseConfig   DatabaseConfig
	CloudinaryConfig CloudinaryConfig
	RazorpayConfig   RazorpayConfig
	AppEnv           string
}

// DatabaseConfig содержит конфигурацию базы данных
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

// CloudinaryConfig содержит конфигурацию для Cloudinary
type CloudinaryConfig struct {
	CloudName    string
	APIKey       string
	APISecret    string
	UploadFolder string
}

// RazorpayConfig содержит конфигурацию платёжного шлюза Razorpay
type RazorpayConfig struct {
	KeyID      string
	KeySecret  string
	Currency   string
	ThemeColor string
}

// LoadConfig загружает переменные из .env
func LoadConfig() *Config {
	err := godotenv.Load()
	if err != nil {
		log.Println("⚠️ .env файл не найден, используем переменные окружения")
	}

	dbConfig := DatabaseConfig{
		Host:     getEnv("PGHOST", "localhost"),
		Port:     getEnv("PGPORT", "5432"),
		User:     getEnv("PGUSER", "bolend_user"),
		Password: getEnv("PGPASSWORD", "bolend_pass"),
		Name:     getEnv("PGDATABASE", "bolend"),
		SSLMode:  getEnv("PGSSLMODE", "disable"),
	}

	// Формируем строку подключения к базе данных
	dbURL := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		dbConfig.User, dbConfig.Password, dbConfig.Host, dbConfig.Port, dbConfig.Name, dbConfig.SSLMode)

	cloudinaryConfig := CloudinaryConfig{
		CloudName:    getEnv("CLOUDINARY_CLOUD_NAME", ""),
		APIKey:       getEnv("CLOUDINARY_API_KEY", ""),
		APISecret:    getEnv("CLOUDINARY_API_SECRET", ""),
		UploadFolder: getEnv("CLOUDINARY_UPLOAD_FOLDER", "bolend_products"),
	}

	razorpayConfig := RazorpayConfig{
		KeyID:      getEnv("RAZORPAY_KEY_ID", ""),
		KeySecret:  getEnv("RAZORPAY_KEY_SECRET", ""),
		Currency:   getEnv("RAZORPAY_CURRENCY", "INR"),
		ThemeColor: getEnv("RAZORPAY_THEME_COLOR", "#3399cc"),
	}

	cfg := &Config{
		JWTSecret:        getEnv("JWT_SECRET", ""),
		DatabaseURL:      dbURL,
		DatabaseConfig:   dbConfig,
		CloudinaryConfig: cloudinaryConfig,
		RazorpayConfig:   razorpayConfig,
		AppEnv:           getEnv("APP_ENV", "production"),
	}

	// Без секрета подписи невозможно ни выпустить токен, ни проверить платёж
	if cfg.JWTSecret == "" || cfg.RazorpayConfig.KeyID == "" || cfg.RazorpayConfig.KeySecret == "" {
		log.Fatal("❌ Ошибка: Не заданы обязательные переменные окружения (JWT_SECRET, RAZORPAY_KEY_ID, RAZORPAY_KEY_SECRET)")
	}

	return cfg
}

// getEnv получает переменную окружения или использует дефолтное значение
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
