package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

type AppConfig struct {
	Port        string
	DatabaseURL string
	StaticDir   string
	ReportTitle string
	Location    *time.Location
	LogLevel    logrus.Level

	TelegramToken   string
	BaseAdminChatID int64
	TelegramDebug   bool

	passwordHash []byte
}

var instance *AppConfig
var once sync.Once

// Get загружает конфиг один раз на процесс и дальше отдаёт тот же экземпляр
func Get() *AppConfig {
	once.Do(func() {
		if err := godotenv.Load(); err != nil {
			logrus.Warn("No .env file found, using process environment")
		}

		cfg, err := Load()
		if err != nil {
			logrus.Fatalf("error loading config: %s", err.Error())
		}
		instance = cfg
	})

	return instance
}

// Load читает конфигурацию из переменных окружения
func Load() (*AppConfig, error) {
	cfg := &AppConfig{
		Port:            getEnv("PORT", "3000"),
		DatabaseURL:     getEnv("DATABASE_URL", "attendance.db"),
		StaticDir:       getEnv("STATIC_DIR", "public"),
		ReportTitle:     getEnv("REPORT_TITLE", "Attendance Report"),
		TelegramToken:   getEnv("TELEGRAM_BOT_TOKEN", ""),
		BaseAdminChatID: getEnvAsInt("BASE_ADMIN_CHAT_ID", 0),
		TelegramDebug:   getEnvAsBool("TELEGRAM_DEBUG", false),
	}

	password := getEnv("ADMIN_PASSWORD", "")
	if password == "" {
		return nil, errors.New("ADMIN_PASSWORD is not set")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash admin password: %w", err)
	}
	cfg.passwordHash = hash

	loc, err := time.LoadLocation(getEnv("TIMEZONE", "Local"))
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE: %w", err)
	}
	cfg.Location = loc

	level, err := logrus.ParseLevel(getEnv("LOG_LEVEL", "info"))
	if err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}
	cfg.LogLevel = level

	if cfg.TelegramToken != "" && cfg.BaseAdminChatID == 0 {
		return nil, errors.New("BASE_ADMIN_CHAT_ID is required when TELEGRAM_BOT_TOKEN is set")
	}

	return cfg, nil
}

// CheckPassword сверяет пароль с хешем, вычисленным при загрузке
func (c *AppConfig) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword(c.passwordHash, []byte(password)) == nil
}

// TelegramEnabled — бот запускается только при заданном токене
func (c *AppConfig) TelegramEnabled() bool {
	return c.TelegramToken != ""
}

func getEnv(key string, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}

	return defaultVal
}

func getEnvAsBool(name string, defaultVal bool) bool {
	valStr := getEnv(name, "")
	if val, err := strconv.ParseBool(valStr); err == nil {
		return val
	}

	return defaultVal
}

func getEnvAsInt(name string, defaultVal int64) int64 {
	valStr := getEnv(name, "")
	if val, err := strconv.ParseInt(valStr, 10, 64); err == nil {
		return val
	}

	return defaultVal
}
