package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config - структура для хранения конфигурации приложения.
// Сервер и киоск читают один и тот же файл .env, киоску нужны только KIOSK_* поля.
type Config struct {
	DatabaseURL string `env:"DATABASE_URL"`
	HTTPPort    string `env:"HTTP_PORT" envDefault:"8080"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// Redis Config
	RedisAddr string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPass string `env:"REDIS_PASSWORD"`
	RedisDB   int    `env:"REDIS_DB" envDefault:"0"`

	// API Keys for authentication
	APIKeys []string `env:"API_KEYS"`

	// Kiosk Config
	ServerURL            string        `env:"KIOSK_SERVER_URL" envDefault:"http://localhost:8080"`
	ServerAPIKey         string        `env:"KIOSK_API_KEY"`
	IncidentPollInterval time.Duration `env:"KIOSK_INCIDENT_POLL_INTERVAL" envDefault:"3s"`
	VehiclePollInterval  time.Duration `env:"KIOSK_VEHICLE_POLL_INTERVAL" envDefault:"5s"`
	ReconnectDelay       time.Duration `env:"KIOSK_RECONNECT_DELAY" envDefault:"3s"`
	RequestTimeout       time.Duration `env:"KIOSK_REQUEST_TIMEOUT" envDefault:"5s"`
	WeatherInterval      time.Duration `env:"KIOSK_WEATHER_INTERVAL" envDefault:"60s"`
	SoundDir             string        `env:"KIOSK_SOUND_DIR" envDefault:"sounds"`
	AudioPlayerCommand   string        `env:"KIOSK_AUDIO_PLAYER" envDefault:"ffplay"`
	SpeechCommand        string        `env:"KIOSK_SPEECH_COMMAND" envDefault:"espeak-ng"`
}

// LoadConfig загружает конфигурацию из переменных окружения и .env файла
func LoadConfig() (*Config, error) {
	// Загрузка переменных окружения из .env файла (если есть)
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("ошибка загрузки файла .env: %w", err)
	}

	cfg := &Config{
		DatabaseURL:          os.Getenv("DATABASE_URL"),
		HTTPPort:             getEnv("HTTP_PORT", "8080"),
		LogLevel:             getEnv("LOG_LEVEL", "info"),
		RedisAddr:            getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPass:            os.Getenv("REDIS_PASSWORD"),
		RedisDB:              getEnvAsInt("REDIS_DB", 0),
		ServerURL:            getEnv("KIOSK_SERVER_URL", "http://localhost:8080"),
		ServerAPIKey:         os.Getenv("KIOSK_API_KEY"),
		IncidentPollInterval: getEnvAsDuration("KIOSK_INCIDENT_POLL_INTERVAL", 3*time.Second),
		VehiclePollInterval:  getEnvAsDuration("KIOSK_VEHICLE_POLL_INTERVAL", 5*time.Second),
		ReconnectDelay:       getEnvAsDuration("KIOSK_RECONNECT_DELAY", 3*time.Second),
		RequestTimeout:       getEnvAsDuration("KIOSK_REQUEST_TIMEOUT", 5*time.Second),
		WeatherInterval:      getEnvAsDuration("KIOSK_WEATHER_INTERVAL", 60*time.Second),
		SoundDir:             getEnv("KIOSK_SOUND_DIR", "sounds"),
		AudioPlayerCommand:   getEnv("KIOSK_AUDIO_PLAYER", "ffplay"),
		SpeechCommand:        getEnv("KIOSK_SPEECH_COMMAND", "espeak-ng"),
	}

	// Загрузка API ключей
	apiKeysStr := os.Getenv("API_KEYS")
	if apiKeysStr != "" {
		cfg.APIKeys = strings.Split(apiKeysStr, ",")
		for i, key := range cfg.APIKeys {
			cfg.APIKeys[i] = strings.TrimSpace(key)
		}
	}

	return cfg, nil
}

// LoadServerConfig загружает конфигурацию и проверяет обязательные для сервера поля
func LoadServerConfig() (*Config, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, err
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is required")
	}

	return cfg, nil
}

// getEnv возвращает значение переменной окружения или значение по умолчанию
func getEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsInt возвращает значение переменной окружения как int или значение по умолчанию
func getEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvAsDuration возвращает значение переменной окружения как time.Duration или значение по умолчанию
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if durationValue, err := time.ParseDuration(value); err == nil {
			return durationValue
		}
	}
	return defaultValue
}
