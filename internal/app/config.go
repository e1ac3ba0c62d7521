package app

import (
	"strings"

	"github.com/mindweave/mindweave-backend/internal/logger"
	"github.com/mindweave/mindweave-backend/internal/utils"
)

type Config struct {
	Port           string
	LogMode        string
	ServiceName    string
	Environment    string
	Version        string
	AllowedOrigins []string
}

func LoadConfig(log *logger.Logger) Config {
	cfg := Config{
		Port:        utils.GetEnv("PORT", "8080", log),
		LogMode:     utils.GetEnv("LOG_MODE", "development", log),
		ServiceName: utils.GetEnv("SERVICE_NAME", "mindweave-backend", log),
		Environment: utils.GetEnv("ENVIRONMENT", "development", log),
		Version:     utils.GetEnv("SERVICE_VERSION", "dev", log),
	}

	rawOrigins := utils.GetEnv("ALLOWED_ORIGINS", "", log)
	for _, o := range strings.Split(rawOrigins, ",") {
		if trimmed := strings.TrimSpace(o); trimmed != "" {
			cfg.AllowedOrigins = append(cfg.AllowedOrigins, trimmed)
		}
	}

	return cfg
}
