package config

import (
	"fmt"
	"os"
	"strings"
)

// AppConfig 汇总运行服务所需的基础配置。
type AppConfig struct {
	ListenAddr    string
	Port          string
	DataPath      string
	WeightsPath   string
	SessionSecret string
	GinMode       string
}

// Load 从环境变量读取应用配置，并为缺失项提供安全的默认值。
func Load() AppConfig {
	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "8080"
	}

	listenAddr := strings.TrimSpace(os.Getenv("LISTEN_ADDR"))
	if listenAddr == "" {
		listenAddr = fmt.Sprintf(":%s", port)
	}

	dataPath := strings.TrimSpace(os.Getenv("DATA_PATH"))
	if dataPath == "" {
		dataPath = "data/raw/daily_logs.json"
	}

	weightsPath := strings.TrimSpace(os.Getenv("WEIGHTS_PATH"))
	if weightsPath == "" {
		weightsPath = "config/weights.json"
	}

	sessionSecret := strings.TrimSpace(os.Getenv("SESSION_SECRET"))
	if sessionSecret == "" {
		sessionSecret = "barakahboost-dev-secret"
	}

	ginMode := strings.TrimSpace(os.Getenv("GIN_MODE"))
	if ginMode == "" {
		ginMode = "release"
	}

	return AppConfig{
		ListenAddr:    listenAddr,
		Port:          port,
		DataPath:      dataPath,
		WeightsPath:   weightsPath,
		SessionSecret: sessionSecret,
		GinMode:       ginMode,
	}
}
