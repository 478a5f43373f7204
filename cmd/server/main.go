package main

import (
	"log"

	"github.com/ShawrmaM8/BarakahBoost/internal/config"
	"github.com/ShawrmaM8/BarakahBoost/internal/handler"
	"github.com/ShawrmaM8/BarakahBoost/internal/router"
	"github.com/ShawrmaM8/BarakahBoost/internal/service"
	"github.com/ShawrmaM8/BarakahBoost/internal/store"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// .env 可选，缺失时直接读环境变量
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using environment variables")
	}

	cfg := config.Load()
	gin.SetMode(cfg.GinMode)

	// 打开习惯存储
	habitStore, err := store.Open(cfg.DataPath)
	if err != nil {
		log.Fatalf("failed to open habit store: %v", err)
	}

	// 权重配置启动时加载一次，运行期间只读
	weights, err := service.LoadWeightConfig(cfg.WeightsPath)
	if err != nil {
		log.Fatalf("failed to load weight config: %v", err)
	}

	api := handler.NewAPI(habitStore, weights)

	// 设置并运行 Gin 服务器
	r := router.SetupRouter(api, cfg.SessionSecret)
	if err := r.Run(cfg.ListenAddr); err != nil {
		log.Fatalf("failed to run server: %v", err)
	}
}
