package main

import (
	"os"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"luy-todo/backend/internal/bootstrap"
	"luy-todo/backend/internal/config"
	"luy-todo/backend/internal/logging"
	"luy-todo/backend/internal/routes"
	"luy-todo/backend/internal/services"
)

func main() {
	cfg, err := config.Load(os.Getenv("TODO_CONFIG"))
	if err != nil {
		logging.New(os.Stderr, logging.Options{}).Fatal("設定の読み込みに失敗しました", "err", err)
	}

	logger := logging.New(os.Stderr, logging.Options{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
		Prefix: "api",
	})
	if logger.GetLevel() > log.DebugLevel {
		gin.SetMode(gin.ReleaseMode)
	}

	app, err := bootstrap.New(cfg, logger)
	if err != nil {
		logger.Fatal("could not open storage", "driver", cfg.StorageDriver, "err", err)
	}
	defer app.Close()

	// 初回アクセス時と同じくシードデータを投入 (既に存在する場合は何もしない)
	if err := app.TodoService.Initialize(); err != nil {
		logger.Fatal("could not initialize to-do list", "err", err)
	}

	var jwtService *services.JWTService
	if cfg.JWTSecret != "" {
		jwtService, err = services.NewJWTService(cfg.JWTSecret)
		if err != nil {
			logger.Fatal("could not set up JWT", "err", err)
		}
		logger.Info("bearer authentication enabled")
	}

	r := routes.SetupRouter(app.Dispatcher, app.Storage, app.TodoRepo.Key, routes.Options{
		AllowOrigins: cfg.AllowOrigins,
		JWTService:   jwtService,
		Logger:       logger,
	})

	// サーバー起動
	logger.Info("Server listening", "port", cfg.Port, "storage", cfg.StorageDriver, "path", cfg.TodoPath)
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Fatal("server stopped", "err", err)
	}
}
