package main

import (
	"flag"
	"fmt"
	"os"

	"luy-todo/backend/internal/bootstrap"
	"luy-todo/backend/internal/cli"
	"luy-todo/backend/internal/config"
	"luy-todo/backend/internal/logging"
	"luy-todo/backend/internal/services"
)

func main() {
	configPath := flag.String("config", os.Getenv("TODO_CONFIG"), "path to a TOML config file")
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		cli.PrintHelp(os.Stderr)
		os.Exit(2)
	}

	os.Exit(run(*configPath, args))
}

func run(configPath string, args []string) int {
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		return 1
	}

	logger := logging.New(os.Stderr, logging.Options{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
		Prefix: "todoctl",
	})

	app, err := bootstrap.New(cfg, logger)
	if err != nil {
		logger.Error("could not open storage", "driver", cfg.StorageDriver, "err", err)
		return 1
	}
	defer app.Close()

	var jwtService *services.JWTService
	if cfg.JWTSecret != "" {
		if jwtService, err = services.NewJWTService(cfg.JWTSecret); err != nil {
			logger.Error("could not set up JWT", "err", err)
			return 1
		}
	}

	return cli.Run(args, cli.Options{
		Dispatcher:  app.Dispatcher,
		TodoService: app.TodoService,
		JWTService:  jwtService,
		TodoPath:    cfg.TodoPath,
	})
}
