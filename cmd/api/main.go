package main

import (
	"context"
	"os"

	"mecanica_jobs/internal/adapter/http/routes"
	"mecanica_jobs/internal/config"
	"mecanica_jobs/pkg/logger"

	_ "github.com/joho/godotenv/autoload"
)

// @title           Mobile Mechanic Jobs API
// @version         1.0
// @description     Job lifecycle, invoice approval and payout engine for on-site mechanic jobs.
// @termsOfService  http://swagger.io/terms/

// @contact.name   API Support
// @contact.url    http://www.swagger.io/support
// @contact.email  support@swagger.io

// @license.name  Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html

// @host localhost:8080

// @BasePath  /v1

// @securityDefinitions.apikey Bearer
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Error(context.Background(), "[api] invalid configuration", "err", err)
		os.Exit(1)
	}
	logger.Init(&logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	if err := routes.Run(cfg); err != nil {
		logger.Error(context.Background(), "[api] server stopped", "err", err)
		os.Exit(1)
	}
}
