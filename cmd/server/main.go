package main

import (
	"log"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/suriya1233/smart-reconciliation-system/internal/config"
	"github.com/suriya1233/smart-reconciliation-system/internal/logger"
	"github.com/suriya1233/smart-reconciliation-system/internal/models"
	"github.com/suriya1233/smart-reconciliation-system/internal/routes"
)

func main() {
	// Load .env
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on system env")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	zl, err := logger.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer zl.Sync()

	db, err := config.InitDB(cfg)
	if err != nil {
		zl.Fatal("connect database", zap.Error(err))
	}

	if err := db.AutoMigrate(
		&models.Transaction{},
		&models.ReconciliationRule{},
		&models.ReconciliationResult{},
		&models.UploadBatch{},
		&models.AuditLog{},
	); err != nil {
		zl.Fatal("migrate schema", zap.Error(err))
	}

	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.Server.CORSOrigin},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type", "X-User"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	if err := routes.RegisterRoutes(r, db, zl); err != nil {
		zl.Fatal("register routes", zap.Error(err))
	}

	zl.Info("server starting", zap.String("addr", cfg.Server.Addr))
	if err := r.Run(cfg.Server.Addr); err != nil {
		zl.Fatal("server stopped", zap.Error(err))
	}
}
