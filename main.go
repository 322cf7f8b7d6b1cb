package main

import (
	"log/slog"
	"os"
	"time"

	"amigosecreto/config"
	dbpkg "amigosecreto/db"
	"amigosecreto/router"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"
)

// =====================
// ENV esperadas
// =====================
//
// Server
// - PORT            (ex: 8080)
// - JWT_SECRET      (segredo do token de sessão)
// - CONFIG_PATH     (default: config.json)
//
// Banco
// - DATABASE_URL    (postgres; sem ela cai no sqlite3 local)
// - DB_LOG          (1 habilita log de queries do gorm)
//
// Email (Resend, opcional/best-effort)
// - RESEND_API_KEY
//
// =====================

func main() {
	_ = godotenv.Load()

	slog.SetDefault(slog.New(
		tint.NewHandler(os.Stderr, &tint.Options{TimeFormat: time.Kitchen}),
	))

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.json"
	}
	cfg := config.Get(configPath)

	dbpkg.SetConfigurations(cfg)
	database, err := dbpkg.Connect()
	if err != nil {
		slog.Error("db connection failed", "err", err)
		os.Exit(1)
	}
	defer database.Close()

	r := gin.New()
	r.Use(dbpkg.SetDBtoContext(database))
	router.Initialize(r, cfg)

	slog.Info("amigo-secreto listening", "port", cfg.ApiPort)
	if err := r.Run(":" + cfg.ApiPort); err != nil {
		slog.Error("server stopped", "err", err)
		os.Exit(1)
	}
}
