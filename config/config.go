package config

import (
	"encoding/json"
	"log/slog"
	"os"
)

type Configuration struct {
	ApiPort string `json:"api_port"`

	Database string `json:"database"` // "sqlite3" ou "postgres"
	DbHost   string `json:"db_host"`
	DbPort   string `json:"db_port"`
	DbUser   string `json:"db_user"`
	DbName   string `json:"db_name"`
	DbPass   string `json:"db_pass"`

	Security SecurityConfig `json:"security"`
}

type SecurityConfig struct {
	JwtSecret    string `json:"jwt_secret"`
	JwtValidHour int    `json:"jwt_valid_hours"`
}

// Get carrega a configuração do arquivo JSON. Arquivo ausente não é fatal:
// o app também roda só com defaults + variáveis de ambiente (.env), que têm
// precedência (JWT_SECRET, DATABASE_URL, PORT).
func Get(path string) Configuration {
	var c Configuration

	b, err := os.ReadFile(path)
	if err != nil {
		slog.Warn("config file not found, using defaults", "path", path)
	} else if err := json.Unmarshal(b, &c); err != nil {
		slog.Error("invalid config file", "path", path, "err", err)
		os.Exit(1)
	}

	// env overrides
	if v := os.Getenv("PORT"); v != "" {
		c.ApiPort = v
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		c.Security.JwtSecret = v
	}

	// defaults (pra evitar nil/zero chato)
	if c.ApiPort == "" {
		c.ApiPort = "8080"
	}
	if c.Database == "" {
		c.Database = "sqlite3"
	}
	if c.Security.JwtValidHour <= 0 {
		c.Security.JwtValidHour = 24
	}
	if c.Security.JwtSecret == "" {
		c.Security.JwtSecret = "CHANGE_ME"
	}

	return c
}
