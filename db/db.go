package db

import (
	"log/slog"
	"os"

	"amigosecreto/config"
	"amigosecreto/models"

	"github.com/jinzhu/gorm"
	_ "github.com/jinzhu/gorm/dialects/postgres"
	_ "github.com/jinzhu/gorm/dialects/sqlite"
)

var conf config.Configuration

func SetConfigurations(configuration config.Configuration) {
	conf = configuration
}

// Connect abre conexão com o DB (sqlite3 por padrão) e faz automigrate.
// DATABASE_URL, quando setada, tem precedência e assume postgres.
func Connect() (*gorm.DB, error) {
	var (
		db  *gorm.DB
		err error
	)

	if url := os.Getenv("DATABASE_URL"); url != "" {
		slog.Info("utilizando conexão com o postgresql (DATABASE_URL)")
		db, err = gorm.Open("postgres", url)
	} else if conf.Database == "postgres" || conf.Database == "postgresql" {
		slog.Info("utilizando conexão com o postgresql")
		path := "host=" + conf.DbHost + " port=" + conf.DbPort
		path += " user=" + conf.DbUser + " dbname=" + conf.DbName
		path += " password=" + conf.DbPass
		db, err = gorm.Open("postgres", path)
	} else {
		slog.Info("utilizando conexão com o sqlite3")
		db, err = gorm.Open("sqlite3", "db/database.db")
	}

	if err != nil {
		slog.Error("db connect failed", "err", err)
		return nil, err
	}

	if os.Getenv("DB_LOG") == "1" {
		db.LogMode(true)
	}

	AutoMigrate(db)
	return db, nil
}

// AutoMigrate cria/atualiza o schema, incluindo os índices únicos que
// fecham as corridas de check-then-insert (membros e sorteios).
func AutoMigrate(db *gorm.DB) {
	db.AutoMigrate(
		&models.User{},
		&models.Grupo{},
		&models.MembroGrupo{},
		&models.SorteioIndividual{},
		&models.SugestaoPresente{},
	)
}
