package db

import (
	"log"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"questlog/internal/config"
	"questlog/internal/game"
	"questlog/internal/user"
)

var DB *gorm.DB

func Init(cfg *config.Config) error {
	db, err := gorm.Open(postgres.Open(cfg.Postgres.DSN), &gorm.Config{})
	if err != nil {
		return err
	}

	if err := db.AutoMigrate(&user.User{}); err != nil {
		return err
	}

	if err := db.AutoMigrate(&game.Game{}, &game.Milestone{}, &game.Note{}); err != nil {
		return err
	}

	DB = db
	log.Printf("Database connected and migrated")
	return nil
}
