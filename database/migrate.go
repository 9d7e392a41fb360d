package database

import (
	"fmt"

	"subtrack_backend/internal/config"
	"subtrack_backend/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var gormDB *gorm.DB

// ConnectGorm инициализирует GORM с URL из конфигурации.
// TranslateError включен, чтобы нарушение уникального индекса
// (subscriber_id, renewal_count) приходило как gorm.ErrDuplicatedKey.
func ConnectGorm() (*gorm.DB, error) {
	if gormDB != nil {
		return gormDB, nil
	}

	cfg := config.GetConfig()
	dsn := cfg.Database.DSN

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to GORM: %w", err)
	}

	gormDB = db
	return db, nil
}

// AutoMigrate выполняет миграцию всех моделей
func AutoMigrate() error {
	db, err := ConnectGorm()
	if err != nil {
		return err
	}

	return db.AutoMigrate(
		&models.Organization{},
		&models.User{},
		&models.Subscriber{},
		&models.Group{},
		&models.GroupSubscriber{},
		&models.Plan{},
		&models.Subscription{},
		&models.Invoice{},
		&models.Payment{},
		&models.ActivityLog{},
		&models.ErrorLog{},
	)
}
