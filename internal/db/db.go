package db

import (
	"fmt"
	"log/slog"

	"inkwell/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func Init(dsn string) (*gorm.DB, error) {
	gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	if err := Migrate(gdb); err != nil {
		return nil, err
	}

	seedCategories(gdb)
	return gdb, nil
}

// Migrate is separate from Init so tests can run it against sqlite.
func Migrate(gdb *gorm.DB) error {
	err := gdb.AutoMigrate(
		&models.Category{},
		&models.Tag{},
		&models.Post{},
		&models.Comment{},
		&models.Reaction{},
		&models.DeletionGrant{},
	)
	if err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}
	return nil
}

func seedCategories(gdb *gorm.DB) {
	var count int64
	gdb.Model(&models.Category{}).Count(&count)
	if count > 0 {
		return
	}

	categories := []models.Category{
		{Name: "general", Description: "Everything that fits nowhere else"},
		{Name: "engineering", Description: "Technical deep dives and write-ups"},
		{Name: "announcements", Description: "Site and product news"},
	}

	for _, category := range categories {
		if err := gdb.Create(&category).Error; err != nil {
			slog.Warn("failed to seed category", "name", category.Name, "error", err)
		}
	}
	slog.Info("initial categories created")
}
