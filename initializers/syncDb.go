package initializers

import (
	"fmt"
	"log/slog"

	"github.com/Kariqs/bistro-api/models"
	"gorm.io/gorm"
)

func SyncDatabase(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.ItemType{}, &models.Item{}, &models.Order{}, &models.User{}); err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}
	slog.Info("database synced successfully")
	return nil
}
