package migration

import (
	"trf-app/models"

	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.UserSession{},
		&models.LoginLog{},
		&models.TRF{},
		&models.Barcode{},
		&models.BarcodeInventory{},
	)
}
