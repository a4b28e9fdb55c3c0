package database

import (
	"fmt"

	"trf-app/config"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlserver"
	"gorm.io/gorm"
)

// OpenDatabaseConnection opens the configured database. TranslateError is
// on so duplicate-key failures surface as gorm.ErrDuplicatedKey for the
// services to branch on.
func OpenDatabaseConnection() (*gorm.DB, error) {
	cfg := &gorm.Config{TranslateError: true}

	switch config.DBDriver {
	case "mysql":
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			config.DBUser, config.DBPassword, config.DBHost, config.DBPort, config.DBName)
		return gorm.Open(mysql.Open(dsn), cfg)
	case "mssql":
		dsn := fmt.Sprintf("sqlserver://%s:%s@%s:%s?database=%s",
			config.DBUser, config.DBPassword, config.DBHost, config.DBPort, config.DBName)
		return gorm.Open(sqlserver.Open(dsn), cfg)
	default:
		dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
			config.DBHost, config.DBUser, config.DBPassword, config.DBName, config.DBPort)
		return gorm.Open(postgres.Open(dsn), cfg)
	}
}
