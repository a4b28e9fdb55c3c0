package services

import (
	"fmt"
	"testing"
	"time"

	"trf-app/migration"
	"trf-app/models"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_pragma=busy_timeout(5000)", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	require.NoError(t, migration.Migrate(db))
	return db
}

func createTestTRF(t *testing.T, db *gorm.DB, number string, expiry time.Time) *models.TRF {
	t.Helper()

	trf := models.TRF{
		TrfNumber:  number,
		ExpiryDate: expiry,
	}
	require.NoError(t, db.Create(&trf).Error)
	return &trf
}

func futureDate(days int) time.Time {
	n := time.Now().UTC().AddDate(0, 0, days)
	return time.Date(n.Year(), n.Month(), n.Day(), 0, 0, 0, 0, time.UTC)
}
