package repositories

import (
	"fmt"
	"testing"

	"trf-app/migration"
	"trf-app/models"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, migration.Migrate(db))
	return db
}

func seedBarcodes(t *testing.T, db *gorm.DB) {
	t.Helper()

	trfID := int64(101)
	fixtures := []models.Barcode{
		{BarcodeNumber: "LB00000001", BarcodeType: models.BarcodeTypePrePrinted, BatchNumber: "B-001", IsAvailable: true},
		{BarcodeNumber: "LB00000002", BarcodeType: models.BarcodeTypePrePrinted, BatchNumber: "B-001", IsAvailable: false, TrfId: &trfID},
		{BarcodeNumber: "LB00000003", BarcodeType: models.BarcodeTypePrePrinted, BatchNumber: "B-002", IsAvailable: true},
		{BarcodeNumber: "EXT-1", BarcodeType: models.BarcodeTypeExternal, IsAvailable: false, TrfId: &trfID},
	}
	for i := range fixtures {
		require.NoError(t, db.Create(&fixtures[i]).Error)
	}
}

func TestListByBatchNumber(t *testing.T) {
	db := setupTestDB(t)
	seedBarcodes(t, db)
	repo := NewBarcodeRepository(db)

	barcodes, err := repo.List(BarcodeFilter{BatchNumber: "B-001"})
	require.NoError(t, err)
	assert.Len(t, barcodes, 2)
	for _, barcode := range barcodes {
		assert.Equal(t, "B-001", barcode.BatchNumber)
	}
}

func TestListByAvailability(t *testing.T) {
	db := setupTestDB(t)
	seedBarcodes(t, db)
	repo := NewBarcodeRepository(db)

	available := true
	barcodes, err := repo.List(BarcodeFilter{IsAvailable: &available})
	require.NoError(t, err)
	assert.Len(t, barcodes, 2)

	available = false
	barcodes, err = repo.List(BarcodeFilter{IsAvailable: &available})
	require.NoError(t, err)
	assert.Len(t, barcodes, 2)
}

func TestListByType(t *testing.T) {
	db := setupTestDB(t)
	seedBarcodes(t, db)
	repo := NewBarcodeRepository(db)

	barcodes, err := repo.List(BarcodeFilter{BarcodeType: models.BarcodeTypeExternal})
	require.NoError(t, err)
	require.Len(t, barcodes, 1)
	assert.Equal(t, "EXT-1", barcodes[0].BarcodeNumber)
}

func TestListByTrf(t *testing.T) {
	db := setupTestDB(t)
	seedBarcodes(t, db)
	repo := NewBarcodeRepository(db)

	trfID := int64(101)
	barcodes, err := repo.List(BarcodeFilter{TrfID: &trfID})
	require.NoError(t, err)
	assert.Len(t, barcodes, 2)
}

func TestGetByNumber(t *testing.T) {
	db := setupTestDB(t)
	seedBarcodes(t, db)
	repo := NewBarcodeRepository(db)

	barcode, err := repo.GetByNumber("LB00000003")
	require.NoError(t, err)
	assert.Equal(t, "B-002", barcode.BatchNumber)

	_, err = repo.GetByNumber("nope")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestListByBatchOrdered(t *testing.T) {
	db := setupTestDB(t)
	seedBarcodes(t, db)
	repo := NewBarcodeRepository(db)

	barcodes, err := repo.ListByBatch("B-001")
	require.NoError(t, err)
	require.Len(t, barcodes, 2)
	assert.Equal(t, "LB00000001", barcodes[0].BarcodeNumber)
	assert.Equal(t, "LB00000002", barcodes[1].BarcodeNumber)
}
