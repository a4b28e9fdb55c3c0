package services

import (
	"fmt"
	"testing"

	"trf-app/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateBatchExpandsRange(t *testing.T) {
	db := setupTestDB(t)
	svc := NewBatchService(db)

	batch, created, err := svc.CreateBatch(BatchForm{
		BatchNumber: "B-001",
		Prefix:      "LB",
		StartNumber: 1,
		EndNumber:   3,
	}, 1)
	require.NoError(t, err)
	assert.Equal(t, 3, created)
	assert.Equal(t, 3, batch.TotalNumbers())

	var barcodes []models.Barcode
	require.NoError(t, db.Order("barcode_number ASC").Find(&barcodes).Error)
	require.Len(t, barcodes, 3)

	expected := []string{"LB00000001", "LB00000002", "LB00000003"}
	for i, barcode := range barcodes {
		assert.Equal(t, expected[i], barcode.BarcodeNumber)
		assert.Equal(t, models.BarcodeTypePrePrinted, barcode.BarcodeType)
		assert.Equal(t, "B-001", barcode.BatchNumber)
		assert.True(t, barcode.IsAvailable)
		assert.Nil(t, barcode.TrfId)
		assert.Nil(t, barcode.ExpiryDate)
	}
}

func TestCreateBatchIdempotentExpansion(t *testing.T) {
	db := setupTestDB(t)
	svc := NewBatchService(db)

	_, created, err := svc.CreateBatch(BatchForm{
		BatchNumber: "B-001", Prefix: "LB", StartNumber: 1, EndNumber: 5,
	}, 1)
	require.NoError(t, err)
	assert.Equal(t, 5, created)

	trf := createTestTRF(t, db, "T1", futureDate(14))
	_, err = NewAssignmentService(db).Assign(AssignForm{
		BarcodeNumber: "LB00000003",
		TrfID:         trf.ID,
	}, 1)
	require.NoError(t, err)

	// Same range again: a second provisioning run must not duplicate,
	// must not error on the existing rows, and must not touch them.
	_, created, err = svc.CreateBatch(BatchForm{
		BatchNumber: "B-002", Prefix: "LB", StartNumber: 1, EndNumber: 5,
	}, 1)
	require.NoError(t, err)
	assert.Equal(t, 0, created)

	var count int64
	require.NoError(t, db.Model(&models.Barcode{}).Count(&count).Error)
	assert.EqualValues(t, 5, count)

	var assigned models.Barcode
	require.NoError(t, db.Where("barcode_number = ?", "LB00000003").First(&assigned).Error)
	require.NotNil(t, assigned.TrfId)
	assert.Equal(t, trf.ID, *assigned.TrfId)
	assert.False(t, assigned.IsAvailable)
	assert.Equal(t, "B-001", assigned.BatchNumber)
}

func TestCreateBatchInvalidRange(t *testing.T) {
	db := setupTestDB(t)
	svc := NewBatchService(db)

	for _, tc := range []struct{ start, end int }{{5, 5}, {6, 5}} {
		_, _, err := svc.CreateBatch(BatchForm{
			BatchNumber: fmt.Sprintf("B-%d-%d", tc.start, tc.end),
			Prefix:      "LB",
			StartNumber: tc.start,
			EndNumber:   tc.end,
		}, 1)
		assert.ErrorIs(t, err, ErrInvalidRange)
	}

	var batches, barcodes int64
	require.NoError(t, db.Model(&models.BarcodeInventory{}).Count(&batches).Error)
	require.NoError(t, db.Model(&models.Barcode{}).Count(&barcodes).Error)
	assert.Zero(t, batches)
	assert.Zero(t, barcodes)
}

func TestDeleteBatchRetainsAssigned(t *testing.T) {
	db := setupTestDB(t)
	svc := NewBatchService(db)

	batch, _, err := svc.CreateBatch(BatchForm{
		BatchNumber: "B-001", Prefix: "LB", StartNumber: 1, EndNumber: 4,
	}, 1)
	require.NoError(t, err)

	trf := createTestTRF(t, db, "TRF-100", futureDate(30))

	assignSvc := NewAssignmentService(db)
	assigned, err := assignSvc.Assign(AssignForm{
		BarcodeNumber: "LB00000002",
		TrfID:         trf.ID,
	}, 1)
	require.NoError(t, err)
	require.NotNil(t, assigned.TrfId)

	result, err := svc.DeleteBatch(batch.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 3, result.Deleted)
	assert.EqualValues(t, 1, result.Retained)

	// The assigned barcode keeps its TRF linkage.
	var survivor models.Barcode
	require.NoError(t, db.Where("barcode_number = ?", "LB00000002").First(&survivor).Error)
	require.NotNil(t, survivor.TrfId)
	assert.Equal(t, trf.ID, *survivor.TrfId)
	assert.False(t, survivor.IsAvailable)

	var remaining int64
	require.NoError(t, db.Model(&models.Barcode{}).Where("batch_number = ?", "B-001").Count(&remaining).Error)
	assert.EqualValues(t, 1, remaining)

	_, err = svc.GetBatch(batch.ID)
	assert.ErrorIs(t, err, ErrBatchNotFound)
}

func TestDeleteBatchNotFound(t *testing.T) {
	db := setupTestDB(t)
	svc := NewBatchService(db)

	_, err := svc.DeleteBatch(12345)
	assert.ErrorIs(t, err, ErrBatchNotFound)
}
