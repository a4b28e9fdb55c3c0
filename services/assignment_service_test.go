package services

import (
	"encoding/json"
	"sync"
	"testing"
	"time"

	"trf-app/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssignPrePrintedBarcode(t *testing.T) {
	db := setupTestDB(t)

	_, _, err := NewBatchService(db).CreateBatch(BatchForm{
		BatchNumber: "B-001", Prefix: "LB", StartNumber: 1, EndNumber: 3,
	}, 1)
	require.NoError(t, err)

	trf := createTestTRF(t, db, "T1", futureDate(14))

	svc := NewAssignmentService(db)
	barcode, err := svc.Assign(AssignForm{
		BarcodeNumber: "LB00000002",
		TrfID:         trf.ID,
		TubeData: &models.TubeData{
			SampleType: "serum",
			VolumeMl:   4.5,
		},
	}, 7)
	require.NoError(t, err)

	require.NotNil(t, barcode.TrfId)
	assert.Equal(t, trf.ID, *barcode.TrfId)
	assert.False(t, barcode.IsAvailable)
	assert.Equal(t, models.BarcodeTypePrePrinted, barcode.BarcodeType)
	require.NotNil(t, barcode.AssignedAt)
	require.NotNil(t, barcode.AssignedBy)
	assert.Equal(t, 7, *barcode.AssignedBy)

	// Expiry inherited from the TRF.
	require.NotNil(t, barcode.ExpiryDate)
	assert.Equal(t, trf.ExpiryDate.Format("2006-01-02"), barcode.ExpiryDate.Format("2006-01-02"))

	var tube models.TubeData
	require.NoError(t, json.Unmarshal(barcode.TubeData, &tube))
	assert.Equal(t, "serum", tube.SampleType)
	assert.Equal(t, 4.5, tube.VolumeMl)
}

func TestAssignRejectsAlreadyAssigned(t *testing.T) {
	db := setupTestDB(t)

	_, _, err := NewBatchService(db).CreateBatch(BatchForm{
		BatchNumber: "B-001", Prefix: "LB", StartNumber: 1, EndNumber: 3,
	}, 1)
	require.NoError(t, err)

	trf1 := createTestTRF(t, db, "T1", futureDate(14))
	trf2 := createTestTRF(t, db, "T2", futureDate(14))

	svc := NewAssignmentService(db)
	_, err = svc.Assign(AssignForm{BarcodeNumber: "LB00000002", TrfID: trf1.ID}, 1)
	require.NoError(t, err)

	// Never silently reassigns, whatever TRF is targeted.
	_, err = svc.Assign(AssignForm{BarcodeNumber: "LB00000002", TrfID: trf2.ID}, 1)
	var assigned *AlreadyAssignedError
	require.ErrorAs(t, err, &assigned)
	assert.Equal(t, "T1", assigned.TRFNumber)

	_, err = svc.Assign(AssignForm{BarcodeNumber: "LB00000002", TrfID: trf1.ID}, 1)
	require.ErrorAs(t, err, &assigned)
}

func TestAssignUnknownBarcodeCreatesExternal(t *testing.T) {
	db := setupTestDB(t)
	trf := createTestTRF(t, db, "T1", futureDate(21))

	svc := NewAssignmentService(db)
	barcode, err := svc.Assign(AssignForm{
		BarcodeNumber: "  EXT-9001  ",
		TrfID:         trf.ID,
	}, 3)
	require.NoError(t, err)

	assert.Equal(t, "EXT-9001", barcode.BarcodeNumber)
	assert.Equal(t, models.BarcodeTypeExternal, barcode.BarcodeType)
	assert.False(t, barcode.IsAvailable)
	require.NotNil(t, barcode.ExpiryDate)
	assert.Equal(t, trf.ExpiryDate.Format("2006-01-02"), barcode.ExpiryDate.Format("2006-01-02"))
}

func TestAssignCustomExpiry(t *testing.T) {
	db := setupTestDB(t)
	trf := createTestTRF(t, db, "T1", futureDate(21))
	svc := NewAssignmentService(db)

	custom := time.Now().AddDate(0, 0, 5).Format("2006-01-02")
	barcode, err := svc.Assign(AssignForm{
		BarcodeNumber: "EXT-1",
		TrfID:         trf.ID,
		CustomExpiry:  custom,
	}, 1)
	require.NoError(t, err)
	require.NotNil(t, barcode.ExpiryDate)
	assert.Equal(t, custom, barcode.ExpiryDate.Format("2006-01-02"))
}

func TestAssignCustomExpiryInPast(t *testing.T) {
	db := setupTestDB(t)
	trf := createTestTRF(t, db, "T1", futureDate(21))
	svc := NewAssignmentService(db)

	_, err := svc.Assign(AssignForm{
		BarcodeNumber: "EXT-1",
		TrfID:         trf.ID,
		CustomExpiry:  "2020-01-01",
	}, 1)
	assert.ErrorIs(t, err, ErrExpiredDate)

	// Nothing was created or mutated.
	var count int64
	require.NoError(t, db.Model(&models.Barcode{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestAssignCustomExpiryUnparseable(t *testing.T) {
	db := setupTestDB(t)
	trf := createTestTRF(t, db, "T1", futureDate(21))
	svc := NewAssignmentService(db)

	_, err := svc.Assign(AssignForm{
		BarcodeNumber: "EXT-1",
		TrfID:         trf.ID,
		CustomExpiry:  "not-a-date",
	}, 1)
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestAssignEmptyBarcode(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAssignmentService(db)

	_, err := svc.Assign(AssignForm{BarcodeNumber: "   ", TrfID: 1}, 1)
	assert.ErrorIs(t, err, ErrEmptyBarcode)
}

func TestAssignTRFNotFound(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAssignmentService(db)

	_, err := svc.Assign(AssignForm{BarcodeNumber: "EXT-1", TrfID: 999}, 1)
	assert.ErrorIs(t, err, ErrTRFNotFound)

	var count int64
	require.NoError(t, db.Model(&models.Barcode{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestAssignRejectsUnavailableWithoutOwner(t *testing.T) {
	db := setupTestDB(t)
	trf := createTestTRF(t, db, "T1", futureDate(14))

	// A record flagged unavailable without an owner should still be
	// rejected, not claimed.
	barcode := models.Barcode{
		BarcodeNumber: "LB00000009",
		BarcodeType:   models.BarcodeTypePrePrinted,
		IsAvailable:   false,
	}
	require.NoError(t, db.Create(&barcode).Error)

	svc := NewAssignmentService(db)
	_, err := svc.Assign(AssignForm{BarcodeNumber: "LB00000009", TrfID: trf.ID}, 1)
	assert.ErrorIs(t, err, ErrBarcodeInUse)
}

func TestAssignPrePrintedToExpiredTRF(t *testing.T) {
	db := setupTestDB(t)

	_, _, err := NewBatchService(db).CreateBatch(BatchForm{
		BatchNumber: "B-001", Prefix: "LB", StartNumber: 1, EndNumber: 3,
	}, 1)
	require.NoError(t, err)

	trf := createTestTRF(t, db, "T1", time.Now().AddDate(0, 0, -2))
	svc := NewAssignmentService(db)

	// A pre-printed barcode inheriting from an expired TRF is rejected
	// the same way an unknown one is.
	_, err = svc.Assign(AssignForm{BarcodeNumber: "LB00000001", TrfID: trf.ID}, 1)
	assert.ErrorIs(t, err, ErrExpiredDate)

	var barcode models.Barcode
	require.NoError(t, db.Where("barcode_number = ?", "LB00000001").First(&barcode).Error)
	assert.True(t, barcode.IsAvailable)
	assert.Nil(t, barcode.TrfId)
	assert.Nil(t, barcode.ExpiryDate)
	assert.Nil(t, barcode.AssignedAt)
}

func TestAssignExpiredTRFInheritance(t *testing.T) {
	db := setupTestDB(t)
	trf := createTestTRF(t, db, "T1", time.Now().AddDate(0, 0, -2))
	svc := NewAssignmentService(db)

	// Inheriting an already-past TRF expiry fails at resolution time.
	_, err := svc.Assign(AssignForm{BarcodeNumber: "EXT-1", TrfID: trf.ID}, 1)
	assert.ErrorIs(t, err, ErrExpiredDate)
}

func TestConcurrentAssignSameNewBarcode(t *testing.T) {
	db := setupTestDB(t)
	trf1 := createTestTRF(t, db, "T1", futureDate(14))
	trf2 := createTestTRF(t, db, "T2", futureDate(14))

	svc := NewAssignmentService(db)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	targets := []int64{trf1.ID, trf2.ID}

	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Assign(AssignForm{
				BarcodeNumber: "RACE-0001",
				TrfID:         targets[i],
			}, i+1)
		}(i)
	}
	wg.Wait()

	successes := 0
	for _, err := range errs {
		if err == nil {
			successes++
		}
	}
	assert.Equal(t, 1, successes, "exactly one concurrent assignment must win")

	// Exactly one record exists and it belongs to exactly one TRF.
	var barcodes []models.Barcode
	require.NoError(t, db.Where("barcode_number = ?", "RACE-0001").Find(&barcodes).Error)
	require.Len(t, barcodes, 1)
	require.NotNil(t, barcodes[0].TrfId)
	assert.False(t, barcodes[0].IsAvailable)
}

func TestConcurrentAssignSamePrePrinted(t *testing.T) {
	db := setupTestDB(t)

	_, _, err := NewBatchService(db).CreateBatch(BatchForm{
		BatchNumber: "B-001", Prefix: "LB", StartNumber: 1, EndNumber: 2,
	}, 1)
	require.NoError(t, err)

	trf1 := createTestTRF(t, db, "T1", futureDate(14))
	trf2 := createTestTRF(t, db, "T2", futureDate(14))

	svc := NewAssignmentService(db)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	targets := []int64{trf1.ID, trf2.ID}

	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Assign(AssignForm{
				BarcodeNumber: "LB00000001",
				TrfID:         targets[i],
			}, i+1)
		}(i)
	}
	wg.Wait()

	successes := 0
	for _, err := range errs {
		if err == nil {
			successes++
		}
	}
	assert.Equal(t, 1, successes, "exactly one scanner may claim a pre-printed barcode")

	var barcode models.Barcode
	require.NoError(t, db.Where("barcode_number = ?", "LB00000001").First(&barcode).Error)
	require.NotNil(t, barcode.TrfId)
	assert.False(t, barcode.IsAvailable)
	assert.Contains(t, targets, *barcode.TrfId)
}
