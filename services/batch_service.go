package services

import (
	"errors"

	"trf-app/models"
	"trf-app/utils"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// BatchService provisions pre-printed barcode inventory. A batch reserves
// a contiguous numeric range and eagerly expands it into available
// barcode records, so the tubes are scannable the moment they come back
// from the printer.
type BatchService struct {
	DB *gorm.DB
}

func NewBatchService(DB *gorm.DB) *BatchService {
	return &BatchService{DB: DB}
}

type BatchForm struct {
	BatchNumber string
	Prefix      string
	StartNumber int
	EndNumber   int
	Notes       string
}

// CreateBatch persists the batch record and expands its range. Expansion
// is create-if-absent per barcode number, so re-running it for the same
// range never errors and never duplicates.
func (s *BatchService) CreateBatch(form BatchForm, actorID int) (*models.BarcodeInventory, int, error) {
	if form.StartNumber >= form.EndNumber {
		return nil, 0, ErrInvalidRange
	}

	batch := models.BarcodeInventory{
		BatchNumber: form.BatchNumber,
		Prefix:      form.Prefix,
		StartNumber: form.StartNumber,
		EndNumber:   form.EndNumber,
		Notes:       form.Notes,
		CreatedBy:   actorID,
	}

	tx := s.DB.Begin()
	if tx.Error != nil {
		return nil, 0, tx.Error
	}

	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	if err := tx.Create(&batch).Error; err != nil {
		tx.Rollback()
		return nil, 0, err
	}

	created := 0
	for _, number := range utils.GenerateBarcodeNumbers(form.Prefix, form.StartNumber, form.EndNumber) {
		barcode := models.Barcode{
			BarcodeNumber: number,
			BarcodeType:   models.BarcodeTypePrePrinted,
			BatchNumber:   form.BatchNumber,
			IsAvailable:   true,
			CreatedBy:     actorID,
		}
		// ON CONFLICT DO NOTHING keeps the insert from aborting the
		// transaction when the number already exists, whoever created
		// it, and leaves the existing record untouched.
		res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&barcode)
		if res.Error != nil {
			tx.Rollback()
			return nil, 0, res.Error
		}
		created += int(res.RowsAffected)
	}

	if err := tx.Commit().Error; err != nil {
		return nil, 0, err
	}

	return &batch, created, nil
}

// DeleteBatchResult reports the available/assigned split the delete saw.
// Retained > 0 means the batch was only partially removed because some of
// its barcodes are owned by TRFs; those records stay untouched.
type DeleteBatchResult struct {
	Deleted  int64 `json:"deleted"`
	Retained int64 `json:"retained"`
}

// DeleteBatch removes a batch's still-available barcodes and the batch
// record itself. Assigned barcodes survive: the batch is a provisioning
// record, not the owner of its barcodes' lifetime.
func (s *BatchService) DeleteBatch(batchID int64) (*DeleteBatchResult, error) {
	tx := s.DB.Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}

	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	var batch models.BarcodeInventory
	if err := tx.Where("id = ?", batchID).First(&batch).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBatchNotFound
		}
		return nil, err
	}

	res := tx.Unscoped().
		Where("batch_number = ? AND is_available = ?", batch.BatchNumber, true).
		Delete(&models.Barcode{})
	if res.Error != nil {
		tx.Rollback()
		return nil, res.Error
	}
	deleted := res.RowsAffected

	var retained int64
	if err := tx.Model(&models.Barcode{}).
		Where("batch_number = ?", batch.BatchNumber).
		Count(&retained).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Unscoped().Delete(&batch).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	return &DeleteBatchResult{Deleted: deleted, Retained: retained}, nil
}

// GetBatch returns a batch by id.
func (s *BatchService) GetBatch(batchID int64) (*models.BarcodeInventory, error) {
	var batch models.BarcodeInventory
	if err := s.DB.Where("id = ?", batchID).First(&batch).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBatchNotFound
		}
		return nil, err
	}
	return &batch, nil
}

// ListBatches returns all batches, newest first.
func (s *BatchService) ListBatches() ([]models.BarcodeInventory, error) {
	var batches []models.BarcodeInventory
	err := s.DB.Order("created_at DESC").Find(&batches).Error
	return batches, err
}
