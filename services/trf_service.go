package services

import (
	"encoding/json"
	"errors"
	"strings"
	"time"

	"trf-app/models"
	"trf-app/utils"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// TRFService manages Test Request Forms and the barcodes created
// directly under them.
type TRFService struct {
	DB  *gorm.DB
	Now func() time.Time
}

func NewTRFService(DB *gorm.DB) *TRFService {
	return &TRFService{DB: DB, Now: time.Now}
}

type TRFForm struct {
	TrfNumber  string
	ExpiryDate string
	Notes      string
}

// CreateTRF validates and persists a new TRF. The expiry must parse and
// must not already be in the past.
func (s *TRFService) CreateTRF(form TRFForm, actorID int) (*models.TRF, error) {
	number := strings.TrimSpace(form.TrfNumber)
	if number == "" {
		return nil, ErrEmptyBarcode
	}

	expiry, err := utils.ParseDate(form.ExpiryDate)
	if err != nil {
		return nil, ErrInvalidDate
	}
	if expiry.Before(utils.DateOnly(s.Now())) {
		return nil, ErrExpiredDate
	}

	trf := models.TRF{
		TrfNumber:  number,
		ExpiryDate: expiry,
		Notes:      form.Notes,
		CreatedBy:  actorID,
	}

	if err := s.DB.Create(&trf).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateTRF
		}
		return nil, err
	}

	return &trf, nil
}

// GetTRF returns a TRF with its barcodes preloaded.
func (s *TRFService) GetTRF(trfID int64) (*models.TRF, error) {
	var trf models.TRF
	if err := s.DB.Preload("Barcodes").Where("id = ?", trfID).First(&trf).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTRFNotFound
		}
		return nil, err
	}
	return &trf, nil
}

// ListTRFs returns TRFs newest first, optionally filtered by number.
func (s *TRFService) ListTRFs(trfNumber string) ([]models.TRF, error) {
	query := s.DB.Preload("Barcodes").Order("created_at DESC")
	if trfNumber != "" {
		query = query.Where("trf_number = ?", trfNumber)
	}
	var trfs []models.TRF
	err := query.Find(&trfs).Error
	return trfs, err
}

// UpdateNotes rewrites the free-text notes. Number and expiry stay fixed
// once barcodes may have inherited them.
func (s *TRFService) UpdateNotes(trfID int64, notes string, actorID int) (*models.TRF, error) {
	var trf models.TRF
	if err := s.DB.Where("id = ?", trfID).First(&trf).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTRFNotFound
		}
		return nil, err
	}

	trf.Notes = notes
	trf.UpdatedBy = actorID
	if err := s.DB.Save(&trf).Error; err != nil {
		return nil, err
	}
	return &trf, nil
}

// DeleteTRF removes a TRF and every barcode it owns.
func (s *TRFService) DeleteTRF(trfID int64) error {
	tx := s.DB.Begin()
	if tx.Error != nil {
		return tx.Error
	}

	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	var trf models.TRF
	if err := tx.Where("id = ?", trfID).First(&trf).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTRFNotFound
		}
		return err
	}

	if err := tx.Unscoped().Where("trf_id = ?", trf.ID).Delete(&models.Barcode{}).Error; err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Unscoped().Delete(&trf).Error; err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit().Error
}

type GeneratedBarcodeForm struct {
	BarcodeNumber string
	CustomExpiry  string
	TubeData      *models.TubeData
	Notes         string
}

// AddGeneratedBarcode mints a barcode directly under a TRF, already
// bound. This is the path for labels printed on demand at the bench, as
// opposed to pre-printed stock claimed at scan time.
func (s *TRFService) AddGeneratedBarcode(trfID int64, form GeneratedBarcodeForm, actorID int) (*models.Barcode, error) {
	number := strings.TrimSpace(form.BarcodeNumber)
	if number == "" {
		return nil, ErrEmptyBarcode
	}

	var trf models.TRF
	if err := s.DB.Where("id = ?", trfID).First(&trf).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTRFNotFound
		}
		return nil, err
	}

	now := s.Now()
	var expiry time.Time
	if form.CustomExpiry != "" {
		parsed, err := utils.ParseDate(form.CustomExpiry)
		if err != nil {
			return nil, ErrInvalidDate
		}
		expiry = parsed
	} else {
		expiry = utils.DateOnly(trf.ExpiryDate)
	}
	if expiry.Before(utils.DateOnly(now)) {
		return nil, ErrExpiredDate
	}

	actor := actorID
	barcode := models.Barcode{
		BarcodeNumber: number,
		BarcodeType:   models.BarcodeTypeGenerated,
		IsAvailable:   false,
		TrfId:         &trf.ID,
		ExpiryDate:    &expiry,
		AssignedAt:    &now,
		AssignedBy:    &actor,
		Notes:         form.Notes,
		CreatedBy:     actorID,
	}

	if form.TubeData != nil {
		raw, err := json.Marshal(form.TubeData)
		if err != nil {
			return nil, err
		}
		barcode.TubeData = datatypes.JSON(raw)
	}

	if err := s.DB.Create(&barcode).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrBarcodeInUse
		}
		return nil, err
	}

	return &barcode, nil
}
