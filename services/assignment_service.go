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
	"gorm.io/gorm/clause"
)

// AssignmentService owns the barcode allocation state machine. A barcode
// moves from available to assigned exactly once; assignment is terminal
// and re-assignment is always rejected.
type AssignmentService struct {
	DB *gorm.DB

	// Now is swappable so expiry checks can be pinned in tests.
	Now func() time.Time
}

func NewAssignmentService(DB *gorm.DB) *AssignmentService {
	return &AssignmentService{DB: DB, Now: time.Now}
}

// AssignForm is everything a scan or manual entry carries.
type AssignForm struct {
	BarcodeNumber string
	TrfID         int64
	TubeData      *models.TubeData
	// CustomExpiry overrides the TRF expiry for barcodes minted on first
	// scan. Empty means inherit. Format YYYY-MM-DD.
	CustomExpiry string
}

// Assign resolves a scanned barcode number against a TRF.
//
// An existing available record (pre-printed or generated) is claimed; an
// unknown number mints a new external record; an assigned or otherwise
// unavailable record is rejected before anything is written. The whole
// decision runs in one transaction with the barcode row locked, so two
// scanners racing on the same number cannot both win.
func (s *AssignmentService) Assign(form AssignForm, actorID int) (*models.Barcode, error) {
	number := strings.TrimSpace(form.BarcodeNumber)
	if number == "" {
		return nil, ErrEmptyBarcode
	}

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

	// SQLite rejects FOR UPDATE and serializes writers on its own.
	lookup := tx.Where("barcode_number = ?", number)
	if tx.Dialector.Name() != "sqlite" {
		lookup = lookup.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var barcode models.Barcode
	found := true
	err := lookup.First(&barcode).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			tx.Rollback()
			return nil, err
		}
		found = false
	}

	if found {
		if barcode.TrfId != nil {
			var owner models.TRF
			ownerNumber := ""
			if err := tx.Where("id = ?", *barcode.TrfId).First(&owner).Error; err == nil {
				ownerNumber = owner.TrfNumber
			}
			tx.Rollback()
			return nil, &AlreadyAssignedError{TRFNumber: ownerNumber}
		}
		if !barcode.IsAvailable {
			tx.Rollback()
			return nil, ErrBarcodeInUse
		}
	}

	var trf models.TRF
	if err := tx.Where("id = ?", form.TrfID).First(&trf).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTRFNotFound
		}
		return nil, err
	}

	now := s.Now()

	if !found {
		expiry, err := s.resolveExpiry(form.CustomExpiry, &trf, now)
		if err != nil {
			tx.Rollback()
			return nil, err
		}
		barcode = models.Barcode{
			BarcodeNumber: number,
			BarcodeType:   models.BarcodeTypeExternal,
			IsAvailable:   true,
			ExpiryDate:    &expiry,
			CreatedBy:     actorID,
		}
		if err := tx.Create(&barcode).Error; err != nil {
			tx.Rollback()
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				// Lost the race to another scanner.
				return nil, ErrBarcodeInUse
			}
			return nil, err
		}
	} else if barcode.ExpiryDate == nil && form.CustomExpiry != "" {
		expiry, err := s.resolveExpiry(form.CustomExpiry, &trf, now)
		if err != nil {
			tx.Rollback()
			return nil, err
		}
		barcode.ExpiryDate = &expiry
	}

	// Inheritance is a resolution too: a TRF whose expiry already passed
	// cannot hand it down, on any path.
	if barcode.ExpiryDate == nil {
		expiry, err := s.resolveExpiry("", &trf, now)
		if err != nil {
			tx.Rollback()
			return nil, err
		}
		barcode.ExpiryDate = &expiry
	}

	trfID := trf.ID
	barcode.TrfId = &trfID
	barcode.IsAvailable = false
	barcode.AssignedAt = &now
	actor := actorID
	barcode.AssignedBy = &actor
	barcode.UpdatedBy = actorID

	if form.TubeData != nil {
		raw, err := json.Marshal(form.TubeData)
		if err != nil {
			tx.Rollback()
			return nil, err
		}
		barcode.TubeData = datatypes.JSON(raw)
	}

	if found {
		// Claim guarded on availability, so a racing scanner that read
		// the same row loses here whatever the driver's locking does.
		updates := map[string]interface{}{
			"trf_id":       trfID,
			"is_available": false,
			"assigned_at":  now,
			"assigned_by":  actorID,
			"updated_by":   actorID,
			"expiry_date":  barcode.ExpiryDate,
		}
		if form.TubeData != nil {
			updates["tube_data"] = barcode.TubeData
		}

		res := tx.Model(&models.Barcode{}).
			Where("id = ? AND is_available = ?", barcode.ID, true).
			Updates(updates)
		if res.Error != nil {
			tx.Rollback()
			return nil, res.Error
		}
		if res.RowsAffected == 0 {
			tx.Rollback()
			return nil, ErrBarcodeInUse
		}
	} else if err := tx.Save(&barcode).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	return &barcode, nil
}

// resolveExpiry picks the custom date when one was supplied, the TRF's
// otherwise, and rejects a resolved date already in the past.
func (s *AssignmentService) resolveExpiry(custom string, trf *models.TRF, now time.Time) (time.Time, error) {
	var expiry time.Time
	if custom != "" {
		parsed, err := utils.ParseDate(custom)
		if err != nil {
			return time.Time{}, ErrInvalidDate
		}
		expiry = parsed
	} else {
		expiry = utils.DateOnly(trf.ExpiryDate)
	}

	if expiry.Before(utils.DateOnly(now)) {
		return time.Time{}, ErrExpiredDate
	}
	return expiry, nil
}
