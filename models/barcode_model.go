package models

import (
	"time"

	"trf-app/controllers/idgen"
	"trf-app/utils"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	BarcodeTypeGenerated  = "generated"
	BarcodeTypePrePrinted = "pre_printed"
	BarcodeTypeExternal   = "external"
)

type Barcode struct {
	gorm.Model
	ID            int64          `json:"id" gorm:"primary_key"`
	BarcodeNumber string         `json:"barcode_number" gorm:"unique;size:50"`
	BarcodeType   string         `json:"barcode_type" gorm:"size:20"`
	BatchNumber   string         `json:"batch_number" gorm:"size:50;index"`
	IsAvailable   bool           `json:"is_available"`
	TrfId         *int64         `json:"trf_id" gorm:"index"`
	ExpiryDate    *time.Time     `json:"expiry_date" gorm:"type:date"`
	AssignedAt    *time.Time     `json:"assigned_at"`
	AssignedBy    *int           `json:"assigned_by"`
	TubeData      datatypes.JSON `json:"tube_data"`
	Notes         string         `json:"notes"`
	CreatedBy     int
	UpdatedBy     int
	DeletedBy     int
}

func (b *Barcode) BeforeCreate(tx *gorm.DB) (err error) {
	if b.ID == 0 {
		b.ID = idgen.GenerateID()
	}
	return
}

// IsExpired is derived at read time. A barcode without a resolved expiry
// never reports expired.
func (b *Barcode) IsExpired(today time.Time) bool {
	if b.ExpiryDate == nil {
		return false
	}
	return b.ExpiryDate.Before(utils.DateOnly(today))
}

// TubeData is the metadata captured when a tube is scanned against a TRF.
// It is stored as an opaque JSON column; the assignment engine never
// branches on its contents.
type TubeData struct {
	SampleType     string  `json:"sample_type"`
	VolumeMl       float64 `json:"volume_ml"`
	CollectionDate string  `json:"collection_date,omitempty"`
	Notes          string  `json:"notes,omitempty"`
}

type BarcodeInventory struct {
	gorm.Model
	ID          int64  `json:"id" gorm:"primary_key"`
	BatchNumber string `json:"batch_number" gorm:"size:50;index"`
	Prefix      string `json:"prefix" gorm:"size:10"`
	StartNumber int    `json:"start_number"`
	EndNumber   int    `json:"end_number"`
	Notes       string `json:"notes"`
	CreatedBy   int
	UpdatedBy   int
	DeletedBy   int
}

func (b *BarcodeInventory) BeforeCreate(tx *gorm.DB) (err error) {
	if b.ID == 0 {
		b.ID = idgen.GenerateID()
	}
	return
}

// TotalNumbers is the size of the reserved range, inclusive on both ends.
func (b *BarcodeInventory) TotalNumbers() int {
	return b.EndNumber - b.StartNumber + 1
}
