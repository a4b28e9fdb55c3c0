package models

import (
	"fmt"
	"time"

	"trf-app/controllers/idgen"
	"trf-app/utils"

	"gorm.io/gorm"
)

type TRF struct {
	gorm.Model
	ID         int64     `json:"id" gorm:"primary_key"`
	TrfNumber  string    `json:"trf_number" gorm:"unique;size:50"`
	ExpiryDate time.Time `json:"expiry_date" gorm:"type:date"`
	Notes      string    `json:"notes"`
	CreatedBy  int
	UpdatedBy  int
	DeletedBy  int

	// Relations
	Barcodes []Barcode `gorm:"foreignKey:TrfId;references:ID;constraint:OnDelete:CASCADE" json:"barcodes"`
}

func (t *TRF) BeforeCreate(tx *gorm.DB) (err error) {
	if t.ID == 0 {
		t.ID = idgen.GenerateID()
	}
	return
}

// IsExpired is derived at read time, never stored.
func (t *TRF) IsExpired(today time.Time) bool {
	return t.ExpiryDate.Before(utils.DateOnly(today))
}

// QrPayload is the string encoded into the TRF's QR code. The format is
// shared with the label scanners and must not change.
func (t *TRF) QrPayload() string {
	return fmt.Sprintf("TRF: %s\nExpiry: %s", t.TrfNumber, t.ExpiryDate.Format("2006-01-02"))
}
