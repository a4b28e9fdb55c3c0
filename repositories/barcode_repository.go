package repositories

import (
	"trf-app/models"

	"gorm.io/gorm"
)

type BarcodeRepository struct {
	DB *gorm.DB
}

func NewBarcodeRepository(DB *gorm.DB) *BarcodeRepository {
	return &BarcodeRepository{DB: DB}
}

// BarcodeFilter narrows List. Zero values mean "no filter".
type BarcodeFilter struct {
	BatchNumber string
	BarcodeType string
	IsAvailable *bool
	TrfID       *int64
}

// List returns barcodes newest first, filtered.
func (r *BarcodeRepository) List(filter BarcodeFilter) ([]models.Barcode, error) {
	query := r.DB.Order("created_at DESC")
	if filter.BatchNumber != "" {
		query = query.Where("batch_number = ?", filter.BatchNumber)
	}
	if filter.BarcodeType != "" {
		query = query.Where("barcode_type = ?", filter.BarcodeType)
	}
	if filter.IsAvailable != nil {
		query = query.Where("is_available = ?", *filter.IsAvailable)
	}
	if filter.TrfID != nil {
		query = query.Where("trf_id = ?", *filter.TrfID)
	}

	var barcodes []models.Barcode
	err := query.Find(&barcodes).Error
	return barcodes, err
}

// GetByID returns one barcode by primary key.
func (r *BarcodeRepository) GetByID(id int64) (*models.Barcode, error) {
	var barcode models.Barcode
	err := r.DB.Where("id = ?", id).First(&barcode).Error
	return &barcode, err
}

// GetByNumber returns one barcode by its unique number.
func (r *BarcodeRepository) GetByNumber(number string) (*models.Barcode, error) {
	var barcode models.Barcode
	err := r.DB.Where("barcode_number = ?", number).First(&barcode).Error
	return &barcode, err
}

// ListByBatch returns a batch's barcodes in number order, for the print
// list export.
func (r *BarcodeRepository) ListByBatch(batchNumber string) ([]models.Barcode, error) {
	var barcodes []models.Barcode
	err := r.DB.Where("batch_number = ?", batchNumber).
		Order("barcode_number ASC").
		Find(&barcodes).Error
	return barcodes, err
}
