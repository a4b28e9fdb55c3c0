package services

import (
	"errors"
	"fmt"
)

// Expected domain failures. Controllers translate these into distinct
// HTTP responses; anything else coming out of a service is a storage
// failure and surfaces as a 500.
var (
	ErrInvalidRange  = errors.New("batch start number must be less than end number")
	ErrEmptyBarcode  = errors.New("barcode number is empty")
	ErrBarcodeInUse  = errors.New("barcode is not available")
	ErrInvalidDate   = errors.New("invalid expiry date format, expected YYYY-MM-DD")
	ErrExpiredDate   = errors.New("expiry date is in the past")
	ErrTRFNotFound   = errors.New("TRF not found")
	ErrBatchNotFound = errors.New("batch not found")
	ErrDuplicateTRF  = errors.New("TRF number already exists")
)

// AlreadyAssignedError rejects a scan against a barcode some TRF already
// owns. It carries the owning TRF number so the operator can see where
// the tube went.
type AlreadyAssignedError struct {
	TRFNumber string
}

func (e *AlreadyAssignedError) Error() string {
	return fmt.Sprintf("barcode is already assigned to TRF %s", e.TRFNumber)
}
