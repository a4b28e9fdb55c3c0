package controllers

import (
	"errors"
	"strconv"
	"time"

	"trf-app/labels"
	"trf-app/models"
	"trf-app/repositories"
	"trf-app/services"

	"github.com/go-playground/validator"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type BarcodeController struct {
	DB *gorm.DB
}

func NewBarcodeController(DB *gorm.DB) *BarcodeController {
	return &BarcodeController{DB: DB}
}

// AssignBarcode is the scan endpoint: a barcode number typed or scanned
// against a TRF, with tube metadata captured at the bench.
func (c *BarcodeController) AssignBarcode(ctx *fiber.Ctx) error {
	var assignInput struct {
		BarcodeNumber  string  `json:"barcode_number" validate:"required"`
		TrfID          int64   `json:"trf_id" validate:"required"`
		ExpiryDate     string  `json:"expiry_date"`
		SampleType     string  `json:"sample_type"`
		VolumeMl       float64 `json:"volume_ml"`
		CollectionDate string  `json:"collection_date"`
		Notes          string  `json:"notes"`
	}

	if err := ctx.BodyParser(&assignInput); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	validate := validator.New()
	if err := validate.Struct(assignInput); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	form := services.AssignForm{
		BarcodeNumber: assignInput.BarcodeNumber,
		TrfID:         assignInput.TrfID,
		CustomExpiry:  assignInput.ExpiryDate,
	}
	if assignInput.SampleType != "" || assignInput.VolumeMl > 0 || assignInput.CollectionDate != "" {
		form.TubeData = &models.TubeData{
			SampleType:     assignInput.SampleType,
			VolumeMl:       assignInput.VolumeMl,
			CollectionDate: assignInput.CollectionDate,
			Notes:          assignInput.Notes,
		}
	}

	assignService := services.NewAssignmentService(c.DB)
	barcode, err := assignService.Assign(form, actorID(ctx))
	if err != nil {
		return serviceError(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "message": "Barcode assigned successfully", "data": barcode})
}

func (c *BarcodeController) GetAllBarcodes(ctx *fiber.Ctx) error {
	filter := repositories.BarcodeFilter{
		BatchNumber: ctx.Query("batch_number"),
		BarcodeType: ctx.Query("barcode_type"),
	}
	if q := ctx.Query("is_available"); q != "" {
		available, err := strconv.ParseBool(q)
		if err != nil {
			return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid is_available filter"})
		}
		filter.IsAvailable = &available
	}
	if q := ctx.Query("trf_id"); q != "" {
		trfID, err := strconv.ParseInt(q, 10, 64)
		if err != nil {
			return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid trf_id filter"})
		}
		filter.TrfID = &trfID
	}

	barcodeRepo := repositories.NewBarcodeRepository(c.DB)
	barcodes, err := barcodeRepo.List(filter)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "data": barcodes})
}

func (c *BarcodeController) GetBarcodeByID(ctx *fiber.Ctx) error {
	barcode, err := c.findBarcode(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Barcode not found"})
		}
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "data": barcode})
}

// CheckExpiry reports the derived expiry state of one barcode.
func (c *BarcodeController) CheckExpiry(ctx *fiber.Ctx) error {
	barcode, err := c.findBarcode(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Barcode not found"})
		}
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"barcode_number": barcode.BarcodeNumber,
		"is_expired":     barcode.IsExpired(time.Now()),
		"expiry_date":    barcode.ExpiryDate,
	})
}

// GetBarcodeImage streams the Code128 label as PNG. Width and height are
// cosmetic query parameters.
func (c *BarcodeController) GetBarcodeImage(ctx *fiber.Ctx) error {
	barcode, err := c.findBarcode(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Barcode not found"})
		}
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	opts := labels.Code128Options{
		Width:  ctx.QueryInt("width"),
		Height: ctx.QueryInt("height"),
	}
	image, err := labels.RenderCode128(barcode.BarcodeNumber, opts)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	ctx.Set("Content-Type", "image/png")
	return ctx.Send(image)
}

// findBarcode accepts either a numeric id or a barcode number in the id
// parameter, since scanners only know the number.
func (c *BarcodeController) findBarcode(ctx *fiber.Ctx) (*models.Barcode, error) {
	param := ctx.Params("id")
	barcodeRepo := repositories.NewBarcodeRepository(c.DB)

	if id, err := strconv.ParseInt(param, 10, 64); err == nil {
		if barcode, err := barcodeRepo.GetByID(id); err == nil {
			return barcode, nil
		}
	}
	return barcodeRepo.GetByNumber(param)
}
