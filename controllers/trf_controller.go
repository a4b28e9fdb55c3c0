package controllers

import (
	"trf-app/labels"
	"trf-app/models"
	"trf-app/services"

	"github.com/go-playground/validator"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type TRFController struct {
	DB *gorm.DB
}

func NewTRFController(DB *gorm.DB) *TRFController {
	return &TRFController{DB: DB}
}

func (c *TRFController) CreateTRF(ctx *fiber.Ctx) error {
	var trfInput struct {
		TrfNumber  string `json:"trf_number" validate:"required,min=1,max=50"`
		ExpiryDate string `json:"expiry_date" validate:"required"`
		Notes      string `json:"notes"`
	}

	if err := ctx.BodyParser(&trfInput); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	validate := validator.New()
	if err := validate.Struct(trfInput); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	trfService := services.NewTRFService(c.DB)
	trf, err := trfService.CreateTRF(services.TRFForm{
		TrfNumber:  trfInput.TrfNumber,
		ExpiryDate: trfInput.ExpiryDate,
		Notes:      trfInput.Notes,
	}, actorID(ctx))
	if err != nil {
		return serviceError(ctx, err)
	}

	return ctx.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "message": "TRF created successfully", "data": trf})
}

func (c *TRFController) GetAllTRF(ctx *fiber.Ctx) error {
	trfService := services.NewTRFService(c.DB)
	trfs, err := trfService.ListTRFs(ctx.Query("trf_number"))
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "data": trfs})
}

func (c *TRFController) GetTRFByID(ctx *fiber.Ctx) error {
	id, err := ctx.ParamsInt("id")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid ID"})
	}

	trfService := services.NewTRFService(c.DB)
	trf, err := trfService.GetTRF(int64(id))
	if err != nil {
		return serviceError(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "data": fiber.Map{
		"trf":        trf,
		"is_expired": trf.IsExpired(trfService.Now()),
	}})
}

func (c *TRFController) UpdateTRF(ctx *fiber.Ctx) error {
	id, err := ctx.ParamsInt("id")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid ID"})
	}

	var updateInput struct {
		Notes string `json:"notes"`
	}
	if err := ctx.BodyParser(&updateInput); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	trfService := services.NewTRFService(c.DB)
	trf, err := trfService.UpdateNotes(int64(id), updateInput.Notes, actorID(ctx))
	if err != nil {
		return serviceError(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "message": "TRF updated successfully", "data": trf})
}

func (c *TRFController) DeleteTRF(ctx *fiber.Ctx) error {
	id, err := ctx.ParamsInt("id")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid ID"})
	}

	trfService := services.NewTRFService(c.DB)
	if err := trfService.DeleteTRF(int64(id)); err != nil {
		return serviceError(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "message": "TRF deleted successfully"})
}

// GetQrCode streams the TRF's QR label as PNG.
func (c *TRFController) GetQrCode(ctx *fiber.Ctx) error {
	id, err := ctx.ParamsInt("id")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid ID"})
	}

	trfService := services.NewTRFService(c.DB)
	trf, err := trfService.GetTRF(int64(id))
	if err != nil {
		return serviceError(ctx, err)
	}

	image, err := labels.RenderQR(trf.QrPayload())
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	ctx.Set("Content-Type", "image/png")
	return ctx.Send(image)
}

// AddBarcode mints a generated barcode directly under the TRF.
func (c *TRFController) AddBarcode(ctx *fiber.Ctx) error {
	id, err := ctx.ParamsInt("id")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid ID"})
	}

	var barcodeInput struct {
		BarcodeNumber  string  `json:"barcode_number" validate:"required,min=1,max=50"`
		ExpiryDate     string  `json:"expiry_date"`
		Notes          string  `json:"notes"`
		SampleType     string  `json:"sample_type"`
		VolumeMl       float64 `json:"volume_ml"`
		CollectionDate string  `json:"collection_date"`
	}
	if err := ctx.BodyParser(&barcodeInput); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	validate := validator.New()
	if err := validate.Struct(barcodeInput); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	form := services.GeneratedBarcodeForm{
		BarcodeNumber: barcodeInput.BarcodeNumber,
		CustomExpiry:  barcodeInput.ExpiryDate,
		Notes:         barcodeInput.Notes,
	}
	if barcodeInput.SampleType != "" || barcodeInput.VolumeMl > 0 || barcodeInput.CollectionDate != "" {
		form.TubeData = &models.TubeData{
			SampleType:     barcodeInput.SampleType,
			VolumeMl:       barcodeInput.VolumeMl,
			CollectionDate: barcodeInput.CollectionDate,
		}
	}

	trfService := services.NewTRFService(c.DB)
	barcode, err := trfService.AddGeneratedBarcode(int64(id), form, actorID(ctx))
	if err != nil {
		return serviceError(ctx, err)
	}

	return ctx.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "message": "Barcode created successfully", "data": barcode})
}
