package controllers

import (
	"fmt"
	"time"

	"trf-app/repositories"
	"trf-app/services"

	"github.com/go-playground/validator"
	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

type BatchController struct {
	DB *gorm.DB
}

func NewBatchController(DB *gorm.DB) *BatchController {
	return &BatchController{DB: DB}
}

func (c *BatchController) CreateBatch(ctx *fiber.Ctx) error {
	var batchInput struct {
		BatchNumber string `json:"batch_number" validate:"required,min=1,max=50"`
		Prefix      string `json:"prefix" validate:"max=10"`
		StartNumber int    `json:"start_number" validate:"required,min=1"`
		EndNumber   int    `json:"end_number" validate:"required,min=1"`
		Notes       string `json:"notes"`
	}

	if err := ctx.BodyParser(&batchInput); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	validate := validator.New()
	if err := validate.Struct(batchInput); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	batchService := services.NewBatchService(c.DB)
	batch, created, err := batchService.CreateBatch(services.BatchForm{
		BatchNumber: batchInput.BatchNumber,
		Prefix:      batchInput.Prefix,
		StartNumber: batchInput.StartNumber,
		EndNumber:   batchInput.EndNumber,
		Notes:       batchInput.Notes,
	}, actorID(ctx))
	if err != nil {
		return serviceError(ctx, err)
	}

	return ctx.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success":          true,
		"message":          "Batch created successfully",
		"data":             batch,
		"barcodes_created": created,
	})
}

func (c *BatchController) GetAllBatches(ctx *fiber.Ctx) error {
	batchService := services.NewBatchService(c.DB)
	batches, err := batchService.ListBatches()
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "data": batches})
}

func (c *BatchController) GetBatchByID(ctx *fiber.Ctx) error {
	id, err := ctx.ParamsInt("id")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid ID"})
	}

	batchService := services.NewBatchService(c.DB)
	batch, err := batchService.GetBatch(int64(id))
	if err != nil {
		return serviceError(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "data": batch})
}

func (c *BatchController) DeleteBatch(ctx *fiber.Ctx) error {
	id, err := ctx.ParamsInt("id")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid ID"})
	}

	batchService := services.NewBatchService(c.DB)
	result, err := batchService.DeleteBatch(int64(id))
	if err != nil {
		return serviceError(ctx, err)
	}

	message := "Batch deleted successfully"
	if result.Retained > 0 {
		message = "Batch deleted, partially retained: assigned barcodes were kept"
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "message": message, "data": result})
}

// ExportExcel generates the print list for a batch: one row per barcode
// number, handed to the label print vendor.
func (c *BatchController) ExportExcel(ctx *fiber.Ctx) error {
	id, err := ctx.ParamsInt("id")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid ID"})
	}

	batchService := services.NewBatchService(c.DB)
	batch, err := batchService.GetBatch(int64(id))
	if err != nil {
		return serviceError(ctx, err)
	}

	barcodeRepo := repositories.NewBarcodeRepository(c.DB)
	barcodes, err := barcodeRepo.ListByBatch(batch.BatchNumber)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	f := excelize.NewFile()
	sheet := "Sheet1"

	f.SetCellValue(sheet, "A1", "Barcode Number")
	f.SetCellValue(sheet, "B1", "Batch Number")
	f.SetCellValue(sheet, "C1", "Type")
	f.SetCellValue(sheet, "D1", "Available")
	f.SetCellValue(sheet, "E1", "Expiry Date")

	for i, barcode := range barcodes {
		row := i + 2
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), barcode.BarcodeNumber)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), barcode.BatchNumber)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", row), barcode.BarcodeType)
		f.SetCellValue(sheet, fmt.Sprintf("D%d", row), barcode.IsAvailable)
		if barcode.ExpiryDate != nil {
			f.SetCellValue(sheet, fmt.Sprintf("E%d", row), barcode.ExpiryDate.Format("2006-01-02"))
		}
	}

	filename := fmt.Sprintf("batch_%s_%s.xlsx", batch.BatchNumber, time.Now().Format("20060102"))
	ctx.Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	ctx.Set("Content-Disposition", fmt.Sprintf(`attachment; filename=%q`, filename))

	if err := f.Write(ctx.Response().BodyWriter()); err != nil {
		return ctx.Status(fiber.StatusInternalServerError).SendString("Failed to generate Excel file")
	}

	return nil
}
