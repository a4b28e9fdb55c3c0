package controllers

import (
	"time"

	"trf-app/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type DashboardController struct {
	DB *gorm.DB
}

func NewDashboardController(DB *gorm.DB) *DashboardController {
	return &DashboardController{DB: DB}
}

func (c *DashboardController) GetSummary(ctx *fiber.Ctx) error {
	var trfCount, batchCount, availableCount, assignedCount, expiringCount int64

	if err := c.DB.Model(&models.TRF{}).Count(&trfCount).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	if err := c.DB.Model(&models.BarcodeInventory{}).Count(&batchCount).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	if err := c.DB.Model(&models.Barcode{}).Where("is_available = ?", true).Count(&availableCount).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	if err := c.DB.Model(&models.Barcode{}).Where("trf_id IS NOT NULL").Count(&assignedCount).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	cutoff := time.Now().AddDate(0, 0, 30)
	if err := c.DB.Model(&models.Barcode{}).
		Where("expiry_date IS NOT NULL AND expiry_date <= ?", cutoff).
		Count(&expiringCount).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "data": fiber.Map{
		"trfs":               trfCount,
		"batches":            batchCount,
		"barcodes_available": availableCount,
		"barcodes_assigned":  assignedCount,
		"expiring_30_days":   expiringCount,
	}})
}
