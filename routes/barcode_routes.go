package routes

import (
	"trf-app/config"
	"trf-app/controllers"
	"trf-app/middleware"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupBarcodeRoutes(app *fiber.App, db *gorm.DB) {
	barcodeController := controllers.NewBarcodeController(db)

	api := app.Group(config.MAIN_ROUTES+"/barcodes", middleware.AuthMiddleware)
	api.Get("/", barcodeController.GetAllBarcodes)
	api.Post("/assign", barcodeController.AssignBarcode)
	api.Get("/:id", barcodeController.GetBarcodeByID)
	api.Get("/:id/check-expiry", barcodeController.CheckExpiry)
	api.Get("/:id/image", barcodeController.GetBarcodeImage)
}
