package routes

import (
	"trf-app/config"
	"trf-app/controllers"
	"trf-app/middleware"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupTRFRoutes(app *fiber.App, db *gorm.DB) {
	trfController := controllers.NewTRFController(db)

	api := app.Group(config.MAIN_ROUTES+"/trfs", middleware.AuthMiddleware)
	api.Get("/", trfController.GetAllTRF)
	api.Post("/", trfController.CreateTRF)
	api.Get("/:id", trfController.GetTRFByID)
	api.Put("/:id", trfController.UpdateTRF)
	api.Delete("/:id", trfController.DeleteTRF)
	api.Get("/:id/qr-code", trfController.GetQrCode)
	api.Post("/:id/barcodes", trfController.AddBarcode)
}
