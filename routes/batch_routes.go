package routes

import (
	"trf-app/config"
	"trf-app/controllers"
	"trf-app/middleware"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupBatchRoutes(app *fiber.App, db *gorm.DB) {
	batchController := controllers.NewBatchController(db)

	api := app.Group(config.MAIN_ROUTES+"/batches", middleware.AuthMiddleware)
	api.Get("/", batchController.GetAllBatches)
	api.Post("/", batchController.CreateBatch)
	api.Get("/:id", batchController.GetBatchByID)
	api.Delete("/:id", batchController.DeleteBatch)
	api.Get("/:id/export", batchController.ExportExcel)
}
