package main

import (
	"fmt"
	"log"

	"trf-app/config"
	"trf-app/controllers/idgen"
	"trf-app/database"
	"trf-app/migration"
	"trf-app/routes"

	"github.com/gofiber/fiber/v2"
)

func main() {

	config.LoadConfig()

	app := fiber.New()

	db, err := database.OpenDatabaseConnection()
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := migration.Migrate(db); err != nil {
		log.Fatalf("Failed to auto migrate: %v", err)
	}

	idgen.Init()
	database.RunSeeders(db)

	config.SetupCORS(app)

	routes.SetupAuthRoutes(app, db)
	routes.SetupDashboardRoutes(app, db)
	routes.SetupTRFRoutes(app, db)
	routes.SetupBarcodeRoutes(app, db)
	routes.SetupBatchRoutes(app, db)

	port := config.APP_PORT
	fmt.Println("🚀 Server running on port " + port)

	if err := app.Listen(":" + port); err != nil {
		log.Fatal(err)
	}
}
