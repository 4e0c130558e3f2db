package main

import (
	"docport/config"
	"docport/database"
	"docport/middleware"
	authRoutes "docport/routers/authRoutes"
	documentRoutes "docport/routers/documentRoutes"
	domainRoutes "docport/routers/domainRoutes"
	"docport/utils"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

func main() {
	config.LoadConfig()
	database.ConnectDb()

	app := fiber.New()

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE",        // Allowed HTTP methods
		AllowHeaders: "Content-Type,Authorization", // Allowed headers
	}))

	// Enable the built-in logger middleware to log all requests
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${ip} ${method} ${path} ${status} ${latency}\n",
	}))

	app.Get("/", middleware.Entry)

	authRoutes.SetupAuthRoutes(app)
	domainRoutes.SetupDomainRoutes(app)
	documentRoutes.SetupDocumentRoutes(app)

	utils.InitializePurgeScheduler()

	log.Printf("Server is running on port %s", config.AppConfig.Port)
	log.Fatal(app.Listen(":" + config.AppConfig.Port))
}
