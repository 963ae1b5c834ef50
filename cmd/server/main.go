package main

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	catalogAPI "github.com/0zheermao0/inventory/internal/catalog/api"
	catalogRepo "github.com/0zheermao0/inventory/internal/catalog/repository"
	catalogService "github.com/0zheermao0/inventory/internal/catalog/service"
	directoryAPI "github.com/0zheermao0/inventory/internal/directory/api"
	directoryRepo "github.com/0zheermao0/inventory/internal/directory/repository"
	directoryService "github.com/0zheermao0/inventory/internal/directory/service"
	excelAPI "github.com/0zheermao0/inventory/internal/excel/api"
	excelService "github.com/0zheermao0/inventory/internal/excel/service"
	inventoryAPI "github.com/0zheermao0/inventory/internal/inventory/api"
	inventoryRepo "github.com/0zheermao0/inventory/internal/inventory/repository"
	inventoryService "github.com/0zheermao0/inventory/internal/inventory/service"
	"github.com/0zheermao0/inventory/internal/platform/config"
	"github.com/0zheermao0/inventory/internal/platform/database"
	"github.com/0zheermao0/inventory/internal/platform/logger"
)

func main() {
	// Load Config
	dbCfg := config.LoadDBConfig()
	serverCfg := config.LoadServerConfig("8080")

	logger.Info("Starting Inventory Service...")

	// Setup Database
	db, err := database.Connect(dbCfg.DSN)
	if err != nil {
		logger.Error("Failed to connect to database for Inventory Service", err)
		return
	}
	defer db.Close()

	// Setup Dependencies
	productRepository := catalogRepo.NewPostgresProductRepository(db)
	customerRepository := directoryRepo.NewPostgresCustomerRepository(db)
	storeInfoRepository := directoryRepo.NewPostgresStoreInfoRepository(db)
	transactionRepository := inventoryRepo.NewPostgresTransactionRepository(db)

	productService := catalogService.NewProductService(productRepository)
	customerService := directoryService.NewCustomerService(customerRepository, storeInfoRepository)
	transactionService := inventoryService.NewTransactionService(
		transactionRepository, productRepository, customerRepository,
		inventoryService.NewDocumentNumberGenerator())
	importerService := excelService.NewImporterService(productRepository, customerRepository, transactionService)
	exporterService := excelService.NewExporterService(productRepository, customerRepository, transactionRepository)

	productHandler := catalogAPI.NewProductHandler(productService)
	customerHandler := directoryAPI.NewCustomerHandler(customerService)
	transactionHandler := inventoryAPI.NewTransactionHandler(transactionService)
	excelHandler := excelAPI.NewExcelHandler(importerService, exporterService)

	// Setup Gin Router
	router := gin.Default()
	router.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders:   []string{"Content-Length", "Content-Disposition"},
		MaxAge:          12 * time.Hour,
	}))

	apiV1 := router.Group("/api/v1")
	productHandler.RegisterRoutes(apiV1)
	customerHandler.RegisterRoutes(apiV1)
	transactionHandler.RegisterRoutes(apiV1)
	excelHandler.RegisterRoutes(apiV1)

	logger.Info("Inventory Service running on port " + serverCfg.Port)
	if errSrv := router.Run(serverCfg.Port); errSrv != nil {
		logger.Error("Failed to run Inventory Service server", errSrv)
	}
}
