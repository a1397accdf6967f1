package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/andresuchdata/stockflow/internal/api/handlers"
	"github.com/andresuchdata/stockflow/internal/api/middleware"
	"github.com/andresuchdata/stockflow/internal/drive"
	"github.com/andresuchdata/stockflow/internal/metrics"
	"github.com/andresuchdata/stockflow/internal/service"
)

type Services struct {
	Inventory     *service.InventoryService
	Production    *service.ProductionService
	Orders        *service.OrderService
	Simulations   *service.SimulationService
	PurchaseNotes *service.PurchaseNoteService

	// Drive is optional; /drive/files is only mounted when it is set.
	Drive         drive.FileSource
	DriveFolderID string
}

func NewRouter(services *Services, allowedOrigins []string, m *metrics.Metrics) *gin.Engine {
	router := gin.New()

	// Add middleware
	router.Use(middleware.Logger(m))
	router.Use(middleware.Recovery())
	defaultOrigins := []string{"http://localhost:3000", "http://127.0.0.1:3000"}
	corsConfig := cors.Config{
		AllowOrigins:     defaultOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition", "X-Purchase-Note-Number", "X-Object-Key"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(allowedOrigins) > 0 {
		normalizedOrigins, allowAll := normalizeAllowedOrigins(allowedOrigins)
		if allowAll {
			corsConfig.AllowOrigins = nil
			corsConfig.AllowOriginFunc = func(origin string) bool { return true }
		} else if len(normalizedOrigins) > 0 {
			corsConfig.AllowOrigins = normalizedOrigins
		}
	}
	router.Use(cors.New(corsConfig))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if m != nil {
		router.GET("/metrics", gin.WrapH(m.Handler()))
	}

	apiGroup := router.Group("/api/v1")

	if services == nil {
		return router
	}

	if services.Inventory != nil {
		inventoryHandler := handlers.NewInventoryHandler(services.Inventory)
		materialsGroup := apiGroup.Group("/materials")
		{
			materialsGroup.GET("", inventoryHandler.ListMaterials)
			materialsGroup.GET("/quantities", inventoryHandler.GetQuantities)
			materialsGroup.GET("/health", inventoryHandler.GetHealth)
			materialsGroup.POST("/adjust", inventoryHandler.AdjustStock)
			materialsGroup.GET("/:id", inventoryHandler.GetMaterial)
			materialsGroup.GET("/:id/quantity", inventoryHandler.GetQuantity)
		}
	}

	if services.Orders != nil {
		orderHandler := handlers.NewOrderHandler(services.Orders)
		ordersGroup := apiGroup.Group("/orders")
		{
			ordersGroup.GET("", orderHandler.ListOrders)
			ordersGroup.POST("", orderHandler.CreateOrder)
			ordersGroup.GET("/:id", orderHandler.GetOrder)
			ordersGroup.GET("/status/:status", orderHandler.ListByStatus)
			ordersGroup.GET("/customer/name/:name", orderHandler.ListByCustomerName)
			ordersGroup.GET("/customer/email/:email", orderHandler.ListByCustomerEmail)
			ordersGroup.PUT("/:id/status/:status", orderHandler.UpdateStatus)
		}
	}

	if services.Production != nil {
		productionHandler := handlers.NewProductionHandler(services.Production)
		productionGroup := apiGroup.Group("/production")
		{
			productionGroup.GET("/materials/:type/:size/:quantity", productionHandler.MaterialsNeeded)
			productionGroup.GET("/availability/:type/:size/:quantity", productionHandler.CheckAvailability)
			productionGroup.POST("/process/:type/:size/:quantity", productionHandler.Process)
		}
	}

	if services.Simulations != nil {
		simulationHandler := handlers.NewSimulationHandler(services.Simulations, services.PurchaseNotes)
		apiGroup.POST("/simulations", simulationHandler.Simulate)
		if services.PurchaseNotes != nil {
			apiGroup.POST("/purchase-notes", simulationHandler.CreatePurchaseNote)
		}
	}

	if services.Drive != nil {
		driveHandler := handlers.NewDriveHandler(services.Drive, services.DriveFolderID)
		apiGroup.GET("/drive/files", driveHandler.ListFiles)
	}

	return router
}

func normalizeAllowedOrigins(origins []string) ([]string, bool) {
	var (
		parsed   []string
		allowAll bool
	)
	for _, origin := range origins {
		parts := strings.Split(origin, ",")
		for _, part := range parts {
			trimmed := strings.TrimSpace(part)
			if trimmed == "" {
				continue
			}
			if trimmed == "*" {
				allowAll = true
				continue
			}
			parsed = append(parsed, trimmed)
		}
	}
	return parsed, allowAll
}
