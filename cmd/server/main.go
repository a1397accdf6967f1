package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/andresuchdata/stockflow/internal/api"
	"github.com/andresuchdata/stockflow/internal/cache"
	"github.com/andresuchdata/stockflow/internal/config"
	"github.com/andresuchdata/stockflow/internal/drive"
	"github.com/andresuchdata/stockflow/internal/metrics"
	"github.com/andresuchdata/stockflow/internal/purchasenote"
	"github.com/andresuchdata/stockflow/internal/repository"
	"github.com/andresuchdata/stockflow/internal/repository/memory"
	"github.com/andresuchdata/stockflow/internal/repository/postgres"
	"github.com/andresuchdata/stockflow/internal/service"
	"github.com/andresuchdata/stockflow/internal/simulation"
	"github.com/andresuchdata/stockflow/internal/storage"
	"github.com/andresuchdata/stockflow/pkg/logger"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize logger
	logger.Configure(os.Stderr, cfg.Server.LogFormat)
	logger.SetLevel(cfg.Server.LogLevel)
	if cfg.Server.Mode == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx := context.Background()
	m := metrics.New()

	var catalog *config.Catalog
	if cfg.App.CatalogFile != "" {
		var err error
		catalog, err = config.LoadCatalogFile(cfg.App.CatalogFile)
		if err != nil {
			logger.Log.Fatal().Err(err).Msg("Failed to load catalog")
		}
	}

	// Initialize persistence
	store, closeStore, err := openStore(ctx, cfg, catalog)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to initialize store")
	}
	defer closeStore()

	inventoryCache, err := cache.NewInventoryCache(cfg.Cache)
	if err != nil {
		logger.Log.Warn().Err(err).Msg("Redis unavailable, caching disabled")
		inventoryCache = cache.NewNoopInventoryCache()
	}

	var objects storage.ObjectStorage
	if cfg.Storage.Enabled {
		objects, err = storage.New(ctx, cfg.Storage)
		if err != nil {
			logger.Log.Fatal().Err(err).Msg("Failed to initialize object storage")
		}
	}

	// Initialize services
	policy := cfg.Simulation.Policy()
	consumption, err := simulation.ParseConsumptionPolicy(cfg.Simulation.ConsumptionPolicy)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Invalid simulation config")
	}
	trace, ok := simulation.ParseTraceLevel(cfg.Simulation.TraceLevel)
	if !ok {
		logger.Log.Fatal().Str("trace_level", cfg.Simulation.TraceLevel).Msg("Invalid simulation config")
	}

	inventory := service.NewInventoryService(store.Materials, inventoryCache, policy, m)
	production := service.NewProductionService(store.ClothingTypes, store.Materials, inventory)
	simulations, err := service.NewSimulationService(store, inventory, inventoryCache, m,
		simulation.Config{Consumption: consumption, TraceLevel: trace, Drain: cfg.Simulation.Drain}, policy)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Invalid simulation config")
	}
	if catalog != nil && len(catalog.SizeMultipliers) > 0 {
		simulations.SetSizeMultipliers(catalog.SizeMultipliers)
	}

	services := &api.Services{
		Inventory:   inventory,
		Production:  production,
		Orders:      service.NewOrderService(store.Orders, store.Materials, production),
		Simulations: simulations,
		PurchaseNotes: service.NewPurchaseNoteService(store.Materials, purchasenote.Header{
			Company:         cfg.App.CompanyName,
			Supplier:        cfg.App.SupplierName,
			SupplierAddress: cfg.App.SupplierAddress,
		}, objects, cfg.Storage.Prefix, m),
		DriveFolderID: cfg.Drive.FolderID,
	}
	if cfg.Drive.CredentialsFile != "" {
		driveService, err := drive.NewServiceFromFile(ctx, cfg.Drive.CredentialsFile)
		if err != nil {
			logger.Log.Warn().Err(err).Msg("Google Drive unavailable")
		} else {
			services.Drive = driveService
		}
	}

	// Initialize HTTP server
	router := api.NewRouter(services, cfg.Server.AllowedOrigins, m)
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Log.Info().Str("port", cfg.Server.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info().Msg("Shutting down server...")

	// The context is used to inform the server it has 5 seconds to finish
	// the request it is currently handling
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	logger.Log.Info().Msg("Server exiting")
}

// openStore returns the configured repositories and a function releasing them.
// The memory backend is reseeded from catalog when one is given; postgres is
// seeded with `stockctl seed`.
func openStore(ctx context.Context, cfg *config.Config, catalog *config.Catalog) (*repository.Store, func(), error) {
	if cfg.Database.Backend == "memory" {
		store := memory.NewStore()
		if catalog != nil {
			if err := repository.Seed(ctx, store, catalog.Materials, catalog.ClothingTypes); err != nil {
				return nil, nil, err
			}
		}
		logger.Log.Info().Msg("Using in-memory store")
		return store, func() {}, nil
	}

	var (
		db  *postgres.DB
		err error
	)
	if cfg.Database.URL != "" {
		db, err = postgres.NewDBFromURL(ctx, cfg.Database.URL)
	} else {
		db, err = postgres.NewDB(&cfg.Database)
	}
	if err != nil {
		return nil, nil, err
	}
	if err := postgres.Migrate(ctx, db); err != nil {
		db.Close()
		return nil, nil, err
	}
	return postgres.NewStore(db), func() { db.Close() }, nil
}
