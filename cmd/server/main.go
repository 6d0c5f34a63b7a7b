package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	inventoryapp "github.com/bizops/backend/internal/application/inventory"
	receivingapp "github.com/bizops/backend/internal/application/receiving"
	"github.com/bizops/backend/internal/domain/inventory"
	"github.com/bizops/backend/internal/infrastructure/auth"
	"github.com/bizops/backend/internal/infrastructure/cache"
	"github.com/bizops/backend/internal/infrastructure/config"
	"github.com/bizops/backend/internal/infrastructure/event"
	"github.com/bizops/backend/internal/infrastructure/logger"
	"github.com/bizops/backend/internal/infrastructure/persistence"
	"github.com/bizops/backend/internal/interfaces/http/handler"
	"github.com/bizops/backend/internal/interfaces/http/middleware"
	"github.com/bizops/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting stock ledger backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	db, err := persistence.NewDatabase(&cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()

	if err := db.Migrate(); err != nil {
		log.Fatal("Failed to run migrations", zap.Error(err))
	}
	log.Info("Database connected and migrated")

	// Repositories
	productRepo := persistence.NewGormProductRepository(db.DB)
	warehouseRepo := persistence.NewGormWarehouseRepository(db.DB)
	locationRepo := persistence.NewGormStorageLocationRepository(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)
	itemRepo := persistence.NewGormInventoryItemRepository(db.DB)
	movementRepo := persistence.NewGormStockMovementRepository(db.DB)
	requestRepo := persistence.NewGormStockMovementRequestRepository(db.DB)
	orderRepo := persistence.NewGormPurchaseOrderRepository(db.DB)
	shipmentRepo := persistence.NewGormShipmentRepository(db.DB)

	inventoryScope := persistence.NewGormInventoryTransactionScope(db.DB)
	receivingScope := persistence.NewGormReceivingTransactionScope(db.DB)

	// Event bus with the default audit subscriber
	eventBus := event.NewInMemoryEventBus(log)
	eventBus.Subscribe(event.NewAuditLogHandler(log))

	// Application services
	policy := buildApprovalPolicy(cfg.Approval)

	ledgerService := inventoryapp.NewLedgerService(inventoryScope, productRepo, log)
	ledgerService.SetEventPublisher(eventBus)

	requestService := inventoryapp.NewRequestService(
		requestRepo, userRepo, warehouseRepo, locationRepo, productRepo,
		policy, ledgerService, log,
	)
	requestService.SetEventPublisher(eventBus)

	cycleCountService := inventoryapp.NewCycleCountService(requestService, log)

	queryService := inventoryapp.NewStockQueryService(itemRepo, movementRepo, userRepo, log)

	shipmentService := receivingapp.NewShipmentService(
		receivingScope, shipmentRepo, orderRepo, userRepo, policy, log,
	)

	// Redis stock view cache is optional. A missing Redis degrades reads to
	// the database, it never blocks startup.
	stockCache, err := cache.NewRedisStockViewCache(cfg.Redis, log)
	if err != nil {
		log.Warn("Redis unavailable, stock view cache disabled", zap.Error(err))
	} else {
		defer func() {
			if err := stockCache.Close(); err != nil {
				log.Error("Error closing Redis client", zap.Error(err))
			}
		}()
		queryService.SetCache(stockCache)
		ledgerService.SetCacheInvalidator(stockCache)
		shipmentService.SetCacheInvalidator(stockCache)
		log.Info("Stock view cache enabled", zap.String("addr", cfg.Redis.Addr()))
	}

	jwtService := auth.NewJWTService(cfg.JWT)

	// Handlers
	stockHandler := handler.NewStockHandler(queryService)
	requestHandler := handler.NewMovementRequestHandler(requestService, cycleCountService)
	shipmentHandler := handler.NewShipmentHandler(shipmentService)

	if cfg.App.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()

	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(middleware.RequestID())
	engine.Use(middleware.Recovery(log))
	engine.Use(middleware.RequestLogger(log))

	engine.GET("/health", healthHandler(db))

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Use(middleware.JWTAuthMiddleware(jwtService))

	// Stock views
	stockRoutes := router.NewDomainGroup("stock", "")
	stockRoutes.GET("/warehouses/:warehouseID/stock", stockHandler.ListItems)
	stockRoutes.GET("/warehouses/:warehouseID/stock/:productID", stockHandler.GetItem)
	stockRoutes.GET("/stock-movements", stockHandler.ListMovements)

	// Approval workflow
	requestRoutes := router.NewDomainGroup("stock-requests", "/stock-requests")
	requestRoutes.POST("", requestHandler.Submit)
	requestRoutes.GET("", requestHandler.List)
	requestRoutes.GET("/:id", requestHandler.Get)
	requestRoutes.POST("/:id/approve", requestHandler.Approve)
	requestRoutes.POST("/:id/reject", requestHandler.Reject)

	// Cycle counts
	countRoutes := router.NewDomainGroup("cycle-counts", "/cycle-counts")
	countRoutes.POST("", requestHandler.CycleCount)

	// Incoming shipments
	shipmentRoutes := router.NewDomainGroup("shipments", "/shipments")
	shipmentRoutes.POST("", shipmentHandler.Create)
	shipmentRoutes.GET("", shipmentHandler.List)
	shipmentRoutes.GET("/:id", shipmentHandler.Get)
	shipmentRoutes.POST("/:id/receipt", shipmentHandler.RecordReceipt)
	shipmentRoutes.POST("/:id/process", shipmentHandler.Process)
	shipmentRoutes.POST("/:id/reject", shipmentHandler.Reject)

	r.Register(stockRoutes).
		Register(requestRoutes).
		Register(countRoutes).
		Register(shipmentRoutes)

	r.Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

func healthHandler(db *persistence.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"time":     time.Now().Format(time.RFC3339),
				"database": "error",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"database": "ok",
		})
	}
}

// buildApprovalPolicy maps configured capability rules onto the policy table.
// With no rules configured the built-in default policy applies.
func buildApprovalPolicy(cfg config.ApprovalConfig) *inventory.ApprovalPolicy {
	if len(cfg.Rules) == 0 {
		return inventory.NewDefaultApprovalPolicy()
	}
	var rules []inventory.CapabilityRule
	for _, rule := range cfg.Rules {
		for _, requestType := range rule.RequestTypes {
			rules = append(rules, inventory.CapabilityRule{
				Role:        rule.Role,
				RequestType: inventory.RequestType(requestType),
				Capability: inventory.Capability{
					CanSubmit:   rule.Submit,
					SelfApprove: rule.SelfApprove,
					CanDecide:   rule.Decide,
				},
			})
		}
	}
	return inventory.NewApprovalPolicy(rules)
}
