package routes

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/retail-ledger/internal/config"
	domainRepo "github.com/sangkips/retail-ledger/internal/domain/repository"
	"github.com/sangkips/retail-ledger/internal/presentation/http/handler"
	"github.com/sangkips/retail-ledger/internal/presentation/http/middleware"
	"github.com/sangkips/retail-ledger/pkg/utils"
)

// Route permissions carried in the access token
const (
	PermOpenSession     = "pos.open_session"
	PermCloseSession    = "pos.close_session"
	PermCreateOrder     = "pos.create_order"
	PermViewOrders      = "pos.view_orders"
	PermAcceptPayment   = "pos.accept_payment"
	PermCreateCredit    = "pos.create_credit"
	PermSettleCredit    = "pos.settle_credit"
	PermRefundOrder     = "pos.refund_order"
	PermProductCreate   = "inventory.product.create"
	PermStockIn         = "inventory.stock.in"
	PermStockOut        = "inventory.stock.out"
	PermReconcile       = "inventory.reconcile"
	PermReconcileReview = "inventory.reconcile.approve"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Health         *handler.HealthHandler
	Session        *handler.SessionHandler
	Receipt        *handler.ReceiptHandler
	Payment        *handler.PaymentHandler
	Inventory      *handler.InventoryHandler
	Reconciliation *handler.ReconciliationHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	JWTManager      *utils.JWTManager
	Cfg             *config.Config
	IdempotencyRepo domainRepo.IdempotencyRepository
	Logger          *slog.Logger
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	handler.RegisterValidation()
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware(deps.Logger))
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	router.GET("/health", h.Health.Check)

	v1 := router.Group("/api/v1")
	v1.Use(middleware.AuthMiddleware(deps.JWTManager))

	rateLimiter := middleware.NewActorRateLimiter(rateLimiterConfig(deps.Cfg.RateLimit))
	v1.Use(rateLimiter.Middleware())
	v1.Use(middleware.Idempotency(middleware.IdempotencyConfig{Repo: deps.IdempotencyRepo}))

	registerSessionRoutes(v1, h)
	registerReceiptRoutes(v1, h)
	registerInventoryRoutes(v1, h)
	registerReconciliationRoutes(v1, h)

	return router
}

func rateLimiterConfig(cfg config.RateLimitConfig) middleware.RateLimiterConfig {
	rl := middleware.DefaultRateLimiterConfig()
	if cfg.Requests > 0 && cfg.Duration > 0 {
		rl.RequestsPerSecond = float64(cfg.Requests) / float64(cfg.Duration)
		rl.BurstSize = cfg.Requests
	}
	rl.CleanupInterval = 5 * time.Minute
	rl.EntryTTL = 10 * time.Minute
	return rl
}

func registerSessionRoutes(v1 *gin.RouterGroup, h *Handlers) {
	sessions := v1.Group("/sessions")
	{
		sessions.POST("", middleware.RequirePermission(PermOpenSession), h.Session.Open)
		sessions.GET("/active", middleware.RequirePermission(PermViewOrders), h.Session.Active)
		sessions.POST("/:id/close", middleware.RequirePermission(PermCloseSession), h.Session.Close)
		sessions.GET("/:id/receipts", middleware.RequirePermission(PermViewOrders), h.Session.Receipts)
	}
}

func registerReceiptRoutes(v1 *gin.RouterGroup, h *Handlers) {
	receipts := v1.Group("/receipts")
	{
		receipts.POST("", middleware.RequirePermission(PermCreateOrder), h.Receipt.Create)
		receipts.GET("/:id", middleware.RequirePermission(PermViewOrders), h.Receipt.Get)
		receipts.POST("/:id/orders", middleware.RequirePermission(PermCreateOrder), h.Receipt.CreateOrder)
		receipts.POST("/:id/discount", middleware.RequirePermission(PermCreateOrder), h.Receipt.SetDiscount)
		receipts.POST("/:id/recalculate", middleware.RequirePermission(PermCreateOrder), h.Receipt.Recalculate)
		receipts.POST("/:id/finalize", middleware.RequirePermission(PermCreateOrder), h.Receipt.Finalize)

		receipts.GET("/:id/balance", middleware.RequirePermission(PermViewOrders), h.Payment.Balance)
		receipts.POST("/:id/payments", middleware.RequirePermission(PermAcceptPayment), h.Payment.Accept)
		receipts.POST("/:id/credit", middleware.RequirePermission(PermCreateCredit), h.Payment.CreateCredit)
		receipts.POST("/:id/credit/settle", middleware.RequirePermission(PermSettleCredit), h.Payment.SettleCredit)
		receipts.POST("/:id/refund", middleware.RequirePermission(PermRefundOrder), h.Payment.Refund)
	}

	v1.POST("/orders/:id/items", middleware.RequirePermission(PermCreateOrder), h.Receipt.AddItem)
}

func registerInventoryRoutes(v1 *gin.RouterGroup, h *Handlers) {
	products := v1.Group("/products")
	{
		products.POST("", middleware.RequirePermission(PermProductCreate), h.Inventory.CreateProduct)
		products.GET("/:id", h.Inventory.GetProduct)
		products.PUT("/:id/price", middleware.RequirePermission(PermProductCreate), h.Inventory.SetPrice)
		products.GET("/:id/stock", h.Inventory.Stock)
		products.GET("/:id/movements", h.Inventory.Movements)
	}

	stock := v1.Group("/stock")
	{
		stock.POST("/in", middleware.RequirePermission(PermStockIn), h.Inventory.StockIn)
		stock.POST("/out", middleware.RequirePermission(PermStockOut), h.Inventory.StockOut)
	}
}

func registerReconciliationRoutes(v1 *gin.RouterGroup, h *Handlers) {
	reconciliations := v1.Group("/reconciliations")
	{
		reconciliations.POST("", middleware.RequirePermission(PermReconcile), h.Reconciliation.Create)
		reconciliations.GET("/pending", middleware.RequirePermission(PermReconcile), h.Reconciliation.Pending)
		reconciliations.POST("/:id/approve", middleware.RequirePermission(PermReconcileReview), h.Reconciliation.Approve)
		reconciliations.POST("/:id/reject", middleware.RequirePermission(PermReconcileReview), h.Reconciliation.Reject)
	}
}
