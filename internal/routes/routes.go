package routes

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/rescatefresco/rescate-fresco/internal/audit"
	"github.com/rescatefresco/rescate-fresco/internal/cache"
	"github.com/rescatefresco/rescate-fresco/internal/config"
	"github.com/rescatefresco/rescate-fresco/internal/handlers"
	infraRepo "github.com/rescatefresco/rescate-fresco/internal/infra/repository"
	"github.com/rescatefresco/rescate-fresco/internal/middleware"
	"github.com/rescatefresco/rescate-fresco/internal/models"
	"github.com/rescatefresco/rescate-fresco/internal/payments"
	"github.com/rescatefresco/rescate-fresco/internal/storage"
	uclot "github.com/rescatefresco/rescate-fresco/internal/usecase/lot"
)

type Deps struct {
	DB      *gorm.DB
	Cfg     *config.Config
	Catalog *cache.Catalog
	MP      *payments.Client
	Photos  *storage.PhotoStore
	Log     *zap.Logger
}

// Sweep expone el caso de uso del barrido para que main lo programe.
func BuildExpireLots(db *gorm.DB, log *zap.Logger) *uclot.ExpireLots {
	repo := infraRepo.NewLotGormRepository(db)
	dispatcher := audit.NewDispatcher(audit.New(db), log)
	return uclot.NewExpireLots(repo, dispatcher)
}

func RegisterRoutes(r *gin.Engine, d Deps) {

	// ======================================================
	// INFRA (SINGLETONS)
	// ======================================================
	lotRepo := infraRepo.NewLotGormRepository(d.DB)

	auditLogger := audit.New(d.DB)
	auditDispatcher := audit.NewDispatcher(auditLogger, d.Log)

	// ======================================================
	// USE CASES — LOTS
	// ======================================================
	getLotUC := uclot.NewGetLot(lotRepo)
	reserveUC := uclot.NewReserveLot(lotRepo, auditDispatcher)
	payUC := uclot.NewPayLot(lotRepo, auditDispatcher)
	issueCodeUC := uclot.NewIssuePickupCode(lotRepo, auditDispatcher)
	confirmUC := uclot.NewConfirmPickup(lotRepo, auditDispatcher)
	donateUC := uclot.NewDonateLot(lotRepo, auditDispatcher)

	// ======================================================
	// HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(d.DB, d.Cfg)
	lotHandler := handlers.NewLotHandler(
		d.DB, lotRepo, d.Catalog, auditDispatcher,
		getLotUC, confirmUC, donateUC,
	)
	reservationHandler := handlers.NewReservationHandler(
		lotRepo, d.Catalog,
		reserveUC, payUC, issueCodeUC,
	)
	paymentHandler := handlers.NewPaymentHandler(
		d.DB, d.Cfg, d.MP, d.Catalog, payUC, d.Log,
	)
	storeHandler := handlers.NewStoreHandler(d.DB, lotRepo)
	photoHandler := handlers.NewPhotoHandler(d.DB, d.Photos, d.Log)
	auditLogsHandler := handlers.NewAuditLogsHandler(d.DB)

	// ======================================================
	// API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// AUTH
		// ------------------------------
		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/login", authHandler.Login)

		// ------------------------------
		// CATÁLOGO PÚBLICO
		// ------------------------------
		api.GET("/lotes", lotHandler.List)
		api.GET("/lotes/:id", lotHandler.Get)

		// ------------------------------
		// WEBHOOK DE PAGOS (sin auth, firmado)
		// ------------------------------
		api.POST("/payments/webhook", paymentHandler.Webhook)

		// ------------------------------
		// API PRIVADA
		// ------------------------------
		secured := api.Group("/")
		secured.Use(middleware.AuthMiddleware(d.Cfg))
		{
			// -------- Consumidor --------
			consumer := secured.Group("/")
			consumer.Use(middleware.RequireRole(models.RoleConsumidor))
			{
				consumer.POST("/reservas", reservationHandler.Create)
				consumer.GET("/reservas", reservationHandler.List)
				consumer.POST("/lotes/:id/pagar", reservationHandler.Pay)
				consumer.POST("/lotes/:id/codigo-retiro", reservationHandler.IssueCode)
				consumer.POST("/payments/create-simulation", paymentHandler.CreateSimulation)
			}

			// -------- Tienda --------
			store := secured.Group("/")
			store.Use(middleware.RequireRole(models.RoleTienda))
			{
				store.POST("/lotes", lotHandler.Create)
				store.PUT("/lotes/:id", lotHandler.Update)
				store.DELETE("/lotes/:id", lotHandler.Delete)
				store.POST("/lotes/:id/fotos", photoHandler.Upload)
				store.POST("/lotes/:id/retirar", lotHandler.ConfirmPickup)
				store.POST("/lotes/:id/donar", lotHandler.Donate)

				store.GET("/tienda/me", storeHandler.Me)
				store.GET("/tienda/me/lotes", storeHandler.MyLots)
				store.GET("/tienda/me/metrics", storeHandler.Metrics)
				store.GET("/tienda/me/audit-logs", auditLogsHandler.List)
			}
		}
	}
}
