package routes

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/inmohub/realty-api/internal/audit"
	"github.com/inmohub/realty-api/internal/config"
	"github.com/inmohub/realty-api/internal/domain/identity"
	"github.com/inmohub/realty-api/internal/handlers"
	infraRepo "github.com/inmohub/realty-api/internal/infra/repository"
	"github.com/inmohub/realty-api/internal/middleware"
	"github.com/inmohub/realty-api/internal/storage"
	ucInquiry "github.com/inmohub/realty-api/internal/usecase/inquiry"
	ucProperty "github.com/inmohub/realty-api/internal/usecase/property"
)

const (
	inquiryRateLimit  = 5
	inquiryRateWindow = time.Hour
	statsCacheTTL     = 5 * time.Minute
)

func RegisterRoutes(
	r *gin.Engine,
	db *gorm.DB,
	cfg *config.Config,
	rdb *redis.Client,
	uploader *storage.Uploader,
	log zerolog.Logger,
) {

	// ======================================================
	// MIDDLEWARE GLOBAL
	// ======================================================
	r.Use(middleware.CORSMiddleware())

	// ======================================================
	// INFRA (SINGLETONS)
	// ======================================================
	propertyRepo := infraRepo.NewPropertyGormRepository(db)
	inquiryRepo := infraRepo.NewInquiryGormRepository(db)

	auditLogger := audit.New(db)
	auditDispatcher := audit.NewDispatcher(auditLogger, log)

	// ======================================================
	// USE CASES — PROPERTIES
	// ======================================================
	createPropertyUC := ucProperty.NewCreateProperty(
		propertyRepo,
		auditDispatcher,
	)

	updatePropertyUC := ucProperty.NewUpdateProperty(
		propertyRepo,
		auditDispatcher,
	)

	deletePropertyUC := ucProperty.NewDeleteProperty(
		propertyRepo,
		auditDispatcher,
	)

	retrievePropertyUC := ucProperty.NewRetrieveProperty(
		propertyRepo,
	)

	statsUC := ucProperty.NewGetStats(
		propertyRepo,
		rdb,
		statsCacheTTL,
	)

	// ======================================================
	// USE CASES — INQUIRIES
	// ======================================================
	submitInquiryUC := ucInquiry.NewSubmitInquiry(
		inquiryRepo,
		auditDispatcher,
	)

	updateInquiryUC := ucInquiry.NewUpdateInquiry(
		inquiryRepo,
		auditDispatcher,
	)

	markContactedUC := ucInquiry.NewMarkContacted(
		inquiryRepo,
		auditDispatcher,
	)

	addNoteUC := ucInquiry.NewAddNote(
		inquiryRepo,
		auditDispatcher,
	)

	// ======================================================
	// HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(db, cfg)
	meHandler := handlers.NewMeHandler(db)
	userHandler := handlers.NewUserHandler(db, auditDispatcher)
	categoryHandler := handlers.NewCategoryHandler(db)
	tagHandler := handlers.NewTagHandler(db)

	propertyHandler := handlers.NewPropertyHandler(
		db,
		propertyRepo,
		createPropertyUC,
		updatePropertyUC,
		deletePropertyUC,
		retrievePropertyUC,
		statsUC,
		submitInquiryUC,
		uploader,
	)

	inquiryHandler := handlers.NewInquiryHandler(
		inquiryRepo,
		updateInquiryUC,
		markContactedUC,
		addNoteUC,
	)

	// ======================================================
	// API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		// ------------------------------
		// AUTH
		// ------------------------------
		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/login", authHandler.Login)

		// ------------------------------
		// CATALOG (PUBLIC READS)
		// ------------------------------
		api.GET("/categories", categoryHandler.List)
		api.GET("/categories/all", categoryHandler.All)
		api.GET("/categories/:slug", categoryHandler.Get)

		api.GET("/tags", tagHandler.List)
		api.GET("/tags/:slug", tagHandler.Get)

		api.GET("/users/:username", userHandler.Get)

		// Property reads run with optional auth: the caller's identity
		// widens the visible set (agents see their own drafts).
		catalog := api.Group("/")
		catalog.Use(middleware.OptionalAuthMiddleware(cfg))
		{
			catalog.GET("/properties", propertyHandler.List)
			catalog.GET("/properties/featured", propertyHandler.Featured)
			catalog.GET("/properties/for_sale", propertyHandler.ForSale)
			catalog.GET("/properties/for_rent", propertyHandler.ForRent)
			catalog.GET("/properties/trending", propertyHandler.Trending)
			catalog.GET("/properties/recent", propertyHandler.Recent)
			catalog.GET("/properties/stats", propertyHandler.Stats)
			catalog.GET("/properties/:slug", propertyHandler.Get)

			catalog.POST(
				"/properties/:slug/inquire",
				middleware.RateLimit(rdb, inquiryRateLimit, inquiryRateWindow, "inquire"),
				propertyHandler.Inquire,
			)
		}

		// ------------------------------
		// API PRIVADA
		// ------------------------------
		secured := api.Group("/")
		secured.Use(middleware.AuthMiddleware(cfg))
		{
			secured.GET("/me", meHandler.GetMe)
			secured.GET("/users/me", meHandler.GetMe)

			// ------------------------------
			// USERS
			// ------------------------------
			secured.GET("/users",
				middleware.RequireRole(identity.RoleAdmin, identity.RoleAgent),
				userHandler.List,
			)
			secured.PATCH("/users/:username", userHandler.Update)
			secured.PUT("/users/:username", userHandler.Update)
			secured.PUT("/users/:username/role",
				middleware.RequireRole(identity.RoleAdmin),
				userHandler.UpdateRole,
			)

			// ------------------------------
			// CATALOG WRITES (ADMIN)
			// ------------------------------
			adminOnly := middleware.RequireRole(identity.RoleAdmin)

			secured.POST("/categories", adminOnly, categoryHandler.Create)
			secured.PATCH("/categories/:slug", adminOnly, categoryHandler.Update)
			secured.PUT("/categories/:slug", adminOnly, categoryHandler.Update)
			secured.DELETE("/categories/:slug", adminOnly, categoryHandler.Delete)

			secured.POST("/tags", adminOnly, tagHandler.Create)
			secured.PATCH("/tags/:slug", adminOnly, tagHandler.Update)
			secured.PUT("/tags/:slug", adminOnly, tagHandler.Update)
			secured.DELETE("/tags/:slug", adminOnly, tagHandler.Delete)

			// ------------------------------
			// PROPERTIES
			// ------------------------------
			secured.POST("/properties",
				middleware.RequireRole(identity.RoleAdmin, identity.RoleAgent),
				propertyHandler.Create,
			)
			secured.PATCH("/properties/:slug", propertyHandler.Update)
			secured.PUT("/properties/:slug", propertyHandler.Update)
			secured.DELETE("/properties/:slug", propertyHandler.Delete)
			secured.POST("/properties/:slug/images", propertyHandler.UploadImage)

			// ------------------------------
			// INQUIRIES
			// ------------------------------
			secured.GET("/inquiries", inquiryHandler.List)
			secured.GET("/inquiries/stats", inquiryHandler.Stats)
			secured.GET("/inquiries/:id", inquiryHandler.Get)
			secured.PATCH("/inquiries/:id", inquiryHandler.Update)
			secured.PUT("/inquiries/:id", inquiryHandler.Update)
			secured.POST("/inquiries/:id/mark_contacted", inquiryHandler.MarkContacted)
			secured.POST("/inquiries/:id/add_note", inquiryHandler.AddNote)
		}
	}
}
