// internal/router/router.go
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/grantdesk/grantdesk-backend/internal/config"
	"github.com/grantdesk/grantdesk-backend/internal/handlers"
	"github.com/grantdesk/grantdesk-backend/internal/middleware"
	"github.com/grantdesk/grantdesk-backend/internal/services"
	"github.com/grantdesk/grantdesk-backend/internal/utils"
)

func Initialize(db *gorm.DB, cfg *config.Config) *gin.Engine {
	// Initialize services
	notificationService := services.NewNotificationService(db, cfg)
	storageService, _ := services.NewStorageService(cfg)
	revisionService := services.NewRevisionService(db)

	authService := services.NewAuthService(db, cfg)
	applicationService := services.NewApplicationService(db, revisionService, notificationService)
	partnerService := services.NewPartnerService(db)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	applicationHandler := handlers.NewApplicationHandler(applicationService, storageService)
	partnerHandler := handlers.NewPartnerHandler(partnerService)

	// Set JWT secret
	utils.SetJWTSecret(cfg.JWT.SecretKey)

	// Initialize Gin router
	r := gin.New()

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS(cfg.Frontend.BaseURL))
	r.Use(middleware.GeneralRateLimit())

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"version": "1.0.0",
		})
	})

	// API v1 routes
	v1 := r.Group("/v1")
	{
		// Authentication routes
		auth := v1.Group("/auth")
		auth.Use(middleware.AuthRateLimit())
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/refresh", authHandler.RefreshToken)
			auth.GET("/me", middleware.AuthRequired(), authHandler.GetProfile)
		}

		// Partner catalog
		partners := v1.Group("/partners")
		{
			partners.GET("", middleware.OptionalAuth(), partnerHandler.List)
			partners.GET("/:id", middleware.OptionalAuth(), partnerHandler.Get)

			coordinator := partners.Group("")
			coordinator.Use(middleware.AuthRequired(), middleware.CoordinatorRequired())
			{
				coordinator.POST("", partnerHandler.Create)
				coordinator.PUT("/:id", partnerHandler.Update)
				coordinator.POST("/:id/streams", partnerHandler.AddStream)
			}
		}

		// Applications
		applications := v1.Group("/applications")
		applications.Use(middleware.AuthRequired())
		{
			applications.POST("", applicationHandler.Submit)
			applications.GET("", applicationHandler.List)
			applications.GET("/:id", applicationHandler.Get)
			applications.PUT("/:id", applicationHandler.Update)
			applications.GET("/:id/history", applicationHandler.History)
			applications.GET("/:id/attachments", applicationHandler.ListAttachments)
			applications.POST("/:id/attachments", middleware.UploadRateLimit(), applicationHandler.UploadAttachment)

			coordinator := applications.Group("")
			coordinator.Use(middleware.CoordinatorRequired())
			{
				coordinator.POST("/:id/evaluate", applicationHandler.Evaluate)
				coordinator.GET("/expiring", applicationHandler.ListExpiring)
			}
		}
	}

	return r
}
