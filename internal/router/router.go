// internal/router/router.go
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/tapedeck/tapedeck-backend/internal/config"
	"github.com/tapedeck/tapedeck-backend/internal/handlers"
	"github.com/tapedeck/tapedeck-backend/internal/middleware"
	"github.com/tapedeck/tapedeck-backend/internal/services"
	"github.com/tapedeck/tapedeck-backend/internal/utils"
)

func Initialize(db *gorm.DB, redisClient *redis.Client, cfg *config.Config) *gin.Engine {
	// Initialize services
	storageService, err := services.NewStorageService(cfg)
	if err != nil {
		logrus.WithError(err).Warn("Object storage unavailable, falling back to local URLs")
		localCfg := *cfg
		localCfg.AWS.AccessKeyID = ""
		storageService, _ = services.NewStorageService(&localCfg)
	}
	metadataService := services.NewMetadataService(cfg, redisClient)

	authService := services.NewAuthService(db, cfg)
	submissionService := services.NewSubmissionService(db, storageService, metadataService, cfg)
	collectionService := services.NewCollectionService(db)
	marketplaceService := services.NewMarketplaceService(db)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	releaseHandler := handlers.NewReleaseHandler(submissionService, collectionService)
	variantHandler := handlers.NewVariantHandler(submissionService)
	moderationHandler := handlers.NewModerationHandler(submissionService)
	collectionHandler := handlers.NewCollectionHandler(collectionService)
	metadataHandler := handlers.NewMetadataHandler(metadataService)
	marketplaceHandler := handlers.NewMarketplaceHandler(marketplaceService)

	// Set JWT secret
	utils.SetJWTSecret(cfg.JWT.SecretKey)

	// Initialize Gin router
	r := gin.New()

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS(cfg))
	r.Use(middleware.I18nMiddleware())
	r.Use(middleware.GeneralRateLimit())
	r.Use(middleware.AuditLogMiddleware(db))

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
			auth.POST("/logout", middleware.AuthRequired(), authHandler.Logout)
			auth.GET("/me", middleware.AuthRequired(), authHandler.GetProfile)
		}

		// Master release catalog
		releases := v1.Group("/releases")
		{
			releases.GET("", middleware.OptionalAuth(), releaseHandler.GetReleases)
			releases.GET("/:id", middleware.OptionalAuth(), releaseHandler.GetRelease)
			releases.GET("/:id/variants", middleware.OptionalAuth(), variantHandler.GetVariants)

			protected := releases.Group("")
			protected.Use(middleware.AuthRequired())
			{
				protected.POST("", middleware.UploadRateLimit(), releaseHandler.SubmitRelease)
				protected.PUT("/:id", releaseHandler.UpdateRelease)
				protected.POST("/:id/variants", middleware.UploadRateLimit(), variantHandler.SubmitVariant)
				protected.PUT("/:id/rating", releaseHandler.RateRelease)
				protected.DELETE("/:id", middleware.AdminRequired(), releaseHandler.DeleteRelease)
			}
		}

		// Variant routes
		variants := v1.Group("/variants")
		variants.Use(middleware.AuthRequired())
		{
			variants.PUT("/:id", middleware.UploadRateLimit(), variantHandler.UpdateVariant)
			variants.DELETE("/:id", middleware.AdminRequired(), variantHandler.DeleteVariant)
			variants.POST("/:id/votes", variantHandler.CastVote)
		}

		// Moderation queue
		moderation := v1.Group("/moderation")
		moderation.Use(middleware.AuthRequired())
		{
			moderation.GET("/queue", moderationHandler.GetQueue)
		}

		// Admin moderation actions
		admin := v1.Group("/admin")
		admin.Use(middleware.AuthRequired(), middleware.AdminRequired())
		{
			admin.PUT("/variants/:id/approve", moderationHandler.ApproveVariant)
			admin.DELETE("/variants/:id/reject", moderationHandler.RejectVariant)
		}

		// Personal ledger
		collection := v1.Group("/collection")
		collection.Use(middleware.AuthRequired())
		{
			collection.POST("", collectionHandler.AddToCollection)
			collection.GET("", collectionHandler.GetCollection)
			collection.DELETE("/:variantID", collectionHandler.RemoveFromCollection)
		}

		wishlist := v1.Group("/wishlist")
		wishlist.Use(middleware.AuthRequired())
		{
			wishlist.POST("/toggle", collectionHandler.ToggleWishlist)
			wishlist.GET("", collectionHandler.GetWishlist)
		}

		v1.GET("/ratings", middleware.AuthRequired(), collectionHandler.GetRatings)

		// Marketplace read path
		v1.GET("/marketplace/listings", middleware.OptionalAuth(), marketplaceHandler.GetListings)

		// Metadata lookup proxy
		metadata := v1.Group("/metadata")
		metadata.Use(middleware.LookupRateLimit())
		{
			metadata.GET("/search", metadataHandler.SearchMovies)
			metadata.GET("/movie/:id", metadataHandler.GetMovieDetails)
		}
	}

	return r
}
