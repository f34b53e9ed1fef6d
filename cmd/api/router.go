package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"bookreview-backend/internal/shared/middleware"
	"bookreview-backend/internal/shared/response"
	"bookreview-backend/pkg/container"
)

func SetupRouter(c *container.Container) *gin.Engine {
	router := gin.New()

	// Global middlewares
	router.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.ClientIPMiddleware(),
		middleware.Logger(),
		middleware.CORS(c.Config.CORS.Origin),
	)

	router.NoRoute(func(ctx *gin.Context) {
		response.NotFound(ctx, "Route not found")
	})

	router.GET("/health", healthCheckHandler)
	router.GET("/health/ready", readinessHandler(c))

	api := router.Group("/api")
	{
		setupAuthRoutes(api, c)
		setupBookRoutes(api, c)
		setupReviewRoutes(api, c)
	}

	return router
}

// ========================================
// AUTH ROUTES
// ========================================
func setupAuthRoutes(api *gin.RouterGroup, c *container.Container) {
	protect := middleware.AuthMiddleware(c.JWTManager, c.UserRepo)

	auth := api.Group("/auth")
	{
		auth.POST("/register", middleware.RegisterRateLimit(c.RegisterLimiter), c.UserHandler.Register)
		auth.POST("/login", middleware.LoginRateLimit(c.LoginLimiter), c.UserHandler.Login)
		auth.GET("/me", protect, c.UserHandler.Me)
	}
}

// ========================================
// BOOK ROUTES
// ========================================
func setupBookRoutes(api *gin.RouterGroup, c *container.Container) {
	protect := middleware.AuthMiddleware(c.JWTManager, c.UserRepo)

	books := api.Group("/books")
	{
		books.GET("", c.BookHandler.ListBooks)
		books.POST("", protect, c.BookHandler.CreateBook)
		books.GET("/mybooks", protect, c.BookHandler.GetMyBooks)

		books.GET("/:id", c.BookHandler.GetBook)
		books.PUT("/:id", protect, c.BookHandler.UpdateBook)
		books.DELETE("/:id", protect, c.BookHandler.DeleteBook)
		books.GET("/:id/reviews", c.BookHandler.GetBookWithReviews)
	}
}

// ========================================
// REVIEW ROUTES
// ========================================
func setupReviewRoutes(api *gin.RouterGroup, c *container.Container) {
	protect := middleware.AuthMiddleware(c.JWTManager, c.UserRepo)

	reviews := api.Group("/reviews")
	{
		reviews.POST("", protect, c.ReviewHandler.CreateReview)
		reviews.PUT("/:id", protect, c.ReviewHandler.UpdateReview)
		reviews.DELETE("/:id", protect, c.ReviewHandler.DeleteReview)
		reviews.GET("/book/:bookId", c.ReviewHandler.GetReviewsByBook)
	}
}

// ========================================
// HEALTH
// ========================================

func healthCheckHandler(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func readinessHandler(c *container.Container) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		checkCtx, cancel := context.WithTimeout(ctx.Request.Context(), 5*time.Second)
		defer cancel()

		services, ready := c.Readiness(checkCtx)
		if !ready {
			ctx.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "services": services})
			return
		}
		ctx.JSON(http.StatusOK, gin.H{"status": "ok", "services": services})
	}
}
