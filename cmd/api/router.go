package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"reviewdb-backend/internal/shared/middleware"
	"reviewdb-backend/internal/shared/permission"
	"reviewdb-backend/pkg/container"
)

func SetupRouter(c *container.Container) *gin.Engine {
	router := gin.New()

	// Global middlewares
	router.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		middleware.CORS(),
	)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", healthCheckHandler(c))

		setupAuthRoutes(v1, c)
		setupUserRoutes(v1, c)
		setupCategoryRoutes(v1, c)
		setupGenreRoutes(v1, c)
		setupTitleRoutes(v1, c)
	}

	return router
}

// ========================================
// AUTH ROUTES
// ========================================
func setupAuthRoutes(v1 *gin.RouterGroup, c *container.Container) {
	auth := v1.Group("/auth")
	auth.Use(middleware.AnonymousOnly(c.JWTManager))
	{
		auth.POST("/signup", c.AuthHandler.Signup)
		auth.POST("/token", c.AuthHandler.Token)
	}
}

// ========================================
// USER ROUTES
// ========================================
func setupUserRoutes(v1 *gin.RouterGroup, c *container.Container) {
	users := v1.Group("/users")
	users.Use(middleware.RequireAuth(c.JWTManager))
	{
		// self-profile routes bypass the admin gate by design
		users.GET("/me", c.UserHandler.GetProfile)
		users.PATCH("/me", c.UserHandler.UpdateProfile)

		admin := middleware.Attempt(permission.KindUser)
		users.GET("", admin, c.UserHandler.ListUsers)
		users.POST("", admin, c.UserHandler.CreateUser)
		users.GET("/:username", admin, c.UserHandler.GetUser)
		users.PATCH("/:username", admin, c.UserHandler.UpdateUser)
		users.DELETE("/:username", admin, c.UserHandler.DeleteUser)
	}
}

// ========================================
// CATEGORY ROUTES
// ========================================
func setupCategoryRoutes(v1 *gin.RouterGroup, c *container.Container) {
	categories := v1.Group("/categories")
	categories.Use(
		middleware.OptionalAuth(c.JWTManager),
		middleware.Attempt(permission.KindCategory),
	)
	{
		categories.GET("", c.CategoryHandler.ListCategories)
		categories.POST("", c.CategoryHandler.CreateCategory)
		categories.DELETE("/:slug", c.CategoryHandler.DeleteCategory)
	}
}

// ========================================
// GENRE ROUTES
// ========================================
func setupGenreRoutes(v1 *gin.RouterGroup, c *container.Container) {
	genres := v1.Group("/genres")
	genres.Use(
		middleware.OptionalAuth(c.JWTManager),
		middleware.Attempt(permission.KindGenre),
	)
	{
		genres.GET("", c.GenreHandler.ListGenres)
		genres.POST("", c.GenreHandler.CreateGenre)
		genres.DELETE("/:slug", c.GenreHandler.DeleteGenre)
	}
}

// ========================================
// TITLE, REVIEW AND COMMENT ROUTES
// ========================================
func setupTitleRoutes(v1 *gin.RouterGroup, c *container.Container) {
	titles := v1.Group("/titles")
	titles.Use(middleware.OptionalAuth(c.JWTManager))

	// catalog entries: world-readable, admin-writable
	titleGate := middleware.Attempt(permission.KindTitle)
	{
		titles.GET("", titleGate, c.TitleHandler.ListTitles)
		titles.POST("", titleGate, c.TitleHandler.CreateTitle)
		titles.GET("/:title_id", titleGate, c.TitleHandler.GetTitle)
		titles.PATCH("/:title_id", titleGate, c.TitleHandler.UpdateTitle)
		titles.DELETE("/:title_id", titleGate, c.TitleHandler.DeleteTitle)
	}

	// reviews: world-readable, any authenticated subject may write;
	// ownership is settled at the object level by the service
	reviews := titles.Group("/:title_id/reviews")
	reviews.Use(middleware.Attempt(permission.KindReview))
	{
		reviews.GET("", c.ReviewHandler.ListReviews)
		reviews.POST("", c.ReviewHandler.CreateReview)
		reviews.GET("/:review_id", c.ReviewHandler.GetReview)
		reviews.PATCH("/:review_id", c.ReviewHandler.UpdateReview)
		reviews.DELETE("/:review_id", c.ReviewHandler.DeleteReview)
	}

	comments := reviews.Group("/:review_id/comments")
	comments.Use(middleware.Attempt(permission.KindComment))
	{
		comments.GET("", c.CommentHandler.ListComments)
		comments.POST("", c.CommentHandler.CreateComment)
		comments.GET("/:comment_id", c.CommentHandler.GetComment)
		comments.PATCH("/:comment_id", c.CommentHandler.UpdateComment)
		comments.DELETE("/:comment_id", c.CommentHandler.DeleteComment)
	}
}

// ========================================
// HEALTH CHECK HANDLER
// ========================================
func healthCheckHandler(appCtx *container.Container) gin.HandlerFunc {
	return func(c *gin.Context) {
		health := gin.H{
			"status":    "ok",
			"timestamp": time.Now().Format(time.RFC3339),
			"version":   appCtx.Config.App.Version,
		}

		dbStatus := "ok"
		if appCtx.DB == nil || appCtx.DB.Pool == nil {
			dbStatus = "disconnected"
			health["status"] = "degraded"
		} else {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()

			if err := appCtx.DB.HealthCheck(ctx); err != nil {
				dbStatus = fmt.Sprintf("error: %v", err)
				health["status"] = "degraded"
			}
		}

		// Redis outage degrades nothing user-visible, report it anyway
		redisStatus := "ok"
		if appCtx.Cache == nil {
			redisStatus = "disconnected"
		} else {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()

			if err := appCtx.Cache.Ping(ctx); err != nil {
				redisStatus = fmt.Sprintf("error: %v", err)
			}
		}

		health["services"] = gin.H{
			"database": dbStatus,
			"redis":    redisStatus,
		}

		statusCode := http.StatusOK
		if dbStatus != "ok" {
			statusCode = http.StatusServiceUnavailable
		}

		c.JSON(statusCode, health)
	}
}
