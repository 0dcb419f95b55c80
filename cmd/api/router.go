package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"bookshelf-backend/internal/shared/middleware"
	"bookshelf-backend/pkg/container"
)

func SetupRouter(c *container.Container) *gin.Engine {
	router := gin.New()

	router.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		middleware.CORS(c.Config.CORS.AllowedOrigins),
		middleware.ClientIPMiddleware(),
		middleware.Authenticate(c.JWTManager),
	)

	router.GET("/media/*key", c.BookHandler.Media)
	router.GET("/graphql/", c.GraphQLHandler.Serve)
	router.POST("/graphql/", c.GraphQLHandler.Serve)

	api := router.Group("/api")
	{
		api.GET("/health", healthCheckHandler(c))

		setupTokenRoutes(api, c)

		resources := api.Group("", middleware.RequireAuthForWrites())
		setupAuthorRoutes(resources, c)
		setupCategoryRoutes(resources, c)
		setupBookRoutes(resources, c)
	}

	return router
}

func setupTokenRoutes(api *gin.RouterGroup, c *container.Container) {
	token := api.Group("/token", c.LoginLimiter.Middleware())
	{
		token.POST("/", c.UserHandler.Token)
		token.POST("/refresh/", c.UserHandler.Refresh)
	}
}

func setupAuthorRoutes(api *gin.RouterGroup, c *container.Container) {
	authors := api.Group("/authors")
	{
		authors.GET("/", c.AuthorHandler.List)
		authors.POST("/", c.AuthorHandler.Create)
		authors.GET("/:id/", c.AuthorHandler.Get)
		authors.PUT("/:id/", c.AuthorHandler.Replace)
		authors.PATCH("/:id/", c.AuthorHandler.PartialUpdate)
		authors.DELETE("/:id/", c.AuthorHandler.Delete)
	}
}

func setupCategoryRoutes(api *gin.RouterGroup, c *container.Container) {
	categories := api.Group("/categories")
	{
		categories.GET("/", c.CategoryHandler.List)
		categories.POST("/", c.CategoryHandler.Create)
		categories.GET("/:id/", c.CategoryHandler.Get)
		categories.PUT("/:id/", c.CategoryHandler.Replace)
		categories.PATCH("/:id/", c.CategoryHandler.PartialUpdate)
		categories.DELETE("/:id/", c.CategoryHandler.Delete)
	}
}

func setupBookRoutes(api *gin.RouterGroup, c *container.Container) {
	books := api.Group("/books")
	{
		books.GET("/", c.BookHandler.List)
		books.POST("/", c.BookHandler.Create)
		books.GET("/statistics/", c.BookHandler.Statistics)
		books.GET("/published/", c.BookHandler.Published)
		books.GET("/affordable/", c.BookHandler.Affordable)
		books.GET("/export/", c.BookHandler.Export)
		books.GET("/:id/", c.BookHandler.Get)
		books.PUT("/:id/", c.BookHandler.Replace)
		books.PATCH("/:id/", c.BookHandler.PartialUpdate)
		books.DELETE("/:id/", c.BookHandler.Delete)
	}
}

func healthCheckHandler(appCtx *container.Container) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		status := "ok"
		services := gin.H{}

		dbStatus := "ok"
		if err := appCtx.DB.HealthCheck(ctx); err != nil {
			dbStatus = "error: " + err.Error()
			status = "degraded"
		}
		services["database"] = dbStatus
		if stats, err := appCtx.DB.Stats(); err == nil {
			services["database_pool"] = stats
		}

		redisStatus := "ok"
		if err := appCtx.Cache.Ping(ctx); err != nil {
			redisStatus = "error: " + err.Error()
		}
		services["redis"] = redisStatus

		storageStatus := "ok"
		if err := appCtx.Storage.Ping(ctx); err != nil {
			storageStatus = "error: " + err.Error()
			status = "degraded"
		}
		services["storage"] = storageStatus

		statusCode := http.StatusOK
		if dbStatus != "ok" {
			statusCode = http.StatusServiceUnavailable
		}

		c.JSON(statusCode, gin.H{
			"status":    status,
			"timestamp": time.Now().Format(time.RFC3339),
			"version":   appCtx.Config.App.Version,
			"services":  services,
		})
	}
}
