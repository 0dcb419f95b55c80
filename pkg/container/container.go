package container

import (
	"context"
	"fmt"
	"time"

	"bookshelf-backend/internal/config"
	authorHandler "bookshelf-backend/internal/domains/author/handler"
	authorRepo "bookshelf-backend/internal/domains/author/repository"
	authorService "bookshelf-backend/internal/domains/author/service"
	bookHandler "bookshelf-backend/internal/domains/book/handler"
	bookRepo "bookshelf-backend/internal/domains/book/repository"
	bookService "bookshelf-backend/internal/domains/book/service"
	categoryHandler "bookshelf-backend/internal/domains/category/handler"
	categoryRepo "bookshelf-backend/internal/domains/category/repository"
	categoryService "bookshelf-backend/internal/domains/category/service"
	userHandler "bookshelf-backend/internal/domains/user/handler"
	userRepo "bookshelf-backend/internal/domains/user/repository"
	userService "bookshelf-backend/internal/domains/user/service"
	gql "bookshelf-backend/internal/graphql"
	infraCache "bookshelf-backend/internal/infrastructure/cache"
	"bookshelf-backend/internal/infrastructure/database"
	"bookshelf-backend/internal/infrastructure/storage"
	"bookshelf-backend/internal/shared/middleware"
	"bookshelf-backend/internal/shared/pagination"
	"bookshelf-backend/pkg/cache"
	"bookshelf-backend/pkg/jwt"
	"bookshelf-backend/pkg/logger"
)

// Container holds the dependency graph of the API process. Build order:
// config, infrastructure, repositories, services, handlers.
type Container struct {
	// Infrastructure
	Config     *config.Config
	DB         *database.PostgresDB
	Cache      cache.Cache
	Storage    *storage.MinIOStorage
	Images     *storage.ImageProcessor
	JWTManager *jwt.Manager

	// Repositories
	AuthorRepo   authorRepo.RepositoryInterface
	CategoryRepo categoryRepo.RepositoryInterface
	BookRepo     bookRepo.RepositoryInterface
	UserRepo     userRepo.RepositoryInterface

	// Services
	AuthorService   authorService.ServiceInterface
	CategoryService categoryService.ServiceInterface
	BookService     bookService.ServiceInterface
	UserService     userService.ServiceInterface

	// Handlers
	AuthorHandler   *authorHandler.AuthorHandler
	CategoryHandler *categoryHandler.CategoryHandler
	BookHandler     *bookHandler.BookHandler
	UserHandler     *userHandler.UserHandler
	GraphQLHandler  *gql.Handler

	LoginLimiter *middleware.RateLimiter
}

func NewContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	logger.Info("Initializing container", map[string]interface{}{"env": cfg.App.Environment})

	c := &Container{Config: cfg}

	if err := c.initInfrastructure(ctx); err != nil {
		c.Cleanup()
		return nil, err
	}

	c.initRepositories()
	c.initServices()
	if err := c.initHandlers(); err != nil {
		c.Cleanup()
		return nil, err
	}

	logger.Info("Container initialized", nil)
	return c, nil
}

func (c *Container) initInfrastructure(ctx context.Context) error {
	cfg := c.Config

	// PostgreSQL
	dbConfig, err := config.LoadDatabaseConfig()
	if err != nil {
		return fmt.Errorf("failed to load database config: %w", err)
	}
	db := database.NewPostgresDB(dbConfig)

	connectCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := db.Connect(connectCtx); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.HealthCheck(ctx); err != nil {
		return fmt.Errorf("database health check failed: %w", err)
	}
	c.DB = db

	// Redis is optional; without it caching and login lockout are disabled.
	redisCache := infraCache.NewRedisCache(cfg.Redis.Host, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.KeyPrefix)
	if err := redisCache.Connect(ctx); err != nil {
		logger.Warn("Redis unavailable, caching disabled", map[string]interface{}{"error": err.Error()})
		c.Cache = cache.NewNoop()
	} else {
		c.Cache = redisCache
	}

	// MinIO keeps cover images.
	store, err := storage.NewMinIOStorage(ctx, cfg.MinIO)
	if err != nil {
		return fmt.Errorf("failed to initialize object storage: %w", err)
	}
	c.Storage = store
	c.Images = storage.NewImageProcessor(cfg.Media.MaxBytes, cfg.Media.MaxDimension)

	c.JWTManager = jwt.NewManager(cfg.JWT.Secret, cfg.JWT.AccessTTL(), cfg.JWT.RefreshTTL())
	c.LoginLimiter = middleware.NewRateLimiter(cfg.RateLimit.LoginRPS, cfg.RateLimit.LoginBurst)
	return nil
}

func (c *Container) initRepositories() {
	pool := c.DB.Pool

	c.AuthorRepo = authorRepo.NewPostgresRepository(pool)
	c.CategoryRepo = categoryRepo.NewPostgresRepository(pool)
	c.BookRepo = bookRepo.NewPostgresRepository(pool)
	c.UserRepo = userRepo.NewPostgresRepository(pool)
}

func (c *Container) initServices() {
	cfg := c.Config

	c.AuthorService = authorService.NewService(c.AuthorRepo, c.Cache, c.Storage)
	c.CategoryService = categoryService.NewService(c.CategoryRepo, c.Cache)
	c.BookService = bookService.NewService(c.BookRepo, c.Cache, cfg.Redis.TTL, c.Storage, c.Images)
	c.UserService = userService.NewService(c.UserRepo, c.JWTManager, c.Cache, userService.LockoutPolicy{
		MaxFailures: cfg.RateLimit.MaxLoginFailures,
		Window:      cfg.RateLimit.LockoutWindow,
	})
}

func (c *Container) initHandlers() error {
	pages := pagination.Config{
		DefaultSize: c.Config.App.PageSize,
		MaxSize:     c.Config.App.MaxPageSize,
	}

	c.AuthorHandler = authorHandler.NewAuthorHandler(c.AuthorService, pages)
	c.CategoryHandler = categoryHandler.NewCategoryHandler(c.CategoryService, pages)
	c.BookHandler = bookHandler.NewBookHandler(c.BookService, pages, c.Config.Media.URL)
	c.UserHandler = userHandler.NewUserHandler(c.UserService)

	schema, err := gql.NewSchema(gql.Services{
		Authors:    c.AuthorService,
		Categories: c.CategoryService,
		Books:      c.BookService,
		MediaURL:   c.Config.Media.URL,
	})
	if err != nil {
		return fmt.Errorf("failed to build graphql schema: %w", err)
	}
	c.GraphQLHandler = gql.NewHandler(schema)
	return nil
}

// Cleanup releases the connections opened by NewContainer.
func (c *Container) Cleanup() {
	if c.DB != nil {
		if err := c.DB.Close(); err != nil {
			logger.Error("Failed to close database", err)
		}
	}
	if rc, ok := c.Cache.(*infraCache.RedisCache); ok {
		if err := rc.Close(); err != nil {
			logger.Error("Failed to close Redis", err)
		}
	}
	logger.Info("Container cleanup completed", nil)
}
