package container

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"bookreview-backend/internal/config"
	bookHandler "bookreview-backend/internal/domains/book/handler"
	bookRepo "bookreview-backend/internal/domains/book/repository"
	bookService "bookreview-backend/internal/domains/book/service"
	reviewHandler "bookreview-backend/internal/domains/review/handler"
	reviewRepo "bookreview-backend/internal/domains/review/repository"
	reviewService "bookreview-backend/internal/domains/review/service"
	userHandler "bookreview-backend/internal/domains/user/handler"
	userRepo "bookreview-backend/internal/domains/user/repository"
	userService "bookreview-backend/internal/domains/user/service"
	infraCache "bookreview-backend/internal/infrastructure/cache"
	"bookreview-backend/internal/shared/middleware"
	"bookreview-backend/pkg/cache"
	"bookreview-backend/pkg/jwt"
)

// ========================================
// CONTAINER STRUCT
// ========================================

// Container chứa TẤT CẢ dependencies của application
// Struct này là "root" của dependency graph
type Container struct {
	// ========================================
	// INFRASTRUCTURE LAYER
	// ========================================
	Config     *config.Config
	Storage    *Storage    // nil when the graph is built from in-memory repos
	Cache      cache.Cache // Redis cache (interface)
	JWTManager *jwt.Manager

	LoginLimiter    *middleware.AttemptLimiter
	RegisterLimiter *middleware.AttemptLimiter

	// ========================================
	// REPOSITORY LAYER (DATA ACCESS)
	// ========================================
	UserRepo   userRepo.UserRepository // cache-aside over the storage repo
	BookRepo   bookRepo.RepositoryInterface
	ReviewRepo reviewRepo.ReviewRepository

	// ========================================
	// SERVICE LAYER (BUSINESS LOGIC)
	// ========================================
	UserService   userService.UserService
	BookService   bookService.ServiceInterface
	ReviewService reviewService.ServiceInterface

	// ========================================
	// HANDLER LAYER (HTTP)
	// ========================================
	UserHandler   *userHandler.UserHandler
	BookHandler   *bookHandler.Handler
	ReviewHandler *reviewHandler.ReviewHandler
}

// ========================================
// CONSTRUCTOR: BUILD CONTAINER
// ========================================

// NewContainer tạo và initialize toàn bộ dependency graph.
//
// Thứ tự initialization:
// 1. Config
// 2. Infrastructure (DB, Cache)
// 3. Repositories -> Services -> Handlers (Build)
func NewContainer() (*Container, error) {
	log.Info().Msg("🔧 Initializing DI Container...")

	// ========================================
	// STEP 1: LOAD CONFIGURATION
	// ========================================
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	log.Info().Str("env", cfg.App.Environment).Str("driver", cfg.Database.Driver).Msg("✅ Config loaded")

	// ========================================
	// STEP 2: INITIALIZE DATABASE
	// ========================================
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	storage, err := OpenStorage(ctx, cfg)
	if err != nil {
		return nil, err
	}

	if cfg.Database.AutoMigrate {
		if err := storage.Migrate(ctx); err != nil {
			storage.Close()
			return nil, fmt.Errorf("auto migrate failed: %w", err)
		}
	}

	// ========================================
	// STEP 3: INITIALIZE CACHE
	// ========================================
	redisCache := infraCache.NewRedisCache(cfg.Redis.Host, cfg.Redis.Password, cfg.Redis.DB)
	if err := redisCache.Connect(ctx); err != nil {
		// Redis failure không critical - cache misses and rate limits fail open
		log.Warn().Err(err).Msg("⚠️  Redis connection failed (non-critical)")
	}

	// ========================================
	// STEP 4: WIRE THE GRAPH
	// ========================================
	c := Build(cfg, storage.Repositories(), redisCache)
	c.Storage = storage

	log.Info().Msg("🎉 DI Container initialized successfully")
	return c, nil
}

// Build wires repositories, services and handlers on top of already opened stores
func Build(cfg *config.Config, repos Repositories, c cache.Cache) *Container {
	ct := &Container{
		Config:     cfg,
		Cache:      c,
		JWTManager: jwt.NewManager(cfg.JWT.Secret, cfg.JWT.AccessTokenExpiry),
	}

	ct.LoginLimiter = middleware.NewAttemptLimiter(c, "login", cfg.RateLimit.LoginMaxAttempts, cfg.RateLimit.LoginCooldown)
	ct.RegisterLimiter = middleware.NewAttemptLimiter(c, "register", cfg.RateLimit.RegisterMaxAttempts, cfg.RateLimit.RegisterCooldown)

	ct.initRepositories(repos)
	ct.initServices()
	ct.initHandlers()
	return ct
}

// ========================================
// PRIVATE INITIALIZATION METHODS
// ========================================

func (c *Container) initRepositories(repos Repositories) {
	c.UserRepo = userRepo.NewCachedRepository(repos.Users, c.Cache, c.Config.Redis.UserCacheTTL)
	c.BookRepo = repos.Books
	c.ReviewRepo = repos.Reviews
}

func (c *Container) initServices() {
	c.UserService = userService.NewUserService(c.UserRepo, c.JWTManager)

	// Cross-domain: books need reviews for ratings and cascade delete
	c.BookService = bookService.NewService(c.BookRepo, c.ReviewRepo, c.UserRepo)
	c.ReviewService = reviewService.NewReviewService(c.ReviewRepo, c.BookRepo, c.UserRepo)
}

func (c *Container) initHandlers() {
	c.UserHandler = userHandler.NewUserHandler(c.UserService)
	c.BookHandler = bookHandler.NewHandler(c.BookService)
	c.ReviewHandler = reviewHandler.NewReviewHandler(c.ReviewService)
}

// ========================================
// HEALTH
// ========================================

// Readiness reports each dependency as "up" or "down".
// ready is false only when storage is down; Redis is optional.
func (c *Container) Readiness(ctx context.Context) (services map[string]string, ready bool) {
	services = map[string]string{}
	ready = true

	if c.Storage != nil {
		if err := c.Storage.HealthCheck(ctx); err != nil {
			log.Warn().Err(err).Msg("storage health check failed")
			services["database"] = "down"
			ready = false
		} else {
			services["database"] = "up"
		}
	}

	if c.Cache != nil {
		if err := c.Cache.Ping(ctx); err != nil {
			services["redis"] = "down"
		} else {
			services["redis"] = "up"
		}
	}

	return services, ready
}

// Cleanup dọn dẹp resources khi shutdown
func (c *Container) Cleanup() {
	log.Info().Msg("🧹 Cleaning up container resources...")

	if c.Storage != nil {
		c.Storage.Close()
	}

	if rc, ok := c.Cache.(*infraCache.RedisCache); ok {
		if err := rc.Close(); err != nil {
			log.Warn().Err(err).Msg("⚠️  Failed to close Redis")
		}
	}

	log.Info().Msg("✅ Container cleanup completed")
}
