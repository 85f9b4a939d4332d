package container

import (
	"context"
	"fmt"
	"log"
	"time"

	"reviewdb-backend/internal/config"
	infraCache "reviewdb-backend/internal/infrastructure/cache"
	"reviewdb-backend/internal/infrastructure/database"
	"reviewdb-backend/internal/infrastructure/email"
	"reviewdb-backend/pkg/cache"
	"reviewdb-backend/pkg/confirmation"
	"reviewdb-backend/pkg/jwt"

	authHandler "reviewdb-backend/internal/domains/auth/handler"
	authService "reviewdb-backend/internal/domains/auth/service"
	categoryHandler "reviewdb-backend/internal/domains/category/handler"
	categoryRepo "reviewdb-backend/internal/domains/category/repository"
	categoryService "reviewdb-backend/internal/domains/category/service"
	commentHandler "reviewdb-backend/internal/domains/comment/handler"
	commentRepo "reviewdb-backend/internal/domains/comment/repository"
	commentService "reviewdb-backend/internal/domains/comment/service"
	genreHandler "reviewdb-backend/internal/domains/genre/handler"
	genreRepo "reviewdb-backend/internal/domains/genre/repository"
	genreService "reviewdb-backend/internal/domains/genre/service"
	reviewHandler "reviewdb-backend/internal/domains/review/handler"
	reviewRepo "reviewdb-backend/internal/domains/review/repository"
	reviewService "reviewdb-backend/internal/domains/review/service"
	titleHandler "reviewdb-backend/internal/domains/title/handler"
	titleRepo "reviewdb-backend/internal/domains/title/repository"
	titleService "reviewdb-backend/internal/domains/title/service"
	userHandler "reviewdb-backend/internal/domains/user/handler"
	userRepo "reviewdb-backend/internal/domains/user/repository"
	userService "reviewdb-backend/internal/domains/user/service"
)

// Container is the root of the dependency graph. Everything in it is a
// singleton living for the whole process.
type Container struct {
	// ========================================
	// INFRASTRUCTURE LAYER
	// ========================================

	Config     *config.Config
	DB         *database.PostgresDB
	Cache      cache.Cache
	JWTManager *jwt.Manager
	Codes      *confirmation.Generator
	Mailer     email.Sender

	// ========================================
	// REPOSITORY LAYER
	// ========================================

	UserRepo     userRepo.UserRepository
	CategoryRepo categoryRepo.CategoryRepository
	GenreRepo    genreRepo.GenreRepository
	TitleRepo    titleRepo.TitleRepository
	ReviewRepo   reviewRepo.ReviewRepository
	CommentRepo  commentRepo.CommentRepository

	// ========================================
	// SERVICE LAYER
	// ========================================

	AuthService     authService.AuthService
	UserService     userService.UserService
	CategoryService categoryService.CategoryService
	GenreService    genreService.GenreService
	TitleService    titleService.TitleService
	ReviewService   reviewService.ReviewService
	CommentService  commentService.CommentService

	// ========================================
	// HANDLER LAYER
	// ========================================

	AuthHandler     *authHandler.Handler
	UserHandler     *userHandler.Handler
	CategoryHandler *categoryHandler.Handler
	GenreHandler    *genreHandler.Handler
	TitleHandler    *titleHandler.Handler
	ReviewHandler   *reviewHandler.Handler
	CommentHandler  *commentHandler.Handler
}

// NewContainer builds the whole dependency graph in layer order:
// config, infrastructure, repositories, services, handlers.
func NewContainer() (*Container, error) {
	log.Println("🔧 Initializing DI Container...")

	c := &Container{}

	// ========================================
	// STEP 1: LOAD CONFIGURATION
	// ========================================
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	c.Config = cfg
	log.Printf("✅ Config loaded (Environment: %s)", cfg.App.Environment)

	// ========================================
	// STEP 2: INITIALIZE DATABASE
	// ========================================
	log.Println("🗄️  Connecting to PostgreSQL...")

	dbConfig, err := config.LoadDatabaseConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load database config: %w", err)
	}
	db := database.NewPostgresDB(dbConfig)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := db.Connect(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.HealthCheck(context.Background()); err != nil {
		return nil, fmt.Errorf("database health check failed: %w", err)
	}
	c.DB = db
	log.Println("✅ Database connected")

	// ========================================
	// STEP 3: INITIALIZE CACHE
	// ========================================
	log.Println("🔴 Connecting to Redis...")

	redisCache := infraCache.NewRedisCache(
		cfg.Redis.Host,
		cfg.Redis.Password,
		cfg.Redis.DB,
	)
	if rc, ok := redisCache.(*infraCache.RedisCache); ok {
		if err := rc.Connect(context.Background()); err != nil {
			// Redis failure is non-critical: reads fall through to Postgres
			log.Printf("⚠️  Redis connection failed (non-critical): %v", err)
		} else {
			log.Println("✅ Redis connected")
		}
	}
	c.Cache = redisCache

	// ========================================
	// STEP 4: AUTH PRIMITIVES AND MAIL
	// ========================================
	c.JWTManager = jwt.NewManager(cfg.JWT.Secret, cfg.JWT.TokenExpiry)
	c.Codes = confirmation.NewGenerator(cfg.Confirmation.Secret, cfg.Confirmation.Window)
	c.Mailer = email.NewSMTPSender(cfg.Email.SMTPHost, cfg.Email.SMTPPort, cfg.Email.From)

	// ========================================
	// STEP 5: REPOSITORIES, SERVICES, HANDLERS
	// ========================================
	c.initRepositories()
	c.initServices()
	c.initHandlers()

	log.Println("🎉 DI Container initialized successfully")
	return c, nil
}

func (c *Container) initRepositories() {
	pool := c.DB.Pool

	c.UserRepo = userRepo.NewPostgresRepository(pool)
	c.CategoryRepo = categoryRepo.NewPostgresRepository(pool)
	c.GenreRepo = genreRepo.NewPostgresRepository(pool)
	c.TitleRepo = titleRepo.NewPostgresRepository(pool, c.Cache)
	c.ReviewRepo = reviewRepo.NewPostgresRepository(pool)
	c.CommentRepo = commentRepo.NewPostgresRepository(pool)
}

func (c *Container) initServices() {
	c.AuthService = authService.NewAuthService(
		c.UserRepo,
		c.Codes,
		c.JWTManager,
		c.Mailer,
		c.Config.Email.SendTimeout,
	)
	c.UserService = userService.NewUserService(c.UserRepo)
	c.CategoryService = categoryService.NewCategoryService(c.CategoryRepo)
	c.GenreService = genreService.NewGenreService(c.GenreRepo)
	c.TitleService = titleService.NewTitleService(c.TitleRepo, c.GenreRepo, c.CategoryRepo)
	c.ReviewService = reviewService.NewReviewService(c.ReviewRepo, c.TitleRepo, c.Cache)
	c.CommentService = commentService.NewCommentService(c.CommentRepo, c.ReviewRepo, c.TitleRepo)
}

func (c *Container) initHandlers() {
	c.AuthHandler = authHandler.NewHandler(c.AuthService)
	c.UserHandler = userHandler.NewHandler(c.UserService)
	c.CategoryHandler = categoryHandler.NewHandler(c.CategoryService)
	c.GenreHandler = genreHandler.NewHandler(c.GenreService)
	c.TitleHandler = titleHandler.NewHandler(c.TitleService)
	c.ReviewHandler = reviewHandler.NewHandler(c.ReviewService)
	c.CommentHandler = commentHandler.NewHandler(c.CommentService)
}

// Cleanup releases infrastructure resources during graceful shutdown.
func (c *Container) Cleanup() {
	log.Println("🧹 Cleaning up container resources...")

	if c.DB != nil && c.DB.Pool != nil {
		c.DB.Pool.Close()
		log.Println("✅ Database connections closed")
	}

	if c.Cache != nil {
		if rc, ok := c.Cache.(*infraCache.RedisCache); ok {
			if err := rc.Close(); err != nil {
				log.Printf("⚠️  Failed to close Redis: %v", err)
			} else {
				log.Println("✅ Redis connections closed")
			}
		}
	}

	log.Println("✅ Container cleanup completed")
}
