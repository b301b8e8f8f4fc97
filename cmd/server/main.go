package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	appblog "github.com/blogicum/backend/internal/application/blog"
	identityapp "github.com/blogicum/backend/internal/application/identity"
	"github.com/blogicum/backend/internal/infrastructure/auth"
	"github.com/blogicum/backend/internal/infrastructure/cache"
	"github.com/blogicum/backend/internal/infrastructure/config"
	"github.com/blogicum/backend/internal/infrastructure/logger"
	"github.com/blogicum/backend/internal/infrastructure/persistence"
	"github.com/blogicum/backend/internal/infrastructure/scheduler"
	"github.com/blogicum/backend/internal/infrastructure/storage"
	"github.com/blogicum/backend/internal/interfaces/http/dto"
	"github.com/blogicum/backend/internal/interfaces/http/handler"
	"github.com/blogicum/backend/internal/interfaces/http/middleware"
	"github.com/blogicum/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting Blogicum",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Create GORM logger backed by zap
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel)

	// Initialize database connection with custom logger
	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Initialize repositories
	postRepo := persistence.NewGormPostRepository(db.DB)
	categoryRepo := persistence.NewGormCategoryRepository(db.DB)
	locationRepo := persistence.NewGormLocationRepository(db.DB)
	commentRepo := persistence.NewGormCommentRepository(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)

	// Redis backs the feed cache and the session token blacklist. When it is
	// not configured the app degrades to in-process equivalents.
	var redisClient *redis.Client
	if cfg.Feed.CacheEnabled {
		redisClient, err = cache.NewRedisClient(cache.RedisConfig{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			log.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				log.Error("Error closing Redis client", zap.Error(err))
			}
		}()
		log.Info("Redis connected successfully")
	}

	var feedCache appblog.FeedCache
	if redisClient != nil {
		feedCache = cache.NewRedisFeedCache(redisClient, cfg.Feed.CacheTTL, log)
	} else {
		feedCache = cache.NewInMemoryFeedCache(cfg.Feed.CacheTTL)
	}

	// Session tokens
	jwtService := auth.NewJWTService(cfg.JWT)
	if redisClient != nil {
		jwtService.SetBlacklist(auth.NewRedisTokenBlacklist(redisClient))
	} else {
		jwtService.SetBlacklist(auth.NewInMemoryTokenBlacklist())
	}

	// Post image storage: S3-compatible object store, or an in-memory stub
	// for local development
	var images storage.ImageStorage
	if cfg.Storage.Enabled {
		s3Storage, err := storage.NewS3ImageStorage(&cfg.Storage, storage.WithLogger(log))
		if err != nil {
			log.Fatal("Failed to initialize image storage", zap.Error(err))
		}
		ensureCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := s3Storage.EnsureBucket(ensureCtx); err != nil {
			cancel()
			log.Fatal("Failed to ensure image bucket", zap.Error(err))
		}
		cancel()
		images = s3Storage
		log.Info("Image storage ready", zap.String("bucket", cfg.Storage.Bucket))
	} else {
		images = storage.NewStubImageStorage()
		log.Warn("Image storage disabled, uploads are kept in memory only")
	}

	// Initialize application services
	postService := appblog.NewPostService(
		postRepo, categoryRepo, locationRepo, commentRepo,
		feedCache, images, cfg.Feed.PageSize,
	)
	commentService := appblog.NewCommentService(commentRepo, postRepo, feedCache)
	authService := identityapp.NewAuthService(userRepo, jwtService, identityapp.DefaultAuthServiceConfig(), log)
	profileService := identityapp.NewProfileService(userRepo, jwtService, log)

	// Set gin mode based on environment
	switch cfg.App.Env {
	case "production":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.DebugMode)
	}

	if err := dto.RegisterFormValidations(); err != nil {
		log.Fatal("Failed to register form validations", zap.Error(err))
	}

	engine := gin.New()

	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Apply middleware stack in order:
	// 1. RequestID - Generate/propagate request ID
	// 2. Recovery - Catch panics
	// 3. Logger - Log requests
	// 4. Security - Add security headers
	// 5. BodyLimit - Limit request body size (image uploads set the ceiling)
	// 6. RateLimit - Apply rate limiting (if enabled)
	// 7. SessionAuth - Resolve the session cookie into the current user
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	if cfg.HTTP.CORSEnabled {
		corsCfg := middleware.DefaultCORSConfig()
		corsCfg.AllowOrigins = cfg.HTTP.CORSAllowOrigins
		engine.Use(middleware.CORSWithConfig(corsCfg))
		log.Info("CORS enabled", zap.Strings("origins", cfg.HTTP.CORSAllowOrigins))
	}

	if cfg.HTTP.RateLimitEnabled {
		rateLimiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		engine.Use(middleware.RateLimit(rateLimiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	// Stricter limit on credential endpoints to slow down guessing
	if cfg.HTTP.AuthRateLimitEnabled {
		authLimiter := middleware.NewRateLimiter(cfg.HTTP.AuthRateLimitRequests, cfg.HTTP.AuthRateLimitWindow)
		limitAuth := middleware.RateLimitByKey(authLimiter, func(c *gin.Context) string {
			return "auth:" + c.ClientIP()
		})
		engine.Use(func(c *gin.Context) {
			if c.Request.Method == http.MethodPost && strings.HasPrefix(c.Request.URL.Path, "/auth/") {
				limitAuth(c)
				return
			}
			c.Next()
		})
	}

	engine.Use(middleware.SessionAuth(middleware.SessionMiddlewareConfig{
		JWTService: jwtService,
		CookieName: cfg.Cookie.Name,
		Logger:     log,
	}))

	// Initialize HTTP handlers
	postHandler := handler.NewPostHandler(postService, images, log)
	commentHandler := handler.NewCommentHandler(commentService)
	profileHandler := handler.NewProfileHandler(profileService, postService)
	authHandler := handler.NewAuthHandler(authService, cfg.Cookie)
	systemHandler := handler.NewSystemHandler(db)

	r := router.NewRouter(engine,
		router.WithTemplates(cfg.HTTP.TemplateGlob),
		router.WithStatic(cfg.HTTP.StaticDir),
	)
	r.Register(postHandler)
	r.Register(commentHandler)
	r.Register(profileHandler)
	r.Register(authHandler)
	r.Register(systemHandler)
	r.Setup()

	engine.NoRoute(func(c *gin.Context) {
		username, authenticated := middleware.CurrentUsername(c)
		c.HTML(http.StatusNotFound, "pages/404.html", gin.H{
			"authenticated":    authenticated,
			"current_username": username,
		})
	})

	// Background sweep that flips scheduled posts live and refreshes the feed
	if cfg.Scheduler.Enabled {
		sweep := scheduler.NewPublishSweep(scheduler.PublishSweepConfig{
			Schedule:   cfg.Scheduler.PublishSweepSchedule,
			JobTimeout: cfg.Scheduler.JobTimeout,
		}, postRepo, feedCache, log)
		if err := sweep.Start(); err != nil {
			log.Fatal("Failed to start publish sweep", zap.Error(err))
		}
		defer sweep.Stop()
		log.Info("Publish sweep scheduled", zap.String("schedule", cfg.Scheduler.PublishSweepSchedule))
	}

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
