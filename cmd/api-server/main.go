package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"animediary/database"
	"animediary/internal/api/handler"
	"animediary/internal/api/middleware"
	"animediary/internal/api/repository"
	"animediary/internal/api/service"
	"animediary/internal/cache"
	"animediary/internal/config"
	"animediary/internal/ingestion/jikan"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("could not load config", "error", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid config", "error", err)
		os.Exit(1)
	}

	logger := newLogger(cfg)
	slog.SetDefault(logger)

	// pgx pool for connection health checks. Non-fatal: gorm opens its own
	// connection below.
	if err := database.Connect(cfg.DatabaseURL); err != nil {
		logger.Warn("pgx connect failed (continuing)", "error", err)
	} else {
		defer database.Close()
	}

	gdb, err := database.OpenGorm(cfg.DatabaseURL, logger)
	if err != nil {
		logger.Error("failed to open gorm DB", "error", err)
		os.Exit(1)
	}
	if err := database.Migrate(gdb, logger); err != nil {
		logger.Error("migration failed", "error", err)
		os.Exit(1)
	}

	// Stats cache is optional. Without redis the diary service hits the
	// store every time.
	var statsCache *cache.StatsCache
	if cfg.RedisURL != "" {
		statsCache, err = cache.New(cfg.RedisURL, cfg.RedisPassword, time.Duration(cfg.CacheTTL)*time.Second)
		if err != nil {
			logger.Warn("redis unavailable, stats caching disabled", "error", err)
			statsCache = nil
		} else {
			defer statsCache.Close()
		}
	}

	// Repositories
	userRepo := repository.NewUserRepository(gdb)
	animeRepo := repository.NewAnimeRepo(gdb)
	diaryRepo := repository.NewDiaryRepository(gdb)

	// Services
	catalogClient := jikan.NewClient(cfg.JikanAPIURL, cfg.JikanAPITimeout)
	userSvc := service.NewUserService(userRepo)
	tokenSvc := service.NewTokenService(cfg.JWTSecret, cfg.AccessTokenTTL)
	animeSvc := service.NewAnimeService(animeRepo, catalogClient)
	diarySvc := service.NewDiaryService(diaryRepo, animeRepo, statsCache, logger)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Logger())
	r.Use(gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           time.Hour,
	}))

	r.GET("/api/health", func(c *gin.Context) {
		if err := database.Ping(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "error": "database unreachable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "MyAnimeDiary API is running"})
	})

	api := r.Group("/api")
	handler.NewUserHandler(userSvc, tokenSvc, cfg.AccessTokenTTL).RegisterRoutes(api.Group("/users"))
	handler.NewAnimeHandler(animeSvc).RegisterRoutes(api.Group("/animes"))

	diary := api.Group("/diary")
	diary.Use(middleware.AuthMiddleware(tokenSvc))
	handler.NewDiaryHandler(diarySvc).RegisterRoutes(diary)

	addr := fmt.Sprintf(":%d", cfg.HTTPPort)
	logger.Info("server starting", "addr", addr, "env", cfg.GoEnv)
	if err := r.Run(addr); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func newLogger(cfg *config.Config) *slog.Logger {
	level := slog.LevelInfo
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: level}
	if cfg.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}
