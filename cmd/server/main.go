package main

import (
	"log/slog"
	"os"
	"time"

	"inkwell/internal/config"
	"inkwell/internal/db"
	"inkwell/internal/kvstore"
	"inkwell/internal/router"
	"inkwell/internal/services"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"
	"github.com/redis/go-redis/v9"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found, reading env vars from system")
	}

	slog.SetDefault(slog.New(tint.NewHandler(os.Stdout, &tint.Options{
		Level:      slog.LevelInfo,
		TimeFormat: time.Kitchen,
	})))

	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	gdb, err := db.Init(cfg.DatabaseURL)
	if err != nil {
		slog.Error("database init failed", "error", err)
		os.Exit(1)
	}

	// Challenge store and rate limiter share a Redis when configured, so
	// several processes can serve the same site.
	var challengeStore kvstore.Store = kvstore.NewMemory()
	var limiter services.RateLimiter = services.NewMemoryRateLimiter(cfg.RateLimitMax, cfg.RateLimitWindow)
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		challengeStore = kvstore.NewRedis(client, "inkwell")
		limiter = services.NewRedisRateLimiter(client, cfg.RateLimitMax, cfg.RateLimitWindow)
		slog.Info("using redis backends", "addr", cfg.RedisAddr)
	}

	identityHasher, err := services.NewIdentityHasher(cfg.CommentSecret)
	if err != nil {
		slog.Error("identity hasher init failed", "error", err)
		os.Exit(1)
	}
	captchaService, err := services.NewCaptchaService(challengeStore, cfg.CommentSecret, cfg.CaptchaTTL)
	if err != nil {
		slog.Error("captcha service init failed", "error", err)
		os.Exit(1)
	}

	commentService := services.NewCommentService(gdb)
	grantService := services.NewGrantService(gdb, cfg.GrantTTL)
	reactionService := services.NewReactionService(gdb)
	intake := services.NewCommentIntake(captchaService, limiter, commentService, grantService)

	r := gin.Default()

	store := cookie.NewStore([]byte(cfg.SessionSecret))
	r.Use(sessions.Sessions("inkwell_session", store))

	err = router.RegisterRoutes(r, router.Deps{
		DB:             gdb,
		IdentityHasher: identityHasher,
		CaptchaService: captchaService,
		CommentService: commentService,
		GrantService:   grantService,
		Reactions:      reactionService,
		Intake:         intake,
		AdminPassword:  cfg.AdminPassword,
	})
	if err != nil {
		slog.Error("route registration failed", "error", err)
		os.Exit(1)
	}

	slog.Info("inkwell server starting", "port", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}
