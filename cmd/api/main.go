package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"crowdfund/internal/cache"
	"crowdfund/internal/config"
	"crowdfund/internal/db"
	"crowdfund/internal/email"
	apihttp "crowdfund/internal/http"
	"crowdfund/internal/repository"
	"crowdfund/internal/service"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		logger.Fatal("db connect", zap.Error(err))
	}
	defer pool.Close()

	pingCtx, cancelPing := context.WithTimeout(ctx, 5*time.Second)
	if err := db.Ping(pingCtx, pool); err != nil {
		logger.Fatal("db ping", zap.Error(err))
	}
	cancelPing()

	if cfg.DBAutoMigrate {
		if err := db.Migrate(ctx, pool); err != nil {
			logger.Fatal("db migrate", zap.Error(err))
		}
	}

	userRepo := repository.NewPgUserRepository(pool)
	campaignRepo := repository.NewPgCampaignRepository(pool)
	donationRepo := repository.NewPgDonationRepository(pool)
	likeRepo := repository.NewPgLikeRepository(pool)
	commentRepo := repository.NewPgCommentRepository(pool)

	emailSender := email.NewDisabledSender("email sender not configured")
	if cfg.SMTPHost != "" {
		sender, err := email.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPFrom, cfg.SMTPFromName, cfg.SMTPUseTLS)
		if err != nil {
			logger.Warn("smtp sender init failed", zap.Error(err))
		} else {
			emailSender = sender
		}
	} else {
		logger.Warn("smtp not configured; registration and password reset mails will fail")
	}

	// Sin Redis se degrada a cache y limiters en memoria.
	var (
		campaignCache = cache.NewMemoryCampaignCache(cfg.CampaignCacheTTL)
		emailLimiter  = service.NewMemoryRateLimiter(cfg.EmailLimitWindow, cfg.EmailLimitMax)
		ipLimiter     = service.NewMemoryRateLimiter(cfg.RateLimitWindow, cfg.RateLimitMax)
	)
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer redisClient.Close()
		ctxPing, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := redisClient.Ping(ctxPing).Err(); err != nil {
			logger.Warn("redis ping failed, using in-memory cache and limiters", zap.Error(err))
		} else {
			campaignCache = cache.NewRedisCampaignCache(redisClient, cfg.CampaignCacheTTL)
			emailLimiter = service.NewRedisRateLimiter(redisClient, "rl:email:", cfg.EmailLimitWindow, cfg.EmailLimitMax)
			ipLimiter = service.NewRedisRateLimiter(redisClient, "rl:ip:", cfg.RateLimitWindow, cfg.RateLimitMax)
		}
		cancel()
	}

	hasher, err := service.NewBcryptHasher(cfg.BcryptCost, cfg.HashConcurrency)
	if err != nil {
		logger.Fatal("password hasher", zap.Error(err))
	}
	jwtSvc := service.NewJWTService(cfg.JWTSecret, cfg.JWTIssuer, cfg.SessionTTL)

	authSvc := service.NewAuthService(logger, userRepo, hasher, jwtSvc, emailSender, emailLimiter, service.AuthConfig{
		BaseURL:             cfg.PublicBaseURL,
		VerificationTTL:     cfg.VerificationTTL,
		ResetTTL:            cfg.ResetTTL,
		MailTimeout:         cfg.MailTimeout,
		ConcealUnknownEmail: cfg.ConcealUnknownEmail,
	})
	campaignSvc := service.NewCampaignService(logger, campaignRepo, campaignCache)
	donationSvc := service.NewDonationService(logger, donationRepo, campaignRepo, campaignCache, emailSender, cfg.MailTimeout)
	engagementSvc := service.NewEngagementService(logger, likeRepo, commentRepo)
	dashboardSvc := service.NewDashboardService(campaignRepo, donationRepo, likeRepo, commentRepo)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	httpMetrics, err := apihttp.NewHTTPMetrics(apihttp.HTTPMetricsOptions{Registerer: registry})
	if err != nil {
		logger.Fatal("http metrics", zap.Error(err))
	}

	router := apihttp.NewRouter(apihttp.RouterDeps{
		Logger:         logger,
		Sessions:       jwtSvc,
		IPLimiter:      ipLimiter,
		TrustedProxies: cfg.TrustedProxies,
		RequestTimeout: cfg.RequestTimeout,
		Metrics:        httpMetrics,
		MetricsHandler: promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		Auth:           apihttp.NewAuthHandler(logger, authSvc),
		Campaigns:      apihttp.NewCampaignHandler(logger, campaignSvc),
		Donations:      apihttp.NewDonationHandler(logger, donationSvc),
		Engagement:     apihttp.NewEngagementHandler(logger, engagementSvc),
		Dashboard:      apihttp.NewDashboardHandler(logger, dashboardSvc),
	})

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("starting server", zap.String("port", cfg.HTTPPort))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}
