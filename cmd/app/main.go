// File: cmd/app/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"propfirm-web/internal/config"
	"propfirm-web/internal/domain/ports/adapter"
	emailAdapters "propfirm-web/internal/infra/adapters/email"
	payAdapters "propfirm-web/internal/infra/adapters/payment"
	"propfirm-web/internal/infra/adapters/pricefeed"
	"propfirm-web/internal/infra/api"
	pg "propfirm-web/internal/infra/db/postgres"
	"propfirm-web/internal/infra/logging"
	"propfirm-web/internal/infra/metrics"
	red "propfirm-web/internal/infra/redis"
	"propfirm-web/internal/infra/sched"
	"propfirm-web/internal/infra/web"
	"propfirm-web/internal/infra/worker"
	"propfirm-web/internal/usecase"
)

var (
	version = "dev"
	commit  = "none"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode (noop collaborators)")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	if cfg.Runtime.Dev {
		logger.Info().Msg("[DEV MODE] Enabled")
	}

	metrics.MustRegister()
	metrics.SetBuildInfo(version, commit)

	// ---- Postgres ----
	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL)
	if err != nil {
		log.Fatalf("postgres: %v", err)
	}
	defer pool.Close()

	// ---- Redis ----
	redisClient, err := red.NewClient(ctx, &cfg.Redis)
	if err != nil {
		log.Fatalf("redis: %v", err)
	}
	defer redisClient.Close()

	sessionStore := red.NewSessionStore(redisClient, cfg.Redis.TTL)
	funnelStates := red.NewFunnelStateRepo(redisClient, cfg.Redis.TTL)
	priceCache := red.NewPriceCache(redisClient)
	rateLimiter := red.NewRateLimiter(redisClient)

	// ---- Repositories ----
	txManager := pg.NewTxManager(pool)
	userRepo := pg.NewPostgresUserRepo(pool)
	pollRepo := pg.NewPollRepo(pool)
	commentRepo := pg.NewCommentRepo(pool)
	orderRepo := pg.NewOrderRepo(pool)

	// ---- Collaborators ----
	var gateway adapter.PaymentGateway
	if cfg.Runtime.Dev || cfg.Payment.Provider == "noop" {
		gateway = payAdapters.NewNoopPaymentGateway()
	} else {
		gateway, err = payAdapters.NewCoinpayGateway(cfg.Payment.APIKey, cfg.Payment.BaseURL, cfg.Payment.Sandbox)
		if err != nil {
			log.Fatalf("payment gateway: %v", err)
		}
	}
	logger.Info().Str("provider", gateway.Name()).Msg("payment gateway ready")

	var sender adapter.EmailSender
	if cfg.Runtime.Dev || cfg.Email.ResendKey == "" {
		sender = emailAdapters.NewNoopSender(logger)
	} else {
		sender, err = emailAdapters.NewResendSender(cfg.Email.ResendKey, cfg.Email.From, logger)
		if err != nil {
			log.Fatalf("email sender: %v", err)
		}
	}

	feed, err := pricefeed.NewHTTPFeed(cfg.PriceFeed.BaseURL)
	if err != nil {
		log.Fatalf("price feed: %v", err)
	}

	// ---- Worker pool ----
	sendPool := worker.NewPool(4, logger)
	sendPool.Start(ctx)
	defer sendPool.Stop()

	// ---- Use cases ----
	pricingUC := usecase.NewPricingUseCase(sessionStore, logger)
	funnelUC := usecase.NewFunnelUseCase(funnelStates, logger)
	checkoutUC := usecase.NewCheckoutUseCase(orderRepo, gateway, logger)
	pollUC := usecase.NewPollUseCase(pollRepo, commentRepo, userRepo, txManager, logger)
	userUC := usecase.NewUserUseCase(userRepo, txManager, logger)
	orderUC := usecase.NewOrderUseCase(orderRepo, logger)
	templateUC := usecase.NewTemplateUseCase(sender, orderRepo, sendPool, logger)

	// ---- Price poller ----
	poller := sched.NewPricePoller(cfg.PriceFeed.Interval, feed, priceCache, logger)
	go func() { _ = poller.Run(ctx) }()

	// ---- Public site API ----
	identity := api.NewIdentity(cfg.Auth.JWTSecret)
	apiServer := api.NewServer(
		pricingUC, funnelUC, checkoutUC, pollUC, userUC,
		priceCache, sessionStore, identity,
		cfg.Payment.WebhookKey, cfg.Server.CORSOrigins, logger,
	)
	siteSrv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: apiServer.Router(),
	}
	go func() {
		logger.Info().Str("addr", siteSrv.Addr).Msg("site api listening")
		if err := siteSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("site api server error")
		}
	}()

	// ---- Admin console ----
	authMgr := web.NewAuthManager(cfg.Admin.JWTSecret, !cfg.Runtime.Dev, "", cfg.Admin.SessionTTL)
	adminServer := web.NewServer(templateUC, userUC, orderUC, authMgr, cfg.Admin.Password, rateLimiter, logger)
	adminMux := http.NewServeMux()
	adminServer.RegisterRoutes(adminMux)
	adminMux.Handle("/metrics", promhttp.Handler())
	adminSrv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Admin.Port),
		Handler: adminMux,
	}
	go func() {
		logger.Info().Str("addr", adminSrv.Addr).Msg("admin console listening")
		if err := adminSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("admin server error")
		}
	}()

	// ---- Graceful shutdown ----
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc
	logger.Info().Msg("shutdown requested")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	_ = siteSrv.Shutdown(shutdownCtx)
	_ = adminSrv.Shutdown(shutdownCtx)
	cancel()
}
