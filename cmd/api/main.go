package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/kislikjeka/utxoscan/internal/infra/gateway/explorer"
	"github.com/kislikjeka/utxoscan/internal/infra/gateway/node"
	"github.com/kislikjeka/utxoscan/internal/infra/gateway/tokenlist"
	infraRedis "github.com/kislikjeka/utxoscan/internal/infra/redis"
	"github.com/kislikjeka/utxoscan/internal/metrics"
	"github.com/kislikjeka/utxoscan/internal/module/transactions"
	"github.com/kislikjeka/utxoscan/internal/platform/asset"
	"github.com/kislikjeka/utxoscan/internal/platform/txinfo"
	"github.com/kislikjeka/utxoscan/internal/transport/httpapi"
	"github.com/kislikjeka/utxoscan/internal/transport/httpapi/handler"
	"github.com/kislikjeka/utxoscan/internal/transport/httpapi/middleware"
	"github.com/kislikjeka/utxoscan/pkg/config"
	"github.com/kislikjeka/utxoscan/pkg/logger"
)

func main() {
	// Create context that listens for termination signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.NewDefault(cfg.Env)
	log.Info("Starting utxoscan API server",
		"env", cfg.Env,
		"port", cfg.Port,
		"network", cfg.Network,
		"explorer", cfg.ExplorerAPIURL,
	)

	// Redis backs the token metadata cache
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisURL,
		Password: cfg.RedisPassword,
		DB:       0,
	})
	defer redisClient.Close()

	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Error("Failed to connect to Redis", "error", err)
		os.Exit(1)
	}
	log.Info("Redis connection established")
	metadataCache := infraRedis.NewMetadataCache(redisClient, cfg.MetadataCacheTTL, log)

	// Upstream gateways
	explorerClient := explorer.NewClient(cfg.ExplorerAPIURL, metrics.NewGateway("explorer", cfg.Network), log)
	explorerAdapter := explorer.NewAdapter(explorerClient)

	nodeClient := node.NewClient(cfg.NodeAPIURL, cfg.NodeAPIKey, cfg.NodeAPIRPS, metrics.NewGateway("node", cfg.Network), log)
	nodeAdapter := node.NewAdapter(nodeClient)

	tokenListClient := tokenlist.NewClient(cfg.TokenListURL, cfg.NetworkID, metrics.NewGateway("tokenlist", cfg.Network), log)

	// Metadata resolution
	verified := asset.NewVerifiedList(tokenListClient, cfg.TokenListTTL)
	resolver := asset.NewResolver(verified, metadataCache, explorerAdapter, nodeAdapter, cfg.MetadataConcurrency, log)
	log.Info("Metadata resolver initialized", "token_list_ttl", cfg.TokenListTTL)

	// Warm the verified list; requests fall back to a lazy load on failure
	go func() {
		if err := verified.Refresh(ctx); err != nil {
			log.Warn("Initial token list load failed", "error", err)
			return
		}
		log.Info("Verified token list loaded", "tokens", verified.Len())
	}()

	transactionSvc := transactions.NewService(explorerAdapter, resolver, txinfo.NewBuilder(nil), log)
	log.Info("Transaction service initialized")

	// HTTP handlers
	transactionHandler := handler.NewTransactionHandler(transactionSvc, log)
	assetHandler := handler.NewAssetHandler(resolver, log)
	healthHandler := handler.NewHealthHandler(map[string]handler.Pinger{
		"redis":    metadataCache,
		"explorer": explorerAdapter,
	})

	routerCfg := httpapi.Config{
		Logger:             log,
		Network:            cfg.Network,
		AllowedOrigins:     cfg.AllowedOrigins,
		TransactionHandler: transactionHandler,
		AssetHandler:       assetHandler,
		HealthHandler:      healthHandler,
	}
	if cfg.AdminEnabled() {
		routerCfg.AdminHandler = handler.NewAdminHandler(verified, metadataCache, log)
		routerCfg.AdminMiddleware = middleware.JWTMiddleware(middleware.NewJWTService(cfg.AdminJWTSecret))
	} else {
		log.Warn("ADMIN_JWT_SECRET not configured, admin routes disabled")
	}
	r := httpapi.NewRouter(routerCfg)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second, // exports walk several explorer pages
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info("Server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for termination signal
	<-ctx.Done()
	log.Info("Shutdown signal received")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server shutdown failed", "error", err)
		os.Exit(1)
	}

	log.Info("Server stopped gracefully")
}
