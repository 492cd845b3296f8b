package main

import (
	"context"
	"errors"
	"io"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/cors"

	"github.com/jonatjano/HostMyDocs/internal/auth"
	"github.com/jonatjano/HostMyDocs/internal/cache"
	"github.com/jonatjano/HostMyDocs/internal/config"
	docsysSvc "github.com/jonatjano/HostMyDocs/internal/domain/services/docsystem"
	"github.com/jonatjano/HostMyDocs/internal/handler"
	"github.com/jonatjano/HostMyDocs/internal/middleware"
	"github.com/jonatjano/HostMyDocs/internal/observability"
	serviceDocsys "github.com/jonatjano/HostMyDocs/internal/service/docsystem"
)

const shutdownTimeout = 30 * time.Second

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Setup structured logging, tee'd to a rotated file when LOG_DIR is set
	var logOutput io.Writer = os.Stdout
	if cfg.LogDir != "" {
		logFile, err := config.SetupLogFile(cfg.LogDir, cfg.LogMaxFiles)
		if err != nil {
			log.Fatalf("Failed to setup log file: %v", err)
		}
		defer logFile.Close()
		logOutput = io.MultiWriter(os.Stdout, logFile)
	}
	logger := config.NewLogger(cfg.Environment, logOutput)
	slog.SetDefault(logger)

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"database_driver", cfg.DatabaseDriver,
		"storage_root", cfg.StorageRoot,
		"archive_root", cfg.ArchiveRoot,
	)

	ctx := context.Background()

	st, err := openStores(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer st.close()

	// Metrics registry
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := observability.NewMetrics(registry)

	healthChecks := []handler.HealthCheck{{Name: "store", Ping: st.ping}}

	// Listing cache (optional)
	var listingCache docsysSvc.ListingCache
	if cfg.RedisURL != "" {
		redisCache, err := cache.NewRedisListingCache(cache.RedisConfig{
			URL: cfg.RedisURL,
			TTL: cfg.RedisTTL,
		}, logger)
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer redisCache.Close()

		listingCache = redisCache
		healthChecks = append(healthChecks, handler.HealthCheck{Name: "redis", Ping: redisCache.Ping})
		logger.Info("listing cache enabled", "ttl", cfg.RedisTTL)
	}

	// Authentication for write routes (optional)
	var authenticator *auth.Authenticator
	if cfg.Auth.ShouldSecure {
		var jwtVerifier auth.JWTVerifier
		if cfg.Auth.JWKSURL != "" {
			jwtVerifier, err = auth.NewJWTVerifier(cfg.Auth.JWKSURL, logger)
			if err != nil {
				log.Fatalf("Failed to create JWT verifier: %v", err)
			}
			defer jwtVerifier.Close()
		}
		authenticator = auth.NewAuthenticator(cfg.Auth.Username, cfg.Auth.Password, jwtVerifier, logger)
		logger.Info("write routes secured", "basic", cfg.Auth.Username != "", "jwt", jwtVerifier != nil)
	} else {
		logger.Warn("write routes are not secured")
	}

	// Create services
	paths := cfg.PathContext()
	identifiers := serviceDocsys.NewIdentifierAllocator(st.languages, logger)
	hierarchyService := serviceDocsys.NewHierarchyService(st.projects, st.versions, st.languages, identifiers, logger)
	ingestService := serviceDocsys.NewIngestService(serviceDocsys.IngestDependencies{
		Hierarchy: hierarchyService,
		Validator: serviceDocsys.NewArchiveValidator(cfg.MaxUncompressedBytes, logger),
		Extractor: serviceDocsys.NewExtractor(cfg.StorageRoot, logger),
		Backup:    serviceDocsys.NewBackupManager(cfg.ArchiveRoot, logger),
		TxManager: st.txManager,
		Cache:     listingCache,
		Paths:     paths,
		Metrics:   metrics,
		Logger:    logger,
	})
	listingService := serviceDocsys.NewListingService(st.projects, st.versions, st.languages,
		paths, listingCache, metrics, logger)

	logger.Info("services initialized")

	// Create handlers
	projectHandler := handler.NewProjectHandler(ingestService, listingService, handler.UploadConfig{
		Dir:         uploadDir(cfg),
		MaxBytes:    cfg.MaxUploadBytes,
		MemoryBytes: config.MultipartMemoryBytes,
	}, logger)
	healthHandler := handler.NewHealthHandler(logger, healthChecks...)

	mux := handler.NewRouter(projectHandler, healthHandler, middleware.RequireAuth(authenticator, logger))
	mux.Handle("GET /metrics", observability.Handler(registry))

	// Build middleware chain
	// Order: CORS → Recovery → Metrics → Routes (auth is per route)
	var h http.Handler = mux
	h = middleware.Metrics(metrics)(h)
	h = middleware.Recovery(logger)(h)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins(),
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization", "If-None-Match"},
		ExposedHeaders:   []string{"ETag", "Warning"},
		AllowCredentials: cfg.CORSAllowsCredentials(),
	})
	h = corsHandler.Handler(h)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           h,
		ReadHeaderTimeout: 15 * time.Second,
		WriteTimeout:      0, // Disabled to allow large uploads on slow links
		IdleTimeout:       60 * time.Second,
	}

	sigCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("server listening", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "error", err)
			stop()
		}
	}()

	<-sigCtx.Done()
	logger.Info("server shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}
}

// uploadDir falls back to the system temp dir
func uploadDir(cfg *config.Config) string {
	if cfg.UploadDir != "" {
		return cfg.UploadDir
	}
	return os.TempDir()
}
