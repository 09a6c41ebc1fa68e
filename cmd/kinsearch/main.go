package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/kailas-cloud/kinsearch/internal/config"
	dbRedis "github.com/kailas-cloud/kinsearch/internal/db/redis"
	dbSQLite "github.com/kailas-cloud/kinsearch/internal/db/sqlite"
	"github.com/kailas-cloud/kinsearch/internal/domain/actor"
	logpkg "github.com/kailas-cloud/kinsearch/internal/logger"
	"github.com/kailas-cloud/kinsearch/internal/metrics"
	auditrepo "github.com/kailas-cloud/kinsearch/internal/repository/audit"
	recordrepo "github.com/kailas-cloud/kinsearch/internal/repository/record"
	"github.com/kailas-cloud/kinsearch/internal/repository/sqlstore"
	chiTransport "github.com/kailas-cloud/kinsearch/internal/transport/chi"
	healthuc "github.com/kailas-cloud/kinsearch/internal/usecase/health"
	searchuc "github.com/kailas-cloud/kinsearch/internal/usecase/search"
	"github.com/kailas-cloud/kinsearch/internal/version"
)

// backend is the wired record store with its audit sink.
type backend struct {
	records     searchuc.RecordReader
	audit       searchuc.AuditSink
	dbPinger    healthuc.Pinger
	auditPinger healthuc.Pinger
	closer      io.Closer
}

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting kinsearch API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("db_driver", cfg.Database.Driver),
		zap.Strings("db_addrs", cfg.Database.Addrs),
		zap.String("audit_sink", cfg.Audit.Sink),
	)

	ctx := context.Background()
	be, err := openBackend(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("Failed to open record store", zap.Error(err))
	}
	defer func() { _ = be.closer.Close() }()
	logger.Info("Connected to record store")

	// Register metrics explicitly (no init())
	metrics.RegisterHTTPMetrics()
	metrics.RegisterSearchMetrics()

	searchSvc := searchuc.New(be.records, be.audit, logger).
		WithMaxResults(cfg.Search.MaxResults).
		WithStoreTimeout(time.Duration(cfg.Search.StoreTimeoutMs) * time.Millisecond).
		WithAuditTimeout(time.Duration(cfg.Audit.TimeoutMs) * time.Millisecond)
	healthSvc := healthuc.New(be.dbPinger, be.auditPinger)

	server := chiTransport.NewServer(searchSvc, healthSvc, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(chiTransport.ActorMiddleware(apiKeys(cfg.Auth)))
	r.Use(wideEventMiddleware(logger))
	r.Use(metrics.Middleware())
	server.Routes(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// openBackend connects the configured record store and picks the audit sink.
func openBackend(ctx context.Context, cfg config.Config, logger *zap.Logger) (*backend, error) {
	readiness := time.Duration(cfg.Database.ReadinessTimeout) * time.Second

	switch cfg.Database.Driver {
	case config.DriverValkey, config.DriverRedis:
		store, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Database.Addrs,
			Password: cfg.Database.Password,
		})
		if err != nil {
			return nil, fmt.Errorf("create %s store: %w", cfg.Database.Driver, err)
		}
		if err := store.WaitForReady(ctx, readiness); err != nil {
			store.Close()
			return nil, fmt.Errorf("database not ready: %w", err)
		}

		be := &backend{
			records:  recordrepo.New(store, cfg.Storage.KeyPrefix),
			dbPinger: store,
			closer:   closerFunc(func() error { store.Close(); return nil }),
		}
		switch cfg.Audit.Sink {
		case config.AuditSinkStream:
			sink := auditrepo.NewStreamSink(store, cfg.Storage.KeyPrefix+cfg.Audit.StreamKey, cfg.Audit.MaxLen)
			be.audit, be.auditPinger = sink, sink
		case config.AuditSinkLog:
			be.audit = auditrepo.NewLogSink(logger)
		}
		return be, nil

	case config.DriverSQLite:
		store, err := dbSQLite.Open(cfg.Database.SQLitePath)
		if err != nil {
			return nil, err
		}
		initCtx, cancel := context.WithTimeout(ctx, readiness)
		defer cancel()
		if err := store.Init(initCtx); err != nil {
			_ = store.Close()
			return nil, err
		}

		repo := sqlstore.New(store.DB())
		be := &backend{records: repo, dbPinger: store, closer: store}
		switch cfg.Audit.Sink {
		case config.AuditSinkSQLite:
			be.audit = repo
		case config.AuditSinkLog:
			be.audit = auditrepo.NewLogSink(logger)
		}
		return be, nil

	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Database.Driver)
	}
}

func apiKeys(cfg config.AuthConfig) []chiTransport.APIKey {
	keys := make([]chiTransport.APIKey, len(cfg.APIKeys))
	for i, k := range cfg.APIKeys {
		// Roles are validated by config.Load.
		role, _ := actor.ParseRole(k.Role)
		keys[i] = chiTransport.APIKey{
			Key:      k.Key,
			Role:     role,
			ActorID:  k.ActorID,
			Approval: actor.Approval(k.Approval),
		}
	}
	return keys
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }
