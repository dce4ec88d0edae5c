// cmd/wizard-server/main.go
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"visitor-registration/internal/common/config"
	"visitor-registration/internal/common/database"
	"visitor-registration/internal/common/logger"
	"visitor-registration/internal/common/observability"
	"visitor-registration/internal/session"
	issuepass "visitor-registration/internal/steps/issue-pass"
	registervisit "visitor-registration/internal/steps/register-visit"
	verifyemployee "visitor-registration/internal/steps/verify-employee"
	httptransport "visitor-registration/internal/transport/http"
	"visitor-registration/internal/wizard"
	"visitor-registration/pkg/registry"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	configPath := flag.String("config", "", "path to a config file (default: configs/config.yaml lookup)")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting visitor registration wizard",
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
		zap.String("sessionBackend", cfg.Session.Backend),
	)

	obs, err := observability.New(cfg.App.Name)
	if err != nil {
		zapLog.Warn("observability disabled", zap.Error(err))
	}
	defer obs.Shutdown()

	checkFormRegistry(cfg.Registry.Path, zapLog)

	ctx := context.Background()

	store, err := openSessionStore(ctx, cfg, zapLog)
	if err != nil {
		zapLog.Fatal("session store unavailable", zap.Error(err))
	}
	defer store.Close()

	verifyHandler, err := verifyemployee.NewHandler(verifyemployee.HandlerOptions{AppConfig: cfg, Logger: log})
	if err != nil {
		zapLog.Fatal("verify-employee setup failed", zap.Error(err))
	}
	registerHandler, err := registervisit.NewHandler(registervisit.HandlerOptions{AppConfig: cfg, Logger: log})
	if err != nil {
		zapLog.Fatal("register-visit setup failed", zap.Error(err))
	}
	passHandler, err := issuepass.NewHandler(issuepass.HandlerOptions{AppConfig: cfg, Logger: log})
	if err != nil {
		zapLog.Fatal("issue-pass setup failed", zap.Error(err))
	}

	svc := wizard.NewService(wizard.Dependencies{
		Store:         store,
		Verifier:      verifyHandler,
		Registrar:     registerHandler,
		Issuer:        passHandler,
		Observability: obs,
		Logger:        log,
	})

	server := &http.Server{
		Addr: cfg.Server.Address,
		Handler: httptransport.NewRouter(httptransport.RouterOptions{
			Wizard: svc,
			Health: store,
			Logger: log,
			Cookie: httptransport.CookieOptions{
				Name:   cfg.Server.CookieName,
				Secure: cfg.Server.SecureCookie,
			},
		}),
		ReadHeaderTimeout: config.GetDuration(cfg.Server.ReadTimeout),
	}

	go func() {
		zapLog.Info("HTTP server listening", zap.String("address", cfg.Server.Address))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLog.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, draining requests...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.GetDuration(cfg.Server.ShutdownTimeout))
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error during HTTP shutdown", zap.Error(err))
	}

	zapLog.Info("Wizard server stopped")
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFromFile(path)
	}
	return config.Load()
}

// checkFormRegistry warns when the exported form registry no longer matches
// the resolver compiled into this binary.
func checkFormRegistry(path string, zapLog *zap.Logger) {
	reg, err := registry.LoadRegistry(path)
	if err != nil {
		zapLog.Debug("form registry not loaded", zap.String("path", path), zap.Error(err))
		return
	}
	if problems := registry.Validate(reg); len(problems) > 0 {
		zapLog.Warn("form registry is out of date; re-run form-registry export",
			zap.String("path", path),
			zap.Strings("problems", problems),
		)
	}
}

func openSessionStore(ctx context.Context, cfg *config.Config, zapLog *zap.Logger) (session.Store, error) {
	if cfg.Session.Backend == config.SessionBackendMemory {
		zapLog.Warn("Using in-memory session store; sessions are lost on restart")
		return session.NewMemoryStore(cfg.SessionTTL()), nil
	}

	var redis *database.RedisClient
	err := retryWithBackoff(func() error {
		var err error
		redis, err = database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return err
		}
		if err := redis.Ping(ctx); err != nil {
			_ = redis.Close()
			return err
		}
		return nil
	}, 10, 2*time.Second, zapLog, "Redis connection")
	if err != nil {
		return nil, err
	}
	zapLog.Info("Redis connected successfully")

	return session.NewRedisStore(redis, cfg.Session.KeyPrefix, cfg.SessionTTL()), nil
}
