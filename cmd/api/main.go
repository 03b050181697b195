package main

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/roleplay/roleplay-go/internal/config"
	"github.com/roleplay/roleplay-go/internal/crypto"
	"github.com/roleplay/roleplay-go/internal/handler"
	"github.com/roleplay/roleplay-go/internal/mail"
	"github.com/roleplay/roleplay-go/internal/repository"
	"github.com/roleplay/roleplay-go/internal/repository/memory"
	"github.com/roleplay/roleplay-go/internal/service"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Warn("no .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	slog.SetDefault(newLogger(cfg))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, db, err := openStore(ctx, cfg)
	if err != nil {
		slog.Error("store initialization failed", "driver", cfg.StoreDriver, "error", err)
		os.Exit(1)
	}
	if db != nil {
		defer db.Close()
	}

	var mailer mail.Sender = mail.NewLogSender(slog.Default())
	if cfg.SMTPHost != "" {
		mailer = mail.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword)
	} else {
		slog.Warn("SMTP_HOST not set, reset mails will only be logged")
	}

	hasher := crypto.DefaultHasher()
	signer := crypto.NewSigner(cfg.JWTSecret, cfg.JWTExpiry)

	svc := handler.Services{
		Users:         service.NewUserService(store, hasher),
		Sessions:      service.NewSessionService(store, hasher, signer),
		Passwords:     service.NewPasswordService(store, hasher, mailer, cfg.MailFrom, cfg.ResetTokenTTL),
		Groups:        service.NewGroupService(store, cfg.DefaultPageSize),
		GroupRequests: service.NewGroupRequestService(store),
	}

	srv := &http.Server{
		Addr: ":" + cfg.Port,
		Handler: handler.NewRouter(ctx, svc, handler.RouterConfig{
			AllowedOrigins: cfg.AllowedOrigins,
			RateLimit:      5,
			RateBurst:      10,
			TrustedProxies: cfg.TrustedProxies,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("server starting", "port", cfg.Port, "env", cfg.Env, "store", cfg.StoreDriver)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()

	slog.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped")
}

func newLogger(cfg config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.LogLevel}
	if cfg.IsProduction() {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}

// openStore returns the configured Store. db is nil for the memory driver.
func openStore(ctx context.Context, cfg config.Config) (repository.Store, *sql.DB, error) {
	if cfg.StoreDriver == "memory" {
		slog.Warn("using in-memory store, data is lost on exit")
		return memory.New(), nil, nil
	}

	db, err := repository.NewDB(cfg.DatabaseDSN)
	if err != nil {
		return nil, nil, err
	}

	if cfg.RunMigrations {
		if err := repository.Migrate(ctx, db); err != nil {
			db.Close()
			return nil, nil, err
		}
		slog.Info("migrations applied")
	}

	return repository.NewSQLStore(db), db, nil
}
