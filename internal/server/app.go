// Package server initializes and runs the auth server: it opens the
// database, applies migrations once at startup, wires the credential and
// session services into the HTTP surface, and handles graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog"

	"github.com/proxy201/nexus-auth/internal/logging"
	"github.com/proxy201/nexus-auth/internal/server/auth"
	"github.com/proxy201/nexus-auth/internal/server/config"
	"github.com/proxy201/nexus-auth/internal/server/httpapi"
	"github.com/proxy201/nexus-auth/internal/server/migrations"
	"github.com/proxy201/nexus-auth/internal/server/users"
)

type App struct {
	config  *config.Config
	logger  logging.Logger
	db      *sql.DB
	handler http.Handler
}

// NewApp validates the configuration and constructs every dependency
// explicitly: store, hasher, token service, cookie carrier, HTTP handler.
// Migrations run here, once, before the server accepts traffic.
func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	logger := logging.NewZerologLogger(zerolog.New(os.Stdout).With().Timestamp().Logger())

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	goose.SetBaseFS(migrations.Migrations)
	if err := goose.UpContext(ctx, db, "."); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	hasher, err := auth.NewPasswordHasher()
	if err != nil {
		return nil, fmt.Errorf("hasher init error: %w", err)
	}

	userService := users.NewService(users.NewPostgresRepository(db), hasher)
	tokens := auth.NewTokenService([]byte(cfg.SecretKey), cfg.TokenValidity)
	cookies := auth.NewSessionCookie(cfg.TokenValidity, cfg.Production)

	handler := httpapi.NewRouter(logger, userService, tokens, cookies, cfg.RedirectURL)

	return &App{config: cfg, logger: logger, db: db, handler: handler}, nil
}

// Run serves HTTP until the context is canceled or a termination signal
// arrives, then closes the database.
func (app *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	go func() {
		<-sigs
		cancel()
	}()

	app.logger.Info(ctx, "starting app", "address", app.config.Address)

	err := httpapi.Serve(ctx, app.config.Address, app.handler, app.logger)

	if closeErr := app.db.Close(); closeErr != nil && err == nil {
		err = closeErr
	}
	return err
}
