package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver
	"github.com/pressly/goose/v3"

	"github.com/grouplib/library-api/internal/config"
	"github.com/grouplib/library-api/internal/platform/logger"
	"github.com/grouplib/library-api/internal/platform/postgres"
	"github.com/grouplib/library-api/internal/service"
	"github.com/grouplib/library-api/migrations"
)

// application holds the shared dependencies for the server.
type application struct {
	config      *config.Config
	logger      *slog.Logger
	db          *sql.DB
	bookService service.BookService
	userService service.UserService
}

func main() {
	if err := run(); err != nil {
		slog.Error("server exited with error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := logger.Setup(cfg.Server)
	if err != nil {
		return fmt.Errorf("failed to set up logging: %w", err)
	}
	log.Info("configuration loaded",
		slog.Int("port", cfg.Server.Port),
		slog.String("log_level", cfg.Server.LogLevel))

	db, err := openDatabase(cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("failed to close database", "error", err)
		}
	}()

	if err := runMigrations(db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	log.Info("database migrations applied")

	app, err := newApplication(cfg, log, db)
	if err != nil {
		return fmt.Errorf("failed to build application: %w", err)
	}

	return app.startHTTPServer(context.Background(), app.setupRouter())
}

// newApplication wires stores and services onto the shared database handle.
func newApplication(cfg *config.Config, log *slog.Logger, db *sql.DB) (*application, error) {
	bookStore := postgres.NewPostgresBookStore(db, log)
	userStore := postgres.NewPostgresUserStore(db, log)
	loanStore := postgres.NewPostgresLoanHistoryStore(db, log)

	bookService, err := service.NewBookService(db, bookStore, userStore, loanStore, log)
	if err != nil {
		return nil, err
	}

	userService, err := service.NewUserService(db, userStore, log)
	if err != nil {
		return nil, err
	}

	return &application{
		config:      cfg,
		logger:      log,
		db:          db,
		bookService: bookService,
		userService: userService,
	}, nil
}

// openDatabase opens and verifies the database connection.
func openDatabase(url string) (*sql.DB, error) {
	db, err := sql.Open("pgx", url)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("database ping failed: %w", err)
	}

	return db, nil
}

// runMigrations applies the embedded goose migrations.
func runMigrations(db *sql.DB) error {
	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	return goose.Up(db, ".")
}
