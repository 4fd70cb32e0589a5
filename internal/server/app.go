// Package server wires configuration, storage, services and transports
// together and runs them until the process is told to stop.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/gpatracker/internal/logging"
	"github.com/dmitrijs2005/gpatracker/internal/server/config"
	"github.com/dmitrijs2005/gpatracker/internal/server/notify"
	"github.com/dmitrijs2005/gpatracker/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gpatracker/internal/server/resettokens"
	"github.com/dmitrijs2005/gpatracker/internal/server/rest"
	"github.com/dmitrijs2005/gpatracker/internal/server/services"

	gs "github.com/dmitrijs2005/gpatracker/internal/server/grpc"
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	db          *sql.DB
	resetTokens resettokens.Store
	accounts    *services.AccountService
	records     *services.RecordService
}

// NewApp connects to the database, applies migrations and builds services.
func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	logger := logging.NewJSONLogger(os.Stdout, cfg.LogLevel)
	warnInsecureDefaults(ctx, cfg, logger)

	db, err := repomanager.OpenDB(ctx, cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	m := repomanager.NewPostgresRepositoryManager()
	if err := m.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrations error: %w", err)
	}

	store := resettokens.NewMemoryStore()

	accounts, err := services.NewAccountService(db, m, cfg, store, newMailer(ctx, cfg, logger), logger)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return &App{
		config:      cfg,
		logger:      logger,
		db:          db,
		resetTokens: store,
		accounts:    accounts,
		records:     services.NewRecordService(db, m, logger),
	}, nil
}

func warnInsecureDefaults(ctx context.Context, cfg *config.Config, logger logging.Logger) {
	if cfg.UsesDevSecret() {
		logger.Warn(ctx, "JWT secret key is the development default, set JWT_SECRET_KEY")
	}
}

// newMailer picks SMTP delivery when a host is configured and falls back to
// logging messages otherwise.
func newMailer(ctx context.Context, cfg *config.Config, logger logging.Logger) notify.Dispatcher {
	if cfg.SMTPHost == "" {
		logger.Warn(ctx, "SMTP host not configured, emails will only be logged")
		return notify.NewLogDispatcher(logger)
	}

	return notify.NewSMTPDispatcher(notify.SMTPConfig{
		Host:     cfg.SMTPHost,
		Port:     strconv.Itoa(cfg.SMTPPort),
		Username: cfg.SMTPUser,
		Password: cfg.SMTPPassword,
		From:     cfg.MailFrom,
		Timeout:  cfg.NotifyTimeout,
	})
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := rest.NewServer(app.config.HTTPAddr, app.logger, app.accounts, app.records, app.db)
	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, "HTTP server failed", "error", err)
		cancelFunc()
	}
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := gs.NewHealthServer(app.config.GRPCAddr, app.logger, app.db, app.config.HealthProbeInterval)
	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, "gRPC server failed", "error", err)
		cancelFunc()
	}
}

// Run starts the HTTP server, the gRPC health server and the reset token
// sweeper, and blocks until a signal arrives or one of the servers fails.
func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(3)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, cancelFunc)
	}()
	go func() {
		defer wg.Done()
		resettokens.NewSweeper(app.resetTokens, app.config.SweepInterval, app.logger).Run(ctx)
	}()

	wg.Wait()
	app.accounts.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "Error closing database", "error", err)
	}
	app.logger.Info(ctx, "App stopped")
}
