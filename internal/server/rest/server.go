// Package rest is the JSON-over-HTTP surface of the server, built on gin.
package rest

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/dmitrijs2005/gpatracker/internal/common"
	"github.com/dmitrijs2005/gpatracker/internal/logging"
	"github.com/dmitrijs2005/gpatracker/internal/server/auth"
	"github.com/dmitrijs2005/gpatracker/internal/server/models"
	"github.com/dmitrijs2005/gpatracker/internal/server/services"
)

const (
	readHeaderTimeout = 10 * time.Second
	shutdownTimeout   = 15 * time.Second
)

// Accounts is implemented by services.AccountService.
type Accounts interface {
	Register(ctx context.Context, userName, email, password string) (*models.User, error)
	Login(ctx context.Context, userName, password string) (*services.LoginResult, error)
	Authenticate(token string) (*auth.Claims, error)
	RequestPasswordReset(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, newPassword string) error
}

// Records is implemented by services.RecordService.
type Records interface {
	List(ctx context.Context, tenant string) ([]*models.ClassRecord, error)
	Create(ctx context.Context, tenant string, in models.RecordInput) (*models.ClassRecord, error)
	Update(ctx context.Context, tenant string, id int64, in models.RecordInput) (*models.ClassRecord, error)
	Delete(ctx context.Context, tenant string, id int64) error
	Aggregate(ctx context.Context, tenant string) (models.Aggregate, error)
}

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type Server struct {
	address  string
	logger   logging.Logger
	accounts Accounts
	records  Records
	db       Pinger
	engine   *gin.Engine
}

var registerTagNames sync.Once

func NewServer(address string, l logging.Logger, accounts Accounts, records Records, db Pinger) *Server {
	gin.SetMode(gin.ReleaseMode)

	// binder field errors name the json fields
	registerTagNames.Do(func() {
		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			v.RegisterTagNameFunc(common.JSONTagName)
		}
	})

	s := &Server{
		address:  address,
		logger:   l.With("module", "http_server"),
		accounts: accounts,
		records:  records,
		db:       db,
	}
	s.engine = s.routes()
	return s
}

// Handler exposes the router, mostly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.address,
		Handler:           s.engine,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info(ctx, "Starting HTTP server", "address", s.address)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info(ctx, "Stopping HTTP server...")

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}
