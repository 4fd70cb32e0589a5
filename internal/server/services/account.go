package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/gpatracker/internal/common"
	"github.com/dmitrijs2005/gpatracker/internal/dbx"
	"github.com/dmitrijs2005/gpatracker/internal/logging"
	"github.com/dmitrijs2005/gpatracker/internal/server/auth"
	"github.com/dmitrijs2005/gpatracker/internal/server/config"
	"github.com/dmitrijs2005/gpatracker/internal/server/models"
	"github.com/dmitrijs2005/gpatracker/internal/server/notify"
	"github.com/dmitrijs2005/gpatracker/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gpatracker/internal/server/resettokens"
	"github.com/dmitrijs2005/gpatracker/internal/server/tenancy"
)

// LoginResult is what a successful login hands back to the client.
type LoginResult struct {
	Token string               `json:"token"`
	User  models.PublicProfile `json:"user"`
}

// AccountService owns registration, login and the password reset flow.
type AccountService struct {
	db            *sql.DB
	repomanager   repomanager.RepositoryManager
	hasher        *auth.PasswordHasher
	sessions      *auth.SessionIssuer
	resetTokens   resettokens.Store
	mailer        notify.Dispatcher
	composer      *notify.Composer
	logger        logging.Logger
	resetTTL      time.Duration
	notifyTimeout time.Duration
	dummyHash     string
	now           func() time.Time

	mail sync.WaitGroup
}

func NewAccountService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config,
	store resettokens.Store, mailer notify.Dispatcher, logger logging.Logger) (*AccountService, error) {

	hasher := auth.NewPasswordHasher(cfg.BcryptCost)

	// compared against on unknown usernames so both login failures cost the same
	dummy, err := hasher.Hash("no-such-user")
	if err != nil {
		return nil, fmt.Errorf("error preparing password hasher: %w", err)
	}

	return &AccountService{
		db:            db,
		repomanager:   m,
		hasher:        hasher,
		sessions:      auth.NewSessionIssuer([]byte(cfg.SecretKey), cfg.SessionTokenTTL),
		resetTokens:   store,
		mailer:        mailer,
		composer:      notify.NewComposer(cfg.FrontendURL),
		logger:        logger.With("component", "accounts"),
		resetTTL:      cfg.ResetTokenTTL,
		notifyTimeout: cfg.NotifyTimeout,
		dummyHash:     dummy,
		now:           time.Now,
	}, nil
}

func (s *AccountService) Register(ctx context.Context, userName, email, password string) (*models.User, error) {
	if userName == "" || email == "" || password == "" {
		return nil, common.NewInputError("Username, email and password are required", nil)
	}

	tenant := tenancy.DeriveName(userName)
	if err := tenancy.Validate(tenant); err != nil {
		return nil, common.NewInputError("Username is too long", err)
	}

	repo := s.repomanager.Users(s.db)

	exists, err := repo.ExistsByLoginOrEmail(ctx, userName, email)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrorInternal, err)
	}
	if exists {
		return nil, common.ErrDuplicateUser
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		if errors.Is(err, common.ErrValidation) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", common.ErrorInternal, err)
	}

	user := &models.User{
		UserName:     userName,
		Email:        email,
		PasswordHash: hash,
		TenantName:   tenant,
	}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		created, err := s.repomanager.Users(tx).Create(ctx, user)
		if err != nil {
			return err
		}
		user = created
		return s.repomanager.Tenants(tx).Provision(ctx, tenant)
	})
	if err != nil {
		if errors.Is(err, common.ErrDuplicateUser) || errors.Is(err, common.ErrValidation) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", common.ErrorInternal, err)
	}

	s.logger.Info(ctx, "User registered", "user_id", user.ID, "tenant", user.TenantName)

	msg, err := s.composer.Welcome(user.Email, user.UserName)
	s.dispatch(ctx, "welcome", msg, err)

	return user, nil
}

func (s *AccountService) Login(ctx context.Context, userName, password string) (*LoginResult, error) {
	if userName == "" || password == "" {
		return nil, common.NewInputError("Username and password are required", nil)
	}

	user, err := s.repomanager.Users(s.db).GetUserByLogin(ctx, userName)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			_, _ = s.hasher.Verify(s.dummyHash, password)
			return nil, common.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("%w: %w", common.ErrorInternal, err)
	}

	ok, err := s.hasher.Verify(user.PasswordHash, password)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrorInternal, err)
	}
	if !ok {
		return nil, common.ErrInvalidCredentials
	}

	token, err := s.sessions.Issue(user.ID, user.UserName, user.TenantName)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrorInternal, err)
	}

	return &LoginResult{Token: token, User: user.Profile()}, nil
}

// Authenticate validates a session token and returns its claims.
func (s *AccountService) Authenticate(token string) (*auth.Claims, error) {
	return s.sessions.Validate(token)
}

// RequestPasswordReset issues a reset token for a known email and mails the
// link. Unknown emails succeed silently.
func (s *AccountService) RequestPasswordReset(ctx context.Context, email string) error {
	if email == "" {
		return common.NewInputError("Please enter an email", nil)
	}

	user, err := s.repomanager.Users(s.db).GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.logger.Debug(ctx, "Password reset requested for unknown email")
			return nil
		}
		return fmt.Errorf("%w: %w", common.ErrorInternal, err)
	}

	token, err := common.MakeRandHexString(32)
	if err != nil {
		return fmt.Errorf("%w: %w", common.ErrorInternal, err)
	}

	s.resetTokens.Put(models.ResetToken{
		Token:     token,
		UserID:    user.ID,
		Email:     user.Email,
		ExpiresAt: s.now().Add(s.resetTTL),
	})

	s.logger.Info(ctx, "Password reset token issued", "user_id", user.ID)

	msg, err := s.composer.PasswordReset(user.Email, token, s.resetTTL)
	s.dispatch(ctx, "password_reset", msg, err)

	return nil
}

// ResetPassword consumes a reset token and stores the new password hash.
func (s *AccountService) ResetPassword(ctx context.Context, token, newPassword string) error {
	if token == "" || newPassword == "" {
		return common.NewInputError("Token and new password are required", nil)
	}

	rt, ok := s.resetTokens.Take(token)
	if !ok || rt.Expired(s.now()) {
		return common.ErrInvalidOrExpiredToken
	}

	// on internal failures the user may retry with the same link
	restore := func() { s.resetTokens.Put(rt) }

	repo := s.repomanager.Users(s.db)

	user, err := repo.GetUserByID(ctx, rt.UserID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrUserNotFound
		}
		restore()
		return fmt.Errorf("%w: %w", common.ErrorInternal, err)
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		restore()
		if errors.Is(err, common.ErrValidation) {
			return err
		}
		return fmt.Errorf("%w: %w", common.ErrorInternal, err)
	}

	if err := repo.UpdatePasswordHash(ctx, user.ID, hash); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrUserNotFound
		}
		restore()
		return fmt.Errorf("%w: %w", common.ErrorInternal, err)
	}

	s.logger.Info(ctx, "Password reset", "user_id", user.ID)
	return nil
}

func (s *AccountService) dispatch(ctx context.Context, kind string, msg notify.Message, err error) {
	if err != nil {
		s.logger.Error(ctx, "Error composing email", "kind", kind, "error", err)
		return
	}

	// the response must not wait on, or be cancelled with, the mail server;
	// reset responses would otherwise be slower for known emails
	ctx = context.WithoutCancel(ctx)

	s.mail.Add(1)
	go func() {
		defer s.mail.Done()

		ctx, cancel := context.WithTimeout(ctx, s.notifyTimeout)
		defer cancel()

		if err := s.mailer.Send(ctx, msg); err != nil {
			s.logger.Warn(ctx, "Error sending email", "kind", kind, "error", err)
			return
		}
		s.logger.Debug(ctx, "Email sent", "kind", kind)
	}()
}

// Wait blocks until queued emails have been sent or timed out.
func (s *AccountService) Wait() {
	s.mail.Wait()
}
