package config

import (
	"errors"
	"io/fs"
	"net"
	"net/url"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/dmitrijs2005/gpatracker/internal/flagx"
)

// envConfig lists the environment variables the server understands. The
// credential and URL names match the ones existing deployments already set.
type envConfig struct {
	HTTPAddr    string `env:"SERVER_ADDR"`
	ServerPort  string `env:"SERVER_PORT"`
	GRPCAddr    string `env:"GRPC_ADDR"`
	DatabaseDSN string `env:"DATABASE_DSN"`

	DBHost     string `env:"DB_HOST"`
	DBUser     string `env:"DB_USER"`
	DBPassword string `env:"DB_PASSWORD"`
	DBName     string `env:"DB_NAME"`

	SecretKey       string        `env:"JWT_SECRET_KEY"`
	SessionTokenTTL time.Duration `env:"SESSION_TOKEN_TTL"`
	ResetTokenTTL   time.Duration `env:"RESET_TOKEN_TTL"`
	SweepInterval   time.Duration `env:"RESET_SWEEP_INTERVAL"`
	BcryptCost      int           `env:"BCRYPT_COST"`

	FrontendURL   string        `env:"FRONTEND_URL"`
	SMTPHost      string        `env:"SMTP_HOST"`
	SMTPPort      int           `env:"SMTP_PORT"`
	SMTPUser      string        `env:"EMAIL"`
	SMTPPassword  string        `env:"EMAILAPPPASS"`
	MailFrom      string        `env:"MAIL_FROM"`
	NotifyTimeout time.Duration `env:"NOTIFY_TIMEOUT"`

	HealthProbeInterval time.Duration `env:"HEALTH_PROBE_INTERVAL"`
	LogLevel            string        `env:"LOG_LEVEL"`
}

// parseEnv loads the .env file (given with -e/-env-file, else
// config.EnvFile) into the process environment without overriding variables
// that are already set, then overlays the environment onto config.
func parseEnv(config *Config, args []string) error {
	if path := flagx.Lookup(args, "e", "env-file"); path != "" {
		config.EnvFile = path
	}

	if config.EnvFile != "" {
		if err := godotenv.Load(config.EnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}

	e := envConfig{}
	if err := env.Parse(&e); err != nil {
		return err
	}

	setString(&config.HTTPAddr, e.HTTPAddr)
	if e.HTTPAddr == "" && e.ServerPort != "" {
		config.HTTPAddr = net.JoinHostPort("", e.ServerPort)
	}
	setString(&config.GRPCAddr, e.GRPCAddr)

	setString(&config.DatabaseDSN, e.DatabaseDSN)
	if e.DatabaseDSN == "" && e.DBHost != "" {
		config.DatabaseDSN = composeDSN(e)
	}

	setString(&config.SecretKey, e.SecretKey)
	setDuration(&config.SessionTokenTTL, e.SessionTokenTTL)
	setDuration(&config.ResetTokenTTL, e.ResetTokenTTL)
	setDuration(&config.SweepInterval, e.SweepInterval)
	setInt(&config.BcryptCost, e.BcryptCost)
	setString(&config.FrontendURL, e.FrontendURL)
	setString(&config.SMTPHost, e.SMTPHost)
	setInt(&config.SMTPPort, e.SMTPPort)
	setString(&config.SMTPUser, e.SMTPUser)
	setString(&config.SMTPPassword, e.SMTPPassword)
	setString(&config.MailFrom, e.MailFrom)
	setDuration(&config.NotifyTimeout, e.NotifyTimeout)
	setDuration(&config.HealthProbeInterval, e.HealthProbeInterval)
	setString(&config.LogLevel, e.LogLevel)

	return nil
}

// composeDSN builds a postgres URL from the discrete DB_* variables.
func composeDSN(e envConfig) string {
	u := url.URL{
		Scheme:   "postgres",
		Host:     e.DBHost,
		Path:     "/" + e.DBName,
		RawQuery: "sslmode=disable",
	}
	if e.DBUser != "" {
		u.User = url.UserPassword(e.DBUser, e.DBPassword)
	}
	return u.String()
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setInt(dst *int, v int) {
	if v != 0 {
		*dst = v
	}
}

func setDuration(dst *time.Duration, v time.Duration) {
	if v != 0 {
		*dst = v
	}
}
