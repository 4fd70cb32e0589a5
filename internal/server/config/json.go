package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/gpatracker/internal/flagx"
	"github.com/dmitrijs2005/gpatracker/internal/timex"
)

// JsonConfig is the on-disk form of Config. Durations accept "90s" style
// strings or integer nanoseconds. Absent keys leave the current value alone.
type JsonConfig struct {
	HTTPAddr            string         `json:"http_addr"`
	GRPCAddr            string         `json:"grpc_addr"`
	DatabaseDSN         string         `json:"database_dsn"`
	SecretKey           string         `json:"secret_key"`
	SessionTokenTTL     timex.Duration `json:"session_token_ttl"`
	ResetTokenTTL       timex.Duration `json:"reset_token_ttl"`
	SweepInterval       timex.Duration `json:"sweep_interval"`
	BcryptCost          int            `json:"bcrypt_cost"`
	FrontendURL         string         `json:"frontend_url"`
	SMTPHost            string         `json:"smtp_host"`
	SMTPPort            int            `json:"smtp_port"`
	SMTPUser            string         `json:"smtp_user"`
	SMTPPassword        string         `json:"smtp_password"`
	MailFrom            string         `json:"mail_from"`
	NotifyTimeout       timex.Duration `json:"notify_timeout"`
	HealthProbeInterval timex.Duration `json:"health_probe_interval"`
	LogLevel            string         `json:"log_level"`
	EnvFile             string         `json:"env_file"`
}

// parseJson overlays the JSON file given with -c or -config, if any.
func parseJson(config *Config, args []string) error {
	path := flagx.JsonConfigFlags(args)
	if path == "" {
		return nil
	}

	file, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		return err
	}

	setString(&config.HTTPAddr, c.HTTPAddr)
	setString(&config.GRPCAddr, c.GRPCAddr)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.SecretKey, c.SecretKey)
	setDuration(&config.SessionTokenTTL, c.SessionTokenTTL.Duration)
	setDuration(&config.ResetTokenTTL, c.ResetTokenTTL.Duration)
	setDuration(&config.SweepInterval, c.SweepInterval.Duration)
	setInt(&config.BcryptCost, c.BcryptCost)
	setString(&config.FrontendURL, c.FrontendURL)
	setString(&config.SMTPHost, c.SMTPHost)
	setInt(&config.SMTPPort, c.SMTPPort)
	setString(&config.SMTPUser, c.SMTPUser)
	setString(&config.SMTPPassword, c.SMTPPassword)
	setString(&config.MailFrom, c.MailFrom)
	setDuration(&config.NotifyTimeout, c.NotifyTimeout.Duration)
	setDuration(&config.HealthProbeInterval, c.HealthProbeInterval.Duration)
	setString(&config.LogLevel, c.LogLevel)
	setString(&config.EnvFile, c.EnvFile)

	return nil
}
